package main

import (
	"time"

	"begw/api_contact/internal/handlers"
	"begw/api_contact/pkg/clients/genocrm"
	"begw/api_contact/pkg/config"
	"begw/api_contact/pkg/email"
	"begw/api_contact/pkg/logging"
	"begw/api_contact/pkg/middleware"
	"begw/api_contact/pkg/monitoring"
	"begw/api_contact/pkg/server"
	"begw/api_contact/pkg/version"
)

func main() {
	logger := logging.NewLoggerWithService("contact")
	config.LoadEnv(logger)

	port := config.GetEnv("PORT", "3000")
	toEmail := config.GetEnv("MAIL_TO", "")

	emailConfig := email.Config{
		Host:     config.GetEnv("MAIL_HOST", ""),
		Port:     config.GetEnv("MAIL_PORT", "587"),
		User:     config.GetEnv("MAIL_USER", ""),
		Password: config.GetEnv("MAIL_PASS", ""),
		From:     config.GetEnv("MAIL_FROM", ""),
	}
	emailSender := email.NewSender(emailConfig)

	crmURL := config.GetEnv("GENOCRM_API_URL", "")
	crmKey := config.GetEnv("GENOCRM_API_KEY", "")
	crmClient := genocrm.NewClient(crmURL, crmKey)

	allowedOrigins := config.GetEnvList("ALLOWED_ORIGINS", []string{
		config.GetEnv("FRONTEND_URL", "http://localhost:8080"),
	})

	healthChecker := monitoring.NewHealthChecker("contact", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("contact", version.Version, version.GitCommit)

	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"MAIL_HOST": emailConfig.Host,
		"MAIL_FROM": emailConfig.From,
		"MAIL_TO":   toEmail,
	}))
	healthChecker.AddCheck("smtp", monitoring.SMTPHealthCheck(emailSender.Addr()))
	healthChecker.AddCheck("genocrm", monitoring.CRMConfiguredCheck(crmKey))

	formMetrics := &handlers.FormMetrics{
		ContactRequests: metricsCollector.NewCounter(
			"contact_requests_total",
			"Contact form submissions by outcome",
			[]string{"status"},
		),
		MembershipRequests: metricsCollector.NewCounter(
			"membership_requests_total",
			"Membership applications by outcome",
			[]string{"status"},
		),
	}

	app := server.SetupServiceRouter(logger, "contact", healthChecker, metricsCollector, allowedOrigins)

	contactHandler := handlers.NewContactHandler(emailSender, toEmail, logger, formMetrics)
	membershipHandler := handlers.NewMembershipHandler(emailSender, crmClient, toEmail, logger, formMetrics)

	api := app.Group("/api")
	api.Use(middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Requests: config.GetEnvInt("RATE_LIMIT_REQUESTS", 5),
		Window:   time.Duration(config.GetEnvInt("RATE_LIMIT_WINDOW_MINUTES", 15)) * time.Minute,
	}))

	api.GET("", handlers.APIDocs)
	api.POST("/contact", contactHandler.Handle)
	api.POST("/membership", membershipHandler.Handle)

	serverConfig := server.DefaultConfig("contact", port)
	if err := server.Start(serverConfig, app, logger); err != nil {
		logger.Fatal(err.Error())
	}
}
