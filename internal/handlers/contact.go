package handlers

import (
	"context"
	"net/http"
	"time"

	"begw/api_contact/internal/notify"
	"begw/api_contact/internal/validation"
	"begw/api_contact/pkg/logging"
	"begw/api_contact/pkg/middleware"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "Ein technischer Fehler ist aufgetreten. Bitte versuchen Sie es später erneut oder kontaktieren Sie uns direkt."

type ContactHandler struct {
	emailSender EmailSender
	toEmail     string
	logger      logging.Logger
	metrics     *FormMetrics
	now         func() time.Time
}

func NewContactHandler(
	emailSender EmailSender,
	toEmail string,
	logger logging.Logger,
	metrics *FormMetrics,
) *ContactHandler {
	return &ContactHandler{
		emailSender: emailSender,
		toEmail:     toEmail,
		logger:      logger,
		metrics:     metrics,
		now:         time.Now,
	}
}

func (h *ContactHandler) Handle(c *gin.Context) {
	remoteIP := middleware.RemoteIP(c)

	raw, err := bindSubmission(c)
	if err != nil {
		h.metrics.IncContact("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request",
			"code":    "INVALID_REQUEST",
		})
		return
	}

	if !validation.IsHuman(raw) {
		h.metrics.IncContact("honeypot")
		h.logger.WithFields(logging.Fields{
			"ip": remoteIP,
		}).Warn("Honeypot triggered, likely spam")

		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request",
			"code":    "INVALID_REQUEST",
		})
		return
	}

	result := validation.ValidateContactForm(raw)
	if !result.Valid {
		h.metrics.IncContact("validation_failed")
		h.logger.WithFields(logging.Fields{
			"ip":     remoteIP,
			"errors": result.Errors,
		}).Warn("Contact validation failed")

		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Validierungsfehler",
			"details": result.Errors,
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	form := result.Data

	if validation.DetectSpam(form.Name, form.Message) {
		h.metrics.IncContact("spam")
		h.logger.WithFields(logging.Fields{
			"ip":   remoteIP,
			"name": redactName(form.Name),
		}).Warn("Spam detected in contact form")

		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Ihre Nachricht konnte nicht versendet werden. Bitte überprüfen Sie den Inhalt.",
			"code":    "SPAM_DETECTED",
		})
		return
	}

	msg, err := notify.ContactMessage(h.toEmail, notify.ContactData{
		Name:       form.Name,
		Email:      form.Email,
		Phone:      form.Phone,
		Subject:    form.Subject,
		Message:    form.Message,
		Newsletter: form.Newsletter,
	}, h.now())
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		err = h.emailSender.Send(ctx, msg)
	}

	if err != nil {
		h.metrics.IncContact("email_error")
		h.logger.WithFields(logging.Fields{
			"error": err.Error(),
			"name":  redactName(form.Name),
			"email": redactEmail(form.Email),
		}).Error("Failed to send contact email")

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   internalErrorMessage,
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	h.metrics.IncContact("success")
	h.logger.WithFields(logging.Fields{
		"name":    redactName(form.Name),
		"email":   redactEmail(form.Email),
		"subject": form.Subject,
	}).Info("Contact email sent")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Vielen Dank für Ihre Nachricht! Wir werden uns zeitnah bei Ihnen melden.",
	})
}
