package handlers

import (
	"context"
	"net/http"
	"time"

	"begw/api_contact/internal/notify"
	"begw/api_contact/internal/validation"
	"begw/api_contact/pkg/clients/genocrm"
	"begw/api_contact/pkg/logging"
	"begw/api_contact/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type MembershipHandler struct {
	emailSender EmailSender
	crmClient   CRMClient
	toEmail     string
	logger      logging.Logger
	metrics     *FormMetrics
	now         func() time.Time
}

func NewMembershipHandler(
	emailSender EmailSender,
	crmClient CRMClient,
	toEmail string,
	logger logging.Logger,
	metrics *FormMetrics,
) *MembershipHandler {
	return &MembershipHandler{
		emailSender: emailSender,
		crmClient:   crmClient,
		toEmail:     toEmail,
		logger:      logger,
		metrics:     metrics,
		now:         time.Now,
	}
}

func (h *MembershipHandler) Handle(c *gin.Context) {
	remoteIP := middleware.RemoteIP(c)

	raw, err := bindSubmission(c)
	if err != nil {
		h.metrics.IncMembership("bad_request")
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request",
			"code":    "INVALID_REQUEST",
		})
		return
	}

	if !validation.IsHuman(raw) {
		h.metrics.IncMembership("honeypot")
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

	result := validation.ValidateMembershipForm(raw)
	if !result.Valid {
		h.metrics.IncMembership("validation_failed")
		h.logger.WithFields(logging.Fields{
			"ip":     remoteIP,
			"errors": result.Errors,
		}).Warn("Membership validation failed")

		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Validierungsfehler",
			"details": result.Errors,
			"code":    "VALIDATION_ERROR",
		})
		return
	}

	app := result.Data

	// The application has no free-text message, so the heuristics run
	// over the applicant's name alone.
	if validation.DetectSpam("", app.Firstname+" "+app.Lastname) {
		h.metrics.IncMembership("spam")
		h.logger.WithFields(logging.Fields{
			"ip":   remoteIP,
			"name": redactName(app.Firstname),
		}).Warn("Spam detected in membership form")

		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Ihr Antrag konnte nicht versendet werden. Bitte überprüfen Sie Ihre Angaben.",
			"code":    "SPAM_DETECTED",
		})
		return
	}

	// CRM registration is best effort. A failure is logged and the
	// application still goes out by mail.
	crmSubmitted := false
	var memberID int64
	if h.crmClient != nil && h.crmClient.Configured() {
		crmCtx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		crmResult, crmErr := h.crmClient.SubmitApplication(crmCtx, genocrm.Application{
			Firstname:       app.Firstname,
			Lastname:        app.Lastname,
			Email:           app.Email,
			Phone:           app.Phone,
			Birthdate:       app.Birthdate,
			Street:          app.Street,
			Zipcode:         app.Zipcode,
			City:            app.City,
			Abilities:       app.Abilities,
			MandatoryShares: app.MandatoryShares,
			VoluntaryShares: app.VoluntaryShares,
			TotalShares:     app.TotalShares,
			TotalAmount:     app.TotalAmount,
		})
		cancel()

		switch {
		case crmErr == nil:
			crmSubmitted = true
			memberID = crmResult.MemberID
			h.logger.WithFields(logging.Fields{
				"member_id": memberID,
			}).Info("GenoCRM registration submitted")
		case genocrm.IsDuplicate(crmErr):
			h.logger.WithFields(logging.Fields{
				"email": redactEmail(app.Email),
			}).Warn("GenoCRM reports duplicate application")
		default:
			h.logger.WithFields(logging.Fields{
				"error": crmErr.Error(),
			}).Error("GenoCRM submission failed, continuing with email only")
		}
	}

	msg, err := notify.MembershipMessage(h.toEmail, notify.MembershipData{
		Firstname:       app.Firstname,
		Lastname:        app.Lastname,
		Email:           app.Email,
		Phone:           app.Phone,
		Birthdate:       app.Birthdate,
		Street:          app.Street,
		Zipcode:         app.Zipcode,
		City:            app.City,
		Abilities:       app.Abilities,
		MandatoryShares: app.MandatoryShares,
		VoluntaryShares: app.VoluntaryShares,
		TotalShares:     app.TotalShares,
		TotalAmount:     app.TotalAmount,
	}, h.now())
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		err = h.emailSender.Send(ctx, msg)
	}

	if err != nil {
		h.metrics.IncMembership("email_error")
		h.logger.WithFields(logging.Fields{
			"error": err.Error(),
			"name":  redactName(app.Firstname),
			"email": redactEmail(app.Email),
		}).Error("Failed to send membership email")

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   internalErrorMessage,
			"code":    "INTERNAL_ERROR",
		})
		return
	}

	h.metrics.IncMembership("success")
	h.logger.WithFields(logging.Fields{
		"name":          redactName(app.Firstname),
		"email":         redactEmail(app.Email),
		"total_shares":  app.TotalShares,
		"crm_submitted": crmSubmitted,
	}).Info("Membership application processed")

	response := gin.H{
		"success": true,
		"message": "Vielen Dank für Ihren Mitgliedsantrag! Wir werden uns zeitnah bei Ihnen melden.",
	}
	if crmSubmitted && memberID != 0 {
		response["crmSubmitted"] = true
		response["memberId"] = memberID
	}

	c.JSON(http.StatusOK, response)
}
