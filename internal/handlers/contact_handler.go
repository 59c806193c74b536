package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/sidequest/sidequest-api/internal/logger"
	"github.com/sidequest/sidequest-api/internal/mailer"
	"github.com/sidequest/sidequest-api/internal/response"
	"github.com/sidequest/sidequest-api/internal/validation"
)

// contactMessageMaxLength bounds the free-text message body.
const contactMessageMaxLength = 2000

type ContactHandler struct {
	mail mailer.Mailer
	log  *log.Logger
}

func NewContactHandler(mail mailer.Mailer) *ContactHandler {
	return &ContactHandler{
		mail: mail,
		log:  logger.Handler("contact_handler"),
	}
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (r *ContactRequest) validate() error {
	if err := validation.ValidateRequired(r.Name, "name"); err != nil {
		return err
	}
	if err := validation.ValidateRequired(r.Email, "email"); err != nil {
		return err
	}
	if err := validation.ValidateEmail(r.Email); err != nil {
		return err
	}
	if err := validation.ValidateRequired(r.Message, "message"); err != nil {
		return err
	}
	return validation.ValidateMaxLength(r.Message, contactMessageMaxLength, "message")
}

// Submit handles POST /api/contact. Unlike the waitlist confirmation,
// the inquiry email IS the operation, so its failure is the caller's
// failure.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	if err := req.validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	err := h.mail.SendContactInquiry(c.Request.Context(), mailer.ContactInquiry{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		if errors.Is(err, mailer.ErrNotConfigured) {
			h.log.Error("contact form submitted but email service not configured")
			response.Error(c, http.StatusInternalServerError, "Email service not configured")
			return
		}
		h.log.Error("failed to forward contact inquiry", "error", err)
		response.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
