package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/sidequest/sidequest-api/internal/domain/waitlist"
	"github.com/sidequest/sidequest-api/internal/logger"
	"github.com/sidequest/sidequest-api/internal/mailer"
	"github.com/sidequest/sidequest-api/internal/response"
	"github.com/sidequest/sidequest-api/internal/storage"
	"github.com/sidequest/sidequest-api/internal/validation"
)

// freeTextMaxLength caps the optional signup fields. They carry no
// format constraints, only a sanity bound.
const freeTextMaxLength = 255

type WaitlistHandler struct {
	repo storage.WaitlistRepository
	mail mailer.Mailer
	log  *log.Logger
}

func NewWaitlistHandler(repo storage.WaitlistRepository, mail mailer.Mailer) *WaitlistHandler {
	return &WaitlistHandler{
		repo: repo,
		mail: mail,
		log:  logger.Handler("waitlist_handler"),
	}
}

// RegisterRequest is the public signup contract. The referral code is
// never accepted from the caller; it is always server-generated.
type RegisterRequest struct {
	Email       string  `json:"email" binding:"required"`
	Destination *string `json:"destination"`
	TravelDate  *string `json:"travelDate"`
	TravelType  string  `json:"travelType"`
	University  *string `json:"university"`
	ReferredBy  *string `json:"referredBy"`
}

func (r *RegisterRequest) validate() error {
	if err := validation.ValidateEmail(r.Email); err != nil {
		return err
	}
	if err := validation.ValidateMaxLength(r.Email, freeTextMaxLength, "email"); err != nil {
		return err
	}
	for field, value := range map[string]*string{
		"destination": r.Destination,
		"travelDate":  r.TravelDate,
		"university":  r.University,
		"referredBy":  r.ReferredBy,
	} {
		if value == nil {
			continue
		}
		if err := validation.ValidateMaxLength(*value, freeTextMaxLength, field); err != nil {
			return err
		}
	}
	return validation.ValidateMaxLength(r.TravelType, freeTextMaxLength, "travelType")
}

// Register handles POST /api/waitlist
func (h *WaitlistHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	if err := req.validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	email := waitlist.NormalizeEmail(req.Email)

	// Duplicate signup is an expected business case, answered with the
	// existing code so the client can still show a referral link.
	existing, err := h.repo.GetByEmail(email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.log.Error("failed to check for existing registration", "email", email, "error", err)
		response.InternalError(c)
		return
	}
	if existing != nil {
		h.log.Info("duplicate registration attempt", "email", email)
		c.JSON(http.StatusConflict, gin.H{
			"error":        "already_registered",
			"referralCode": existing.ReferralCode,
		})
		return
	}

	// An unknown referral code never blocks signup; it is dropped.
	referredBy := req.ReferredBy
	if referredBy != nil && *referredBy != "" {
		if _, err := h.repo.GetByReferralCode(*referredBy); err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				h.log.Error("failed to resolve referral code", "referral_code", *referredBy, "error", err)
				response.InternalError(c)
				return
			}
			h.log.Debug("unknown referral code dropped", "referral_code", *referredBy)
			referredBy = nil
		}
	} else {
		referredBy = nil
	}

	entry, err := waitlist.NewEntry(email, req.Destination, req.TravelDate, req.TravelType, req.University, referredBy)
	if err != nil {
		h.log.Error("failed to build waitlist entry", "error", err)
		response.InternalError(c)
		return
	}

	if done := h.createWithRetry(c, entry, email); done {
		return
	}

	c.JSON(http.StatusCreated, gin.H{"referralCode": entry.ReferralCode})

	confirmation := mailer.WaitlistConfirmation{
		Email:        entry.Email,
		Destination:  entry.Destination,
		ReferralCode: entry.ReferralCode,
	}
	mailer.Dispatch("waitlist_confirmation", func() error {
		return h.mail.SendWaitlistConfirmation(context.Background(), confirmation)
	})
}

// createWithRetry inserts the entry, resolving the two possible unique
// violations: a lost dedup race becomes the 409 conflict answer, and a
// referral code collision is retried once with a fresh code. Reports
// whether a response has already been written.
func (h *WaitlistHandler) createWithRetry(c *gin.Context, entry *waitlist.Entry, email string) bool {
	err := h.repo.Create(entry)
	if errors.Is(err, storage.ErrDuplicateReferralCode) {
		code, genErr := waitlist.GenerateReferralCode()
		if genErr != nil {
			h.log.Error("failed to regenerate referral code", "error", genErr)
			response.InternalError(c)
			return true
		}
		entry.ReferralCode = code
		err = h.repo.Create(entry)
	}

	if errors.Is(err, storage.ErrDuplicateEmail) {
		existing, getErr := h.repo.GetByEmail(email)
		if getErr != nil {
			h.log.Error("failed to load entry after duplicate email race", "email", email, "error", getErr)
			response.InternalError(c)
			return true
		}
		h.log.Info("lost registration race, returning existing code", "email", email)
		c.JSON(http.StatusConflict, gin.H{
			"error":        "already_registered",
			"referralCode": existing.ReferralCode,
		})
		return true
	}

	if err != nil {
		h.log.Error("failed to create waitlist entry", "email", email, "error", err)
		response.InternalError(c)
		return true
	}

	return false
}

// Count handles GET /api/waitlist/count
func (h *WaitlistHandler) Count(c *gin.Context) {
	count, err := h.repo.Count()
	if err != nil {
		h.log.Error("failed to count waitlist entries", "error", err)
		response.InternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
