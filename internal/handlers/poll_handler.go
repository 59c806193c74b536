package handlers

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/sidequest/sidequest-api/internal/domain/poll"
	"github.com/sidequest/sidequest-api/internal/logger"
	"github.com/sidequest/sidequest-api/internal/response"
	"github.com/sidequest/sidequest-api/internal/storage"
)

type PollHandler struct {
	repo storage.PollRepository
	log  *log.Logger
}

func NewPollHandler(repo storage.PollRepository) *PollHandler {
	return &PollHandler{
		repo: repo,
		log:  logger.Handler("poll_handler"),
	}
}

type CreatePollRequest struct {
	Question  string   `json:"question" binding:"required"`
	Options   []string `json:"options" binding:"required"`
	Category  string   `json:"category"`
	CreatedBy string   `json:"createdBy"`
}

type CastVoteRequest struct {
	OptionIndex *int   `json:"optionIndex" binding:"required"`
	VoterName   string `json:"voterName"`
}

// PollResultsResponse is the read payload: the poll itself plus a
// tally per option in the original option order.
type PollResultsResponse struct {
	Poll       *poll.Poll          `json:"poll"`
	Results    []poll.OptionResult `json:"results"`
	TotalVotes int                 `json:"totalVotes"`
}

// CreatePoll handles POST /api/polls
func (h *PollHandler) CreatePoll(c *gin.Context) {
	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	p, err := poll.NewPoll(req.Question, req.Options, poll.Category(req.Category), req.CreatedBy)
	if err != nil {
		h.log.Error("failed to build poll", "error", err)
		response.InternalError(c)
		return
	}

	if err := p.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	err = h.repo.Create(p)
	if errors.Is(err, storage.ErrDuplicateShareCode) {
		code, genErr := poll.GenerateShareCode()
		if genErr != nil {
			h.log.Error("failed to regenerate share code", "error", genErr)
			response.InternalError(c)
			return
		}
		p.ShareCode = code
		err = h.repo.Create(p)
	}
	if err != nil {
		h.log.Error("failed to create poll", "error", err)
		response.InternalError(c)
		return
	}

	h.log.Info("poll created", "share_code", p.ShareCode, "category", p.Category)
	c.JSON(http.StatusCreated, p)
}

// GetPoll handles GET /api/polls/:shareCode
func (h *PollHandler) GetPoll(c *gin.Context) {
	shareCode := c.Param("shareCode")

	p, err := h.repo.GetByShareCode(shareCode)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(c, "Poll not found")
			return
		}
		h.log.Error("failed to retrieve poll", "share_code", shareCode, "error", err)
		response.InternalError(c)
		return
	}

	votes, err := h.repo.GetVotesByPollID(p.ID)
	if err != nil {
		h.log.Error("failed to retrieve votes", "share_code", shareCode, "error", err)
		response.InternalError(c)
		return
	}

	results, total := p.Tally(votes)
	c.JSON(http.StatusOK, PollResultsResponse{
		Poll:       p,
		Results:    results,
		TotalVotes: total,
	})
}

// CastVote handles POST /api/polls/:shareCode/vote
func (h *PollHandler) CastVote(c *gin.Context) {
	shareCode := c.Param("shareCode")

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	p, err := h.repo.GetByShareCode(shareCode)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(c, "Poll not found")
			return
		}
		h.log.Error("failed to retrieve poll for voting", "share_code", shareCode, "error", err)
		response.InternalError(c)
		return
	}

	v := poll.NewVote(p.ID, *req.OptionIndex, req.VoterName)
	if err := v.Validate(p); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}

	if err := h.repo.CreateVote(v); err != nil {
		if errors.Is(err, storage.ErrDuplicateVote) {
			// Expected when the same name votes twice; the client
			// switches to the results view on this answer.
			response.Conflict(c, "already_voted")
			return
		}
		h.log.Error("failed to create vote", "share_code", shareCode, "error", err)
		response.InternalError(c)
		return
	}

	h.log.Info("vote cast", "share_code", shareCode, "option_index", v.OptionIndex, "voter_name", v.VoterName)
	c.JSON(http.StatusCreated, v)
}
