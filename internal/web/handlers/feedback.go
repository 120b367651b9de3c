package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/jusunglee/thaiconv/internal/db"
	"github.com/jusunglee/thaiconv/internal/metrics"
	"github.com/jusunglee/thaiconv/internal/phonetic"
	"github.com/jusunglee/thaiconv/internal/transliteration"
)

const (
	maxFeedbackWord    = 200
	maxFeedbackComment = 500

	// Room for every field at its limit written as \uXXXX escapes.
	maxFeedbackBody = 6*(2*maxFeedbackWord+maxFeedbackComment) + 1024
)

// FeedbackHandler stores reports of wrong conversions. repo may be nil, in
// which case every request gets 503.
type FeedbackHandler struct {
	repo   db.Repository
	engine *transliteration.Engine
	log    *slog.Logger
}

func NewFeedbackHandler(repo db.Repository, engine *transliteration.Engine, log *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{repo: repo, engine: engine, log: log}
}

type createFeedbackRequest struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Comment  string `json:"comment"`
}

type feedbackResponse struct {
	ID        int64   `json:"id"`
	Input     string  `json:"input"`
	Expected  string  `json:"expected"`
	Got       *string `json:"got,omitempty"`
	Comment   *string `json:"comment,omitempty"`
	Source    string  `json:"source"`
	CreatedAt string  `json:"created_at"`
}

func toFeedbackResponse(f db.Feedback, _ int) feedbackResponse {
	resp := feedbackResponse{
		ID:        f.ID,
		Input:     f.Input,
		Expected:  f.Expected,
		Source:    f.Source,
		CreatedAt: f.CreatedAt.Format(time.RFC3339),
	}
	if f.Got.Valid {
		resp.Got = &f.Got.String
	}
	if f.Comment.Valid {
		resp.Comment = &f.Comment.String
	}
	return resp
}

func (h *FeedbackHandler) unavailable(w http.ResponseWriter) bool {
	if h.repo != nil {
		return false
	}
	writeError(w, http.StatusServiceUnavailable, "feedback storage is not configured")
	return true
}

func validateFeedback(req createFeedbackRequest) string {
	switch {
	case req.Input == "":
		return "input is required"
	case req.Expected == "":
		return "expected is required"
	case utf8.RuneCountInString(req.Input) > maxFeedbackWord:
		return "input must be 200 characters or fewer"
	case utf8.RuneCountInString(req.Expected) > maxFeedbackWord:
		return "expected must be 200 characters or fewer"
	case utf8.RuneCountInString(req.Comment) > maxFeedbackComment:
		return "comment must be 500 characters or fewer"
	case !strings.ContainsFunc(req.Expected, phonetic.IsThai):
		return "expected must be written in Thai script"
	}
	return ""
}

func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w) {
		return
	}

	var req createFeedbackRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFeedbackBody)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.FeedbackSubmissions.WithLabelValues("web", "rejected").Inc()
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Input = strings.TrimSpace(req.Input)
	req.Expected = strings.TrimSpace(req.Expected)
	req.Comment = strings.TrimSpace(req.Comment)
	if msg := validateFeedback(req); msg != "" {
		metrics.FeedbackSubmissions.WithLabelValues("web", "rejected").Inc()
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	got := transliteration.Render(h.engine.ConvertPhrase(req.Input))
	fb, err := h.repo.CreateFeedback(r.Context(), db.CreateFeedbackParams{
		Input:    req.Input,
		Expected: req.Expected,
		Got:      sql.NullString{String: got, Valid: got != ""},
		Comment:  sql.NullString{String: req.Comment, Valid: req.Comment != ""},
		Source:   "web",
	})
	if err != nil {
		metrics.FeedbackSubmissions.WithLabelValues("web", "error").Inc()
		h.log.ErrorContext(r.Context(), "creating feedback", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	metrics.FeedbackSubmissions.WithLabelValues("web", "ok").Inc()

	writeJSON(w, http.StatusCreated, toFeedbackResponse(fb, 0))
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.unavailable(w) {
		return
	}

	page := intParam(r, "page", 1, 1<<20)
	limit := intParam(r, "limit", 25, 100)
	offset := (page - 1) * limit

	total, err := h.repo.CountFeedback(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "counting feedback", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	rows, err := h.repo.ListFeedback(r.Context(), db.ListFeedbackParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		h.log.ErrorContext(r.Context(), "listing feedback", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Data       []feedbackResponse `json:"data"`
		Pagination paginationMeta     `json:"pagination"`
	}{
		Data: lo.Map(rows, toFeedbackResponse),
		Pagination: paginationMeta{
			Page:  page,
			Limit: limit,
			Total: total,
		},
	})
}
