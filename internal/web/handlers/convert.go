package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/samber/lo"

	"github.com/jusunglee/thaiconv/internal/metrics"
	"github.com/jusunglee/thaiconv/internal/transliteration"
)

const (
	maxTextBytes     = 2000
	maxSuggestions   = 50
	maxSuggestLength = 64
)

type ConvertHandler struct {
	engine *transliteration.Engine
	log    *slog.Logger
}

func NewConvertHandler(engine *transliteration.Engine, log *slog.Logger) *ConvertHandler {
	return &ConvertHandler{engine: engine, log: log}
}

type convertRequest struct {
	Text string `json:"text"`
	Tone *int   `json:"tone,omitempty"`
}

type wordResult struct {
	Original   string                      `json:"original"`
	Token      *transliteration.Token      `json:"token,omitempty"`
	Candidates []transliteration.Candidate `json:"candidates"`
	Best       *transliteration.Candidate  `json:"best,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

type convertResponse struct {
	Results  []wordResult `json:"results"`
	Rendered string       `json:"rendered"`
}

func toWordResult(r transliteration.Result, _ int) wordResult {
	out := wordResult{
		Original:   r.Original,
		Candidates: r.Candidates,
		Best:       r.Best,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
		return out
	}
	tok := r.Token
	out.Token = &tok
	return out
}

func (h *ConvertHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4*maxTextBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if len(text) > maxTextBytes {
		writeError(w, http.StatusBadRequest, "text must be 2000 bytes or fewer")
		return
	}

	var results []transliteration.Result
	if req.Tone != nil {
		words := strings.Fields(text)
		if len(words) != 1 {
			writeError(w, http.StatusBadRequest, "tone requires exactly one word")
			return
		}
		if *req.Tone < 1 || *req.Tone > 5 {
			writeError(w, http.StatusBadRequest, "tone must be between 1 and 5")
			return
		}
		results = []transliteration.Result{h.engine.ConvertWord(words[0], *req.Tone)}
	} else {
		results = h.engine.ConvertPhrase(text)
	}
	metrics.ObserveResults(results)

	h.log.DebugContext(r.Context(), "converted", "words", len(results))
	writeJSON(w, http.StatusOK, convertResponse{
		Results:  lo.Map(results, toWordResult),
		Rendered: transliteration.Render(results),
	})
}

func (h *ConvertHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	if len(q) > maxSuggestLength {
		writeError(w, http.StatusBadRequest, "q must be 64 bytes or fewer")
		return
	}
	limit := intParam(r, "limit", transliteration.DefaultSuggestions, maxSuggestions)

	suggestions := h.engine.Suggest(q, limit)
	metrics.SuggestionsServed.Inc()

	writeJSON(w, http.StatusOK, struct {
		Query       string                       `json:"query"`
		Suggestions []transliteration.Suggestion `json:"suggestions"`
	}{
		Query:       q,
		Suggestions: suggestions,
	})
}
