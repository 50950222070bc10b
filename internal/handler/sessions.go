package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vivaexam/vivagate/internal/bloom"
	"github.com/vivaexam/vivagate/internal/gateway"
)

// handleListSessions proxies the session listing. This is the one read the
// old frontend bounded: question generation can leave the backend busy for a
// long time, so the call is abandoned after the configured timeout and the
// browser gets a 504 instead of a hung tab.
func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.ListTimeout)*time.Second)
	defer cancel()

	req := h.outbound(r, http.MethodGet, "/api/sessions")
	req.Query = copyQuery(r, "type", "created_by")
	req.ContentType = "application/json"
	h.relayWithContext(ctx, w, r, req, "Failed to get sessions")
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireParam(w, r, "id", "session_id")
	if !ok {
		return
	}
	h.relayGet(w, r, "/api/sessions/"+sessionID, "Failed to get session")
}

func (h *Handler) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireParam(w, r, "id", "session_id")
	if !ok {
		return
	}
	h.relayJSONBody(w, r, http.MethodPut, "/api/sessions/"+sessionID, "Failed to update session")
}

func (h *Handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireParam(w, r, "id", "session_id")
	if !ok {
		return
	}
	req := h.outbound(r, http.MethodDelete, "/api/sessions/"+sessionID)
	req.ContentType = "application/json"
	h.relay(w, r, req, "Failed to delete session")
}

func (h *Handler) handleCreateExamSession(w http.ResponseWriter, r *http.Request) {
	h.createSession(w, r, "/api/sessions/exam", "Failed to create exam session")
}

func (h *Handler) handleCreatePracticeSession(w http.ResponseWriter, r *http.Request) {
	h.createSession(w, r, "/api/sessions/practice", "Failed to create practice session")
}

func (h *Handler) handleCreateInterviewSession(w http.ResponseWriter, r *http.Request) {
	h.createSession(w, r, "/api/sessions/interview", "Failed to create interview session")
}

// createSession forwards a session-creation body, first resolving the Bloom
// selection when the form sent one. The creation forms submit the set of
// checked levels; the backend wants a single difficulty_level, which is the
// highest level of the cumulative selection. An empty selection is rejected
// before it reaches the backend.
func (h *Handler) createSession(w http.ResponseWriter, r *http.Request, path, fallback string) {
	body, err := decodeBody(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if levels, ok := bloomLevelsField(body); ok {
		selection := bloom.NewSelection(levels)
		highest, ok := selection.Highest()
		if !ok {
			errorJSON(w, http.StatusBadRequest, "difficulty_level is required")
			return
		}
		body["difficulty_level"] = strings.ToUpper(string(highest))
		delete(body, "bloom_levels")
		slog.Debug("resolved bloom selection",
			"levels", selection.Levels(), "difficulty_level", body["difficulty_level"])
	}

	encoded, err := gateway.JSONBody(body)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "failed to encode request")
		return
	}
	req := h.outbound(r, http.MethodPost, path)
	req.Body = encoded
	req.ContentType = "application/json"
	h.relay(w, r, req, fallback)
}

// bloomLevelsField extracts a bloom_levels string array from the body. The
// second return is false when the form sent a ready difficulty_level instead.
func bloomLevelsField(body map[string]any) ([]string, bool) {
	if dl, ok := body["difficulty_level"].(string); ok && dl != "" {
		return nil, false
	}
	raw, ok := body["bloom_levels"].([]any)
	if !ok {
		return nil, false
	}
	levels := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			levels = append(levels, strings.ToLower(s))
		}
	}
	return levels, true
}
