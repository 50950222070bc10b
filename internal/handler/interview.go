package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/vivaexam/vivagate/internal/gateway"
	appI18n "github.com/vivaexam/vivagate/internal/i18n"
)

// handleSubmitInterview drains a finished interview in one shot: every
// buffered answer is submitted to the backend, then the session is ended and
// the grading result returned. Per-answer submissions run strictly in input
// order because the backend's question flow is stateful per student session,
// and the batch aborts on the first rejection. Answers already accepted are
// not rolled back.
func (h *Handler) handleSubmitInterview(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id := fieldString(body["student_session_id"])
	if id == "" {
		errorJSON(w, http.StatusBadRequest, "student_session_id is required")
		return
	}

	auth := r.Header.Get("Authorization")
	reqID := requestIDFrom(r.Context())

	if answers, ok := body["answers"].([]any); ok {
		if stepErr := h.submitAnswersInOrder(r.Context(), auth, reqID, id, answers); stepErr != nil {
			errorJSON(w, stepErr.status,
				appI18n.Td(r.Context(), "SubmitAnswerFailed", map[string]any{"Reason": stepErr.reason}))
			return
		}
	}

	endReq := gateway.Request{
		Method:      http.MethodPost,
		Path:        "/api/student-sessions/" + id + "/end",
		Auth:        auth,
		RequestID:   reqID,
		ContentType: "application/json",
	}
	endResp, err := h.backend.Do(r.Context(), endReq)
	if err != nil {
		h.transportError(w, r, err)
		return
	}
	if !endResp.OK() {
		errorJSON(w, endResp.Status,
			appI18n.Td(r.Context(), "EndSessionFailed", map[string]any{"Reason": string(endResp.Body)}))
		return
	}

	endData, err := endResp.JSON()
	if err != nil {
		h.transportError(w, r, err)
		return
	}

	// Legacy flow fields first, end-session fields overlaid.
	env := map[string]any{
		"queued":             false,
		"log_file":           id,
		"student_session_id": id,
		"completed":          true,
	}
	for k, v := range endData {
		env[k] = v
	}
	writeJSON(w, http.StatusOK, env)
}

// stepError is the first failure of a multi-step submission.
type stepError struct {
	status int
	reason string
}

// submitAnswersInOrder posts each answer to the per-answer endpoint, waiting
// for each response before starting the next, and short-circuits on the
// first non-2xx. Answers tolerate both key generations: question_id/id and
// answer/response.
func (h *Handler) submitAnswersInOrder(ctx context.Context, auth, reqID, id string, answers []any) *stepError {
	for i, raw := range answers {
		answer, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		payload := map[string]any{
			"question_id": firstNonNil(answer["question_id"], answer["id"]),
			"answer":      firstNonNil(answer["answer"], answer["response"]),
		}
		body, err := gateway.JSONBody(payload)
		if err != nil {
			return &stepError{status: http.StatusInternalServerError, reason: err.Error()}
		}

		resp, err := h.backend.Do(ctx, gateway.Request{
			Method:      http.MethodPost,
			Path:        "/api/student-sessions/" + id + "/answer",
			Auth:        auth,
			RequestID:   reqID,
			Body:        body,
			ContentType: "application/json",
		})
		if err != nil {
			return &stepError{status: http.StatusInternalServerError, reason: err.Error()}
		}
		if !resp.OK() {
			slog.Warn("interview answer rejected",
				"student_session_id", id, "index", i, "status", resp.Status)
			return &stepError{status: resp.Status, reason: string(resp.Body)}
		}
	}
	return nil
}
