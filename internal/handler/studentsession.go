package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

type joinRequest struct {
	SessionID int64  `json:"session_id" validate:"required"`
	Password  string `json:"password"`
}

func (h *Handler) handleJoinSession(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var join joinRequest
	if err := json.Unmarshal(raw, &join); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !h.validateBody(w, join) {
		return
	}

	req := h.outbound(r, http.MethodPost, "/api/student-sessions/join")
	req.Body = bytes.NewReader(raw)
	req.ContentType = "application/json"
	h.relay(w, r, req, "Failed to join session")
}

func (h *Handler) handleStartSession(w http.ResponseWriter, r *http.Request) {
	id, ok := requireParam(w, r, "id", "student_session_id")
	if !ok {
		return
	}
	req := h.outbound(r, http.MethodPost, "/api/student-sessions/"+id+"/start")
	req.ContentType = "application/json"
	h.relay(w, r, req, "Failed to start session")
}

func (h *Handler) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := requireParam(w, r, "id", "student_session_id")
	if !ok {
		return
	}
	h.relayJSONBody(w, r, http.MethodPost, "/api/student-sessions/"+id+"/answer", "Failed to submit answer")
}

func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id, ok := requireParam(w, r, "id", "student_session_id")
	if !ok {
		return
	}
	req := h.outbound(r, http.MethodPost, "/api/student-sessions/"+id+"/end")
	req.ContentType = "application/json"
	h.relay(w, r, req, "Failed to end session")
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	h.relayGet(w, r, "/api/student-sessions/history", "Failed to get history")
}

func (h *Handler) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := requireParam(w, r, "id", "student_session_id")
	if !ok {
		return
	}
	h.nextQuestion(w, r, id)
}

// handleNextQuestionLegacy serves the question feed under its old address,
// where the path segment was a log filename. The segment now carries the
// student session id.
func (h *Handler) handleNextQuestionLegacy(w http.ResponseWriter, r *http.Request) {
	id, ok := requireParam(w, r, "filename", "student_session_id")
	if !ok {
		return
	}
	h.nextQuestion(w, r, id)
}

func (h *Handler) nextQuestion(w http.ResponseWriter, r *http.Request, id string) {
	req := h.outbound(r, http.MethodGet, "/api/student-sessions/"+id+"/question")
	req.ContentType = "application/json"

	resp, err := h.backend.Do(r.Context(), req)
	if err != nil {
		h.transportError(w, r, err)
		return
	}
	if !resp.OK() {
		writeJSON(w, resp.Status, resp.ErrorEnvelope("Failed to get question"))
		return
	}

	data, err := resp.JSON()
	if err != nil {
		h.transportError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, questionEnvelope(id, data))
}

// questionEnvelope reshapes the backend's single-question object into the
// list-shaped envelope older pages consume. The question text is duplicated
// under both "question" and "text": pages from different eras read different
// fields.
func questionEnvelope(id string, data map[string]any) map[string]any {
	completed, _ := data["completed"].(bool)

	questions := []any{}
	if !completed {
		questions = append(questions, map[string]any{
			"id":              data["question_id"],
			"question":        data["question"],
			"text":            data["question"],
			"question_number": data["question_number"],
			"total_questions": data["total_questions"],
			"difficulty":      data["difficulty"],
		})
	}

	return map[string]any{
		"filename":        id,
		"questions":       questions,
		"completed":       completed,
		"question_number": data["question_number"],
		"total_questions": data["total_questions"],
	}
}
