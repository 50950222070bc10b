package handler

import "net/http"

func (h *Handler) handleResultStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := requireQuery(w, r, "student_session_id", "student_session_id")
	if !ok {
		return
	}

	req := h.outbound(r, http.MethodGet, "/api/student-sessions/"+id)
	req.ContentType = "application/json"

	resp, err := h.backend.Do(r.Context(), req)
	if err != nil {
		h.transportError(w, r, err)
		return
	}
	if !resp.OK() {
		writeJSON(w, resp.Status, resp.ErrorEnvelope("Failed to get session status"))
		return
	}

	data, err := resp.JSON()
	if err != nil {
		h.transportError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusEnvelope(id, data))
}

func (h *Handler) handleViewResult(w http.ResponseWriter, r *http.Request) {
	id, ok := requireParam(w, r, "filename", "student_session_id")
	if !ok {
		return
	}

	req := h.outbound(r, http.MethodGet, "/api/student-sessions/"+id)
	req.ContentType = "application/json"

	resp, err := h.backend.Do(r.Context(), req)
	if err != nil {
		h.transportError(w, r, err)
		return
	}
	if !resp.OK() {
		writeJSON(w, resp.Status, resp.ErrorEnvelope("Failed to get student session"))
		return
	}

	data, err := resp.JSON()
	if err != nil {
		h.transportError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resultEnvelope(id, data))
}

// statusEnvelope wraps a student session for the old wait page. The session
// id is echoed under three legacy aliases, and "done" is derived from the
// presence of a total score; a score of zero still counts as done. Raw
// backend fields are spread over the aliases, so a backend-supplied
// student_session_id wins.
func statusEnvelope(id string, data map[string]any) map[string]any {
	scoreTotal, present := data["score_total"]

	env := map[string]any{
		"log":                id,
		"done":               present && scoreTotal != nil,
		"result":             id,
		"student_session_id": id,
	}
	for k, v := range data {
		env[k] = v
	}
	return env
}

// resultEnvelope reshapes a graded student session into the old results-page
// format. AI scoring takes precedence over the lecturer override in this
// legacy view; the per-criterion score breakdown no longer exists and is
// zeroed.
func resultEnvelope(id string, data map[string]any) map[string]any {
	answers, _ := data["answers"].([]any)

	details := make([]any, 0, len(answers))
	for _, a := range answers {
		answer, ok := a.(map[string]any)
		if !ok {
			continue
		}
		details = append(details, map[string]any{
			"question_id": answer["question_id"],
			"score":       firstNonNil(answer["ai_score"], answer["lecturer_score"], 0.0),
			"notes":       firstNonNil(answer["ai_feedback"], answer["lecturer_feedback"], ""),
		})
	}

	return map[string]any{
		"filename":      id,
		"overall_score": firstNonNil(data["score_total"], 0.0),
		"summary":       firstNonNil(data["ai_overall_feedback"], ""),
		"scores": map[string]any{
			"correctness":   0,
			"coverage":      0,
			"reasoning":     0,
			"creativity":    0,
			"communication": 0,
			"attitude":      0,
		},
		"details":            details,
		"session_name":       data["session_name"],
		"session_type":       data["session_type"],
		"answers":            data["answers"],
		"student_session_id": data["student_session_id"],
	}
}

// firstNonNil returns the first defined value. Unlike JS falsy chaining this
// lets a zero score or empty feedback from the AI stand, which is what the
// review pages expect.
func firstNonNil(vals ...any) any {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
