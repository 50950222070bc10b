package handler

import "net/http"

// Review endpoints let lecturers inspect graded sessions and override AI
// scoring after the fact. All state lives in the backend; the gateway only
// forwards.

func (h *Handler) handleReviewSessionStudents(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := requireParam(w, r, "id", "session_id")
	if !ok {
		return
	}
	h.relayGet(w, r, "/api/review/sessions/"+sessionID+"/students", "Failed to get session students")
}

func (h *Handler) handleReviewStudentSession(w http.ResponseWriter, r *http.Request) {
	id, ok := requireParam(w, r, "id", "student_session_id")
	if !ok {
		return
	}
	h.relayGet(w, r, "/api/review/student-sessions/"+id, "Failed to get student session details")
}

func (h *Handler) handleUpdateAnswerScore(w http.ResponseWriter, r *http.Request) {
	answerID, ok := requireParam(w, r, "id", "answer_id")
	if !ok {
		return
	}
	h.relayJSONBody(w, r, http.MethodPut, "/api/review/answers/"+answerID+"/score", "Failed to update answer score")
}

func (h *Handler) handleUpdateAnswerFeedback(w http.ResponseWriter, r *http.Request) {
	answerID, ok := requireParam(w, r, "id", "answer_id")
	if !ok {
		return
	}
	h.relayJSONBody(w, r, http.MethodPut, "/api/review/answers/"+answerID+"/feedback", "Failed to update answer feedback")
}
