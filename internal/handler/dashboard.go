package handler

import "net/http"

func (h *Handler) handleLecturerDashboard(w http.ResponseWriter, r *http.Request) {
	lecturerID, ok := requireParam(w, r, "id", "lecturer_id")
	if !ok {
		return
	}
	h.relayGet(w, r, "/api/dashboard/lecturers/"+lecturerID, "Failed to get lecturer dashboard")
}

func (h *Handler) handleStudentDashboard(w http.ResponseWriter, r *http.Request) {
	studentID, ok := requireParam(w, r, "id", "student_id")
	if !ok {
		return
	}
	h.relayGet(w, r, "/api/dashboard/students/"+studentID, "Failed to get student dashboard")
}
