package handler

import "net/http"

// Login and register are plain passthroughs: token issuance is entirely the
// backend's concern and the gateway never inspects credentials.

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	h.relayJSONBody(w, r, http.MethodPost, "/api/auth/login", "Failed to log in")
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	h.relayJSONBody(w, r, http.MethodPost, "/api/auth/register", "Failed to register")
}
