package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vivaexam/vivagate/internal/model"
)

// handleUploadMaterial streams a multipart upload through to the backend.
// The incoming Content-Type header carries the multipart boundary for the
// body being streamed, so it is forwarded verbatim; the gateway never
// synthesizes its own.
func (h *Handler) handleUploadMaterial(w http.ResponseWriter, r *http.Request) {
	req := h.outbound(r, http.MethodPost, "/api/materials/upload")
	req.Body = r.Body
	req.ContentType = r.Header.Get("Content-Type")
	h.relay(w, r, req, "Failed to upload material")
}

// handleListMaterials proxies the material list. The backend returns every
// material; when the caller identifies itself with a user_id parameter the
// gateway applies the visibility rule (public, or uploaded by that user)
// before responding. This is display filtering only; download authorization
// stays with the backend.
func (h *Handler) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	userParam := r.URL.Query().Get("user_id")
	if userParam == "" {
		h.relayGet(w, r, "/api/materials", "Failed to get materials")
		return
	}

	userID, err := strconv.ParseInt(userParam, 10, 64)
	if err != nil {
		slog.Warn("ignoring malformed user_id filter", "user_id", userParam)
		h.relayGet(w, r, "/api/materials", "Failed to get materials")
		return
	}

	req := h.outbound(r, http.MethodGet, "/api/materials")
	req.ContentType = "application/json"
	resp, err := h.backend.Do(r.Context(), req)
	if err != nil {
		h.transportError(w, r, err)
		return
	}
	if !resp.OK() {
		writeJSON(w, resp.Status, resp.ErrorEnvelope("Failed to get materials"))
		return
	}

	// Filter on the raw list so backend fields the gateway does not model
	// (file_url, created_at, ...) survive the round trip.
	rawList, err := resp.JSONList()
	if err != nil {
		h.transportError(w, r, err)
		return
	}
	visible := make([]json.RawMessage, 0, len(rawList))
	for _, raw := range rawList {
		var m model.Material
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		if m.Visible(userID) {
			visible = append(visible, raw)
		}
	}
	writeJSON(w, http.StatusOK, visible)
}

func (h *Handler) handleGetMaterial(w http.ResponseWriter, r *http.Request) {
	materialID, ok := requireParam(w, r, "id", "material_id")
	if !ok {
		return
	}
	h.relayGet(w, r, "/api/materials/"+materialID, "Failed to get material")
}

func (h *Handler) handleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	materialID, ok := requireParam(w, r, "id", "material_id")
	if !ok {
		return
	}
	req := h.outbound(r, http.MethodDelete, "/api/materials/"+materialID)
	req.ContentType = "application/json"
	h.relay(w, r, req, "Failed to delete material")
}
