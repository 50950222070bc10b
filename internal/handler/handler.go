// Package handler exposes the browser-facing JSON surface of the gateway.
// Every handler is a stateless proxy: it validates identifiers, forwards the
// call to the backend with credential passthrough, and reshapes selected
// responses into the envelopes legacy pages expect.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/vivaexam/vivagate/internal/gateway"
	appI18n "github.com/vivaexam/vivagate/internal/i18n"
	"github.com/vivaexam/vivagate/internal/model"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	backend  *gateway.Client
	config   model.Config
	validate *validator.Validate
}

// New creates a new Handler.
func New(backend *gateway.Client, cfg model.Config) *Handler {
	v := validator.New()
	// Report fields by their json names so validation errors can reuse the
	// legacy "<field> is required" contract strings.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		backend:  backend,
		config:   cfg,
		validate: v,
	}
}

// validateBody runs validator tags over a decoded body and writes the legacy
// 400 envelope for the first missing field.
func (h *Handler) validateBody(w http.ResponseWriter, body any) bool {
	if err := h.validate.Struct(body); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			errorJSON(w, http.StatusBadRequest, errs[0].Field()+" is required")
			return false
		}
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.handleLogin)
		r.Post("/auth/register", h.handleRegister)

		r.Get("/sessions", h.handleListSessions)
		r.Post("/sessions/exam", h.handleCreateExamSession)
		r.Post("/sessions/practice", h.handleCreatePracticeSession)
		r.Post("/sessions/interview", h.handleCreateInterviewSession)
		r.Get("/sessions/{id}", h.handleGetSession)
		r.Put("/sessions/{id}", h.handleUpdateSession)
		r.Delete("/sessions/{id}", h.handleDeleteSession)

		r.Post("/student-sessions/join", h.handleJoinSession)
		r.Post("/student-sessions/{id}/start", h.handleStartSession)
		r.Get("/student-sessions/{id}/question", h.handleNextQuestion)
		r.Post("/student-sessions/{id}/answer", h.handleSubmitAnswer)
		r.Post("/student-sessions/{id}/end", h.handleEndSession)
		// Older pages address the question feed by "filename".
		r.Get("/questions/{filename}", h.handleNextQuestionLegacy)
		r.Get("/history", h.handleHistory)

		r.Get("/result-status", h.handleResultStatus)
		r.Get("/view-result/{filename}", h.handleViewResult)
		r.Post("/submit-interview", h.handleSubmitInterview)

		r.Post("/upload-material", h.handleUploadMaterial)
		r.Get("/materials", h.handleListMaterials)
		r.Get("/materials/{id}", h.handleGetMaterial)
		r.Delete("/materials/{id}", h.handleDeleteMaterial)

		r.Get("/review/sessions/{id}/students", h.handleReviewSessionStudents)
		r.Get("/review/student-sessions/{id}", h.handleReviewStudentSession)
		r.Put("/review/answers/{id}/score", h.handleUpdateAnswerScore)
		r.Put("/review/answers/{id}/feedback", h.handleUpdateAnswerFeedback)

		r.Get("/dashboard/lecturers/{id}", h.handleLecturerDashboard)
		r.Get("/dashboard/students/{id}", h.handleStudentDashboard)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}

func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// requireParam resolves a chi URL parameter and rejects the request with the
// legacy 400 envelope when it is empty. The field name is contract text older
// pages match on verbatim.
func requireParam(w http.ResponseWriter, r *http.Request, key, field string) (string, bool) {
	v := chi.URLParam(r, key)
	if v == "" {
		errorJSON(w, http.StatusBadRequest, field+" is required")
		return "", false
	}
	return v, true
}

// requireQuery is requireParam for query-string identifiers.
func requireQuery(w http.ResponseWriter, r *http.Request, key, field string) (string, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		errorJSON(w, http.StatusBadRequest, field+" is required")
		return "", false
	}
	return v, true
}

// outbound builds a backend request carrying the caller's credential and
// correlation id.
func (h *Handler) outbound(r *http.Request, method, path string) gateway.Request {
	return gateway.Request{
		Method:    method,
		Path:      path,
		Auth:      r.Header.Get("Authorization"),
		RequestID: requestIDFrom(r.Context()),
	}
}

// transportError maps a failed backend call to the gateway's own error
// envelope: 504 for a deadline expiry, 500 otherwise. The message is
// localized; backend-produced errors never take this path.
func (h *Handler) transportError(w http.ResponseWriter, r *http.Request, err error) {
	if gateway.IsTimeout(err) {
		slog.Warn("backend call timed out", "path", r.URL.Path, "error", err)
		errorJSON(w, http.StatusGatewayTimeout, appI18n.T(r.Context(), "ReadTimeout"))
		return
	}
	slog.Error("backend call failed", "path", r.URL.Path, "error", err)
	errorJSON(w, http.StatusInternalServerError, appI18n.T(r.Context(), "BackendUnreachable"))
}

// relay forwards the incoming request to a backend path and writes the
// response through unreshaped: backend JSON on success, the normalized error
// envelope with the backend's status otherwise.
func (h *Handler) relay(w http.ResponseWriter, r *http.Request, req gateway.Request, fallback string) {
	h.relayWithContext(r.Context(), w, r, req, fallback)
}

// relayWithContext is relay with an explicit context, for handlers that
// bound their backend call with a deadline.
func (h *Handler) relayWithContext(ctx context.Context, w http.ResponseWriter, r *http.Request, req gateway.Request, fallback string) {
	resp, err := h.backend.Do(ctx, req)
	if err != nil {
		h.transportError(w, r, err)
		return
	}
	if !resp.OK() {
		writeJSON(w, resp.Status, resp.ErrorEnvelope(fallback))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(resp.Body); err != nil {
		slog.Error("write response", "error", err)
	}
}

// relayJSONBody is relay for write operations whose JSON body passes through
// unmodified.
func (h *Handler) relayJSONBody(w http.ResponseWriter, r *http.Request, method, path, fallback string) {
	req := h.outbound(r, method, path)
	req.Body = r.Body
	req.ContentType = "application/json"
	h.relay(w, r, req, fallback)
}

// relayGet is relay for parameterless reads.
func (h *Handler) relayGet(w http.ResponseWriter, r *http.Request, path, fallback string) {
	req := h.outbound(r, http.MethodGet, path)
	req.ContentType = "application/json"
	h.relay(w, r, req, fallback)
}

// decodeBody reads a JSON request body into a generic map, preserving fields
// the gateway does not model.
func decodeBody(r *http.Request) (map[string]any, error) {
	defer io.Copy(io.Discard, r.Body)
	var m map[string]any
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode request body: %w", err)
	}
	return m, nil
}

// fieldString renders a JSON identifier value as a path segment. Numeric ids
// arrive as float64 from encoding/json.
func fieldString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

// copyQuery passes through only the named query parameters, mirroring the
// allow-list behavior of the old frontend routes.
func copyQuery(r *http.Request, keys ...string) url.Values {
	q := url.Values{}
	for _, k := range keys {
		if v := r.URL.Query().Get(k); v != "" {
			q.Set(k, v)
		}
	}
	return q
}
