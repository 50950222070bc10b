package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vivaexam/vivagate/internal/token"
)

const requestIDHeader = "X-Request-ID"

type requestIDCtxKey struct{}

// RequestID assigns a correlation id to each request unless the browser
// already sent one, echoes it on the response, and stores it in the context
// so every outbound backend call carries the same id.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDCtxKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey{}).(string)
	return id
}

// LogIdentity annotates the request log with the bearer token's unverified
// subject and email claims. Diagnostics only; the backend verifies the token.
func LogIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := token.FromRequest(r); ok {
			slog.Debug("proxying request",
				"request_id", requestIDFrom(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"subject", id.Subject,
				"email", id.Email,
			)
		}
		next.ServeHTTP(w, r)
	})
}
