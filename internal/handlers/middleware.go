package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/t3ratech/bantora-web/internal/metrics"
	"github.com/t3ratech/bantora-web/internal/services"
)

type contextKey string

const userPhoneKey contextKey = "userPhone"

// RequireAuth rejects requests without a valid bearer token and stores the caller's phone in the context
func RequireAuth(authService services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				sendErrorResponse(w, "authentication required", http.StatusUnauthorized)
				return
			}
			phone, err := authService.Authenticate(header)
			if err != nil {
				sendErrorResponse(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserPhone(r.Context(), phone)))
		})
	}
}

// WithUserPhone returns a copy of ctx carrying an authenticated phone number
func WithUserPhone(ctx context.Context, phone string) context.Context {
	return context.WithValue(ctx, userPhoneKey, phone)
}

// UserPhone returns the authenticated phone number, if any
func UserPhone(ctx context.Context) (string, bool) {
	phone, ok := ctx.Value(userPhoneKey).(string)
	return phone, ok && phone != ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// CountRequests records every response in the HTTP request counter, labelled by route pattern
func CountRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status/100)+"xx").Inc()
	})
}
