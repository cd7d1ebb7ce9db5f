package middleware

import (
	"net/http"
	"strings"

	"github.com/strideworks/coachengine/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// AuthMiddlewareHandler gates all engine endpoints behind the shared
// athlete-app / coach-dashboard API secrets. Auth proper (sessions, roles)
// lives in the surrounding platform; the engine only checks the tokens.
type AuthMiddlewareHandler struct {
	athleteAppSecret string
	coachAppSecret   string
	allowedPaths     map[string]bool
}

func NewAuthMiddlewareHandler(athleteAppSecret, coachAppSecret string) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		athleteAppSecret: athleteAppSecret,
		coachAppSecret:   coachAppSecret,
		allowedPaths: map[string]bool{
			"/":        true,
			"/version": true,
			"/health":  true,
		},
	}
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			authToken := r.Header.Get("X-COACH-TOKEN")
			if authToken == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				span.SetStatus(codes.Error, "missing-token")
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}

			// coach endpoints (review, alerts, batch) require the coach secret
			if strings.HasPrefix(r.URL.Path, "/coach/") || strings.HasPrefix(r.URL.Path, "/batch/") {
				if authToken != h.coachAppSecret {
					log.Tracef("[invalid coach token] [auth middleware] unauthorized => %s", r.URL.Path)
					span.SetStatus(codes.Error, "invalid-coach-token")
					http.Error(w, "no can do", http.StatusUnauthorized)
					return
				}
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			if authToken != h.athleteAppSecret && authToken != h.coachAppSecret {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				span.SetStatus(codes.Error, "invalid-token")
				http.Error(w, "no can do", http.StatusUnauthorized)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
