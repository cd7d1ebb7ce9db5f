package middleware

import (
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// DrainAndCloseRequest makes sure the request body is fully read and closed
// after the handler is done, so the connection can be reused.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			if r.Body == nil {
				return
			}
			if _, err := io.Copy(io.Discard, r.Body); err != nil {
				log.Tracef("drain request body: %s", err)
			}
			if err := r.Body.Close(); err != nil {
				log.Tracef("close request body: %s", err)
			}
		})
	}
}
