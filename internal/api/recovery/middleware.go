// Package recovery turns handler panics into JSON 500 responses.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/ryan-kosiba/nutriclaude/internal/api/respond"
	"github.com/ryan-kosiba/nutriclaude/internal/metrics"
)

// Middleware recovers from panics in next. http.ErrAbortHandler is re-raised so the
// server can drop the connection.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			metrics.PanicsRecovered.Inc()

			ev := log.Error().
				Interface("panic", rec).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Bytes("stack", debug.Stack())
			if uid := mux.Vars(r)["userId"]; uid != "" {
				ev = ev.Str("user_id", uid)
			}
			ev.Msg("panic recovered")

			respond.WriteInternalError(w, "internal error")
		}()
		next.ServeHTTP(w, r)
	})
}
