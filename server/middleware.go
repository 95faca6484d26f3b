package server

import (
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"neolithic/gameerr"
)

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msgf("%s %s", r.Method, r.URL.Path)
	})
}

// recoverer turns a panic into a 500 response. Invariant violations of the
// game are logged without a stack trace.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			if recovered == http.ErrAbortHandler {
				panic(recovered)
			}
			event := log.Error().Str("request_id", middleware.GetReqID(r.Context()))
			if err, ok := recovered.(error); ok {
				var invariant *gameerr.InvariantError
				if errors.As(err, &invariant) {
					event.Err(err).Msgf("%s %s", r.Method, r.URL.Path)
					respondError(w, http.StatusInternalServerError, "internal error")
					return
				}
			}
			event.Interface("panic", recovered).Str("stack", string(debug.Stack())).Msgf("%s %s", r.Method, r.URL.Path)
			respondError(w, http.StatusInternalServerError, "internal error")
		}()
		next.ServeHTTP(w, r)
	})
}
