// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"blogapi/internal/errs"
	"blogapi/internal/respond"
)

// Recoverer catches panics in downstream handlers, logs the stack trace,
// and answers with the 500 failure envelope instead of crashing the server.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			log.Error().
				Interface("panic", rec).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("stack", string(debug.Stack())).
				Msg("panic recovered")
			respond.Fail(w, http.StatusInternalServerError, errs.InternalMessage)
		}()

		next.ServeHTTP(w, r)
	})
}
