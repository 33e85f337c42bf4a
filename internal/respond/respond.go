// Package respond writes the JSON envelope every API response uses:
//
//	{"statusCode": 200, "data": ..., "success": true}
//	{"statusCode": 404, "error": "Blog not found", "success": false}
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"blogapi/internal/errs"
)

type envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	Success    bool   `json:"success"`
}

// JSON writes data wrapped in a success envelope.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, envelope{StatusCode: status, Data: data, Success: true})
}

// Fail writes a failure envelope with the given message.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, envelope{StatusCode: status, Error: message, Success: false})
}

// Error classifies err and writes its failure envelope. Internal errors are
// logged with their cause; the client only sees the generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	e := errs.From(err)
	status := e.StatusCode()
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	Fail(w, status, e.Public())
}

func write(w http.ResponseWriter, body envelope) {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Error().Err(err).Msg("marshal response")
		payload = []byte(`{"statusCode":500,"error":"` + errs.InternalMessage + `","success":false}`)
		body.StatusCode = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(body.StatusCode)
	if _, err := w.Write(payload); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}
