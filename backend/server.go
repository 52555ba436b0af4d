package backend

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"github.com/shamaton/msgpack/v2"
	"github.com/timewinder-dev/labrun/lab"
)

// ExecuteFunc is the work the server side of the remote protocol performs.
type ExecuteFunc func(ctx context.Context, program string, cfg lab.Config) lab.Result

// Handler serves the remote protocol. When apiKey is set, requests must
// carry it as a bearer token.
func Handler(apiKey string, run ExecuteFunc) http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
	)
	r.Post(ExecutePath, func(w http.ResponseWriter, req *http.Request) {
		var in Request
		if err := decode(http.MaxBytesReader(w, req.Body, MaxRequestBytes), &in); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, fmt.Sprintf("request exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, fmt.Sprintf("malformed request: %v", err), http.StatusBadRequest)
			return
		}
		if apiKey != "" && !authorized(req, in.APIKey, apiKey) {
			http.Error(w, "invalid api key", http.StatusUnauthorized)
			return
		}
		if strings.TrimSpace(in.Code) == "" {
			http.Error(w, "no code to execute", http.StatusBadRequest)
			return
		}

		ctx := req.Context()
		if in.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(in.Timeout)*time.Millisecond)
			defer cancel()
		}
		id := middleware.GetReqID(ctx)
		res := run(WithRequestID(ctx, id), in.Code, lab.Config{TimeoutMs: in.Timeout})
		log.Debug().Str("id", id).Bool("success", res.Success).Msg("Server: executed program")

		w.Header().Set("Content-Type", ContentType)
		if err := msgpack.MarshalWrite(w, res); err != nil {
			log.Warn().Str("id", id).Err(err).Msg("Server: writing result")
		}
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

// authorized accepts the key as a bearer token or in the request body.
func authorized(req *http.Request, bodyKey, apiKey string) bool {
	token, ok := strings.CutPrefix(req.Header.Get("Authorization"), "Bearer ")
	if !ok {
		token = bodyKey
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) == 1
}
