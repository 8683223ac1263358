package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/yusufkecer/fittracker-backend/internal/middleware"
	"go.uber.org/zap"
)

// writeJSON encodes v before touching the response so an unencodable value
// becomes a logged 500 instead of a status line with an empty body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("failed to encode response", zap.Int("status", status), zap.Error(err))
		status = http.StatusInternalServerError
		body = []byte(`{"error":"internal server error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		zap.L().Debug("failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads the request body into v and writes the error response
// itself when it fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := decodeBody(r, v)
	if err == nil {
		return true
	}
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, io.EOF):
		writeError(w, http.StatusBadRequest, "request body is empty")
	default:
		writeError(w, http.StatusBadRequest, "invalid request body")
	}
	return false
}

func decodeBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// accountID returns the caller set by the auth middleware, writing 401 when
// it is absent.
func accountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.AccountID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return id, ok
}
