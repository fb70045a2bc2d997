package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/lox/pokertable/internal/game"
)

const maxBodyBytes = 64 << 10

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    game.Kind `json:"kind"`
	Code    game.Code `json:"code"`
	Message string    `json:"message"`
}

// statusFor maps an engine error kind to an HTTP status.
func statusFor(kind game.Kind) int {
	switch kind {
	case game.KindValidation:
		return http.StatusBadRequest
	case game.KindIllegalAction:
		return http.StatusUnprocessableEntity
	case game.KindSequence:
		return http.StatusConflict
	case game.KindNotFound:
		return http.StatusNotFound
	case game.KindBusy:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) // client went away
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var gerr *game.Error
	if !errors.As(err, &gerr) {
		s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: errorDetail{
			Kind:    "InternalError",
			Code:    "Internal",
			Message: "internal server error",
		}})
		return
	}

	if game.IsRetryable(err) {
		w.Header().Set("Retry-After", "1")
	}
	message := gerr.Message
	if message == "" {
		message = string(gerr.Code)
	}
	writeJSON(w, statusFor(gerr.Kind), errorBody{Error: errorDetail{
		Kind:    gerr.Kind,
		Code:    gerr.Code,
		Message: message,
	}})
}

// decodeJSON reads a request body into v. Malformed bodies are validation
// errors.
func decodeJSON(r *http.Request, v any) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	return unmarshalBody(body, v)
}

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, game.Errorf(game.ErrInvalid, "reading request body: %v", err)
	}
	return body, nil
}

func unmarshalBody(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return game.Errorf(game.ErrInvalid, "malformed request body: %v", err)
	}
	return nil
}
