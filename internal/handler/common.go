package handler

import (
	"encoding/json"
	"net/http"

	"player-economy/internal/errors"
)

// Response is the envelope of every JSON body: Data on success, Error
// otherwise.
type Response struct {
	Data  interface{} `json:"data,omitempty"`
	Error *Error      `json:"error,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

var errUnexpected = errors.NewAppError(errors.InternalError, "an unexpected error occurred")

func writeJSON(w http.ResponseWriter, statusCode int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, statusCode int, data interface{}) {
	writeJSON(w, statusCode, Response{Data: data})
}

// writeError answers with the AppError in err's chain. Internal errors keep
// their code and message but never expose storage details.
func writeError(w http.ResponseWriter, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errUnexpected
	}

	body := &Error{
		Code:    string(appErr.Code),
		Message: appErr.Message,
	}
	if appErr.Code != errors.InternalError {
		body.Details = appErr.Details
	}

	writeJSON(w, appErr.HTTPStatus(), Response{Error: body})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewAppError(errors.InvalidInput, "invalid request body").WithDetails(err.Error())
	}
	return nil
}
