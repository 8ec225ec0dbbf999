package common

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// APIResponse is the success envelope returned to HTTP clients.
type APIResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// APIError is the failure envelope returned to HTTP clients.
type APIError struct {
	StatusCode int      `json:"statusCode"`
	Error      string   `json:"error"`
	Errors     []string `json:"errors"`
	Success    bool     `json:"success"`
}

func NewAPIResponse(status int, data interface{}, message string) APIResponse {
	return APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	}
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(NewAPIResponse(status, data, message))
}

// WriteError renders err with the failure envelope. Errors that are not an
// AppError are logged and reported as 500 without leaking their text.
func WriteError(w http.ResponseWriter, logger *zap.Logger, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = ErrInternal("Something went wrong", err)
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError && logger != nil {
		logger.Error("request failed", zap.String("code", string(appErr.Code)), zap.Error(err))
	}

	details := appErr.Errors
	if details == nil {
		details = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(APIError{
		StatusCode: appErr.HTTPStatus,
		Error:      appErr.Message,
		Errors:     details,
		Success:    false,
	})
}
