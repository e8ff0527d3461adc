package types

import (
	"errors"
	"net/http"

	appErr "github.com/dashspec/engine/pkg/errors"
)

func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	code := appErr.CodeOf(err)
	var e *appErr.AppError
	if errors.As(err, &e) {
		return &APIError{Code: string(code), Message: e.Message}
	}
	// unclassified errors may carry driver detail; do not echo it
	return &APIError{Code: string(code), Message: http.StatusText(HTTPStatus(err))}
}

// HTTPStatus maps an error code to the response status.
func HTTPStatus(err error) int {
	switch appErr.CodeOf(err) {
	case appErr.CodeInvalid:
		return http.StatusBadRequest
	case appErr.CodeUnauthorized:
		return http.StatusUnauthorized
	case appErr.CodeForbidden:
		return http.StatusForbidden
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeConflict, appErr.CodeAlreadyExists, appErr.CodeFailedPrecondition:
		return http.StatusConflict
	case appErr.CodeUnavailable:
		return http.StatusServiceUnavailable
	case appErr.CodeDeadline:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
