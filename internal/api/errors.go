// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error for a specific field
func NewValidationError(field string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("validation failed for field: %s", field),
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// fromValidation maps the first failed validator field to a validation error.
func fromValidation(err error) *APIError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		apiErr := NewValidationError(verrs[0].Field())
		apiErr.Details = verrs[0].Error()
		return apiErr
	}
	return NewBadRequestError("invalid request", err)
}

// NewErrorHandler returns an echo HTTPErrorHandler rendering every error as an
// APIError. Unknown errors carry their text in Details only when showDetails
// is set.
// Usage: e.HTTPErrorHandler = api.NewErrorHandler(logger, false)
func NewErrorHandler(logger zerolog.Logger, showDetails bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *APIError
		var httpErr *echo.HTTPError

		switch {
		case errors.As(err, &apiErr):
		case errors.As(err, &httpErr):
			apiErr = &APIError{
				Status:  httpErr.Code,
				Code:    "HTTP_ERROR",
				Message: fmt.Sprintf("%v", httpErr.Message),
			}
		default:
			apiErr = &APIError{
				Status:  http.StatusInternalServerError,
				Code:    "UNKNOWN_ERROR",
				Message: "An unexpected error occurred",
			}
			if showDetails {
				apiErr.Details = err.Error()
			}
		}

		if apiErr.Status >= http.StatusInternalServerError {
			logger.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("Request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(apiErr.Status)
			return
		}
		_ = c.JSON(apiErr.Status, apiErr)
	}
}
