package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ValidationError reports malformed input. Field is the offending field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// ConflictError reports a scheduling conflict: overlapping slot, exhausted
// capacity, or a delete blocked by active bookings.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func NewConflictError(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError covers both absent resources and resources not owned by the
// caller, so existence is never leaked across accounts.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

// StateError reports a lifecycle transition attempted from an invalid state.
type StateError struct {
	Current string
	Action  string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s from status %q", e.Action, e.Current)
}

func NewStateError(current, action string) error {
	return &StateError{Current: current, Action: action}
}

// RespondError maps a service error onto the HTTP boundary. Anything outside
// the taxonomy is treated as an infra failure and surfaced as a 500.
func RespondError(c *gin.Context, err error) {
	var (
		ve *ValidationError
		ce *ConflictError
		ne *NotFoundError
		se *StateError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: "validation failed", Details: ve.Error()})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, ErrorResponse{Message: "conflict", Details: ce.Message})
	case errors.As(err, &ne):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: ne.Error()})
	case errors.As(err, &se):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid transition", Details: se.Error(), CurrentStatus: se.Current})
	default:
		GetLogger().Error("unhandled service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error"})
	}
}
