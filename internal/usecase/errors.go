package usecase

import (
	"fmt"
	"strings"
	"time"
)

const (
	CodeRateLimited       = "RATE_LIMITED"
	CodeValidation        = "VALIDATION_ERROR"
	CodeAlreadySubscribed = "ALREADY_SUBSCRIBED"
	CodeNotFound          = "NOT_FOUND"
	CodePersistence       = "PERSISTENCE_ERROR"
)

// ThrottledError means the client exceeded its rate window.
type ThrottledError struct {
	RetryAt time.Time
}

func (e *ThrottledError) Error() string {
	return "too many requests, please try again later"
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationError struct {
	Fields []FieldError
}

func malformedBody() *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: "body", Message: "must be a valid JSON object"}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

type NotFoundError struct {
	Code    string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// PersistenceError hides the storage failure from clients; Err is for logs.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "failed to save, please try again"
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NotificationError is logged, never returned to callers.
type NotificationError struct {
	Channel string
	Err     error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notification %s failed: %v", e.Channel, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
