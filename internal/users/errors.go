package users

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes carried in API error bodies.
const (
	CodeInvalidPayload   = "INVALID_PAYLOAD"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeUserNotFound     = "USER_NOT_FOUND"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
)

var ErrNotFound = errors.New("users: user not found")

// ValidationError lists the JSON names of the fields a create payload is missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "users: missing required fields: " + strings.Join(e.Fields, ", ")
}

// StoreError reports that the persistence layer failed during Op.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("users: %s: store failure: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
