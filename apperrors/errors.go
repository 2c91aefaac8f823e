package apperrors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is matches any NotFoundError for the same entity, regardless of ID
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ForbiddenError is returned when the acting user or crew may not touch the job
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func (e *ForbiddenError) Is(target error) bool {
	_, ok := target.(*ForbiddenError)
	return ok
}

// UnauthorizedError is returned for bad credentials
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

func (e *UnauthorizedError) Is(target error) bool {
	_, ok := target.(*UnauthorizedError)
	return ok
}

// InvalidStateError is a lifecycle transition attempted from the wrong status
type InvalidStateError struct {
	Current  string
	Expected string
	Message  string
}

func (e *InvalidStateError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("job is %s, expected %s", e.Current, e.Expected)
}

func (e *InvalidStateError) Is(target error) bool {
	_, ok := target.(*InvalidStateError)
	return ok
}

// InvalidStatusError is an unrecognized status value
type InvalidStatusError struct {
	Value string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status %q", e.Value)
}

func (e *InvalidStatusError) Is(target error) bool {
	_, ok := target.(*InvalidStatusError)
	return ok
}

// NoEligibleCrewError means the candidate filter returned nothing for the job
type NoEligibleCrewError struct {
	JobID int
}

func (e *NoEligibleCrewError) Error() string {
	return fmt.Sprintf("no suitable crew available for job %d", e.JobID)
}

func (e *NoEligibleCrewError) Is(target error) bool {
	_, ok := target.(*NoEligibleCrewError)
	return ok
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)
	return ok
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists", e.Entity)
}

func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// InfrastructureError wraps a failure of the store or another backing system
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

func (e *InfrastructureError) Is(target error) bool {
	_, ok := target.(*InfrastructureError)
	return ok
}

// Entity Not Found Errors
var (
	ErrJobNotFound    = &NotFoundError{Entity: "job"}
	ErrCrewNotFound   = &NotFoundError{Entity: "crew"}
	ErrClientNotFound = &NotFoundError{Entity: "client"}
	ErrUserNotFound   = &NotFoundError{Entity: "user"}
)

// Kind sentinels for errors.Is checks
var (
	ErrForbidden      = &ForbiddenError{Message: "forbidden"}
	ErrUnauthorized   = &UnauthorizedError{Message: "invalid credentials"}
	ErrInvalidState   = &InvalidStateError{}
	ErrInvalidStatus  = &InvalidStatusError{}
	ErrNoEligibleCrew = &NoEligibleCrewError{}
	ErrValidation     = &ValidationError{}
	ErrInfrastructure = &InfrastructureError{}
	ErrUserExists     = &AlreadyExistsError{Entity: "user"}
)

// NewNotFound builds a NotFoundError for an entity id
func NewNotFound(entity string, id int) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// NewForbidden builds a ForbiddenError
func NewForbidden(message string) error {
	return &ForbiddenError{Message: message}
}

// NewValidation builds a ValidationError
func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Wrap turns a backing-system failure into an InfrastructureError. nil stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var infra *InfrastructureError
	if errors.As(err, &infra) {
		return err
	}
	return &InfrastructureError{Op: op, Err: err}
}

// IsNotFound checks if an error is any NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

func IsInvalidStatus(err error) bool {
	return errors.Is(err, ErrInvalidStatus)
}

func IsNoEligibleCrew(err error) bool {
	return errors.Is(err, ErrNoEligibleCrew)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsAlreadyExists(err error) bool {
	var ae *AlreadyExistsError
	return errors.As(err, &ae)
}

func IsInfrastructure(err error) bool {
	return errors.Is(err, ErrInfrastructure)
}
