package session

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("session not found")
)

// IllegalTransitionError is returned when an action is not valid from the
// session's current status. The record is left untouched.
type IllegalTransitionError struct {
	Status Status
	Action Action
}

func (err IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a session in status %s", err.Action, err.Status)
}

// ConversionRequiredError is returned when validating an AUTRE session
// without choosing a target type.
type ConversionRequiredError struct {
	ID string
}

func (err ConversionRequiredError) Error() string {
	return "a conversion target is required to validate an AUTRE session"
}

// ForbiddenError is returned when the acting role may not perform the action.
type ForbiddenError struct {
	Role   Role
	Action Action
}

func (err ForbiddenError) Error() string {
	return fmt.Sprintf("role %s may not %s a session", err.Role, err.Action)
}
