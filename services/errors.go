package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("you do not have permission to perform this action")
)

// RequestError is a client error that does not belong to a single field.
type RequestError struct {
	msg string
}

func (e *RequestError) Error() string { return e.msg }

func newRequestError(msg string) *RequestError {
	return &RequestError{msg: msg}
}

var (
	ErrInvalidCredentials = newRequestError("unable to log in with provided credentials")
	ErrWrongPassword      = newRequestError("current password is incorrect")
	ErrRecipeMissing      = newRequestError("recipe does not exist")
	ErrAlreadyFavorited   = newRequestError("recipe is already in favorites")
	ErrNotFavorited       = newRequestError("recipe is not in favorites")
	ErrAlreadyInCart      = newRequestError("recipe is already in the shopping cart")
	ErrNotInCart          = newRequestError("recipe is not in the shopping cart")
	ErrSelfSubscription   = newRequestError("you cannot subscribe to yourself")
	ErrAlreadySubscribed  = newRequestError("you are already subscribed to this user")
	ErrNotSubscribed      = newRequestError("you are not subscribed to this user")
)

// ValidationError collects messages per input field.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// OrNil returns nil when nothing was added so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func fieldError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}
