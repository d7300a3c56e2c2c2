package call2fa

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned before any network call is made.
var (
	ErrEmptyLogin         = errors.New("login is empty")
	ErrEmptyPassword      = errors.New("password is empty")
	ErrEmptyPhoneNumber   = errors.New("phone number is empty")
	ErrInvalidPhoneNumber = errors.New("phone number is not E.164")
	ErrEmptyPoolID        = errors.New("pool id is empty")
	ErrEmptyCode          = errors.New("code is empty")
	ErrEmptyLang          = errors.New("lang is empty")
	ErrEmptyCallID        = errors.New("call id is empty")

	// ErrJWTNotFound indicates the auth endpoint answered 200 without a token.
	ErrJWTNotFound = errors.New("jwt not found in auth response")
)

// APIError is returned when the API answers with an unexpected HTTP status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api returned unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned unexpected status %d: %s", e.StatusCode, e.Body)
}

// newAPIError builds an APIError keeping only a short body snippet.
func newAPIError(status int, body []byte) *APIError {
	snippet := body
	if len(snippet) > 512 {
		snippet = snippet[:512]
	}
	return &APIError{StatusCode: status, Body: strings.TrimSpace(string(snippet))}
}
