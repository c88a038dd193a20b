// Package validation checks request payloads before they reach the services.
package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// Validator collects field errors
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error to the validator. The first error per field wins.
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Required checks if a string is not empty
func (v *Validator) Required(field, value string) {
	v.Check(strings.TrimSpace(value) != "", field, "must not be empty")
}

// MaxLength checks if a string has at most n characters
func (v *Validator) MaxLength(field string, value string, n int) {
	v.Check(len(value) <= n, field, fmt.Sprintf("must not be more than %d characters long", n))
}

// OneOf checks that value is one of the permitted values, ignoring case.
func (v *Validator) OneOf(field, value string, permitted ...string) {
	for _, p := range permitted {
		if strings.EqualFold(value, p) {
			return
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of: %s", strings.Join(permitted, ", ")))
}

// CallbackURL checks an optional absolute http(s) URL.
func (v *Validator) CallbackURL(field, raw string) {
	if raw == "" {
		return
	}
	u, err := url.Parse(raw)
	v.Check(err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "", field, "must be an absolute http(s) URL")
}
