// Package errors defines the domain error taxonomy shared by the card fields
// services. Every error carries a stable code so that the HTTP layer and the
// submission audit can classify failures without string matching.
package errors

import stderrors "errors"

// Error codes
const (
	CodeConfiguration         = "CONFIGURATION_ERROR"
	CodeConflictingCallbacks  = "CONFLICTING_CALLBACKS"
	CodeFieldsUnavailable     = "FIELDS_UNAVAILABLE"
	CodeInvalidVaultToken     = "INVALID_VAULT_TOKEN"
	CodeUnsupportedAction     = "UNSUPPORTED_ACTION"
	CodeRestartNotImplemented = "RESTART_NOT_IMPLEMENTED"
	CodeUpstreamRejection     = "UPSTREAM_REJECTION"
)

// DomainError is a classified failure. Message is the caller-facing text.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError with the same code, so the sentinels below can be
// used with errors.Is regardless of message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code == e.Code {
		return true
	}
	// conflicting callbacks are a kind of configuration error
	return t.Code == CodeConfiguration && e.Code == CodeConflictingCallbacks
}

// Sentinels for errors.Is
var (
	ErrConfiguration         = &DomainError{Code: CodeConfiguration, Message: "invalid configuration"}
	ErrConflictingCallbacks  = &DomainError{Code: CodeConflictingCallbacks, Message: "conflicting callbacks"}
	ErrFieldsUnavailable     = &DomainError{Code: CodeFieldsUnavailable, Message: "card fields unavailable"}
	ErrInvalidVaultToken     = &DomainError{Code: CodeInvalidVaultToken, Message: "invalid vault setup token"}
	ErrUnsupportedAction     = &DomainError{Code: CodeUnsupportedAction, Message: "unsupported action"}
	ErrRestartNotImplemented = &DomainError{Code: CodeRestartNotImplemented, Message: "restart not implemented"}
	ErrUpstreamRejection     = &DomainError{Code: CodeUpstreamRejection, Message: "upstream rejected the request"}
)

func Configuration(msg string) error {
	return &DomainError{Code: CodeConfiguration, Message: msg}
}

func ConflictingCallbacks(msg string) error {
	return &DomainError{Code: CodeConflictingCallbacks, Message: msg}
}

func FieldsUnavailable(msg string) error {
	return &DomainError{Code: CodeFieldsUnavailable, Message: msg}
}

func InvalidVaultToken(msg string) error {
	return &DomainError{Code: CodeInvalidVaultToken, Message: msg}
}

func UnsupportedAction(msg string) error {
	return &DomainError{Code: CodeUnsupportedAction, Message: msg}
}

func RestartNotImplemented(msg string) error {
	return &DomainError{Code: CodeRestartNotImplemented, Message: msg}
}

// Upstream wraps a transport or API failure. The original error stays
// reachable through Unwrap and its text is kept as the message.
func Upstream(err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if stderrors.As(err, &de) && de.Code == CodeUpstreamRejection {
		return err
	}
	return &DomainError{Code: CodeUpstreamRejection, Message: err.Error(), Err: err}
}

// CodeOf returns the domain code carried by err, or "" if it is unclassified.
func CodeOf(err error) string {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return ""
}
