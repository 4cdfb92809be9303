package models

import "errors"

// FailureKind classifies how an operation failed so presentation layers can
// decide how to surface it.
type FailureKind string

const (
	FailureValidation FailureKind = "validation"
	FailureStock      FailureKind = "stock"
	FailureConfig     FailureKind = "config"
	FailureNetwork    FailureKind = "network"
	FailureBusiness   FailureKind = "business"
	FailureState      FailureKind = "state"
)

// Failure is the typed failure description every core operation resolves
// with. Field is set when the failure can be pinned to a single input.
type Failure struct {
	Kind    FailureKind
	Field   string
	Message string
	cause   error
}

func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	return string(f.Kind) + ": " + f.Message
}

func (f *Failure) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.cause
}

// NewValidationFailure reports an empty or malformed input field.
func NewValidationFailure(field, message string) *Failure {
	return &Failure{Kind: FailureValidation, Field: field, Message: message}
}

// NewStockFailure reports a quantity exceeding the remaining stock snapshot.
func NewStockFailure(message string) *Failure {
	return &Failure{Kind: FailureStock, Message: message}
}

// NewConfigFailure reports missing configuration that is fatal for the
// current attempt.
func NewConfigFailure(message string) *Failure {
	return &Failure{Kind: FailureConfig, Message: message}
}

// NewNetworkFailure reports a transient connection problem. The operation is
// retryable by re-invoking the same action.
func NewNetworkFailure(message string, cause error) *Failure {
	return &Failure{Kind: FailureNetwork, Message: message, cause: cause}
}

// NewBusinessFailure carries a server-supplied message verbatim.
func NewBusinessFailure(message string) *Failure {
	return &Failure{Kind: FailureBusiness, Message: message}
}

// NewStateFailure reports an operation invoked in the wrong lifecycle state.
func NewStateFailure(message string) *Failure {
	return &Failure{Kind: FailureState, Message: message}
}

// WithField pins a failure to an input field.
func (f *Failure) WithField(field string) *Failure {
	if f == nil {
		return nil
	}
	f.Field = field
	return f
}

// FailureOf extracts the typed failure from an error chain, or nil when the
// error carries no failure description.
func FailureOf(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return nil
}

// IsKind reports whether err is a failure of the given kind.
func IsKind(err error, kind FailureKind) bool {
	f := FailureOf(err)
	return f != nil && f.Kind == kind
}
