package schema

import (
	"errors"
	"fmt"
)

// SchemaError reports a top-level extraction payload that lacks a
// requirements array.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "extraction payload malformed: " + e.Reason
}

// InvalidRequirementError reports a requirement missing a mandatory field.
// The whole batch is rejected when one is returned.
type InvalidRequirementError struct {
	Index int
	Field string
}

func (e *InvalidRequirementError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("requirement[%d]: not an object", e.Index)
	}
	return fmt.Sprintf("requirement[%d]: %s is required", e.Index, e.Field)
}

// InvalidInputError reports a risk assessment call with a missing requirement
// or a non-positive unit count.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

// UpstreamKind classifies a failed extraction call.
type UpstreamKind string

const (
	UpstreamQuota     UpstreamKind = "quota"
	UpstreamAuth      UpstreamKind = "auth"
	UpstreamTransport UpstreamKind = "transport"
)

// UpstreamServiceError reports that the external extraction call failed.
type UpstreamServiceError struct {
	Kind       UpstreamKind
	Provider   string
	StatusCode int // 0 when no HTTP response was received
	Err        error
}

func (e *UpstreamServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s failure (HTTP %d): %v", e.Provider, e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s failure: %v", e.Provider, e.Kind, e.Err)
}

func (e *UpstreamServiceError) Unwrap() error { return e.Err }

// UpstreamFormatError reports that the extraction call succeeded but its
// payload could not be decoded as the expected JSON.
type UpstreamFormatError struct {
	Reason string
	Err    error
}

func (e *UpstreamFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream payload unparseable: %s: %v", e.Reason, e.Err)
	}
	return "upstream payload unparseable: " + e.Reason
}

func (e *UpstreamFormatError) Unwrap() error { return e.Err }

// IsRetryable reports whether err describes a bad model reply that a repeated
// request might fix. Service failures are never retryable.
func IsRetryable(err error) bool {
	var (
		fe *UpstreamFormatError
		se *SchemaError
		re *InvalidRequirementError
	)
	return errors.As(err, &fe) || errors.As(err, &se) || errors.As(err, &re)
}
