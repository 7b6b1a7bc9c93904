package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrConfiguration       = errors.New("configuration error")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamEmpty       = errors.New("upstream returned no data")
	ErrTimeout             = errors.New("timeout")
	// ErrResponseTooLarge is the cause of an UpstreamError whose body exceeded
	// the call's read limit.
	ErrResponseTooLarge = errors.New("body limit reached")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrUpstreamUnavailable
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// UpstreamError describes a failed call to an external service. StatusCode is
// zero when the request never produced an HTTP response.
type UpstreamError struct {
	Service    string
	Operation  string
	StatusCode int
	Timeout    bool
	Message    string
	Body       []byte
	Cause      error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	b.WriteString(e.Service)
	if e.Operation != "" {
		b.WriteString(" ")
		b.WriteString(e.Operation)
	}
	switch {
	case e.Timeout:
		b.WriteString(": timed out")
	case e.StatusCode == 0:
		b.WriteString(": transport failure")
	default:
		fmt.Fprintf(&b, ": returned %d", e.StatusCode)
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

// Is lets callers match upstream failures against the sentinel markers.
func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrUpstreamUnavailable:
		return true
	case ErrTimeout:
		return e.Timeout
	default:
		return false
	}
}

// TransportFailure reports whether the call failed before any HTTP status was received.
func (e *UpstreamError) TransportFailure() bool {
	return e.StatusCode == 0
}

// AsUpstream extracts an UpstreamError from err, if present.
func AsUpstream(err error) (*UpstreamError, bool) {
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return upstream, true
	}
	return nil, false
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
