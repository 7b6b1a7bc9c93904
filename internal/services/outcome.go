package services

// OutcomeKind discriminates the three results an upstream adapter can produce.
type OutcomeKind int

const (
	// OutcomeOK means the service answered with usable data.
	OutcomeOK OutcomeKind = iota
	// OutcomeEmpty means the service was reachable but had nothing for the query.
	OutcomeEmpty
	// OutcomeError means the service could not be used (transport, timeout, non-2xx).
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeEmpty:
		return "empty"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the typed result of a single adapter call. Adapters never return a
// bare transport error; callers switch on Kind instead.
type Outcome[T any] struct {
	Kind  OutcomeKind
	Value T
	Err   error
}

// OK wraps a successful payload.
func OK[T any](value T) Outcome[T] {
	return Outcome[T]{Kind: OutcomeOK, Value: value}
}

// Empty reports a reachable service with no matching data.
func Empty[T any]() Outcome[T] {
	return Outcome[T]{Kind: OutcomeEmpty}
}

// Failed reports an unusable service. A nil err is replaced with ErrUpstreamUnavailable.
func Failed[T any](err error) Outcome[T] {
	if err == nil {
		err = ErrUpstreamUnavailable
	}
	return Outcome[T]{Kind: OutcomeError, Err: err}
}

func (o Outcome[T]) IsOK() bool    { return o.Kind == OutcomeOK }
func (o Outcome[T]) IsEmpty() bool { return o.Kind == OutcomeEmpty }
func (o Outcome[T]) IsError() bool { return o.Kind == OutcomeError }

// Reason returns a short log-friendly description of non-OK outcomes.
func (o Outcome[T]) Reason() string {
	switch o.Kind {
	case OutcomeEmpty:
		return ErrUpstreamEmpty.Error()
	case OutcomeError:
		if o.Err != nil {
			return o.Err.Error()
		}
		return ErrUpstreamUnavailable.Error()
	default:
		return ""
	}
}
