package fetch

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind classifies the outcome of a fetch.
type Kind int

const (
	KindOK Kind = iota
	// KindTransport covers request construction, connection, cancellation,
	// and body read failures.
	KindTransport
	// KindStatus is a response outside the 2xx range.
	KindStatus
	// KindDecode is a 2xx response whose body is not valid JSON or does not
	// fit the requested shape.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Result is the typed outcome of a single fetch.
type Result struct {
	URL        string
	Kind       Kind
	StatusCode int
	Body       json.RawMessage
	Err        error
	Latency    time.Duration
}

// OK reports whether the fetch produced a JSON body.
func (r Result) OK() bool {
	return r.Kind == KindOK
}

// Error converts a failed result into an *Error. It returns nil for
// successful results.
func (r Result) Error() error {
	if r.OK() {
		return nil
	}
	return &Error{URL: r.URL, Kind: r.Kind, StatusCode: r.StatusCode, Err: r.Err}
}

// Error describes a failed fetch.
type Error struct {
	URL        string
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return "fetch error"
	}
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
		}
		return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from err. Nil maps to KindOK and errors
// that are not *Error map to KindTransport.
func KindOf(err error) Kind {
	if err == nil {
		return KindOK
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindTransport
}
