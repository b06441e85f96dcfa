package remote

import (
	"errors"
	"fmt"
)

// Kind classifies a backend failure so callers can branch without parsing
// messages.
type Kind int

const (
	KindNetwork    Kind = iota + 1 // host unreachable, timeout, reset
	KindValidation                 // 4xx other than 404
	KindNotFound                   // 404
	KindServer                     // 5xx and other unexpected statuses
	KindDecode                     // response body could not be parsed
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not-found"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// Error is the single failure type returned by Client methods.
type Error struct {
	Op      string // e.g. "create node"
	Kind    Kind
	Status  int    // HTTP status, 0 when no response arrived
	Message string // human-readable, preferring the backend's detail text
	Err     error  // underlying transport or decode error, if any
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote: %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a remote error, or 0 for other errors.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}

// IsNetwork reports whether err is a connectivity failure.
func IsNetwork(err error) bool { return KindOf(err) == KindNetwork }

// IsValidation reports whether the backend rejected the payload.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether the entity does not exist on the backend.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

func kindForStatus(status int) Kind {
	switch {
	case status == 404:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}
