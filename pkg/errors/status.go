// Copyright 2025 The Meridian Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package errors

// Status is a request status code.
type Status uint64

const (
	// OK means the request completed.
	OK Status = 200

	// BadRequest means the request was invalid.
	BadRequest Status = 400

	// Unauthorized means the signer lacks the privilege required by the
	// operation.
	Unauthorized Status = 401

	// NotAllowed means the requested action is not allowed.
	NotAllowed Status = 403

	// NotFound means a record could not be found.
	NotFound Status = 404

	// Conflict means the request conflicts with the current state of a
	// record.
	Conflict Status = 409

	// NotReady means a precondition of the request has not been met, such as
	// a proposal that has not reached approval.
	NotReady Status = 412

	// InternalError means an internal error occurred.
	InternalError Status = 500

	// UnknownError means an unknown error occurred.
	UnknownError Status = 501

	// EncodingError means encoding or decoding failed.
	EncodingError Status = 502
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case BadRequest:
		return "bad request"
	case Unauthorized:
		return "unauthorized"
	case NotAllowed:
		return "not allowed"
	case NotFound:
		return "not found"
	case Conflict:
		return "conflict"
	case NotReady:
		return "not ready"
	case InternalError:
		return "internal error"
	case UnknownError:
		return "unknown error"
	case EncodingError:
		return "encoding error"
	default:
		return "unknown"
	}
}

// Success returns true if the status represents success.
func (s Status) Success() bool { return s < 300 }

// IsKnownError returns true if the status is non-zero and not UnknownError.
func (s Status) IsKnownError() bool { return s != 0 && s != UnknownError }

// IsClientError returns true if the status is a client error.
func (s Status) IsClientError() bool { return s >= 400 && s < 500 }

// IsServerError returns true if the status is a server error.
func (s Status) IsServerError() bool { return s >= 500 }

// Error implements error.
func (s Status) Error() string { return s.String() }
