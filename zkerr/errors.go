/*
Copyright (c) zkterm authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package zkerr defines the typed error hierarchy shared by the codec,
// transport, and session layers of the device client.
package zkerr

import "fmt"

// Kind classifies why an operation against the device failed.
type Kind int

const (
	// Config indicates a missing or invalid client configuration, e.g. no
	// device address given at construction time.
	Config Kind = iota
	// Transport indicates the underlying socket could not be opened,
	// written to, or was closed out from under the client.
	Transport
	// Timeout indicates no reply arrived before the receive deadline.
	Timeout
	// Frame indicates the stream envelope was malformed (bad magic, or an
	// impossible payload length).
	Frame
	// Auth indicates CMD_ACK_UNAUTH persisted after CMD_AUTH.
	Auth
	// Protocol indicates a non-ok reply, or an unexpected command in a
	// reply, where no more specific kind applies.
	Protocol
	// Operation indicates a semantic refusal by the device or the client,
	// e.g. delete-user-not-found or enroll-rescan-exhausted.
	Operation
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case Transport:
		return "transport"
	case Timeout:
		return "timeout"
	case Frame:
		return "frame"
	case Auth:
		return "auth"
	case Protocol:
		return "protocol"
	case Operation:
		return "operation"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Error is the single error type returned across package boundaries of this
// module. Kind lets callers branch on the failure class with errors.As;
// Unwrap exposes the underlying cause Err, which is nil where none was
// given (e.g. Timeout errors built by Timeoutf).
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("zkterm: %s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("zkterm: %s: %s", e.Kind, e.Op)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, zkerr.New(zkerr.Timeout, "", nil)) or, more typically,
// errors.As(err, &zerr) and inspect zerr.Kind directly.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New constructs an *Error of the given kind for operation op, wrapping err.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Timeoutf builds a Timeout error with a formatted op description.
func Timeoutf(format string, args ...interface{}) *Error {
	return &Error{Kind: Timeout, Op: fmt.Sprintf(format, args...)}
}
