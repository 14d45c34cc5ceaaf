// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNameRequired is returned when an actor system name is required but not provided.
	ErrNameRequired = errors.New("actor system name is required")

	// ErrInvalidActorSystemName is returned when the actor system name contains invalid characters.
	// A valid name must consist of only alphanumeric characters ([a-zA-Z0-9]), with optional
	// hyphens or underscores that are not leading.
	ErrInvalidActorSystemName = errors.New("invalid ActorSystem name, must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-' or '_')")

	// ErrInvalidActorName is returned when an actor name is empty or contains a path separator.
	ErrInvalidActorName = errors.New("invalid actor name")

	// ErrDead indicates that the actor is no longer alive or has been terminated.
	ErrDead = errors.New("actor is not alive")

	// ErrUndefinedActor is returned when an actor reference is undefined.
	ErrUndefinedActor = errors.New("actor is not defined")

	// ErrActorNotFound indicates that the specified actor could not be found in the system.
	ErrActorNotFound = errors.New("actor not found")

	// ErrActorAlreadyExists is returned when trying to create an actor with a name that already exists.
	ErrActorAlreadyExists = errors.New("actor already exists")

	// ErrUnhandled is returned when an actor receives a message it cannot handle.
	ErrUnhandled = errors.New("unhandled message")

	// ErrActorKilled is the termination reason of an actor that received a Kill message.
	ErrActorKilled = errors.New("actor killed")

	// ErrRequestTimeout indicates that an Ask message timed out while waiting for a response.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrInvalidTimeout is returned when a timeout value is less than or equal to zero.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInitFailure is returned when the actor's preStart hook fails during initialization.
	ErrInitFailure = errors.New("preStart failed")

	// ErrActorSystemNotStarted indicates that an actor system has not been started before use.
	ErrActorSystemNotStarted = errors.New("actor system is not running")

	// ErrActorSystemAlreadyStarted is returned when attempting to start an actor system that is already running.
	ErrActorSystemAlreadyStarted = errors.New("actor system has already started")

	// ErrSchedulerNotStarted is returned when attempting to use the scheduler before it has started.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrInvalidTimerKey is returned when a timer is started with an empty key.
	ErrInvalidTimerKey = errors.New("timer key is required")

	// ErrMailboxDisposed is returned when operations are attempted on a disposed mailbox.
	ErrMailboxDisposed = errors.New("mailbox has been disposed")

	// ErrMailboxFull is returned when a bounded mailbox cannot accept more messages.
	ErrMailboxFull = errors.New("mailbox is full")

	// ErrInvalidMessage is returned when a nil message is sent.
	ErrInvalidMessage = errors.New("invalid message")
)

// NewErrActorNotFound formats an ErrActorNotFound with the given actor path.
func NewErrActorNotFound(actorPath string) error {
	return fmt.Errorf("(actor=%s) %w", actorPath, ErrActorNotFound)
}

// NewErrActorAlreadyExists formats an ErrActorAlreadyExists for the given actor name.
func NewErrActorAlreadyExists(actorName string) error {
	return fmt.Errorf("actor=(%s) %w", actorName, ErrActorAlreadyExists)
}

// NewErrInitFailure wraps a base error with ErrInitFailure to indicate a startup failure.
func NewErrInitFailure(err error) error {
	return errors.Join(ErrInitFailure, err)
}

// NewErrUnhandled wraps the unhandled message type with ErrUnhandled.
func NewErrUnhandled(message any) error {
	return fmt.Errorf("message=(%T) %w", message, ErrUnhandled)
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}

// InternalError defines an error that is explicit to the application
type InternalError struct {
	err error
}

// enforce compilation error
var _ error = (*InternalError)(nil)

// NewInternalError returns an intance of InternalError
func NewInternalError(err error) *InternalError {
	return &InternalError{
		err: fmt.Errorf("internal error: %w", err),
	}
}

// Error implements the standard error interface
func (i *InternalError) Error() string {
	return i.err.Error()
}

func (i *InternalError) Unwrap() error {
	return i.err
}

// SpawnError defines an error when creating an actor
type SpawnError struct {
	err error
}

var _ error = (*SpawnError)(nil)

// NewSpawnError returns an instance of SpawnError
func NewSpawnError(err error) *SpawnError {
	return &SpawnError{
		err: fmt.Errorf("spawn error: %w", err),
	}
}

// Error implements the standard error interface
func (s *SpawnError) Error() string {
	return s.err.Error()
}

func (s *SpawnError) Unwrap() error {
	return s.err
}
