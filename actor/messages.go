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

package actor

import "time"

// PostStart is the first message every actor receives once PreStart succeeds
type PostStart struct{}

// PoisonPill stops the receiving actor gracefully.
// It is processed in mailbox order: every message enqueued before it is handled first.
type PoisonPill struct{}

// Kill stops the receiving actor as a failure.
// Watchers observe ErrActorKilled as the termination reason.
type Kill struct{}

// Terminated is delivered to every watcher of an actor when that actor stops
type Terminated struct {
	actor        *PID
	reason       error
	terminatedAt time.Time
}

func newTerminated(actor *PID, reason error) *Terminated {
	return &Terminated{
		actor:        actor,
		reason:       reason,
		terminatedAt: time.Now().UTC(),
	}
}

// Actor returns the stopped actor
func (t *Terminated) Actor() *PID { return t.actor }

// Reason returns the failure that stopped the actor, nil on a graceful stop
func (t *Terminated) Reason() error { return t.reason }

// TerminatedAt returns the termination time
func (t *Terminated) TerminatedAt() time.Time { return t.terminatedAt }

// timerMessage carries a message fired by a keyed timer.
// It is accepted only when its generation still matches the live timer of that key.
type timerMessage struct {
	key        string
	generation uint64
	message    any
}
