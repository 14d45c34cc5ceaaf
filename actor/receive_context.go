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

import (
	"context"
	"time"

	"github.com/tochemey/actorkit/log"
)

// ReceiveContext is the context that is used by the actor to receive messages
type ReceiveContext struct {
	ctx     context.Context
	message any
	sender  *PID
	self    *PID
	err     error
}

func newReceiveContext(ctx context.Context, from, to *PID, message any) *ReceiveContext {
	return &ReceiveContext{
		ctx:     context.WithoutCancel(ctx),
		message: message,
		sender:  from,
		self:    to,
	}
}

// Self returns the receiver PID of the message
func (rctx *ReceiveContext) Self() *PID {
	return rctx.self
}

// Err is used instead of panicking within a message handler.
// The actor is stopped after the current message and watchers observe err as the termination reason.
func (rctx *ReceiveContext) Err(err error) {
	rctx.err = err
}

// Response sets the message response.
// The response is sent to the sender of the message. When there is no sender the
// response ends up as a deadletter.
func (rctx *ReceiveContext) Response(resp any) {
	if rctx.sender == nil {
		rctx.self.system.deadletter(rctx.sender, rctx.self, resp, "no sender to reply to")
		return
	}
	rctx.Tell(rctx.sender, resp)
}

// Context represents the context attached to the message
func (rctx *ReceiveContext) Context() context.Context {
	return rctx.ctx
}

// Sender of the message. It is NoSender when the message was sent with the package-level Tell.
func (rctx *ReceiveContext) Sender() *PID {
	return rctx.sender
}

// Message is the actual message sent
func (rctx *ReceiveContext) Message() any {
	return rctx.message
}

// Logger returns the logger used in the actor system
func (rctx *ReceiveContext) Logger() log.Logger {
	return rctx.self.logger
}

// ActorSystem returns the actor system the receiving actor belongs to
func (rctx *ReceiveContext) ActorSystem() ActorSystem {
	return rctx.self.system
}

// Tell sends an asynchronous message to another PID with the receiver as sender
func (rctx *ReceiveContext) Tell(to *PID, message any) {
	if err := rctx.self.Tell(rctx.ctx, to, message); err != nil {
		rctx.Err(err)
	}
}

// Forward sends the current message to another actor, keeping the original sender
func (rctx *ReceiveContext) Forward(to *PID) {
	if err := deliver(rctx.ctx, rctx.sender, to, rctx.message); err != nil {
		rctx.Err(err)
	}
}

// Unhandled marks the current message as not handled. It ends up as a deadletter.
func (rctx *ReceiveContext) Unhandled() {
	rctx.self.system.deadletter(rctx.sender, rctx.self, rctx.message, "unhandled message")
}

// Watch watches a given actor. The receiver gets a Terminated message when that actor stops.
func (rctx *ReceiveContext) Watch(cid *PID) {
	rctx.self.Watch(cid)
}

// UnWatch stops watching a given actor
func (rctx *ReceiveContext) UnWatch(cid *PID) {
	rctx.self.UnWatch(cid)
}

// Shutdown stops the receiving actor once the current message is handled.
// It never blocks.
func (rctx *ReceiveContext) Shutdown() {
	rctx.self.requestStop(nil)
}

// StartSingleTimer delivers message to the receiver once after the given delay.
// A timer already running under the same key is replaced.
func (rctx *ReceiveContext) StartSingleTimer(key string, message any, delay time.Duration) {
	if err := rctx.self.StartSingleTimer(key, message, delay); err != nil {
		rctx.Err(err)
	}
}

// StartPeriodicTimer delivers message to the receiver at every interval until cancelled.
// A timer already running under the same key is replaced.
func (rctx *ReceiveContext) StartPeriodicTimer(key string, message any, interval time.Duration) {
	if err := rctx.self.StartPeriodicTimer(key, message, interval); err != nil {
		rctx.Err(err)
	}
}

// CancelTimer cancels the timer with the given key
func (rctx *ReceiveContext) CancelTimer(key string) {
	rctx.self.CancelTimer(key)
}

// IsTimerActive returns true when a timer with the given key is live
func (rctx *ReceiveContext) IsTimerActive(key string) bool {
	return rctx.self.IsTimerActive(key)
}

// getError returns any error during message processing
func (rctx *ReceiveContext) getError() error {
	return rctx.err
}
