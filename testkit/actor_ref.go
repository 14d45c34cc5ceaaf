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

package testkit

import (
	"context"

	"github.com/stretchr/testify/require"

	"github.com/tochemey/actorkit/actor"
)

// ActorRef is an actor processed on the test goroutine.
// Messages told through the ref are handled before Tell returns, and the underlying
// actor can be inspected directly.
type ActorRef[T actor.Actor] struct {
	pt         TestingT
	testCtx    context.Context
	pid        *actor.PID
	underlying T
}

// NewActorRef spawns the given actor with synchronous dispatch
func NewActorRef[T actor.Actor](ctx context.Context, kit *TestKit, name string, underlying T) *ActorRef[T] {
	pid := kit.Spawn(ctx, name, underlying, actor.WithCallingGoroutine())
	return &ActorRef[T]{
		pt:         kit.kt,
		testCtx:    ctx,
		pid:        pid,
		underlying: underlying,
	}
}

// UnderlyingActor returns the actor instance
func (r *ActorRef[T]) UnderlyingActor() T {
	return r.underlying
}

// PID returns the pid of the actor
func (r *ActorRef[T]) PID() *actor.PID {
	return r.pid
}

// Tell sends the message without a sender and returns once it is handled
func (r *ActorRef[T]) Tell(message any) {
	require.NoError(r.pt, actor.Tell(r.testCtx, r.pid, message))
}

// Receive runs the actor handler for message and returns the handler failure.
// The actor keeps running after a failure.
func (r *ActorRef[T]) Receive(message any) error {
	return r.pid.Invoke(r.testCtx, actor.NoSender, message)
}

// ReceiveFrom is Receive with the given sender
func (r *ActorRef[T]) ReceiveFrom(sender *actor.PID, message any) error {
	return r.pid.Invoke(r.testCtx, sender, message)
}

// Stop stops the actor
func (r *ActorRef[T]) Stop() {
	require.NoError(r.pt, r.pid.Shutdown(r.testCtx))
}
