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

	"github.com/google/uuid"

	gerrors "github.com/tochemey/actorkit/errors"
	"github.com/tochemey/actorkit/future"
)

// Tell sends an asynchronous message to an actor without a sender.
// A message sent to a stopped actor is dropped as a deadletter and Tell returns nil.
func Tell(ctx context.Context, to *PID, message any) error {
	return deliver(ctx, NoSender, to, message)
}

// Ask sends a message to an actor and returns a Future completed with its first reply.
// The reply is collected by a transient actor living under the temp namespace.
//
// The Future fails with:
//   - ErrInvalidTimeout when timeout is not positive
//   - ErrDead when the target is stopped or stops before replying
//   - ErrRequestTimeout when no reply arrives within timeout
//   - the context error when ctx is done first
func Ask(ctx context.Context, to *PID, message any, timeout time.Duration) future.Future {
	if to == nil {
		promise := future.NewPromise()
		promise.Failure(gerrors.ErrUndefinedActor)
		return promise.Future()
	}
	return ask(ctx, to.system, to, message, timeout)
}

func deliver(ctx context.Context, from, to *PID, message any) error {
	if to == nil {
		return gerrors.ErrUndefinedActor
	}

	if message == nil {
		return gerrors.ErrInvalidMessage
	}

	return to.enqueue(newReceiveContext(ctx, from, to, message))
}

// replier collects the first reply of an ask
type replier struct {
	target  *PID
	promise *future.Promise
}

var _ Actor = (*replier)(nil)

func (x *replier) PreStart(context.Context) error { return nil }

func (x *replier) Receive(ctx *ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *PostStart:
	case *Terminated:
		if msg.Actor().Equals(x.target) {
			x.promise.Failure(gerrors.ErrDead)
			ctx.Shutdown()
		}
	default:
		x.promise.Success(msg)
		ctx.Shutdown()
	}
}

func (x *replier) PostStop(context.Context) error { return nil }

func ask(ctx context.Context, system *actorSystem, to *PID, message any, timeout time.Duration) future.Future {
	promise := future.NewPromise()

	switch {
	case timeout <= 0:
		promise.Failure(gerrors.ErrInvalidTimeout)
		return promise.Future()
	case to == nil:
		promise.Failure(gerrors.ErrUndefinedActor)
		return promise.Future()
	case message == nil:
		promise.Failure(gerrors.ErrInvalidMessage)
		return promise.Future()
	case !to.IsRunning():
		promise.Failure(gerrors.ErrDead)
		return promise.Future()
	}

	reply, err := system.spawn(ctx, tempName(), &replier{target: to, promise: promise}, newSpawnConfig(), true)
	if err != nil {
		promise.Failure(err)
		return promise.Future()
	}

	// the target may stop before replying
	reply.Watch(to)

	if err := reply.Tell(ctx, to, message); err != nil {
		promise.Failure(err)
		reply.requestStop(nil)
		reply.process()
		return promise.Future()
	}

	go func() {
		t := system.timerPool.Get(timeout)
		defer system.timerPool.Put(t)

		select {
		case <-reply.stopped:
			// no-op when a reply already completed the promise
			promise.Failure(gerrors.ErrDead)
			return
		case <-t.C:
			promise.Failure(gerrors.ErrRequestTimeout)
		case <-ctx.Done():
			promise.Failure(ctx.Err())
		}

		// late replies become deadletters
		reply.requestStop(nil)
		reply.process()
	}()

	return promise.Future()
}

func tempName() string {
	return tempNamespace + "/" + uuid.NewString()
}
