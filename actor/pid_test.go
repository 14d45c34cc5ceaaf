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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/actorkit/errors"
)

func TestTell(t *testing.T) {
	t.Run("With messages delivered in order", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		actor := newRecorder()
		pid, err := system.Spawn(ctx, "recorder", actor)
		require.NoError(t, err)

		for i := 0; i < 100; i++ {
			require.NoError(t, Tell(ctx, pid, &note{value: i}))
		}

		require.Eventually(t, func() bool { return len(actor.messages()) == 100 }, waitFor, tick)
		for i, msg := range actor.messages() {
			assert.Equal(t, &note{value: i}, msg)
		}
		assert.EqualValues(t, 101, pid.ProcessedCount())

		stopTestSystem(t, system)
	})
	t.Run("With per sender ordering under concurrent senders", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		actor := newRecorder()
		pid, err := system.Spawn(ctx, "recorder", actor)
		require.NoError(t, err)

		const (
			senders   = 4
			perSender = 50
		)

		var wg sync.WaitGroup
		for s := 0; s < senders; s++ {
			wg.Add(1)
			go func(s int) {
				defer wg.Done()
				for i := 0; i < perSender; i++ {
					assert.NoError(t, Tell(ctx, pid, &note{value: s*1000 + i}))
				}
			}(s)
		}
		wg.Wait()

		require.Eventually(t, func() bool { return len(actor.messages()) == senders*perSender }, waitFor, tick)
		last := map[int]int{}
		for _, msg := range actor.messages() {
			value := msg.(*note).value
			sender, seq := value/1000, value%1000
			if previous, ok := last[sender]; ok {
				assert.Greater(t, seq, previous)
			}
			last[sender] = seq
		}

		stopTestSystem(t, system)
	})
	t.Run("With one message at a time", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		actor := newExclusive()
		pid, err := system.Spawn(ctx, "exclusive", actor)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for s := 0; s < 8; s++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 10; i++ {
					assert.NoError(t, Tell(ctx, pid, new(note)))
				}
			}()
		}
		wg.Wait()

		require.Eventually(t, func() bool { return actor.handled.Load() == 80 }, waitFor, tick)
		assert.EqualValues(t, 1, actor.maxInFlight.Load())

		stopTestSystem(t, system)
	})
	t.Run("With a stopped actor", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		pid, err := system.Spawn(ctx, "recorder", newRecorder())
		require.NoError(t, err)
		require.NoError(t, pid.Shutdown(ctx))

		before := system.DeadletterCount()
		require.NoError(t, Tell(ctx, pid, new(note)))
		assert.Equal(t, before+1, system.DeadletterCount())

		stopTestSystem(t, system)
	})
	t.Run("With invalid arguments", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		pid, err := system.Spawn(ctx, "recorder", newRecorder())
		require.NoError(t, err)

		assert.ErrorIs(t, Tell(ctx, nil, new(note)), gerrors.ErrUndefinedActor)
		assert.ErrorIs(t, Tell(ctx, pid, nil), gerrors.ErrInvalidMessage)

		stopTestSystem(t, system)
	})
	t.Run("With a full bounded mailbox", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		actor := newRecorder()
		mailbox := NewBoundedMailbox(2)
		pid, err := system.Spawn(ctx, "bounded", actor, WithMailbox(mailbox))
		require.NoError(t, err)
		require.Eventually(t, mailbox.IsEmpty, waitFor, time.Millisecond)

		require.NoError(t, Tell(ctx, pid, &slow{d: 300 * time.Millisecond}))
		// wait for the actor to be busy with the slow message
		require.Eventually(t, mailbox.IsEmpty, waitFor, time.Millisecond)

		require.NoError(t, Tell(ctx, pid, &note{value: 1}))
		require.NoError(t, Tell(ctx, pid, &note{value: 2}))
		err = Tell(ctx, pid, &note{value: 3})
		assert.ErrorIs(t, err, gerrors.ErrMailboxFull)
		assert.EqualValues(t, 1, system.DeadletterCount())

		require.Eventually(t, func() bool { return len(actor.messages()) == 3 }, waitFor, tick)
		assert.Equal(t, &note{value: 1}, actor.messages()[1])
		assert.Equal(t, &note{value: 2}, actor.messages()[2])

		stopTestSystem(t, system)
	})
	t.Run("With sender set by PID.Tell", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		senders := make(chan *PID, 1)
		receiver, err := system.SpawnFromFunc(ctx, func(ctx *ReceiveContext) {
			senders <- ctx.Sender()
		})
		require.NoError(t, err)

		sender, err := system.Spawn(ctx, "sender", newRecorder())
		require.NoError(t, err)

		require.NoError(t, sender.Tell(ctx, receiver, new(note)))
		select {
		case got := <-senders:
			assert.True(t, got.Equals(sender))
		case <-time.After(waitFor):
			require.Fail(t, "message not received")
		}

		require.NoError(t, Tell(ctx, receiver, new(note)))
		select {
		case got := <-senders:
			assert.True(t, got.Equals(NoSender))
		case <-time.After(waitFor):
			require.Fail(t, "message not received")
		}

		stopTestSystem(t, system)
	})
}

func TestShutdown(t *testing.T) {
	t.Run("With Shutdown", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		actor := newRecorder()
		pid, err := system.Spawn(ctx, "recorder", actor)
		require.NoError(t, err)

		require.NoError(t, pid.Shutdown(ctx))
		assert.False(t, pid.IsRunning())
		assert.EqualValues(t, 1, actor.postStops.Load())
		assert.Zero(t, system.ActorsCount())

		// shutting down twice
		assert.ErrorIs(t, pid.Shutdown(ctx), gerrors.ErrDead)
		assert.ErrorIs(t, NoSender.Shutdown(ctx), gerrors.ErrUndefinedActor)
		assert.EqualValues(t, 1, actor.postStops.Load())

		stopTestSystem(t, system)
	})
	t.Run("With PoisonPill processed in mailbox order", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		actor := newRecorder()
		pid, err := system.Spawn(ctx, "recorder", actor)
		require.NoError(t, err)

		require.NoError(t, Tell(ctx, pid, &note{value: 1}))
		require.NoError(t, Tell(ctx, pid, &note{value: 2}))
		require.NoError(t, Tell(ctx, pid, new(PoisonPill)))
		require.NoError(t, Tell(ctx, pid, &note{value: 3}))

		require.Eventually(t, func() bool { return !pid.IsRunning() }, waitFor, tick)
		// give a late delivery a chance to show up
		time.Sleep(receivingDelay)
		assert.Equal(t, []any{&note{value: 1}, &note{value: 2}}, actor.messages())
		assert.EqualValues(t, 1, actor.postStops.Load())
		assert.GreaterOrEqual(t, system.DeadletterCount(), int64(1))

		stopTestSystem(t, system)
	})
	t.Run("With Shutdown from within the actor", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		watcher := newRecorder()
		watcherPID, err := system.Spawn(ctx, "watcher", watcher)
		require.NoError(t, err)

		pid, err := system.Spawn(ctx, "recorder", newRecorder())
		require.NoError(t, err)
		watcherPID.Watch(pid)

		require.NoError(t, Tell(ctx, pid, new(stop)))
		require.Eventually(t, func() bool { return len(watcher.terminations()) == 1 }, waitFor, tick)
		assert.NoError(t, watcher.terminations()[0].Reason())

		stopTestSystem(t, system)
	})
}

func TestFaults(t *testing.T) {
	t.Run("With Kill", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		watcher := newRecorder()
		watcherPID, err := system.Spawn(ctx, "watcher", watcher)
		require.NoError(t, err)

		pid, err := system.Spawn(ctx, "recorder", newRecorder())
		require.NoError(t, err)
		watcherPID.Watch(pid)

		require.NoError(t, Tell(ctx, pid, new(Kill)))
		require.Eventually(t, func() bool { return len(watcher.terminations()) == 1 }, waitFor, tick)

		terminated := watcher.terminations()[0]
		assert.True(t, terminated.Actor().Equals(pid))
		assert.ErrorIs(t, terminated.Reason(), gerrors.ErrActorKilled)
		assert.False(t, terminated.TerminatedAt().IsZero())

		stopTestSystem(t, system)
	})
	t.Run("With panic contained to the failing actor", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		watcher := newRecorder()
		watcherPID, err := system.Spawn(ctx, "watcher", watcher)
		require.NoError(t, err)

		failing, err := system.Spawn(ctx, "failing", newRecorder())
		require.NoError(t, err)
		watcherPID.Watch(failing)

		healthy, err := system.Spawn(ctx, "healthy", newRecorder())
		require.NoError(t, err)

		require.NoError(t, Tell(ctx, failing, new(boom)))
		require.Eventually(t, func() bool { return len(watcher.terminations()) == 1 }, waitFor, tick)

		var panicErr *gerrors.PanicError
		assert.True(t, errors.As(watcher.terminations()[0].Reason(), &panicErr))
		assert.False(t, failing.IsRunning())

		// the runtime and the other actors keep working
		reply, err := Ask(ctx, healthy, new(ping), askTimeout).Await(ctx)
		require.NoError(t, err)
		assert.IsType(t, new(pong), reply)
		assert.True(t, system.Running())

		stopTestSystem(t, system)
	})
	t.Run("With error reported by the handler", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		watcher := newRecorder()
		watcherPID, err := system.Spawn(ctx, "watcher", watcher)
		require.NoError(t, err)

		actor := newRecorder()
		pid, err := system.Spawn(ctx, "failing", actor)
		require.NoError(t, err)
		watcherPID.Watch(pid)

		cause := errors.New("invalid state")
		require.NoError(t, Tell(ctx, pid, &failure{err: cause}))
		require.Eventually(t, func() bool { return len(watcher.terminations()) == 1 }, waitFor, tick)
		assert.ErrorIs(t, watcher.terminations()[0].Reason(), cause)
		assert.EqualValues(t, 1, actor.postStops.Load())

		stopTestSystem(t, system)
	})
}

func TestReceiveContext(t *testing.T) {
	t.Run("With Forward keeping the original sender", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		target, err := system.Spawn(ctx, "target", newRecorder())
		require.NoError(t, err)

		relay, err := system.Spawn(ctx, "relay", &forwarder{to: target})
		require.NoError(t, err)

		reply, err := Ask(ctx, relay, new(ping), askTimeout).Await(ctx)
		require.NoError(t, err)
		assert.IsType(t, new(pong), reply)

		stopTestSystem(t, system)
	})
	t.Run("With Unhandled recorded as deadletter", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		pid, err := system.SpawnFromFunc(ctx, func(ctx *ReceiveContext) {
			ctx.Unhandled()
		})
		require.NoError(t, err)

		require.NoError(t, Tell(ctx, pid, new(note)))
		require.Eventually(t, func() bool { return system.DeadletterCount() == 1 }, waitFor, tick)
		assert.True(t, pid.IsRunning())

		stopTestSystem(t, system)
	})
	t.Run("With Response without sender", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		pid, err := system.Spawn(ctx, "recorder", newRecorder())
		require.NoError(t, err)

		require.NoError(t, Tell(ctx, pid, new(ping)))
		require.Eventually(t, func() bool { return system.DeadletterCount() == 1 }, waitFor, tick)
		assert.True(t, pid.IsRunning())

		stopTestSystem(t, system)
	})
	t.Run("With accessors", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		checked := make(chan struct{})
		var self *PID
		pid, err := system.SpawnFromFunc(ctx, func(rctx *ReceiveContext) {
			assert.True(t, rctx.Self().Equals(self))
			assert.Equal(t, system, rctx.ActorSystem())
			assert.NotNil(t, rctx.Logger())
			assert.NotNil(t, rctx.Context())
			assert.IsType(t, new(note), rctx.Message())
			close(checked)
		})
		require.NoError(t, err)
		self = pid

		require.NoError(t, Tell(ctx, pid, new(note)))
		select {
		case <-checked:
		case <-time.After(waitFor):
			require.Fail(t, "message not received")
		}

		stopTestSystem(t, system)
	})
}

func TestInvoke(t *testing.T) {
	t.Run("With calling goroutine dispatch", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		actor := newRecorder()
		pid, err := system.Spawn(ctx, "recorder", actor, WithCallingGoroutine())
		require.NoError(t, err)

		require.NoError(t, Tell(ctx, pid, &note{value: 1}))
		// handled before Tell returns
		require.Equal(t, []any{&note{value: 1}}, actor.messages())
		assert.EqualValues(t, 2, pid.ProcessedCount())

		stopTestSystem(t, system)
	})
	t.Run("With handler failures returned without stopping the actor", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		actor := newRecorder()
		pid, err := system.Spawn(ctx, "recorder", actor)
		require.NoError(t, err)

		expected := errors.New("expected")
		require.ErrorIs(t, pid.Invoke(ctx, NoSender, &failure{err: expected}), expected)

		err = pid.Invoke(ctx, NoSender, new(boom))
		var panicErr *gerrors.PanicError
		require.ErrorAs(t, err, &panicErr)

		require.True(t, pid.IsRunning())
		require.NoError(t, pid.Invoke(ctx, NoSender, &note{value: 2}))
		require.Equal(t, []any{&note{value: 2}}, actor.messages())
		assert.Zero(t, actor.postStops.Load())

		stopTestSystem(t, system)
	})
	t.Run("With a stopped actor", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		pid, err := system.Spawn(ctx, "recorder", newRecorder())
		require.NoError(t, err)
		require.NoError(t, pid.Shutdown(ctx))

		require.ErrorIs(t, pid.Invoke(ctx, NoSender, &note{value: 1}), gerrors.ErrDead)

		stopTestSystem(t, system)
	})
	t.Run("With invalid arguments", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		pid, err := system.Spawn(ctx, "recorder", newRecorder())
		require.NoError(t, err)

		var nilPID *PID
		require.ErrorIs(t, nilPID.Invoke(ctx, NoSender, &note{}), gerrors.ErrUndefinedActor)
		require.ErrorIs(t, pid.Invoke(ctx, NoSender, nil), gerrors.ErrInvalidMessage)

		stopTestSystem(t, system)
	})
}
