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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/actorkit/errors"
)

func TestTimers(t *testing.T) {
	t.Run("With single timer", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		actor := newRecorder()
		pid, err := system.Spawn(ctx, "recorder", actor)
		require.NoError(t, err)

		start := time.Now()
		require.NoError(t, pid.StartSingleTimer("tick", &note{value: 1}, receivingDelay))
		assert.True(t, pid.IsTimerActive("tick"))

		require.Eventually(t, func() bool { return len(actor.messages()) == 1 }, waitFor, tick)
		assert.GreaterOrEqual(t, time.Since(start), receivingDelay)
		assert.Equal(t, &note{value: 1}, actor.messages()[0])
		assert.False(t, pid.IsTimerActive("tick"))

		// nothing else shows up
		time.Sleep(2 * receivingDelay)
		assert.Len(t, actor.messages(), 1)

		stopTestSystem(t, system)
	})
	t.Run("With the same key started twice", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		actor := newRecorder()
		pid, err := system.Spawn(ctx, "recorder", actor)
		require.NoError(t, err)

		require.NoError(t, pid.StartSingleTimer("tick", &note{value: 1}, receivingDelay))
		require.NoError(t, pid.StartSingleTimer("tick", &note{value: 2}, receivingDelay))

		require.Eventually(t, func() bool { return len(actor.messages()) == 1 }, waitFor, tick)
		time.Sleep(3 * receivingDelay)
		assert.Equal(t, []any{&note{value: 2}}, actor.messages())

		stopTestSystem(t, system)
	})
	t.Run("With a replaced timer that already fired", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		actor := newRecorder()
		pid, err := system.Spawn(ctx, "recorder", actor)
		require.NoError(t, err)

		// keep the actor busy so the first timer message waits in the mailbox
		busyFor := &slow{d: 4 * receivingDelay}
		require.NoError(t, Tell(ctx, pid, busyFor))
		require.NoError(t, pid.StartSingleTimer("tick", &note{value: 1}, 10*time.Millisecond))
		time.Sleep(2 * receivingDelay)

		require.NoError(t, pid.StartSingleTimer("tick", &note{value: 2}, 10*time.Millisecond))

		require.Eventually(t, func() bool { return len(actor.messages()) == 2 }, waitFor, tick)
		time.Sleep(receivingDelay)
		assert.Equal(t, []any{busyFor, &note{value: 2}}, actor.messages())

		stopTestSystem(t, system)
	})
	t.Run("With cancelled timer", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		actor := newRecorder()
		pid, err := system.Spawn(ctx, "recorder", actor)
		require.NoError(t, err)

		require.NoError(t, pid.StartSingleTimer("tick", &note{value: 1}, receivingDelay))
		pid.CancelTimer("tick")
		assert.False(t, pid.IsTimerActive("tick"))

		time.Sleep(3 * receivingDelay)
		assert.Empty(t, actor.messages())

		// cancelling an unknown key is a no-op
		pid.CancelTimer("unknown")

		stopTestSystem(t, system)
	})
	t.Run("With periodic timer", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		actor := newRecorder()
		pid, err := system.Spawn(ctx, "recorder", actor)
		require.NoError(t, err)

		require.NoError(t, pid.StartPeriodicTimer("heartbeat", new(note), 50*time.Millisecond))
		require.Eventually(t, func() bool { return len(actor.messages()) >= 3 }, waitFor, tick)
		assert.True(t, pid.IsTimerActive("heartbeat"))

		pid.CancelAllTimers()
		assert.False(t, pid.IsTimerActive("heartbeat"))

		// a message already in flight may still land; then it stops
		time.Sleep(receivingDelay)
		count := len(actor.messages())
		time.Sleep(3 * receivingDelay)
		assert.Len(t, actor.messages(), count)

		stopTestSystem(t, system)
	})
	t.Run("With timer started from the actor", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		received := make(chan any, 1)
		pid, err := system.SpawnFromFunc(ctx, func(ctx *ReceiveContext) {
			switch msg := ctx.Message().(type) {
			case *ping:
				ctx.StartSingleTimer("reminder", &note{value: 7}, 10*time.Millisecond)
				assert.True(t, ctx.IsTimerActive("reminder"))
			case *note:
				received <- msg
			}
		})
		require.NoError(t, err)

		require.NoError(t, Tell(ctx, pid, new(ping)))
		select {
		case msg := <-received:
			assert.Equal(t, &note{value: 7}, msg)
		case <-time.After(waitFor):
			require.Fail(t, "timer message not received")
		}

		stopTestSystem(t, system)
	})
	t.Run("With zero delay", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		actor := newRecorder()
		pid, err := system.Spawn(ctx, "recorder", actor)
		require.NoError(t, err)

		require.NoError(t, pid.StartSingleTimer("now", &note{value: 1}, 0))
		require.Eventually(t, func() bool { return len(actor.messages()) == 1 }, waitFor, tick)

		stopTestSystem(t, system)
	})
	t.Run("With timers released on shutdown", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		pid, err := system.Spawn(ctx, "recorder", newRecorder())
		require.NoError(t, err)

		require.NoError(t, pid.StartSingleTimer("tick", new(note), receivingDelay))
		require.NoError(t, pid.Shutdown(ctx))
		assert.False(t, pid.IsTimerActive("tick"))

		time.Sleep(2 * receivingDelay)
		assert.Zero(t, system.DeadletterCount())

		stopTestSystem(t, system)
	})
	t.Run("With invalid arguments", func(t *testing.T) {
		ctx := context.TODO()
		system := newTestSystem(t)

		pid, err := system.Spawn(ctx, "recorder", newRecorder())
		require.NoError(t, err)

		assert.ErrorIs(t, pid.StartSingleTimer("", new(note), time.Second), gerrors.ErrInvalidTimerKey)
		assert.ErrorIs(t, pid.StartSingleTimer("tick", nil, time.Second), gerrors.ErrInvalidMessage)
		assert.ErrorIs(t, pid.StartPeriodicTimer("tick", new(note), 0), gerrors.ErrInvalidTimeout)

		require.NoError(t, pid.Shutdown(ctx))
		assert.ErrorIs(t, pid.StartSingleTimer("tick", new(note), time.Second), gerrors.ErrDead)
		assert.ErrorIs(t, pid.StartPeriodicTimer("tick", new(note), time.Second), gerrors.ErrDead)

		stopTestSystem(t, system)
	})
}
