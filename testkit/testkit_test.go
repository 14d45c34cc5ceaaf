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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tochemey/actorkit/actor"
	"github.com/tochemey/actorkit/log"
)

func TestTestKit(t *testing.T) {
	t.Run("With actors", func(t *testing.T) {
		ctx := context.TODO()
		testkit := New(ctx, t)
		require.True(t, testkit.ActorSystem().Running())

		pinger := testkit.Spawn(ctx, "pinger", &pinger{})
		require.Equal(t, "pinger", pinger.Name())

		anonymous := testkit.ActorOf(ctx, &echo{})
		require.True(t, anonymous.IsRunning())

		fromFunc := testkit.SpawnFromFunc(ctx, func(ctx *actor.ReceiveContext) {
			if ctx.Message() == "ping" {
				ctx.Response("pong")
			}
		})

		probe := testkit.NewProbe(ctx)
		require.NoError(t, probe.PID().Tell(ctx, fromFunc, "ping"))
		probe.ExpectMessage("pong")
		require.True(t, fromFunc.Equals(probe.Sender()))

		probe.Stop()
		testkit.Shutdown(ctx)
		require.False(t, testkit.ActorSystem().Running())
		require.False(t, pinger.IsRunning())
	})
	t.Run("With logging", func(t *testing.T) {
		ctx := context.TODO()
		testkit := New(ctx, t, WithLogging(log.ErrorLevel))
		require.Equal(t, log.ErrorLevel, testkit.ActorSystem().Logger().LogLevel())
		testkit.Shutdown(ctx)
	})
	t.Run("With config", func(t *testing.T) {
		ctx := context.TODO()
		config := DefaultConfig()
		config.TimeFactor = 3
		config.SingleExpectDefault = 200 * time.Millisecond

		testkit := New(ctx, t, WithConfig(config))
		assert.EqualValues(t, 3, testkit.Config().TimeFactor)
		assert.Equal(t, 3*time.Second, testkit.Dilated(time.Second))

		// the kit keeps its own copy
		config.TimeFactor = 10
		assert.EqualValues(t, 3, testkit.Config().TimeFactor)

		probe := testkit.NewProbe(ctx)
		start := time.Now()
		rt := runFailing(func(rt *recordingT) {
			probeFor(t, testkit, probe, rt).ExpectAnyMessage()
		})
		require.True(t, rt.Failed())
		require.GreaterOrEqual(t, time.Since(start), 600*time.Millisecond)

		probe.Stop()
		testkit.Shutdown(ctx)
	})
	t.Run("With time factor from the environment", func(t *testing.T) {
		t.Setenv(TimeFactorEnv, "4")
		ctx := context.TODO()

		testkit := New(ctx, t)
		assert.EqualValues(t, 4, testkit.Config().TimeFactor)
		testkit.Shutdown(ctx)

		// an explicit factor wins over the environment
		testkit = New(ctx, t, WithTimeFactor(2))
		assert.EqualValues(t, 2, testkit.Config().TimeFactor)
		testkit.Shutdown(ctx)
	})
	t.Run("With invalid time factor", func(t *testing.T) {
		ctx := context.TODO()
		rt := runFailing(func(rt *recordingT) {
			New(ctx, rt, WithTimeFactor(-1))
		})
		require.True(t, rt.Failed())
	})
}
