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
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tochemey/actorkit/actor"
	"github.com/tochemey/actorkit/log"
)

// TestingT is the subset of testing.TB the testkit reports failures to
type TestingT interface {
	Errorf(format string, args ...any)
	FailNow()
}

type helper interface {
	Helper()
}

// TestKit defines actor test kit
type TestKit struct {
	actorSystem actor.ActorSystem
	kt          TestingT
	logger      log.Logger
	config      *Config
	timeFactor  float64
}

// New creates an instance of TestKit
func New(ctx context.Context, t TestingT, opts ...Option) *TestKit {
	// create the testkit instance
	testkit := &TestKit{
		kt:     t,
		logger: log.DiscardLogger,
		config: DefaultConfig(),
	}
	// apply the various options
	for _, opt := range opts {
		opt.Apply(testkit)
	}

	require.NoError(t, testkit.config.applyEnv())
	if testkit.timeFactor != 0 {
		testkit.config.TimeFactor = testkit.timeFactor
	}
	require.NoError(t, testkit.config.Validate())

	// create an actor system
	system, err := actor.NewActorSystem(
		"testkit",
		actor.WithLogger(testkit.logger),
		actor.WithActorInitTimeout(time.Second),
		actor.WithActorInitMaxRetries(5),
		actor.WithShutdownTimeout(testkit.config.DefaultTimeout))
	require.NoError(t, err)

	// start the actor system
	startCtx, cancel := context.WithTimeout(ctx, testkit.config.DefaultTimeout)
	defer cancel()
	require.NoError(t, system.Start(startCtx))

	testkit.actorSystem = system
	return testkit
}

// ActorSystem returns the testkit actor system
func (k *TestKit) ActorSystem() actor.ActorSystem {
	return k.actorSystem
}

// Config returns a copy of the effective configuration
func (k *TestKit) Config() Config {
	return *k.config
}

// Spawn creates an actor
func (k *TestKit) Spawn(ctx context.Context, name string, a actor.Actor, opts ...actor.SpawnOption) *actor.PID {
	pid, err := k.actorSystem.Spawn(ctx, name, a, opts...)
	require.NoError(k.kt, err)
	return pid
}

// ActorOf creates an actor with a generated name
func (k *TestKit) ActorOf(ctx context.Context, a actor.Actor, opts ...actor.SpawnOption) *actor.PID {
	pid, err := k.actorSystem.ActorOf(ctx, a, opts...)
	require.NoError(k.kt, err)
	return pid
}

// SpawnFromFunc creates an actor from the given receive function
func (k *TestKit) SpawnFromFunc(ctx context.Context, receiveFunc actor.ReceiveFunc, opts ...actor.FuncOption) *actor.PID {
	pid, err := k.actorSystem.SpawnFromFunc(ctx, receiveFunc, opts...)
	require.NoError(k.kt, err)
	return pid
}

// NewProbe create a test probe
func (k *TestKit) NewProbe(ctx context.Context, opts ...ProbeOption) Probe {
	// create an instance of TestProbe
	testProbe, err := newProbe(ctx, k.actorSystem, k.kt, k.config, opts...)
	require.NoError(k.kt, err)
	return testProbe
}

// Dilated scales the duration by the time factor
func (k *TestKit) Dilated(duration time.Duration) time.Duration {
	return k.config.dilated(duration)
}

// Shutdown stops the test kit
func (k *TestKit) Shutdown(ctx context.Context) {
	require.NoError(k.kt, k.actorSystem.Stop(ctx))
}
