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
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	gerrors "github.com/tochemey/actorkit/errors"
	"github.com/tochemey/actorkit/internal/metric"
	"github.com/tochemey/actorkit/internal/timer"
	"github.com/tochemey/actorkit/internal/validation"
	"github.com/tochemey/actorkit/internal/workerpool"
	"github.com/tochemey/actorkit/internal/xsync"
	"github.com/tochemey/actorkit/log"
)

var (
	systemNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-_]*$`)
	actorNameRegex  = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-_.]*$`)
)

// ActorSystem defines the contract of an actor system
type ActorSystem interface {
	// Name returns the actor system name
	Name() string
	// Start starts the actor system
	Start(ctx context.Context) error
	// Stop stops the actor system and every actor it runs
	Stop(ctx context.Context) error
	// Running returns true when the actor system is running
	Running() bool
	// Spawn creates an actor with the given name and starts it.
	// It returns ErrActorAlreadyExists when a live actor already uses the name.
	Spawn(ctx context.Context, name string, actor Actor, opts ...SpawnOption) (*PID, error)
	// ActorOf creates an actor with a generated unique name and starts it.
	ActorOf(ctx context.Context, actor Actor, opts ...SpawnOption) (*PID, error)
	// SpawnFromFunc creates an actor from the given receive function and starts it.
	SpawnFromFunc(ctx context.Context, receiveFunc ReceiveFunc, opts ...FuncOption) (*PID, error)
	// LocalActor returns the live actor with the given name
	LocalActor(actorName string) (*PID, error)
	// Actors returns the list of live actors
	Actors() []*PID
	// ActorsCount returns the number of live actors
	ActorsCount() int
	// DeadletterCount returns the number of messages that could not be delivered
	DeadletterCount() int64
	// Logger returns the logger set when creating the actor system
	Logger() log.Logger
}

// actorSystem represent a collection of actors on a given node
type actorSystem struct {
	name   string
	logger log.Logger

	// actors keyed by path
	actors *xsync.Map[string, *PID]

	started  *atomic.Bool
	stopping *atomic.Bool

	actorInitMaxRetries int
	actorInitTimeout    time.Duration
	shutdownTimeout     time.Duration
	workerShards        int

	workerPool *workerpool.WorkerPool
	scheduler  *scheduler
	timerPool  *timer.Pool

	deadlettersCount *atomic.Int64
	processedCount   *atomic.Int64

	metricsEnabled      bool
	metricsRegistration otelmetric.Registration
}

// enforce compilation error
var _ ActorSystem = (*actorSystem)(nil)

// NewActorSystem creates an instance of ActorSystem
func NewActorSystem(name string, opts ...Option) (ActorSystem, error) {
	if err := validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator(name, gerrors.ErrNameRequired)).
		AddValidator(validation.NewPatternValidator(systemNameRegex, name, gerrors.ErrInvalidActorSystemName)).
		Validate(); err != nil {
		return nil, err
	}

	system := &actorSystem{
		name:                name,
		logger:              log.DefaultLogger,
		actors:              xsync.NewMap[string, *PID](),
		started:             atomic.NewBool(false),
		stopping:            atomic.NewBool(false),
		actorInitMaxRetries: DefaultInitMaxRetries,
		actorInitTimeout:    DefaultInitTimeout,
		shutdownTimeout:     DefaultShutdownTimeout,
		workerShards:        DefaultWorkerShards,
		timerPool:           timer.NewPool(),
		deadlettersCount:    atomic.NewInt64(0),
		processedCount:      atomic.NewInt64(0),
	}

	for _, opt := range opts {
		opt.Apply(system)
	}

	return system, nil
}

// Name returns the actor system name
func (x *actorSystem) Name() string {
	return x.name
}

// Logger returns the logger set when creating the actor system
func (x *actorSystem) Logger() log.Logger {
	return x.logger
}

// Running returns true when the actor system is running
func (x *actorSystem) Running() bool {
	return x.started.Load() && !x.stopping.Load()
}

// Start starts the actor system
func (x *actorSystem) Start(ctx context.Context) error {
	if x.started.Load() {
		return gerrors.ErrActorSystemAlreadyStarted
	}

	x.logger.Infof("%s actor system starting..", x.name)

	x.workerPool = workerpool.New(workerpool.WithNumShards(x.workerShards))
	x.workerPool.Start()

	x.scheduler = newScheduler(x.logger)
	x.scheduler.Start(ctx)

	if x.metricsEnabled {
		if err := x.registerMetrics(); err != nil {
			x.workerPool.Stop()
			return multierr.Combine(err, x.scheduler.Stop(ctx))
		}
	}

	x.stopping.Store(false)
	x.started.Store(true)
	x.logger.Infof("%s actor system successfully started..:)", x.name)
	return nil
}

// Stop stops the actor system and every actor it runs.
// Actors are stopped concurrently within the shutdown timeout. It must not be called from within an actor.
func (x *actorSystem) Stop(ctx context.Context) error {
	if !x.started.Load() {
		return gerrors.ErrActorSystemNotStarted
	}

	if !x.stopping.CompareAndSwap(false, true) {
		return nil
	}

	x.logger.Infof("%s actor system is shutting down..:)", x.name)

	ctx, cancel := context.WithTimeout(ctx, x.shutdownTimeout)
	defer cancel()

	eg := new(errgroup.Group)
	for _, pid := range x.actors.Values() {
		eg.Go(func() error {
			if err := pid.Shutdown(ctx); err != nil && !errors.Is(err, gerrors.ErrDead) {
				return err
			}
			return nil
		})
	}

	err := multierr.Combine(
		eg.Wait(),
		x.scheduler.Stop(ctx),
		x.unregisterMetrics(),
	)

	// a handler still running past the deadline keeps its worker until it returns
	if perr := x.workerPool.StopContext(ctx); perr != nil && !errors.Is(err, perr) {
		err = multierr.Append(err, perr)
	}
	x.actors.Reset()
	x.started.Store(false)

	if err != nil {
		x.logger.Errorf("%s actor system shutdown with errors: %v", x.name, err)
		return err
	}

	x.logger.Infof("%s actor system successfully shutdown..:)", x.name)
	return nil
}

// Spawn creates an actor with the given name and starts it
func (x *actorSystem) Spawn(ctx context.Context, name string, actor Actor, opts ...SpawnOption) (*PID, error) {
	if !x.Running() {
		return nil, gerrors.ErrActorSystemNotStarted
	}

	if err := validation.New(validation.FailFast()).
		AddAssertion(actor != nil, gerrors.ErrUndefinedActor).
		AddValidator(validation.NewPatternValidator(actorNameRegex, name, fmt.Errorf("actor=(%s) %w", name, gerrors.ErrInvalidActorName))).
		Validate(); err != nil {
		return nil, err
	}

	return x.spawn(ctx, name, actor, newSpawnConfig(opts...), false)
}

// ActorOf creates an actor with a generated unique name and starts it
func (x *actorSystem) ActorOf(ctx context.Context, actor Actor, opts ...SpawnOption) (*PID, error) {
	return x.Spawn(ctx, uuid.NewString(), actor, opts...)
}

// SpawnFromFunc creates an actor from the given receive function and starts it
func (x *actorSystem) SpawnFromFunc(ctx context.Context, receiveFunc ReceiveFunc, opts ...FuncOption) (*PID, error) {
	if receiveFunc == nil {
		return nil, gerrors.ErrUndefinedActor
	}

	actor := NewFuncActor(receiveFunc, opts...)
	var spawnOpts []SpawnOption
	if actor.config.mailbox != nil {
		spawnOpts = append(spawnOpts, WithMailbox(actor.config.mailbox))
	}
	return x.ActorOf(ctx, actor, spawnOpts...)
}

// LocalActor returns the live actor with the given name
func (x *actorSystem) LocalActor(actorName string) (*PID, error) {
	if !x.started.Load() {
		return nil, gerrors.ErrActorSystemNotStarted
	}

	path := x.pathOf(actorName)
	pid, ok := x.actors.Get(path)
	if !ok || !pid.IsRunning() {
		return nil, gerrors.NewErrActorNotFound(path)
	}
	return pid, nil
}

// Actors returns the list of live actors. Ask reply actors are not listed.
func (x *actorSystem) Actors() []*PID {
	pids := x.actors.Values()
	actors := make([]*PID, 0, len(pids))
	for _, pid := range pids {
		if !pid.temp && pid.IsRunning() {
			actors = append(actors, pid)
		}
	}
	return actors
}

// ActorsCount returns the number of live actors
func (x *actorSystem) ActorsCount() int {
	return len(x.Actors())
}

// DeadletterCount returns the number of messages that could not be delivered
func (x *actorSystem) DeadletterCount() int64 {
	return x.deadlettersCount.Load()
}

func (x *actorSystem) spawn(ctx context.Context, name string, actor Actor, config *spawnConfig, temp bool) (*PID, error) {
	pid := newPID(x, name, actor, config, temp)
	if _, stored := x.actors.SetIfAbsent(pid.path, pid); !stored {
		return nil, gerrors.NewErrActorAlreadyExists(name)
	}

	if err := pid.init(ctx); err != nil {
		x.actors.Delete(pid.path)
		return nil, err
	}

	_ = pid.enqueue(newReceiveContext(ctx, NoSender, pid, new(PostStart)))
	return pid, nil
}

// deregister releases the actor name
func (x *actorSystem) deregister(pid *PID) {
	x.actors.DeleteIf(pid.path, func(registered *PID) bool {
		return registered == pid
	})
}

// submit runs the given task on the worker pool
func (x *actorSystem) submit(key string, task func()) error {
	pool := x.workerPool
	if pool == nil {
		return workerpool.ErrPoolStopped
	}
	return pool.Submit(key, task)
}

// deadletter records a message that could not be delivered
func (x *actorSystem) deadletter(from, to *PID, message any, reason string) {
	x.deadlettersCount.Inc()
	x.logger.Debugf("deadletter: message=(%T) sender=(%s) receiver=(%s) reason=(%s)", message, from.Path(), to.Path(), reason)
}

func (x *actorSystem) pathOf(name string) string {
	return fmt.Sprintf("%s://%s/%s", protocol, x.name, name)
}

// registerMetrics registers the actor system instruments on the global meter provider
func (x *actorSystem) registerMetrics() error {
	meter := metric.NewProvider().Meter()
	instruments, err := metric.NewActorSystemMetric(meter)
	if err != nil {
		return err
	}

	x.metricsRegistration, err = meter.RegisterCallback(func(_ context.Context, observer otelmetric.Observer) error {
		observer.ObserveInt64(instruments.ActorsCount(), int64(x.ActorsCount()))
		observer.ObserveInt64(instruments.DeadlettersCount(), x.DeadletterCount())
		observer.ObserveInt64(instruments.ProcessedCount(), x.processedCount.Load())
		return nil
	}, instruments.ActorsCount(), instruments.DeadlettersCount(), instruments.ProcessedCount())
	return err
}

func (x *actorSystem) unregisterMetrics() error {
	if x.metricsRegistration == nil {
		return nil
	}
	err := x.metricsRegistration.Unregister()
	x.metricsRegistration = nil
	return err
}
