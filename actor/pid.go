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
	"runtime"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/flowchartsman/retry"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/actorkit/errors"
	"github.com/tochemey/actorkit/future"
	"github.com/tochemey/actorkit/log"
)

// processing flags
const (
	idle int32 = iota
	busy
)

// lifecycle states
const (
	startingState int32 = iota
	runningState
	stoppingState
	stoppedState
)

// NoSender is the absent sender of a message
var NoSender *PID

// PID specifies an actor unique process
// With the PID one can send a ReceiveContext to the actor
type PID struct {
	name   string
	path   string
	actor  Actor
	system *actorSystem
	logger log.Logger

	mailbox    Mailbox
	processing *atomic.Int32
	state      *atomic.Int32

	// stop request and the reason attached to it
	stopRequested *atomic.Bool
	reasonMu      sync.Mutex
	stopReason    error
	stopped       chan struct{}

	// watchMu guards watchers and watchersNotified
	watchMu          sync.Mutex
	watchersNotified bool
	watchers         mapset.Set[*PID]
	watchees         mapset.Set[*PID]

	timers *timers

	initMaxRetries int
	initTimeout    time.Duration
	processedCount *atomic.Int64

	// temp actors are the reply actors of the ask gateway
	temp bool

	// callingGoroutine drains the mailbox on the enqueuing goroutine
	callingGoroutine bool
}

func newPID(system *actorSystem, name string, actor Actor, config *spawnConfig, temp bool) *PID {
	mailbox := config.mailbox
	if mailbox == nil {
		mailbox = NewUnboundedMailbox()
	}

	initTimeout := system.actorInitTimeout
	if config.initTimeout > 0 {
		initTimeout = config.initTimeout
	}

	pid := &PID{
		name:           name,
		path:           fmt.Sprintf("%s://%s/%s", protocol, system.name, name),
		actor:          actor,
		system:         system,
		logger:         system.logger,
		mailbox:        mailbox,
		processing:     atomic.NewInt32(idle),
		state:          atomic.NewInt32(startingState),
		stopRequested:  atomic.NewBool(false),
		stopped:        make(chan struct{}),
		watchers:       mapset.NewSet[*PID](),
		watchees:       mapset.NewSet[*PID](),
		initMaxRetries: system.actorInitMaxRetries,
		initTimeout:    initTimeout,
		processedCount: atomic.NewInt64(0),
		temp:           temp,

		callingGoroutine: config.callingGoroutine,
	}
	pid.timers = newTimers(pid, system.scheduler)
	return pid
}

// Name returns the actor name
func (pid *PID) Name() string {
	if pid == nil {
		return ""
	}
	return pid.name
}

// Path returns the actor path. The path uniquely identifies the actor within its actor system.
func (pid *PID) Path() string {
	if pid == nil {
		return ""
	}
	return pid.path
}

// String returns the actor path
func (pid *PID) String() string {
	return pid.Path()
}

// Equals is a convenient method to compare two PIDs
func (pid *PID) Equals(to *PID) bool {
	if pid == nil || to == nil {
		return pid == to
	}
	return pid.path == to.path
}

// IsRunning returns true when the actor is alive and ready to process messages
func (pid *PID) IsRunning() bool {
	return pid != nil && pid.state.Load() == runningState
}

// ActorSystem returns the actor system the actor belongs to
func (pid *PID) ActorSystem() ActorSystem {
	return pid.system
}

// Logger returns the logger of the actor
func (pid *PID) Logger() log.Logger {
	return pid.logger
}

// ProcessedCount returns the number of messages handled by the actor
func (pid *PID) ProcessedCount() int64 {
	return pid.processedCount.Load()
}

// Tell sends an asynchronous message to another PID with this PID as sender.
// A message sent to a stopped actor is dropped as a deadletter and Tell returns nil.
func (pid *PID) Tell(ctx context.Context, to *PID, message any) error {
	return deliver(ctx, pid, to, message)
}

// Ask sends a message to the given actor and returns a Future completed with the first reply.
// See the package-level Ask.
func (pid *PID) Ask(ctx context.Context, to *PID, message any, timeout time.Duration) future.Future {
	return ask(ctx, pid.system, to, message, timeout)
}

// Shutdown gracefully shuts down the given actor.
// No further user message is processed. PostStop runs on the actor processing lane
// and Shutdown returns once the actor is fully terminated or ctx is done.
// It must not be called by the actor on itself; use ReceiveContext.Shutdown instead.
func (pid *PID) Shutdown(ctx context.Context) error {
	if pid == nil {
		return gerrors.ErrUndefinedActor
	}

	if pid.state.Load() == stoppedState {
		return gerrors.ErrDead
	}

	pid.logger.Debugf("Shutdown requested for Actor %s...", pid.path)
	pid.requestStop(nil)
	pid.process()

	select {
	case <-pid.stopped:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to stop actor=(%s): %w", pid.path, ctx.Err())
	}
}

// StartSingleTimer delivers message to the actor once after the given delay.
// Starting a timer with a key already in use cancels and replaces the previous timer.
func (pid *PID) StartSingleTimer(key string, message any, delay time.Duration) error {
	if !pid.IsRunning() {
		return gerrors.ErrDead
	}
	return pid.timers.start(key, message, delay, false)
}

// StartPeriodicTimer delivers message to the actor at every interval until cancelled.
// Starting a timer with a key already in use cancels and replaces the previous timer.
func (pid *PID) StartPeriodicTimer(key string, message any, interval time.Duration) error {
	if !pid.IsRunning() {
		return gerrors.ErrDead
	}
	return pid.timers.start(key, message, interval, true)
}

// CancelTimer cancels the timer with the given key.
// A message already fired by that timer and still in the mailbox is discarded.
func (pid *PID) CancelTimer(key string) {
	pid.timers.cancel(key)
}

// IsTimerActive returns true when the timer with the given key has not fired or been cancelled yet.
// A periodic timer stays active until cancelled.
func (pid *PID) IsTimerActive(key string) bool {
	return pid.timers.isActive(key)
}

// CancelAllTimers cancels every timer of the actor
func (pid *PID) CancelAllTimers() {
	pid.timers.cancelAll()
}

// enqueue pushes the message into the mailbox and schedules its processing
func (pid *PID) enqueue(received *ReceiveContext) error {
	if !pid.IsRunning() {
		pid.system.deadletter(received.sender, pid, received.message, "actor is not alive")
		return nil
	}

	if err := pid.mailbox.Enqueue(received); err != nil {
		pid.system.deadletter(received.sender, pid, received.message, err.Error())
		if errors.Is(err, gerrors.ErrMailboxFull) {
			return err
		}
		return nil
	}

	pid.process()
	return nil
}

// process schedules the mailbox draining loop when the actor is idle.
// Only one loop runs at a time for a given actor.
func (pid *PID) process() {
	if !pid.processing.CompareAndSwap(idle, busy) {
		return
	}

	if pid.callingGoroutine {
		pid.drain()
		return
	}

	if err := pid.system.submit(pid.path, pid.drain); err != nil {
		go pid.drain()
	}
}

// drain handles every message in the mailbox and terminates the actor once a stop is requested
func (pid *PID) drain() {
	for {
		if pid.stopRequested.Load() {
			pid.terminate()
			return
		}

		if received := pid.mailbox.Dequeue(); received != nil {
			pid.handle(received)
			continue
		}

		// no more messages, change busy state to idle
		pid.processing.Store(idle)

		// check whether new work arrived in the meantime
		if (!pid.mailbox.IsEmpty() || pid.stopRequested.Load()) && pid.processing.CompareAndSwap(idle, busy) {
			continue
		}
		return
	}
}

// Invoke runs the actor handler for message on the calling goroutine and returns the
// handler failure, an error set with ReceiveContext.Err or a recovered panic as a PanicError.
// Unlike Tell, a failure does not stop the actor. Invoke waits for the actor processing lane,
// so the handler never runs concurrently with queued messages.
// PoisonPill and Kill are delivered through the mailbox. This is meant for tests.
func (pid *PID) Invoke(ctx context.Context, from *PID, message any) error {
	if pid == nil {
		return gerrors.ErrUndefinedActor
	}

	if message == nil {
		return gerrors.ErrInvalidMessage
	}

	switch message.(type) {
	case *PoisonPill, *Kill:
		return deliver(ctx, from, pid, message)
	}

	for !pid.processing.CompareAndSwap(idle, busy) {
		if !pid.IsRunning() {
			return gerrors.ErrDead
		}
		runtime.Gosched()
	}

	if !pid.IsRunning() {
		pid.processing.Store(idle)
		return gerrors.ErrDead
	}

	err := pid.invoke(newReceiveContext(ctx, from, pid, message))
	pid.processing.Store(idle)

	// resume what was queued in the meantime
	if !pid.mailbox.IsEmpty() || pid.stopRequested.Load() {
		pid.process()
	}
	return err
}

func (pid *PID) invoke(received *ReceiveContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = gerrors.NewPanicError(e)
				return
			}
			err = gerrors.NewPanicError(fmt.Errorf("%#v", r))
		}
	}()

	pid.processedCount.Inc()
	pid.system.processedCount.Inc()
	pid.actor.Receive(received)
	return received.getError()
}

func (pid *PID) handle(received *ReceiveContext) {
	switch msg := received.Message().(type) {
	case *PoisonPill:
		pid.logger.Debugf("Actor %s received a PoisonPill", pid.path)
		pid.requestStop(nil)
	case *Kill:
		pid.logger.Errorf("Actor %s has been killed", pid.path)
		pid.requestStop(gerrors.ErrActorKilled)
	case *timerMessage:
		if !pid.timers.accept(msg) {
			return
		}
		received.message = msg.message
		pid.handleReceived(received)
	default:
		pid.handleReceived(received)
	}
}

func (pid *PID) handleReceived(received *ReceiveContext) {
	defer pid.recovery(received)
	pid.processedCount.Inc()
	pid.system.processedCount.Inc()
	pid.actor.Receive(received)
}

// recovery turns a panic or an error set with ReceiveContext.Err into a stop request
func (pid *PID) recovery(received *ReceiveContext) {
	if r := recover(); r != nil {
		var (
			pe  *gerrors.PanicError
			err error
		)

		pc, fn, line, _ := runtime.Caller(2)
		switch v := r.(type) {
		case error:
			if errors.As(v, &pe) {
				err = pe
				break
			}
			err = gerrors.NewPanicError(fmt.Errorf("%w at %s[%s:%d]", v, runtime.FuncForPC(pc).Name(), fn, line))
		default:
			err = gerrors.NewPanicError(fmt.Errorf("%#v at %s[%s:%d]", r, runtime.FuncForPC(pc).Name(), fn, line))
		}

		pid.fault(received, err)
		return
	}

	if err := received.getError(); err != nil {
		pid.fault(received, err)
	}
}

func (pid *PID) fault(received *ReceiveContext, err error) {
	pid.logger.Errorf("Actor %s failed to handle message=(%T): %v", pid.path, received.Message(), err)
	pid.requestStop(err)
}

// requestStop marks the actor for termination. The first reason wins.
func (pid *PID) requestStop(reason error) {
	pid.reasonMu.Lock()
	if !pid.stopRequested.Load() {
		pid.stopReason = reason
		pid.stopRequested.Store(true)
	}
	pid.reasonMu.Unlock()
}

func (pid *PID) reason() error {
	pid.reasonMu.Lock()
	defer pid.reasonMu.Unlock()
	return pid.stopReason
}

// init initializes the given actor and init processing messages
// when the initialization failed the actor will not be started
func (pid *PID) init(ctx context.Context) error {
	pid.logger.Debugf("Initialization process started for Actor %s ...", pid.path)

	cctx, cancel := context.WithTimeout(ctx, pid.initTimeout)
	defer cancel()

	retrier := retry.NewRetrier(pid.initMaxRetries, time.Millisecond, pid.initTimeout)
	if err := retrier.RunContext(cctx, pid.preStart); err != nil {
		pid.logger.Errorf("Failed to initialize Actor %s: %v", pid.path, err)
		return gerrors.NewErrInitFailure(err)
	}

	pid.state.Store(runningState)
	pid.logger.Debugf("Actor %s initialization is successful.", pid.path)
	return nil
}

func (pid *PID) preStart(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = gerrors.NewPanicError(fmt.Errorf("%v", r))
		}
	}()
	return pid.actor.PreStart(ctx)
}

func (pid *PID) postStop(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = gerrors.NewPanicError(fmt.Errorf("%v", r))
		}
	}()
	return pid.actor.PostStop(ctx)
}

// terminate runs on the processing lane. It releases the actor timers, runs PostStop,
// notifies the watchers and finally removes the actor from the actor system.
func (pid *PID) terminate() {
	if !pid.state.CompareAndSwap(runningState, stoppingState) {
		return
	}

	pid.logger.Debugf("Shutdown process has started for Actor %s...", pid.path)
	pid.timers.cancelAll()

	ctx, cancel := context.WithTimeout(context.Background(), pid.system.shutdownTimeout)
	if err := pid.postStop(ctx); err != nil {
		pid.logger.Errorf("Actor %s PostStop failed: %v", pid.path, err)
	}
	cancel()

	pid.notifyWatchers(pid.reason())
	pid.unwatchAll()

	pid.mailbox.Dispose()
	for received := pid.mailbox.Dequeue(); received != nil; received = pid.mailbox.Dequeue() {
		pid.system.deadletter(received.sender, pid, received.message, "actor stopped")
	}

	pid.system.deregister(pid)
	pid.state.Store(stoppedState)
	close(pid.stopped)
	pid.logger.Debugf("Actor %s successfully shutdown", pid.path)
}
