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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/actorkit/errors"
	"github.com/tochemey/actorkit/log"
)

// scheduler fires the actors timers.
// It wraps a single quartz scheduler owned by the actor system.
type scheduler struct {
	mu sync.Mutex
	// underlying quartz scheduler
	quartzScheduler quartz.Scheduler
	// states whether the quartzScheduler has started or not
	started *atomic.Bool
	logger  log.Logger
}

// newScheduler creates an instance of scheduler
func newScheduler(logger log.Logger) *scheduler {
	// create an instance of quartz scheduler with logger off
	quartzScheduler, _ := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	return &scheduler{
		quartzScheduler: quartzScheduler,
		started:         atomic.NewBool(false),
		logger:          logger,
	}
}

// Start starts the scheduler. The scheduler outlives the given context.
func (x *scheduler) Start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.logger.Debug("starting timers scheduler...")
	x.quartzScheduler.Start(context.WithoutCancel(ctx))
	x.started.Store(x.quartzScheduler.IsStarted())
	x.logger.Debug("timers scheduler started.")
}

// Stop stops the scheduler and waits for the in-flight jobs to complete
func (x *scheduler) Stop(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return nil
	}

	x.logger.Debug("stopping timers scheduler...")
	err := x.quartzScheduler.Clear()
	x.quartzScheduler.Stop()
	x.quartzScheduler.Wait(ctx)
	x.started.Store(false)
	x.logger.Debug("timers scheduler stopped.")
	return err
}

// schedule runs fn once after the given delay, or at every delay when repeat is set.
// It returns the job key used to unschedule it.
func (x *scheduler) schedule(fn func(ctx context.Context), delay time.Duration, repeat bool) (*quartz.JobKey, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.started.Load() {
		return nil, gerrors.ErrSchedulerNotStarted
	}

	function := job.NewFunctionJob[bool](
		func(ctx context.Context) (bool, error) {
			fn(ctx)
			return true, nil
		},
	)

	key := quartz.NewJobKey(uuid.NewString())
	detail := quartz.NewJobDetail(function, key)

	var trigger quartz.Trigger = quartz.NewRunOnceTrigger(delay)
	if repeat {
		trigger = quartz.NewSimpleTrigger(delay)
	}

	if err := x.quartzScheduler.ScheduleJob(detail, trigger); err != nil {
		return nil, err
	}
	return key, nil
}

// unschedule removes the given job. Jobs that already ran to completion are gone already.
func (x *scheduler) unschedule(key *quartz.JobKey) {
	if key == nil || !x.started.Load() {
		return
	}
	_ = x.quartzScheduler.DeleteJob(key)
}

// timerEntry is a live keyed timer of an actor
type timerEntry struct {
	generation uint64
	repeat     bool
	jobKey     *quartz.JobKey
}

// timers holds the keyed timers of a single actor.
// At most one live timer exists per key.
type timers struct {
	mu         sync.Mutex
	owner      *PID
	scheduler  *scheduler
	entries    map[string]*timerEntry
	generation uint64
}

func newTimers(owner *PID, scheduler *scheduler) *timers {
	return &timers{
		owner:     owner,
		scheduler: scheduler,
		entries:   make(map[string]*timerEntry),
	}
}

func (x *timers) start(key string, message any, delay time.Duration, repeat bool) error {
	if key == "" {
		return gerrors.ErrInvalidTimerKey
	}

	if message == nil {
		return gerrors.ErrInvalidMessage
	}

	if repeat && delay <= 0 {
		return gerrors.ErrInvalidTimeout
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if previous, ok := x.entries[key]; ok {
		delete(x.entries, key)
		x.scheduler.unschedule(previous.jobKey)
	}

	x.generation++
	fired := &timerMessage{key: key, generation: x.generation, message: message}
	entry := &timerEntry{generation: x.generation, repeat: repeat}

	if delay <= 0 {
		x.entries[key] = entry
		return x.owner.enqueue(newReceiveContext(context.Background(), NoSender, x.owner, fired))
	}

	owner := x.owner
	jobKey, err := x.scheduler.schedule(func(ctx context.Context) {
		_ = owner.enqueue(newReceiveContext(ctx, NoSender, owner, fired))
	}, delay, repeat)
	if err != nil {
		return err
	}

	entry.jobKey = jobKey
	x.entries[key] = entry
	return nil
}

// accept tells whether a fired timer message is still current.
// A single timer is consumed by its first accepted delivery.
func (x *timers) accept(msg *timerMessage) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	entry, ok := x.entries[msg.key]
	if !ok || entry.generation != msg.generation {
		return false
	}

	if !entry.repeat {
		delete(x.entries, msg.key)
	}
	return true
}

func (x *timers) cancel(key string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if entry, ok := x.entries[key]; ok {
		delete(x.entries, key)
		x.scheduler.unschedule(entry.jobKey)
	}
}

func (x *timers) isActive(key string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	_, ok := x.entries[key]
	return ok
}

func (x *timers) cancelAll() {
	x.mu.Lock()
	defer x.mu.Unlock()
	for key, entry := range x.entries {
		delete(x.entries, key)
		x.scheduler.unschedule(entry.jobKey)
	}
}
