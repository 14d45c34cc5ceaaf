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

package workerpool

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"
)

const maxShards = 128

// ErrPoolStopped is returned when work is submitted to a pool that is not running
var ErrPoolStopped = errors.New("worker pool is not running")

// WorkerPool runs tasks on on-demand goroutines distributed across shards.
// Tasks submitted with the same key always land on the same shard.
// Idle workers are cached and reused, then released after the idle lifetime.
type WorkerPool struct {
	idleLifetime time.Duration
	numShards    int
	shards       []*shard

	started *atomic.Bool
	stopped *atomic.Bool
	spawned *atomic.Int64

	stopCh chan struct{}
	wg     sync.WaitGroup
}

type worker struct {
	tasks    chan func()
	shard    *shard
	lastUsed time.Time
}

type shard struct {
	pool    *WorkerPool
	mu      sync.Mutex
	idle    []*worker
	stopped bool
}

// New creates an instance of WorkerPool
func New(opts ...Option) *WorkerPool {
	wp := &WorkerPool{
		idleLifetime: time.Second,
		numShards:    1,
		started:      atomic.NewBool(false),
		stopped:      atomic.NewBool(false),
		spawned:      atomic.NewInt64(0),
		stopCh:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt.Apply(wp)
	}

	if wp.numShards < 1 {
		wp.numShards = 1
	} else if wp.numShards > maxShards {
		wp.numShards = maxShards
	}
	return wp
}

// Start starts the pool. Calling Start more than once has no effect.
func (wp *WorkerPool) Start() {
	if wp.started.Swap(true) {
		return
	}

	wp.shards = make([]*shard, wp.numShards)
	for i := range wp.shards {
		wp.shards[i] = &shard{pool: wp, idle: make([]*worker, 0, 64)}
	}

	wp.wg.Add(1)
	go wp.cleanup()
}

// Stop releases every idle worker and waits for in-flight tasks to complete.
// It must not be called from within a task.
func (wp *WorkerPool) Stop() {
	if wp.release() {
		wp.wg.Wait()
	}
}

// StopContext is Stop bounded by ctx. It returns the context error when in-flight
// tasks are still running once ctx is done; those workers exit after their task.
func (wp *WorkerPool) StopContext(ctx context.Context) error {
	if !wp.release() {
		return nil
	}

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release stops the shards and closes idle workers.
// It returns false when the pool is not running.
func (wp *WorkerPool) release() bool {
	if !wp.started.Load() || wp.stopped.Swap(true) {
		return false
	}

	close(wp.stopCh)
	for _, s := range wp.shards {
		s.mu.Lock()
		s.stopped = true
		for _, idle := range s.idle {
			close(idle.tasks)
		}
		s.idle = nil
		s.mu.Unlock()
	}
	return true
}

// Submit schedules the task on the shard owning the given key
func (wp *WorkerPool) Submit(key string, task func()) error {
	if !wp.started.Load() || wp.stopped.Load() {
		return ErrPoolStopped
	}

	s := wp.shards[xxh3.HashString(key)%uint64(len(wp.shards))]
	w := s.acquire()
	if w == nil {
		return ErrPoolStopped
	}

	w.tasks <- task
	return nil
}

// SpawnedWorkers returns the number of live worker goroutines
func (wp *WorkerPool) SpawnedWorkers() int {
	return int(wp.spawned.Load())
}

// cleanup periodically releases workers that stayed idle longer than the idle lifetime
func (wp *WorkerPool) cleanup() {
	defer wp.wg.Done()

	ticker := time.NewTicker(wp.idleLifetime)
	defer ticker.Stop()

	for {
		select {
		case <-wp.stopCh:
			return
		case now := <-ticker.C:
			for _, s := range wp.shards {
				s.evict(now, wp.idleLifetime)
			}
		}
	}
}

func (s *shard) acquire() *worker {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}

	if n := len(s.idle); n > 0 {
		w := s.idle[n-1]
		s.idle[n-1] = nil
		s.idle = s.idle[:n-1]
		return w
	}

	w := &worker{tasks: make(chan func()), shard: s}
	s.pool.wg.Add(1)
	s.pool.spawned.Inc()
	go w.run()
	return w
}

// release returns the worker to the idle cache.
// It returns false when the shard is stopped and the worker must exit.
func (s *shard) release(w *worker) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	w.lastUsed = time.Now()
	s.idle = append(s.idle, w)
	return true
}

// evict closes workers idle for longer than lifetime.
// Idle workers are appended in release order so the oldest sit at the front.
func (s *shard) evict(now time.Time, lifetime time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired := 0
	for expired < len(s.idle) && now.Sub(s.idle[expired].lastUsed) >= lifetime {
		close(s.idle[expired].tasks)
		s.idle[expired] = nil
		expired++
	}

	if expired > 0 {
		s.idle = append(s.idle[:0], s.idle[expired:]...)
	}
}

func (w *worker) run() {
	defer func() {
		w.shard.pool.spawned.Dec()
		w.shard.pool.wg.Done()
	}()

	for task := range w.tasks {
		task()
		if !w.shard.release(w) {
			return
		}
	}
}
