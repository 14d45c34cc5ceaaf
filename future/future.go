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

package future

import (
	"context"
	"sync"
)

// Future represents a value which may or may not currently be available,
// but will be available at some point in the future, or an error if that value
// could not be made available.
//
// Example usage:
//
//	f := future.New(func() (any, error) {
//	    return compute(), nil
//	})
//
//	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
//	defer cancel()
//
//	result, err := f.Await(ctx)
type Future interface {
	// Await blocks until the Future is completed or the context is done.
	// A context error does not complete the Future; it can be awaited again.
	Await(ctx context.Context) (any, error)
	// IsDone returns true once the Future is completed
	IsDone() bool
	// Result returns the outcome of a completed Future and nil otherwise.
	Result() *Result
}

// New creates a Future completed by the given task running on its own goroutine.
func New(task func() (any, error)) Future {
	promise := NewPromise()
	go func() {
		result, err := task()
		if err != nil {
			promise.Failure(err)
			return
		}
		promise.Success(result)
	}()
	return promise.Future()
}

// Promise is the writable, single-assignment side of a Future.
// Only the first completion takes effect.
type Promise struct {
	once   sync.Once
	future *future
}

// NewPromise creates an instance of Promise
func NewPromise() *Promise {
	return &Promise{future: &future{done: make(chan struct{})}}
}

// Success completes the underlying Future with the given value.
// It returns false when the Future was already completed.
func (p *Promise) Success(value any) bool {
	return p.complete(value, nil)
}

// Failure fails the underlying Future with the given error.
// It returns false when the Future was already completed.
func (p *Promise) Failure(err error) bool {
	return p.complete(nil, err)
}

// Future returns the underlying Future
func (p *Promise) Future() Future {
	return p.future
}

func (p *Promise) complete(value any, err error) bool {
	completed := false
	p.once.Do(func() {
		p.future.result = &Result{success: value, failure: err}
		close(p.future.done)
		completed = true
	})
	return completed
}

type future struct {
	done   chan struct{}
	result *Result
}

var _ Future = (*future)(nil)

// Await blocks until the Future is completed or ctx is done
func (x *future) Await(ctx context.Context) (any, error) {
	select {
	case <-x.done:
		return x.result.success, x.result.failure
	default:
	}

	select {
	case <-x.done:
		return x.result.success, x.result.failure
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// IsDone returns true once the Future is completed
func (x *future) IsDone() bool {
	select {
	case <-x.done:
		return true
	default:
		return false
	}
}

// Result returns the outcome of a completed Future and nil otherwise.
func (x *future) Result() *Result {
	if x.IsDone() {
		return x.result
	}
	return nil
}
