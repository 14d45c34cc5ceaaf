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

package queue

import (
	"sync"
	"sync/atomic"
)

type node[T any] struct {
	value T
	next  atomic.Pointer[node[T]]
}

// Mpsc is an unbounded Multi-Producer-Single-Consumer FIFO queue.
// Push never blocks and is safe for concurrent producers; Pop must only be
// called from a single consumer goroutine.
//
// reference: https://concurrencyfreaks.blogspot.com/2014/04/multi-producer-single-consumer-queue.html
type Mpsc[T any] struct {
	head   atomic.Pointer[node[T]]
	tail   *node[T]
	length atomic.Int64
	pool   sync.Pool
}

// NewMpsc creates an instance of Mpsc
func NewMpsc[T any]() *Mpsc[T] {
	stub := new(node[T])
	q := &Mpsc[T]{tail: stub}
	q.head.Store(stub)
	q.pool.New = func() any { return new(node[T]) }
	return q
}

// Push places the given value at the back of the queue.
func (q *Mpsc[T]) Push(value T) {
	n := q.pool.Get().(*node[T])
	n.value = value
	n.next.Store(nil)
	previous := q.head.Swap(n)
	previous.next.Store(n)
	q.length.Add(1)
}

// Pop takes the value at the front of the queue.
// It returns false when the queue is empty.
func (q *Mpsc[T]) Pop() (T, bool) {
	var zero T
	next := q.tail.next.Load()
	if next == nil {
		return zero, false
	}

	consumed := q.tail
	q.tail = next
	value := next.value
	next.value = zero
	q.length.Add(-1)

	q.pool.Put(consumed)
	return value, true
}

// Len returns the queue length
func (q *Mpsc[T]) Len() int64 {
	return max(q.length.Load(), 0)
}

// IsEmpty returns true when the queue is empty.
// It reads the length counter only and is safe from any goroutine. The counter
// is incremented after a node is linked, so a producer that observes its own
// Push never sees the queue as empty.
func (q *Mpsc[T]) IsEmpty() bool {
	return q.length.Load() <= 0
}
