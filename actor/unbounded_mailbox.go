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
	"go.uber.org/atomic"

	gerrors "github.com/tochemey/actorkit/errors"
	"github.com/tochemey/actorkit/internal/queue"
)

// UnboundedMailbox is the default actor mailbox.
// It is an unbounded lock-free Multi-Producer-Single-Consumer queue.
type UnboundedMailbox struct {
	underlying *queue.Mpsc[*ReceiveContext]
	disposed   *atomic.Bool
}

// enforce compilation error
var _ Mailbox = (*UnboundedMailbox)(nil)

// NewUnboundedMailbox creates an instance of UnboundedMailbox
func NewUnboundedMailbox() *UnboundedMailbox {
	return &UnboundedMailbox{
		underlying: queue.NewMpsc[*ReceiveContext](),
		disposed:   atomic.NewBool(false),
	}
}

// Enqueue places the given value in the mailbox
func (m *UnboundedMailbox) Enqueue(value *ReceiveContext) error {
	if m.disposed.Load() {
		return gerrors.ErrMailboxDisposed
	}
	m.underlying.Push(value)
	return nil
}

// Dequeue takes the mail from the mailbox
func (m *UnboundedMailbox) Dequeue() *ReceiveContext {
	if value, ok := m.underlying.Pop(); ok {
		return value
	}
	return nil
}

// IsEmpty returns true when the mailbox is empty
func (m *UnboundedMailbox) IsEmpty() bool {
	return m.underlying.IsEmpty()
}

// Len returns mailbox length
func (m *UnboundedMailbox) Len() int64 {
	return m.underlying.Len()
}

// Dispose stops the mailbox from accepting new messages.
// Messages already enqueued can still be dequeued.
func (m *UnboundedMailbox) Dispose() {
	m.disposed.Store(true)
}
