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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/actorkit/errors"
)

func TestUnboundedMailbox(t *testing.T) {
	t.Run("With FIFO", func(t *testing.T) {
		mailbox := NewUnboundedMailbox()
		assert.True(t, mailbox.IsEmpty())
		assert.Nil(t, mailbox.Dequeue())

		for i := 0; i < 10; i++ {
			require.NoError(t, mailbox.Enqueue(newReceiveContext(context.TODO(), NoSender, NoSender, i)))
		}
		assert.EqualValues(t, 10, mailbox.Len())

		for i := 0; i < 10; i++ {
			received := mailbox.Dequeue()
			require.NotNil(t, received)
			assert.Equal(t, i, received.Message())
		}
		assert.True(t, mailbox.IsEmpty())
	})
	t.Run("With concurrent producers", func(t *testing.T) {
		mailbox := NewUnboundedMailbox()
		var wg sync.WaitGroup
		for p := 0; p < 8; p++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					_ = mailbox.Enqueue(newReceiveContext(context.TODO(), NoSender, NoSender, i))
				}
			}()
		}
		wg.Wait()
		assert.EqualValues(t, 800, mailbox.Len())
	})
	t.Run("With Dispose", func(t *testing.T) {
		mailbox := NewUnboundedMailbox()
		require.NoError(t, mailbox.Enqueue(newReceiveContext(context.TODO(), NoSender, NoSender, 1)))
		mailbox.Dispose()

		err := mailbox.Enqueue(newReceiveContext(context.TODO(), NoSender, NoSender, 2))
		assert.ErrorIs(t, err, gerrors.ErrMailboxDisposed)

		// messages enqueued before disposal can still be drained
		received := mailbox.Dequeue()
		require.NotNil(t, received)
		assert.Equal(t, 1, received.Message())
		assert.Nil(t, mailbox.Dequeue())
	})
}

func TestBoundedMailbox(t *testing.T) {
	t.Run("With capacity", func(t *testing.T) {
		mailbox := NewBoundedMailbox(2)
		assert.True(t, mailbox.IsEmpty())
		assert.Nil(t, mailbox.Dequeue())

		require.NoError(t, mailbox.Enqueue(newReceiveContext(context.TODO(), NoSender, NoSender, 1)))
		require.NoError(t, mailbox.Enqueue(newReceiveContext(context.TODO(), NoSender, NoSender, 2)))
		err := mailbox.Enqueue(newReceiveContext(context.TODO(), NoSender, NoSender, 3))
		assert.ErrorIs(t, err, gerrors.ErrMailboxFull)
		assert.EqualValues(t, 2, mailbox.Len())

		assert.Equal(t, 1, mailbox.Dequeue().Message())
		assert.Equal(t, 2, mailbox.Dequeue().Message())
		assert.True(t, mailbox.IsEmpty())
	})
	t.Run("With Dispose", func(t *testing.T) {
		mailbox := NewBoundedMailbox(2)
		mailbox.Dispose()
		err := mailbox.Enqueue(newReceiveContext(context.TODO(), NoSender, NoSender, 1))
		assert.ErrorIs(t, err, gerrors.ErrMailboxDisposed)
	})
}
