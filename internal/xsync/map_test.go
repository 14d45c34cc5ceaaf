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

package xsync

import (
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Run("With Set/Get/Delete", func(t *testing.T) {
		m := NewMap[string, int]()
		m.Set("a", 1)
		m.Set("b", 2)

		v, ok := m.Get("a")
		require.True(t, ok)
		assert.Equal(t, 1, v)
		assert.Equal(t, 2, m.Len())

		m.Delete("a")
		_, ok = m.Get("a")
		assert.False(t, ok)
		assert.Equal(t, 1, m.Len())

		m.Reset()
		assert.Zero(t, m.Len())
	})
	t.Run("With SetIfAbsent", func(t *testing.T) {
		m := NewMap[string, int]()
		v, stored := m.SetIfAbsent("a", 1)
		assert.True(t, stored)
		assert.Equal(t, 1, v)

		v, stored = m.SetIfAbsent("a", 2)
		assert.False(t, stored)
		assert.Equal(t, 1, v)
	})
	t.Run("With DeleteIf", func(t *testing.T) {
		m := NewMap[string, int]()
		m.Set("a", 1)
		assert.False(t, m.DeleteIf("a", func(v int) bool { return v == 2 }))
		assert.True(t, m.DeleteIf("a", func(v int) bool { return v == 1 }))
		assert.Zero(t, m.Len())
	})
	t.Run("With Range and Values", func(t *testing.T) {
		m := NewMap[string, int]()
		for i := 0; i < 5; i++ {
			m.Set(strconv.Itoa(i), i)
		}

		sum := 0
		m.Range(func(_ string, v int) { sum += v })
		assert.Equal(t, 10, sum)

		values := m.Values()
		sort.Ints(values)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, values)
	})
	t.Run("With concurrent writers only one SetIfAbsent wins", func(t *testing.T) {
		m := NewMap[string, int]()
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)

		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if _, stored := m.SetIfAbsent("key", i); stored {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 1, wins)
	})
}
