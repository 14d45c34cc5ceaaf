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

import "context"

// Watch makes pid watch the given actor.
// pid receives exactly one Terminated message once the watched actor stops.
// Watching an actor that is already stopped delivers Terminated right away.
// Watching the same actor twice has no further effect.
func (pid *PID) Watch(cid *PID) {
	if pid == nil || cid == nil || pid.Equals(cid) {
		return
	}

	cid.watchMu.Lock()
	if cid.watchersNotified {
		cid.watchMu.Unlock()
		cid.sendTerminated(pid, newTerminated(cid, cid.reason()))
		return
	}
	cid.watchers.Add(pid)
	pid.watchees.Add(cid)
	cid.watchMu.Unlock()
}

// UnWatch stops watching a given actor. It has no effect when cid is not watched.
func (pid *PID) UnWatch(cid *PID) {
	if pid == nil || cid == nil {
		return
	}

	cid.watchMu.Lock()
	cid.watchers.Remove(pid)
	cid.watchMu.Unlock()
	pid.watchees.Remove(cid)
}

// notifyWatchers sends Terminated to every current watcher and closes the watch relation.
// Watch calls happening afterwards see the relation closed and receive their own Terminated.
func (pid *PID) notifyWatchers(reason error) {
	pid.watchMu.Lock()
	pid.watchersNotified = true
	watchers := pid.watchers.ToSlice()
	pid.watchers.Clear()
	pid.watchMu.Unlock()

	terminated := newTerminated(pid, reason)
	for _, watcher := range watchers {
		watcher.watchees.Remove(pid)
		pid.sendTerminated(watcher, terminated)
	}
}

// unwatchAll removes the actor from the watchers of every actor it watches
func (pid *PID) unwatchAll() {
	for _, watchee := range pid.watchees.ToSlice() {
		watchee.watchMu.Lock()
		watchee.watchers.Remove(pid)
		watchee.watchMu.Unlock()
	}
	pid.watchees.Clear()
}

func (pid *PID) sendTerminated(watcher *PID, terminated *Terminated) {
	_ = watcher.enqueue(newReceiveContext(context.Background(), pid, watcher, terminated))
}

// watchersCount is used by tests
func (pid *PID) watchersCount() int {
	pid.watchMu.Lock()
	defer pid.watchMu.Unlock()
	return pid.watchers.Cardinality()
}
