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

package testkit

import "github.com/tochemey/actorkit/actor"

// AutoPilot reacts to the messages a probe receives before they are buffered.
//
// Run is called on the probe actor for every incoming message. The returned value
// decides what happens to the next message:
//   - KeepRunning keeps the current pilot
//   - nil removes the pilot
//   - any other AutoPilot replaces the current one
//
// The message is still buffered for the expect calls unless it is ignored.
type AutoPilot interface {
	Run(ctx *actor.ReceiveContext) AutoPilot
}

// AutoPilotFunc adapts a function to the AutoPilot interface
type AutoPilotFunc func(ctx *actor.ReceiveContext) AutoPilot

// Run implements AutoPilot
func (f AutoPilotFunc) Run(ctx *actor.ReceiveContext) AutoPilot {
	return f(ctx)
}

type keepRunning struct{}

func (keepRunning) Run(*actor.ReceiveContext) AutoPilot {
	return KeepRunning
}

// KeepRunning tells the probe to keep using the current pilot
var KeepRunning AutoPilot = keepRunning{}
