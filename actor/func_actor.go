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
)

// ReceiveFunc is a message handling placeholder
type ReceiveFunc = func(ctx *ReceiveContext)

// PreStartFunc defines the PreStartFunc hook for an actor creation
type PreStartFunc = func(ctx context.Context) error

// PostStopFunc defines the PostStopFunc hook for an actor creation
type PostStopFunc = func(ctx context.Context) error

// FuncOption is the interface that applies a SpawnFromFunc option.
type FuncOption interface {
	// Apply sets the Option value of a config.
	Apply(actor *funcConfig)
}

var _ FuncOption = funcOption(nil)

// funcOption implements the FuncOption interface.
type funcOption func(config *funcConfig)

// Apply implementation
func (f funcOption) Apply(c *funcConfig) {
	f(c)
}

type funcConfig struct {
	preStart PreStartFunc
	postStop PostStopFunc
	mailbox  Mailbox
}

func newFuncConfig(opts ...FuncOption) *funcConfig {
	config := &funcConfig{}
	for _, opt := range opts {
		opt.Apply(config)
	}
	return config
}

// WithPreStart defines the PreStartFunc hook
func WithPreStart(fn PreStartFunc) FuncOption {
	return funcOption(func(actor *funcConfig) {
		actor.preStart = fn
	})
}

// WithPostStop defines the PostStopFunc hook
func WithPostStop(fn PostStopFunc) FuncOption {
	return funcOption(func(actor *funcConfig) {
		actor.postStop = fn
	})
}

// WithFuncMailbox sets the mailbox of the function-based actor
func WithFuncMailbox(mailbox Mailbox) FuncOption {
	return funcOption(func(actor *funcConfig) {
		actor.mailbox = mailbox
	})
}

// FuncActor is an actor that only handles messages with a ReceiveFunc
type FuncActor struct {
	receiveFunc ReceiveFunc
	config      *funcConfig
}

// enforce compilation error
var _ Actor = (*FuncActor)(nil)

// NewFuncActor returns a FuncActor running the given behavior
func NewFuncActor(receiveFunc ReceiveFunc, opts ...FuncOption) *FuncActor {
	return &FuncActor{
		receiveFunc: receiveFunc,
		config:      newFuncConfig(opts...),
	}
}

// PreStart runs the optional PreStart hook
func (x *FuncActor) PreStart(ctx context.Context) error {
	if x.config.preStart != nil {
		return x.config.preStart(ctx)
	}
	return nil
}

// Receive runs the behavior. PostStart is swallowed.
func (x *FuncActor) Receive(ctx *ReceiveContext) {
	if _, ok := ctx.Message().(*PostStart); ok {
		return
	}
	x.receiveFunc(ctx)
}

// PostStop runs the optional PostStop hook
func (x *FuncActor) PostStop(ctx context.Context) error {
	if x.config.postStop != nil {
		return x.config.postStop(ctx)
	}
	return nil
}
