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

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/Workiva/go-datastructures/queue"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/tochemey/actorkit/actor"
)

// PartialFunc is applied to a received message.
// It returns false when it is not defined for the message.
type PartialFunc func(message any) (any, bool)

// Probe defines the test probe.
//
// A probe is an actor whose messages are buffered and observed synchronously
// from the test goroutine. Unless stated otherwise, an expectation waits for the
// innermost Within remaining time or the dilated single expect default.
// A Probe must only be driven from one goroutine.
type Probe interface {
	// ExpectMessage asserts that the next message received is equal to the given message
	ExpectMessage(message any) any
	// ExpectMessageWithin asserts that the next message received within duration is equal to the given message
	ExpectMessageWithin(duration time.Duration, message any) any
	// ExpectMessageOfType asserts that the next message received is of the given type
	ExpectMessageOfType(messageType reflect.Type) any
	// ExpectMessageOfTypeWithin asserts that the next message received within duration is of the given type
	ExpectMessageOfTypeWithin(duration time.Duration, messageType reflect.Type) any
	// ExpectMessageAnyOf asserts that the next message received is equal to one of the given messages
	ExpectMessageAnyOf(messages ...any) any
	// ExpectMessageAnyOfWithin asserts that the next message received within duration is equal to one of the given messages
	ExpectMessageAnyOfWithin(duration time.Duration, messages ...any) any
	// ExpectMessageAllOf asserts that the next len(messages) messages are the given messages in any order
	ExpectMessageAllOf(messages ...any) []any
	// ExpectMessageAllOfWithin is ExpectMessageAllOf bounded by duration
	ExpectMessageAllOfWithin(duration time.Duration, messages ...any) []any
	// ExpectMessageAnyTypeOf asserts that the next message received is of one of the given types
	ExpectMessageAnyTypeOf(messageTypes ...reflect.Type) any
	// ExpectMessagePF applies fn to the next message and asserts that fn is defined for it.
	// hint describes the expected message in the failure report.
	ExpectMessagePF(hint string, fn PartialFunc) any
	// ExpectAnyMessage asserts that any message is received and returns it
	ExpectAnyMessage() any
	// ExpectAnyMessageWithin asserts that any message is received within duration and returns it
	ExpectAnyMessageWithin(duration time.Duration) any
	// ExpectTerminated asserts that the next message is the termination notice of the given actor
	ExpectTerminated(pid *actor.PID) *actor.Terminated
	// ExpectNoMessage asserts that no message arrives within the dilated expect-no-message default
	ExpectNoMessage()
	// ExpectNoMessageWithin asserts that no message arrives within duration
	ExpectNoMessageWithin(duration time.Duration)
	// ReceiveWhile collects fn results until fn is not defined for a message, max elapses
	// or an idle gap elapses. The message fn rejects is kept for the next receive.
	// A non-positive max uses the implicit timeout.
	ReceiveWhile(max time.Duration, fn PartialFunc, opts ...ReceiveOption) []any
	// ReceiveN receives n messages and returns them in order
	ReceiveN(n int) []any
	// ReceiveNWithin receives n messages within duration and returns them in order
	ReceiveNWithin(n int, duration time.Duration) []any
	// IgnoreMessage discards every message matching predicate, whether already buffered or not
	IgnoreMessage(predicate func(message any) bool)
	// IgnoreNoMessage removes the ignore predicate
	IgnoreNoMessage()
	// Within asserts that fn runs in a time between min and the dilated max.
	// Inside fn the implicit timeout of every expectation is the remaining time.
	Within(min, max time.Duration, fn func())
	// WithinMax is Within with a zero lower bound
	WithinMax(max time.Duration, fn func())
	// Remaining returns the remaining time of the innermost Within block.
	// It fails when called outside of a Within block.
	Remaining() time.Duration
	// RemainingOr returns the remaining time of the innermost Within block or duration
	RemainingOr(duration time.Duration) time.Duration
	// AwaitCond polls cond every interval until it returns true or max elapses
	AwaitCond(max, interval time.Duration, cond func() bool)
	// AwaitAssert polls fn every interval until its assertions pass or max elapses
	AwaitAssert(max, interval time.Duration, fn func(collect *assert.CollectT))
	// SetAutoPilot installs the auto pilot. A nil pilot removes it.
	SetAutoPilot(pilot AutoPilot)
	// Dilated scales duration by the time factor
	Dilated(duration time.Duration) time.Duration
	// Watch watches the given actor for termination
	Watch(pid *actor.PID)
	// UnWatch stops watching the given actor
	UnWatch(pid *actor.PID)
	// Reply sends message to the last sender
	Reply(message any)
	// Forward sends the last received message to the given actor keeping its original sender
	Forward(to *actor.PID)
	// Send sends a message to the named actor with the probe as sender
	Send(actorName string, message any)
	// SendSync asks the named actor and buffers its reply with the actor as sender
	SendSync(actorName string, message any, timeout time.Duration)
	// Sender returns the sender of the last received message
	Sender() *actor.PID
	// LastMessage returns the last received message
	LastMessage() any
	// MsgAvailable reports whether a message is ready to be received
	MsgAvailable() bool
	// PID returns the pid of the test actor
	PID() *actor.PID
	// Stop stops the test probe
	Stop()
}

type message struct {
	sender  *actor.PID
	payload any
}

// probeActor buffers what the probe receives
type probeActor struct {
	probe *probe
}

// enforce compilation error
var _ actor.Actor = (*probeActor)(nil)

// PreStart is called before the actor starts
func (x *probeActor) PreStart(context.Context) error {
	return nil
}

// Receive handle message received
func (x *probeActor) Receive(ctx *actor.ReceiveContext) {
	switch ctx.Message().(type) {
	case *actor.PostStart:
	default:
		x.probe.intercept(ctx)
	}
}

// PostStop handles stop routines
func (x *probeActor) PostStop(context.Context) error {
	return nil
}

type probe struct {
	pt      TestingT
	testCtx context.Context
	pid     *actor.PID
	config  *Config

	messages *queue.Queue
	// set by ReceiveWhile with the message it did not accept
	pending *message

	lastMessage      *message
	lastWasNoMessage bool
	deadlines        []time.Time

	mu        sync.Mutex
	autoPilot AutoPilot
	ignore    func(message any) bool
}

// enforces compilation error
var _ Probe = (*probe)(nil)

// newProbe creates an instance of probe
func newProbe(ctx context.Context, system actor.ActorSystem, t TestingT, config *Config, opts ...ProbeOption) (*probe, error) {
	cfg := &probeConfig{name: "probe-" + uuid.NewString()}
	for _, opt := range opts {
		opt.Apply(cfg)
	}

	testProbe := &probe{
		pt:       t,
		testCtx:  ctx,
		config:   config,
		messages: queue.New(32),
	}

	pid, err := system.Spawn(ctx, cfg.name, &probeActor{probe: testProbe})
	if err != nil {
		return nil, err
	}

	testProbe.pid = pid
	return testProbe, nil
}

// ExpectMessage asserts that the message received from the test actor is the expected one
func (x *probe) ExpectMessage(message any) any {
	return x.expectMessage(x.remainingOrDefault(), message)
}

// ExpectMessageWithin asserts that the expected message is received within a given duration
func (x *probe) ExpectMessageWithin(duration time.Duration, message any) any {
	return x.expectMessage(x.Dilated(duration), message)
}

// ExpectMessageOfType asserts the expectation of a given message type
func (x *probe) ExpectMessageOfType(messageType reflect.Type) any {
	return x.expectMessageOfType(x.remainingOrDefault(), messageType)
}

// ExpectMessageOfTypeWithin asserts the expectation of a given message type within a time duration
func (x *probe) ExpectMessageOfTypeWithin(duration time.Duration, messageType reflect.Type) any {
	return x.expectMessageOfType(x.Dilated(duration), messageType)
}

// ExpectMessageAnyOf asserts that the next message is one of the given messages
func (x *probe) ExpectMessageAnyOf(messages ...any) any {
	return x.expectMessageAnyOf(x.remainingOrDefault(), messages)
}

// ExpectMessageAnyOfWithin asserts that the next message received within duration is one of the given messages
func (x *probe) ExpectMessageAnyOfWithin(duration time.Duration, messages ...any) any {
	return x.expectMessageAnyOf(x.Dilated(duration), messages)
}

// ExpectMessageAllOf asserts that the given messages are received in any order
func (x *probe) ExpectMessageAllOf(messages ...any) []any {
	return x.expectMessageAllOf(x.remainingOrDefault(), messages)
}

// ExpectMessageAllOfWithin asserts that the given messages are received in any order within duration
func (x *probe) ExpectMessageAllOfWithin(duration time.Duration, messages ...any) []any {
	return x.expectMessageAllOf(x.Dilated(duration), messages)
}

// ExpectMessageAnyTypeOf asserts that the next message is of one of the given types
func (x *probe) ExpectMessageAnyTypeOf(messageTypes ...reflect.Type) any {
	max := x.remainingOrDefault()
	received := x.receiveOne(max)
	if received == nil {
		x.fail(ErrTimeout, "timeout (%v) during expectMessageAnyTypeOf waiting for one of %v", max, messageTypes)
		return nil
	}

	for _, messageType := range messageTypes {
		if isOfType(received.payload, messageType) {
			return received.payload
		}
	}

	x.fail(ErrMismatch, "expected one of %v, found %T", messageTypes, received.payload)
	return nil
}

// ExpectMessagePF asserts that fn is defined for the next message and returns its result
func (x *probe) ExpectMessagePF(hint string, fn PartialFunc) any {
	max := x.remainingOrDefault()
	received := x.receiveOne(max)
	if received == nil {
		x.fail(ErrTimeout, "timeout (%v) during expectMessagePF waiting for %s", max, hint)
		return nil
	}

	result, ok := fn(received.payload)
	if !ok {
		x.fail(ErrMismatch, "expected %s, found %v", hint, received.payload)
		return nil
	}
	return result
}

// ExpectAnyMessage asserts that any message is received
func (x *probe) ExpectAnyMessage() any {
	return x.expectAnyMessage(x.remainingOrDefault())
}

// ExpectAnyMessageWithin asserts that any message is received within a given duration
func (x *probe) ExpectAnyMessageWithin(duration time.Duration) any {
	return x.expectAnyMessage(x.Dilated(duration))
}

// ExpectTerminated asserts the termination notice of the given actor
func (x *probe) ExpectTerminated(pid *actor.PID) *actor.Terminated {
	max := x.remainingOrDefault()
	received := x.receiveOne(max)
	if received == nil {
		x.fail(ErrTimeout, "timeout (%v) during expectTerminated waiting for %s", max, pid)
		return nil
	}

	terminated, ok := received.payload.(*actor.Terminated)
	if !ok || !terminated.Actor().Equals(pid) {
		x.fail(ErrMismatch, "expected Terminated of %s, found %v", pid, received.payload)
		return nil
	}
	return terminated
}

// ExpectNoMessage asserts that no message is received
func (x *probe) ExpectNoMessage() {
	x.expectNoMessage(x.Dilated(x.config.ExpectNoMessageDefault))
}

// ExpectNoMessageWithin asserts that no message is received within duration
func (x *probe) ExpectNoMessageWithin(duration time.Duration) {
	x.expectNoMessage(x.Dilated(duration))
}

// ReceiveWhile collects messages while fn is defined for them
func (x *probe) ReceiveWhile(max time.Duration, fn PartialFunc, opts ...ReceiveOption) []any {
	config := &receiveConfig{maxMessages: -1}
	for _, opt := range opts {
		opt(config)
	}

	idle := x.Dilated(config.idle)
	stop := time.Now().Add(x.remainingOrDilated(max))

	var results []any
	for config.maxMessages < 0 || len(results) < config.maxMessages {
		timeout := time.Until(stop)
		if timeout <= 0 {
			break
		}

		if idle > 0 && idle < timeout {
			timeout = idle
		}

		previous := x.lastMessage
		received := x.receiveOne(timeout)
		if received == nil {
			break
		}

		result, ok := fn(received.payload)
		if !ok {
			x.pending = received
			x.lastMessage = previous
			break
		}

		results = append(results, result)
	}

	x.lastWasNoMessage = true
	return results
}

// ReceiveN receives n messages
func (x *probe) ReceiveN(n int) []any {
	return x.receiveN(n, x.remainingOrDefault())
}

// ReceiveNWithin receives n messages within duration
func (x *probe) ReceiveNWithin(n int, duration time.Duration) []any {
	return x.receiveN(n, x.Dilated(duration))
}

// IgnoreMessage installs the ignore predicate
func (x *probe) IgnoreMessage(predicate func(message any) bool) {
	x.mu.Lock()
	x.ignore = predicate
	x.mu.Unlock()
}

// IgnoreNoMessage removes the ignore predicate
func (x *probe) IgnoreNoMessage() {
	x.IgnoreMessage(nil)
}

// Within runs fn and asserts its duration
func (x *probe) Within(min, max time.Duration, fn func()) {
	if h, ok := x.pt.(helper); ok {
		h.Helper()
	}

	max = x.Dilated(max)
	start := time.Now()

	if len(x.deadlines) > 0 {
		remaining := x.deadlines[len(x.deadlines)-1].Sub(start)
		if remaining < min {
			x.fail(ErrDuration, "required min time %v not possible, only %v left", min, remaining)
			return
		}

		if remaining < max {
			max = remaining
		}
	}

	x.lastWasNoMessage = false
	x.deadlines = append(x.deadlines, start.Add(max))
	func() {
		defer func() { x.deadlines = x.deadlines[:len(x.deadlines)-1] }()
		fn()
	}()

	elapsed := time.Since(start)
	if elapsed < min {
		x.fail(ErrDuration, "block took %v, should at least have been %v", elapsed, min)
		return
	}

	// ExpectNoMessage and ReceiveWhile use up the whole budget
	if !x.lastWasNoMessage && elapsed > max {
		x.fail(ErrDuration, "block took %v, exceeding %v", elapsed, max)
	}
}

// WithinMax runs fn and asserts it completes within max
func (x *probe) WithinMax(max time.Duration, fn func()) {
	x.Within(0, max, fn)
}

// Remaining returns the time left in the innermost Within block
func (x *probe) Remaining() time.Duration {
	if len(x.deadlines) == 0 {
		x.fail(ErrDuration, "Remaining called outside of Within")
		return 0
	}
	return time.Until(x.deadlines[len(x.deadlines)-1])
}

// RemainingOr returns the time left in the innermost Within block or duration
func (x *probe) RemainingOr(duration time.Duration) time.Duration {
	if len(x.deadlines) == 0 {
		return duration
	}
	return time.Until(x.deadlines[len(x.deadlines)-1])
}

// AwaitCond waits for cond to become true
func (x *probe) AwaitCond(max, interval time.Duration, cond func() bool) {
	max = x.remainingOrDilated(max)
	if interval <= 0 {
		interval = x.config.AwaitInterval
	}

	require.Eventually(x.pt, cond, max, interval, fmt.Sprintf("%v: condition not met within %v", ErrTimeout, max))
}

// AwaitAssert waits for the assertions of fn to pass
func (x *probe) AwaitAssert(max, interval time.Duration, fn func(collect *assert.CollectT)) {
	max = x.remainingOrDilated(max)
	if interval <= 0 {
		interval = x.config.AwaitInterval
	}

	require.EventuallyWithT(x.pt, fn, max, interval, fmt.Sprintf("%v: assertion not met within %v", ErrTimeout, max))
}

// SetAutoPilot sets the auto pilot
func (x *probe) SetAutoPilot(pilot AutoPilot) {
	x.mu.Lock()
	x.autoPilot = pilot
	x.mu.Unlock()
}

// Dilated scales the duration by the time factor
func (x *probe) Dilated(duration time.Duration) time.Duration {
	return x.config.dilated(duration)
}

// Watch watches the given actor
func (x *probe) Watch(pid *actor.PID) {
	x.pid.Watch(pid)
}

// UnWatch stops watching the given actor
func (x *probe) UnWatch(pid *actor.PID) {
	x.pid.UnWatch(pid)
}

// Reply replies to the last sender
func (x *probe) Reply(message any) {
	sender := x.Sender()
	if sender == nil {
		x.fail(ErrMismatch, "no sender to reply to")
		return
	}
	require.NoError(x.pt, x.pid.Tell(x.testCtx, sender, message))
}

// Forward forwards the last received message
func (x *probe) Forward(to *actor.PID) {
	if x.lastMessage == nil {
		x.fail(ErrMismatch, "no message to forward")
		return
	}

	sender := x.lastMessage.sender
	if sender == nil {
		require.NoError(x.pt, actor.Tell(x.testCtx, to, x.lastMessage.payload))
		return
	}
	require.NoError(x.pt, sender.Tell(x.testCtx, to, x.lastMessage.payload))
}

// Send sends a message to the given actor
func (x *probe) Send(actorName string, message any) {
	to, err := x.pid.ActorSystem().LocalActor(actorName)
	require.NoError(x.pt, err)
	require.NoError(x.pt, x.pid.Tell(x.testCtx, to, message))
}

// SendSync sends a message to the actor to be tested and buffers the response.
// This method is only used when one to assert that the actor to be tested is able to respond when an Ask message is sent.
func (x *probe) SendSync(actorName string, msg any, timeout time.Duration) {
	to, err := x.pid.ActorSystem().LocalActor(actorName)
	require.NoError(x.pt, err)
	received, err := x.pid.Ask(x.testCtx, to, msg, x.Dilated(timeout)).Await(x.testCtx)
	require.NoError(x.pt, err)
	require.NoError(x.pt, x.messages.Put(&message{sender: to, payload: received}))
}

// Sender returns the last sender
func (x *probe) Sender() *actor.PID {
	if x.lastMessage == nil {
		return actor.NoSender
	}
	return x.lastMessage.sender
}

// LastMessage returns the last received message
func (x *probe) LastMessage() any {
	if x.lastMessage == nil {
		return nil
	}
	return x.lastMessage.payload
}

// MsgAvailable reports whether a message is buffered
func (x *probe) MsgAvailable() bool {
	return x.pending != nil || !x.messages.Empty()
}

// PID returns the pid of the test actor
func (x *probe) PID() *actor.PID {
	return x.pid
}

// Stop stops the test probe
func (x *probe) Stop() {
	err := x.pid.Shutdown(x.testCtx)
	x.messages.Dispose()
	require.NoError(x.pt, err)
}

// intercept runs on the probe actor
func (x *probe) intercept(ctx *actor.ReceiveContext) {
	x.mu.Lock()
	pilot := x.autoPilot
	x.mu.Unlock()

	if pilot != nil {
		next := pilot.Run(ctx)
		if _, keep := next.(keepRunning); !keep {
			x.mu.Lock()
			x.autoPilot = next
			x.mu.Unlock()
		}
	}

	if x.ignored(ctx.Message()) {
		return
	}

	// the queue is disposed once the probe stops
	_ = x.messages.Put(&message{sender: ctx.Sender(), payload: ctx.Message()})
}

func (x *probe) ignored(payload any) bool {
	x.mu.Lock()
	ignore := x.ignore
	x.mu.Unlock()
	return ignore != nil && ignore(payload)
}

// receiveOne waits for the next message that is not ignored.
// A non-positive timeout only takes what is already buffered.
func (x *probe) receiveOne(timeout time.Duration) *message {
	x.lastWasNoMessage = false
	deadline := time.Now().Add(timeout)
	for {
		received := x.next(time.Until(deadline))
		if received == nil {
			return nil
		}

		if x.ignored(received.payload) {
			continue
		}

		x.lastMessage = received
		return received
	}
}

func (x *probe) next(timeout time.Duration) *message {
	if x.pending != nil {
		received := x.pending
		x.pending = nil
		return received
	}

	if timeout <= 0 {
		if x.messages.Empty() {
			return nil
		}
		timeout = time.Millisecond
	}

	items, err := x.messages.Poll(1, timeout)
	if err != nil || len(items) == 0 {
		return nil
	}

	received, _ := items[0].(*message)
	return received
}

func (x *probe) receiveN(n int, max time.Duration) []any {
	if n < 0 {
		x.fail(ErrMismatch, "cannot receive a negative number of messages (%d)", n)
		return nil
	}

	stop := time.Now().Add(max)
	results := make([]any, 0, n)
	for i := 0; i < n; i++ {
		received := x.receiveOne(time.Until(stop))
		if received == nil {
			x.fail(ErrTimeout, "timeout (%v) while expecting %d messages (got %d)", max, n, i)
			return results
		}
		results = append(results, received.payload)
	}
	return results
}

func (x *probe) expectMessage(max time.Duration, expected any) any {
	received := x.receiveOne(max)
	if received == nil {
		x.fail(ErrTimeout, "timeout (%v) during expectMessage while waiting for %v", max, expected)
		return nil
	}

	if !equal(expected, received.payload) {
		x.fail(ErrMismatch, "expected %v, found %v", expected, received.payload)
		return nil
	}
	return received.payload
}

func (x *probe) expectMessageOfType(max time.Duration, messageType reflect.Type) any {
	received := x.receiveOne(max)
	if received == nil {
		x.fail(ErrTimeout, "timeout (%v) during expectMessageOfType while waiting for %v", max, messageType)
		return nil
	}

	if !isOfType(received.payload, messageType) {
		x.fail(ErrMismatch, "expected %v, found %T", messageType, received.payload)
		return nil
	}
	return received.payload
}

func (x *probe) expectMessageAnyOf(max time.Duration, candidates []any) any {
	received := x.receiveOne(max)
	if received == nil {
		x.fail(ErrTimeout, "timeout (%v) during expectMessageAnyOf waiting for one of %v", max, candidates)
		return nil
	}

	for _, candidate := range candidates {
		if equal(candidate, received.payload) {
			return received.payload
		}
	}

	x.fail(ErrMismatch, "expected one of %v, found %v", candidates, received.payload)
	return nil
}

func (x *probe) expectMessageAllOf(max time.Duration, candidates []any) []any {
	received := x.receiveN(len(candidates), max)
	if len(received) < len(candidates) {
		return received
	}

	matched := make([]bool, len(received))
	var missing []any
	for _, candidate := range candidates {
		found := false
		for i, payload := range received {
			if !matched[i] && equal(candidate, payload) {
				matched[i] = true
				found = true
				break
			}
		}

		if !found {
			missing = append(missing, candidate)
		}
	}

	var unexpected []any
	for i, payload := range received {
		if !matched[i] {
			unexpected = append(unexpected, payload)
		}
	}

	if len(missing) > 0 || len(unexpected) > 0 {
		var report []string
		if len(missing) > 0 {
			report = append(report, fmt.Sprintf("missing %v", missing))
		}
		if len(unexpected) > 0 {
			report = append(report, fmt.Sprintf("unexpected %v", unexpected))
		}
		x.fail(ErrMismatch, "expectMessageAllOf found %s", strings.Join(report, " and "))
	}
	return received
}

func (x *probe) expectAnyMessage(max time.Duration) any {
	received := x.receiveOne(max)
	if received == nil {
		x.fail(ErrTimeout, "timeout (%v) during expectAnyMessage while waiting", max)
		return nil
	}
	return received.payload
}

func (x *probe) expectNoMessage(max time.Duration) {
	received := x.receiveOne(max)
	x.lastWasNoMessage = true
	if received != nil {
		x.fail(ErrMismatch, "received unexpected message %v", received.payload)
	}
}

func (x *probe) remainingOrDefault() time.Duration {
	return x.RemainingOr(x.Dilated(x.config.SingleExpectDefault))
}

func (x *probe) remainingOrDilated(max time.Duration) time.Duration {
	if max <= 0 {
		return x.remainingOrDefault()
	}
	return x.Dilated(max)
}

func (x *probe) fail(err error, format string, args ...any) {
	if h, ok := x.pt.(helper); ok {
		h.Helper()
	}
	require.Fail(x.pt, fmt.Sprintf("%v: %s", err, fmt.Sprintf(format, args...)))
}

// equal compares protocol buffers messages with proto.Equal and any other value with ObjectsAreEqual
func equal(expected, actual any) bool {
	if want, ok := expected.(proto.Message); ok {
		got, ok := actual.(proto.Message)
		return ok && proto.Equal(want, got)
	}
	return assert.ObjectsAreEqual(expected, actual)
}

func isOfType(payload any, messageType reflect.Type) bool {
	if messageType == nil || payload == nil {
		return false
	}

	actual := reflect.TypeOf(payload)
	if actual == messageType {
		return true
	}
	return messageType.Kind() == reflect.Interface && actual.Implements(messageType)
}

// ExpectMessageOf asserts that the next message received by the probe is a T and returns it
func ExpectMessageOf[T any](testProbe Probe) T {
	var zero T
	received, ok := testProbe.ExpectMessageOfType(reflect.TypeFor[T]()).(T)
	if !ok {
		return zero
	}
	return received
}
