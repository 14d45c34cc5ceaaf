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

package metric

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// ActorSystemMetric groups the actor system instruments
type ActorSystemMetric struct {
	actorsCount      metric.Int64ObservableGauge
	deadlettersCount metric.Int64ObservableCounter
	processedCount   metric.Int64ObservableCounter
}

// NewActorSystemMetric creates an instance of ActorSystemMetric
func NewActorSystemMetric(meter metric.Meter) (*ActorSystemMetric, error) {
	var (
		instruments ActorSystemMetric
		err         error
	)

	if instruments.actorsCount, err = meter.Int64ObservableGauge(
		"actorsystem.actors.count",
		metric.WithDescription("Number of live actors in the actor system"),
	); err != nil {
		return nil, fmt.Errorf("failed to create actorsCount instrument, %w", err)
	}

	if instruments.deadlettersCount, err = meter.Int64ObservableCounter(
		"actorsystem.deadletters.count",
		metric.WithDescription("Total number of deadletters in the actor system"),
	); err != nil {
		return nil, fmt.Errorf("failed to create deadlettersCount instrument, %w", err)
	}

	if instruments.processedCount, err = meter.Int64ObservableCounter(
		"actorsystem.processed.count",
		metric.WithDescription("Total number of messages processed by the actors of the actor system"),
	); err != nil {
		return nil, fmt.Errorf("failed to create processedCount instrument, %w", err)
	}

	return &instruments, nil
}

// ActorsCount returns the live actors gauge
func (x *ActorSystemMetric) ActorsCount() metric.Int64ObservableGauge {
	return x.actorsCount
}

// DeadlettersCount returns the deadletters counter
func (x *ActorSystemMetric) DeadlettersCount() metric.Int64ObservableCounter {
	return x.deadlettersCount
}

// ProcessedCount returns the processed messages counter
func (x *ActorSystemMetric) ProcessedCount() metric.Int64ObservableCounter {
	return x.processedCount
}
