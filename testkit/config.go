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
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tochemey/actorkit/internal/validation"
)

// TimeFactorEnv overrides the configured time factor when set
const TimeFactorEnv = "ACTORKIT_TEST_TIMEFACTOR"

const (
	DefaultTimeFactor             = 1.0
	DefaultSingleExpectTimeout    = 3 * time.Second
	DefaultExpectNoMessageTimeout = 3 * time.Second
	DefaultTimeout                = 5 * time.Second
	DefaultAwaitInterval          = 100 * time.Millisecond
)

// Config holds the testkit timing settings.
// Every duration is scaled by TimeFactor before use.
type Config struct {
	// TimeFactor scales every probe timeout. Use a value greater than one on slow machines.
	TimeFactor float64 `yaml:"timefactor"`
	// SingleExpectDefault is the implicit timeout of expectations outside of a Within block
	SingleExpectDefault time.Duration `yaml:"single-expect-default"`
	// ExpectNoMessageDefault is the window of ExpectNoMessage
	ExpectNoMessageDefault time.Duration `yaml:"expect-no-message-default"`
	// DefaultTimeout bounds SendSync and the actor system startup
	DefaultTimeout time.Duration `yaml:"default-timeout"`
	// AwaitInterval is the polling interval of AwaitCond and AwaitAssert
	AwaitInterval time.Duration `yaml:"await-interval"`
}

// DefaultConfig returns the default testkit configuration
func DefaultConfig() *Config {
	return &Config{
		TimeFactor:             DefaultTimeFactor,
		SingleExpectDefault:    DefaultSingleExpectTimeout,
		ExpectNoMessageDefault: DefaultExpectNoMessageTimeout,
		DefaultTimeout:         DefaultTimeout,
		AwaitInterval:          DefaultAwaitInterval,
	}
}

// LoadConfig reads a YAML configuration file.
// Keys missing from the file keep their default value.
func LoadConfig(path string) (*Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read testkit config file %s: %w", path, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(bytes, config); err != nil {
		return nil, fmt.Errorf("failed to parse testkit config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	return validation.New(validation.AllErrors()).
		AddAssertion(c.TimeFactor > 0, fmt.Errorf("%w: timefactor must be positive, got %v", ErrInvalidConfig, c.TimeFactor)).
		AddAssertion(c.SingleExpectDefault > 0, fmt.Errorf("%w: single-expect-default must be positive", ErrInvalidConfig)).
		AddAssertion(c.ExpectNoMessageDefault > 0, fmt.Errorf("%w: expect-no-message-default must be positive", ErrInvalidConfig)).
		AddAssertion(c.DefaultTimeout > 0, fmt.Errorf("%w: default-timeout must be positive", ErrInvalidConfig)).
		AddAssertion(c.AwaitInterval > 0, fmt.Errorf("%w: await-interval must be positive", ErrInvalidConfig)).
		Validate()
}

// applyEnv overrides the time factor from the environment
func (c *Config) applyEnv() error {
	value, ok := os.LookupEnv(TimeFactorEnv)
	if !ok || value == "" {
		return nil
	}

	factor, err := strconv.ParseFloat(value, 64)
	if err != nil || factor <= 0 {
		return fmt.Errorf("%w: %s=%q is not a positive number", ErrInvalidConfig, TimeFactorEnv, value)
	}

	c.TimeFactor = factor
	return nil
}

// dilated scales the given duration by the time factor
func (c *Config) dilated(duration time.Duration) time.Duration {
	return time.Duration(float64(duration) * c.TimeFactor)
}
