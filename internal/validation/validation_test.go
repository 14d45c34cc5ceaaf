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

package validation

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/suite"
)

var (
	errFirst    = errors.New("first")
	errSecond   = errors.New("second")
	namePattern = regexp.MustCompile(`^[a-z]+$`)
)

type validationTestSuite struct {
	suite.Suite
}

// In order for 'go test' to run this suite, we need to create
// a normal test function and pass our suite to suite.Run
func TestValidation(t *testing.T) {
	suite.Run(t, new(validationTestSuite))
}

func (s *validationTestSuite) TestNewChain() {
	s.Run("new chain without option", func() {
		chain := New()
		s.Assert().NotNil(chain)
		s.Assert().False(chain.failFast)
	})
	s.Run("new chain with options", func() {
		chain := New(FailFast())
		s.Assert().True(chain.failFast)
		chain2 := New(AllErrors())
		s.Assert().False(chain2.failFast)
	})
}

func (s *validationTestSuite) TestValidate() {
	s.Run("with all validators passing", func() {
		err := New().
			AddValidator(NewEmptyStringValidator("name", errFirst)).
			AddValidator(NewPatternValidator(namePattern, "name", errSecond)).
			AddAssertion(true, errSecond).
			Validate()
		s.Assert().NoError(err)
	})
	s.Run("with all errors", func() {
		err := New(AllErrors()).
			AddValidator(NewEmptyStringValidator("", errFirst)).
			AddAssertion(false, errSecond).
			Validate()
		s.Assert().ErrorIs(err, errFirst)
		s.Assert().ErrorIs(err, errSecond)
	})
	s.Run("with fail fast", func() {
		err := New(FailFast()).
			AddAssertion(false, errFirst).
			AddAssertion(false, errSecond).
			Validate()
		s.Assert().ErrorIs(err, errFirst)
		s.Assert().NotErrorIs(err, errSecond)
	})
	s.Run("with pattern mismatch", func() {
		s.Assert().ErrorIs(NewPatternValidator(namePattern, "Name-1", errFirst).Validate(), errFirst)
		s.Assert().ErrorIs(NewPatternValidator(namePattern, "Name-1", nil).Validate(), errInvalidExpression)
	})
}
