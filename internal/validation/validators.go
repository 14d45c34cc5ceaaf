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
)

var errInvalidExpression = errors.New("invalid expression")

type booleanValidator struct {
	check bool
	err   error
}

// NewBooleanValidator creates a validator that fails with err when check is false
func NewBooleanValidator(check bool, err error) Validator {
	return booleanValidator{check: check, err: err}
}

// Validate returns an error if boolean check is false
func (v booleanValidator) Validate() error {
	if !v.check {
		return v.err
	}
	return nil
}

type emptyStringValidator struct {
	value string
	err   error
}

// NewEmptyStringValidator creates a validator that fails with err when value is empty
func NewEmptyStringValidator(value string, err error) Validator {
	return emptyStringValidator{value: value, err: err}
}

// Validate executes the validation
func (v emptyStringValidator) Validate() error {
	if v.value == "" {
		return v.err
	}
	return nil
}

// patternValidator matches an expression against a compiled pattern
type patternValidator struct {
	pattern    *regexp.Regexp
	expression string
	customErr  error
}

// NewPatternValidator creates an instance of the validator.
// customErr is returned on mismatch when set.
func NewPatternValidator(pattern *regexp.Regexp, expression string, customErr error) Validator {
	return patternValidator{
		pattern:    pattern,
		expression: expression,
		customErr:  customErr,
	}
}

// Validate executes the validation
func (v patternValidator) Validate() error {
	if v.pattern.MatchString(v.expression) {
		return nil
	}

	if v.customErr != nil {
		return v.customErr
	}
	return errInvalidExpression
}
