// Copyright 2024 The PrivCount Go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package polynomial implements polynomials over the counting protocol's
// prime field. A sharing polynomial's constant coefficient is the secret
// being shared; the remaining coefficients are drawn at random.
package polynomial

import (
	"fmt"
	"strings"

	"github.com/privatemetrics/privcount/field"
)

// Polynomial is a polynomial over the field, represented by its
// coefficients in ascending order: coefficient i multiplies x^i.
type Polynomial struct {
	coeffs []field.Element
}

// New creates a polynomial from its coefficients in ascending order.
// At least one coefficient is required.
func New(coeffs []field.Element) (Polynomial, error) {
	if len(coeffs) == 0 {
		return Polynomial{}, fmt.Errorf("polynomial: must have at least one coefficient")
	}
	c := make([]field.Element, len(coeffs))
	copy(c, coeffs)
	return Polynomial{coeffs: c}, nil
}

// Random creates a polynomial of the given degree whose value at zero is
// valueAtZero and whose remaining coefficients are uniformly random.
func Random(degree int, valueAtZero field.Element) (Polynomial, error) {
	if degree < 0 {
		return Polynomial{}, fmt.Errorf("polynomial: degree must be non-negative, got %d", degree)
	}
	coeffs := make([]field.Element, degree+1)
	coeffs[0] = valueAtZero
	for i := 1; i <= degree; i++ {
		var err error
		if coeffs[i], err = field.Random(); err != nil {
			return Polynomial{}, err
		}
	}
	return Polynomial{coeffs: coeffs}, nil
}

// Degree returns the degree of the polynomial, one less than its
// coefficient count.
func (p Polynomial) Degree() int {
	return len(p.coeffs) - 1
}

// EvaluateAt returns the value of the polynomial at x, computed with
// Horner's method in exact field arithmetic.
func (p Polynomial) EvaluateAt(x field.Element) field.Element {
	accumulator := field.Zero()
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		accumulator = accumulator.Multiply(x).Add(p.coeffs[i])
	}
	return accumulator
}

func (p Polynomial) String() string {
	terms := make([]string, len(p.coeffs))
	for i, c := range p.coeffs {
		terms[i] = fmt.Sprintf("%d * x^%d", c.Uint64(), i)
	}
	return strings.Join(terms, " + ")
}
