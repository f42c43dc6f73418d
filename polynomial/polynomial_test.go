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

package polynomial_test

import (
	"testing"

	"github.com/privatemetrics/privcount/field"
	"github.com/privatemetrics/privcount/polynomial"
)

func TestEvaluateAtVectors(t *testing.T) {
	// p(x) = 5 + 100x + x^2
	p, err := polynomial.New([]field.Element{field.New(5), field.New(100), field.New(1)})
	if err != nil {
		t.Fatalf("polynomial.New() err = %v, want nil", err)
	}
	for _, tc := range []struct {
		x    uint64
		want uint64
	}{
		{0, 5},
		{1, 106},
		{2, 209},
		{3, 314},
	} {
		if got := p.EvaluateAt(field.New(tc.x)); !got.Equal(field.New(tc.want)) {
			t.Errorf("p.EvaluateAt(%d) = %v, want FE(%d)", tc.x, got, tc.want)
		}
	}
}

func TestNewRequiresCoefficients(t *testing.T) {
	if _, err := polynomial.New(nil); err == nil {
		t.Error("polynomial.New(nil) err = nil, want error")
	}
}

func TestRandomFixesIntercept(t *testing.T) {
	for _, degree := range []int{0, 1, 3, 10} {
		p, err := polynomial.Random(degree, field.New(6))
		if err != nil {
			t.Fatalf("polynomial.Random(%d) err = %v, want nil", degree, err)
		}
		if got := p.Degree(); got != degree {
			t.Errorf("Degree() = %d, want %d", got, degree)
		}
		if got := p.EvaluateAt(field.Zero()); !got.Equal(field.New(6)) {
			t.Errorf("EvaluateAt(0) = %v, want FE(6)", got)
		}
	}
}

func TestRandomRejectsNegativeDegree(t *testing.T) {
	if _, err := polynomial.Random(-1, field.Zero()); err == nil {
		t.Error("polynomial.Random(-1) err = nil, want error")
	}
}

func TestEvaluateAtZeroIsConstantCoefficient(t *testing.T) {
	for i := 0; i < 50; i++ {
		v, err := field.Random()
		if err != nil {
			t.Fatalf("field.Random() err = %v, want nil", err)
		}
		p, err := polynomial.Random(4, v)
		if err != nil {
			t.Fatalf("polynomial.Random() err = %v, want nil", err)
		}
		if got := p.EvaluateAt(field.Zero()); !got.Equal(v) {
			t.Fatalf("EvaluateAt(0) = %v, want %v", got, v)
		}
	}
}
