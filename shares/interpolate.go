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

package shares

import "github.com/privatemetrics/privcount/field"

// Interpolate recovers the sharing polynomial's y intercept from a set
// of shares by Lagrange interpolation at x = 0:
//
//	∑i y[i] * ( ∏j≠i x[j] / (x[j] - x[i]) )
//
// All shares must carry the same counter name and pairwise-distinct x
// coordinates. The caller is responsible for supplying a threshold-sized
// set; with fewer shares the result is a well-formed but meaningless
// field element. Protocol code should use Reconstruct, which enforces
// the threshold.
func Interpolate(ss []CounterShare) (field.Element, error) {
	if err := validateInterpolationInput(ss); err != nil {
		return field.Zero(), err
	}

	accumulator := field.Zero()
	for i, sh := range ss {
		numerator := field.One()
		denominator := field.One()
		for j, sh2 := range ss {
			if i == j {
				continue
			}
			numerator = numerator.Multiply(sh2.X)
			denominator = denominator.Multiply(sh2.X.Subtract(sh.X))
		}
		// The x coordinates are pairwise distinct, so the denominator
		// is nonzero.
		basis, err := numerator.Divide(denominator)
		if err != nil {
			return field.Zero(), err
		}
		accumulator = accumulator.Add(sh.Y.Multiply(basis))
	}
	return accumulator, nil
}

// Reconstruct recovers the aggregate counter value from at least
// threshold shares, interpolating over exactly the first threshold of
// them. Supplying fewer than threshold shares fails with
// ErrNotEnoughShares rather than interpolating garbage.
func Reconstruct(ss []CounterShare, threshold int) (field.Element, error) {
	if threshold < 1 {
		return field.Zero(), ErrNotEnoughShares
	}
	if len(ss) < threshold {
		return field.Zero(), ErrNotEnoughShares
	}
	return Interpolate(ss[:threshold])
}

func validateInterpolationInput(ss []CounterShare) error {
	if len(ss) == 0 {
		return ErrNoShares
	}
	xs := make(map[field.Element]bool, len(ss))
	for _, sh := range ss {
		if sh.Name != ss[0].Name {
			return ErrNameMismatch
		}
		if xs[sh.X] {
			return ErrDuplicateShareX
		}
		xs[sh.X] = true
	}
	return nil
}
