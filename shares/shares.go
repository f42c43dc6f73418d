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

// Package shares contains the value objects that move between data
// collectors and tally reporters: the half-encrypted share a collector
// transmits, the decrypted share a reporter holds, and the threshold
// reconstruction that recovers an aggregate counter value.
package shares

import (
	"errors"
	"fmt"

	"github.com/privatemetrics/privcount/field"
	"github.com/privatemetrics/privcount/sharecrypt"
)

var (
	// ErrShareMismatch is returned when combining shares that belong
	// to different counters or different x coordinates.
	ErrShareMismatch = errors.New("shares: counter name or x coordinate mismatch")
	// ErrNameMismatch is returned when an interpolation input set
	// spans more than one counter name.
	ErrNameMismatch = errors.New("shares: shares are not all for the same counter")
	// ErrDuplicateShareX is returned when an interpolation input set
	// contains two shares with the same x coordinate.
	ErrDuplicateShareX = errors.New("shares: duplicate x coordinate")
	// ErrNoShares is returned when an operation requires at least one
	// share.
	ErrNoShares = errors.New("shares: no shares provided")
	// ErrNotEnoughShares is returned by Reconstruct when fewer than
	// threshold shares are supplied. Interpolating below the threshold
	// would silently produce a meaningless value.
	ErrNotEnoughShares = errors.New("shares: not enough shares to reconstruct")
)

// ClientCounterShare is one counter share as transmitted by a data
// collector to a single tally reporter: the cleartext half Y1 plus the
// half sealed to that reporter.
type ClientCounterShare struct {
	Name string
	X    field.Element
	Y1   field.Element
	EY2  sharecrypt.Ciphertext
}

// Decrypt recovers the full share value. Only the reporter holding the
// private key for EY2 can perform this.
func (s ClientCounterShare) Decrypt(d sharecrypt.Decryptor) (CounterShare, error) {
	y2, err := d.Decrypt(s.EY2)
	if err != nil {
		return CounterShare{}, fmt.Errorf("unable to decrypt share of counter %q: %w", s.Name, err)
	}
	return CounterShare{Name: s.Name, X: s.X, Y: s.Y1.Add(y2)}, nil
}

func (s ClientCounterShare) String() string {
	return fmt.Sprintf("ClientCounterShare(%s, %v, %v, enc[%s])", s.Name, s.X, s.Y1, s.EY2.Recipient)
}

// CounterShare is one fully decrypted counter share held by a tally
// reporter. Shares for the same counter and coordinate combine
// additively across collectors.
type CounterShare struct {
	Name string
	X    field.Element
	Y    field.Element
}

// Add combines two shares of the same counter at the same coordinate.
// Any other pairing is a data-integrity violation.
func (s CounterShare) Add(o CounterShare) (CounterShare, error) {
	if s.Name != o.Name || !s.X.Equal(o.X) {
		return CounterShare{}, fmt.Errorf("%w: (%s, %v) vs (%s, %v)", ErrShareMismatch, s.Name, s.X, o.Name, o.X)
	}
	return CounterShare{Name: s.Name, X: s.X, Y: s.Y.Add(o.Y)}, nil
}

// Sum folds a non-empty slice of same-counter, same-coordinate shares
// into one combined share.
func Sum(ss []CounterShare) (CounterShare, error) {
	if len(ss) == 0 {
		return CounterShare{}, ErrNoShares
	}
	total := ss[0]
	var err error
	for _, s := range ss[1:] {
		if total, err = total.Add(s); err != nil {
			return CounterShare{}, err
		}
	}
	return total, nil
}

func (s CounterShare) String() string {
	return fmt.Sprintf("CounterShare(%s, %v, %v)", s.Name, s.X, s.Y)
}
