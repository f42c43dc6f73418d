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

// Package field implements arithmetic over the prime field GF(P) for
// P = 2^64 - 59, the modulus shared by every party in the counting
// protocol. Changing the modulus requires re-keying the whole protocol,
// so it is a package constant rather than configuration.
package field

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
)

// Order is the order of the field, the prime 2^64 - 59.
const Order uint64 = 18446744073709551557

const elementSizeBytes = 8

// ErrDivisionByZero is returned when inverting or dividing by the
// additive identity. It indicates a logic bug in the caller, never an
// expected protocol condition.
var ErrDivisionByZero = errors.New("field: division by zero")

// Element is an element of GF(Order). The zero value is the additive
// identity. Elements are immutable and comparable; the internal residue
// is always in [0, Order).
type Element struct {
	v uint64
}

// New creates an element from v, reduced modulo the field order.
func New(v uint64) Element {
	return Element{v % Order}
}

// NewInt creates an element from a signed value. Negative values wrap
// around the field order, so NewInt(-1) equals New(Order - 1).
func NewInt(v int64) Element {
	if v < 0 {
		return Element{}.Subtract(New(uint64(-v)))
	}
	return New(uint64(v))
}

// Zero returns the additive identity.
func Zero() Element { return Element{} }

// One returns the multiplicative identity.
func One() Element { return Element{1} }

// Add returns e + x.
func (e Element) Add(x Element) Element {
	s, carry := bits.Add64(e.v, x.v, 0)
	// Both inputs are below Order, so the true sum is below 2*Order and a
	// single conditional subtraction reduces it. When the 64-bit sum
	// carried, s already equals e + x - 2^64, and 2^64 = Order + 59.
	if carry == 1 {
		return Element{s + 59}
	}
	if s >= Order {
		s -= Order
	}
	return Element{s}
}

// Subtract returns e - x.
func (e Element) Subtract(x Element) Element {
	d, borrow := bits.Sub64(e.v, x.v, 0)
	if borrow == 1 {
		d += Order
	}
	return Element{d}
}

// Negate returns the additive inverse of e.
func (e Element) Negate() Element {
	if e.v == 0 {
		return e
	}
	return Element{Order - e.v}
}

// Multiply returns e * x.
func (e Element) Multiply(x Element) Element {
	hi, lo := bits.Mul64(e.v, x.v)
	// hi < Order because both factors are below Order, so Div64 is safe.
	_, rem := bits.Div64(hi, lo, Order)
	return Element{rem}
}

// Inverse returns the multiplicative inverse of e, computed as
// e^(Order-2) by Fermat's little theorem. Inverting the additive
// identity fails with ErrDivisionByZero.
func (e Element) Inverse() (Element, error) {
	if e.v == 0 {
		return Element{}, ErrDivisionByZero
	}
	inverse := One()
	a := e
	for exponent := Order - 2; exponent > 0; exponent >>= 1 {
		if exponent&1 == 1 {
			inverse = inverse.Multiply(a)
		}
		a = a.Multiply(a)
	}
	return inverse, nil
}

// Divide returns e / x, failing with ErrDivisionByZero when x is the
// additive identity.
func (e Element) Divide(x Element) (Element, error) {
	inv, err := x.Inverse()
	if err != nil {
		return Element{}, err
	}
	return e.Multiply(inv), nil
}

// Equal reports whether the two elements are the same residue.
func (e Element) Equal(x Element) bool {
	return e.v == x.v
}

// IsZero reports whether e is the additive identity.
func (e Element) IsZero() bool {
	return e.v == 0
}

// Uint64 returns the reduced residue of e.
func (e Element) Uint64() uint64 {
	return e.v
}

// Bytes returns the element as an 8-byte big endian slice.
func (e Element) Bytes() []byte {
	o := make([]byte, elementSizeBytes)
	binary.BigEndian.PutUint64(o, e.v)
	return o
}

// FromBytes reads an element from an 8-byte big endian slice. The
// encoded value must already be a reduced residue.
func FromBytes(b []byte) (Element, error) {
	if len(b) != elementSizeBytes {
		return Element{}, fmt.Errorf("field: encoded element must be %d bytes, got %d", elementSizeBytes, len(b))
	}
	v := binary.BigEndian.Uint64(b)
	if v >= Order {
		return Element{}, fmt.Errorf("field: encoded value %d is not a reduced residue", v)
	}
	return Element{v}, nil
}

func (e Element) String() string {
	return fmt.Sprintf("FE(%d)", e.v)
}

// Random returns a uniformly distributed element, drawn by rejection
// sampling over 8-byte reads from crypto/rand so there is no modulo
// bias. The rejection probability per draw is 59/2^64.
func Random() (Element, error) {
	b := make([]byte, elementSizeBytes)
	for {
		if _, err := rand.Read(b); err != nil {
			return Element{}, fmt.Errorf("field: rand.Read failed: %v", err)
		}
		v := binary.BigEndian.Uint64(b)
		if v < Order {
			return Element{v}, nil
		}
	}
}

// Split returns two elements (m, r) such that m + r == e, with m drawn
// uniformly at random. Either half on its own reveals nothing about e.
func (e Element) Split() (Element, Element, error) {
	m, err := Random()
	if err != nil {
		return Element{}, Element{}, err
	}
	return m, e.Subtract(m), nil
}
