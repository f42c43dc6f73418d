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

package sharecrypt

import "github.com/privatemetrics/privcount/field"

// SimulatedEncryptor tags values with the recipient identity and
// performs no cryptographic transformation. It exists so the protocol
// can be exercised in tests and demos without key material; it provides
// no secrecy whatsoever.
type SimulatedEncryptor struct{}

var _ Encryptor = SimulatedEncryptor{}

// Encrypt wraps v in a ciphertext addressed to recipient. The payload
// is the serialized element in the clear.
func (SimulatedEncryptor) Encrypt(v field.Element, recipient string) (Ciphertext, error) {
	return Ciphertext{Recipient: recipient, Payload: v.Bytes()}, nil
}

// SimulatedDecryptor opens simulated ciphertexts addressed to one
// identity. Ciphertexts for any other identity are refused, imitating
// the access control a real private key provides.
type SimulatedDecryptor struct {
	identity string
}

var _ Decryptor = (*SimulatedDecryptor)(nil)

// NewSimulatedDecryptor creates a decryptor for the given identity.
func NewSimulatedDecryptor(identity string) *SimulatedDecryptor {
	return &SimulatedDecryptor{identity: identity}
}

// Recipient returns the identity this decryptor opens ciphertexts for.
func (d *SimulatedDecryptor) Recipient() string { return d.identity }

// Decrypt recovers the element from a simulated ciphertext sealed to
// this decryptor's identity.
func (d *SimulatedDecryptor) Decrypt(ct Ciphertext) (field.Element, error) {
	if ct.Recipient != d.identity {
		return field.Zero(), ErrWrongRecipient
	}
	return field.FromBytes(ct.Payload)
}
