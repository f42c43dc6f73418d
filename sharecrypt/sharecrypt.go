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

// Package sharecrypt defines the encryption boundary between data
// collectors and tally reporters. A collector seals one half of each
// split share value to its target reporter; only the holder of that
// reporter's private key can recover it.
//
// Two implementations are provided: Simulated, which only tags values
// with the recipient identity and must never be used where secrecy
// matters, and the Tink-backed hybrid scheme in hybrid.go, which
// performs real public-key encryption.
package sharecrypt

import (
	"errors"

	"github.com/privatemetrics/privcount/field"
)

// ErrWrongRecipient is returned when a decryptor is handed a ciphertext
// sealed to a different identity.
var ErrWrongRecipient = errors.New("sharecrypt: ciphertext sealed to a different recipient")

// ErrUnknownRecipient is returned when an encryptor has no key material
// for the requested identity.
var ErrUnknownRecipient = errors.New("sharecrypt: no key for recipient")

// Ciphertext is one share half sealed to a single reporter. The
// recipient tag is public routing information; the payload is opaque to
// everyone but the recipient.
type Ciphertext struct {
	Recipient string
	Payload   []byte
}

// Encryptor seals a field element to a named recipient. Collectors hold
// one Encryptor configured with every reporter's public key material.
type Encryptor interface {
	Encrypt(v field.Element, recipient string) (Ciphertext, error)
}

// Decryptor recovers field elements sealed to one identity. Each
// reporter holds exactly one Decryptor; decryption of a ciphertext
// sealed to any other identity must fail.
type Decryptor interface {
	// Recipient returns the identity this decryptor can open
	// ciphertexts for.
	Recipient() string
	Decrypt(ct Ciphertext) (field.Element, error)
}
