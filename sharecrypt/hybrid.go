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

// Hybrid public-key encryption of share halves, backed by Tink.

package sharecrypt

import (
	"fmt"

	"github.com/google/tink/go/hybrid"
	"github.com/google/tink/go/keyset"
	"github.com/google/tink/go/tink"
	"github.com/privatemetrics/privcount/field"
)

// NewHybridKeyset generates a fresh private keyset for one reporter,
// using ECIES with HKDF and AES-128-GCM.
func NewHybridKeyset() (*keyset.Handle, error) {
	handle, err := keyset.NewHandle(hybrid.ECIESHKDFAES128GCMKeyTemplate())
	if err != nil {
		return nil, fmt.Errorf("unable to generate hybrid keyset: %v", err)
	}
	return handle, nil
}

// HybridEncryptor seals share halves with per-recipient hybrid
// public-key encryption. The recipient identity is bound into the
// ciphertext as context info, so a ciphertext re-addressed to another
// reporter fails to decrypt even if keys were somehow shared.
type HybridEncryptor struct {
	encrypters map[string]tink.HybridEncrypt
}

var _ Encryptor = (*HybridEncryptor)(nil)

// NewHybridEncryptor creates an encryptor from each recipient's public
// keyset handle.
func NewHybridEncryptor(publicKeys map[string]*keyset.Handle) (*HybridEncryptor, error) {
	encrypters := make(map[string]tink.HybridEncrypt, len(publicKeys))
	for identity, pub := range publicKeys {
		he, err := hybrid.NewHybridEncrypt(pub)
		if err != nil {
			return nil, fmt.Errorf("unable to create hybrid encrypter for %q: %v", identity, err)
		}
		encrypters[identity] = he
	}
	return &HybridEncryptor{encrypters: encrypters}, nil
}

// Encrypt seals v to the named recipient.
func (e *HybridEncryptor) Encrypt(v field.Element, recipient string) (Ciphertext, error) {
	he, ok := e.encrypters[recipient]
	if !ok {
		return Ciphertext{}, fmt.Errorf("%w: %q", ErrUnknownRecipient, recipient)
	}
	payload, err := he.Encrypt(v.Bytes(), []byte(recipient))
	if err != nil {
		return Ciphertext{}, fmt.Errorf("unable to encrypt share half for %q: %v", recipient, err)
	}
	return Ciphertext{Recipient: recipient, Payload: payload}, nil
}

// HybridDecryptor opens share halves sealed to one reporter with that
// reporter's private keyset.
type HybridDecryptor struct {
	identity  string
	decrypter tink.HybridDecrypt
}

var _ Decryptor = (*HybridDecryptor)(nil)

// NewHybridDecryptor creates a decryptor for the given identity from its
// private keyset handle.
func NewHybridDecryptor(identity string, private *keyset.Handle) (*HybridDecryptor, error) {
	hd, err := hybrid.NewHybridDecrypt(private)
	if err != nil {
		return nil, fmt.Errorf("unable to create hybrid decrypter for %q: %v", identity, err)
	}
	return &HybridDecryptor{identity: identity, decrypter: hd}, nil
}

// Recipient returns the identity this decryptor opens ciphertexts for.
func (d *HybridDecryptor) Recipient() string { return d.identity }

// Decrypt recovers the element from a ciphertext sealed to this
// decryptor's identity.
func (d *HybridDecryptor) Decrypt(ct Ciphertext) (field.Element, error) {
	if ct.Recipient != d.identity {
		return field.Zero(), ErrWrongRecipient
	}
	plaintext, err := d.decrypter.Decrypt(ct.Payload, []byte(d.identity))
	if err != nil {
		return field.Zero(), fmt.Errorf("unable to decrypt share half: %v", err)
	}
	return field.FromBytes(plaintext)
}
