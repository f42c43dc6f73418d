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

// Transport integrity digests for counter shares.

package shares

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"hash"
)

// Digest returns a SHA-256 digest over every field of the share,
// including the sealed half. A transport layer can carry it alongside
// the share to detect corruption; it does not authenticate the sender.
func (s ClientCounterShare) Digest() []byte {
	h := sha256.New()
	writeLengthPrefixed(h, []byte(s.Name))
	h.Write(s.X.Bytes())
	h.Write(s.Y1.Bytes())
	writeLengthPrefixed(h, []byte(s.EY2.Recipient))
	writeLengthPrefixed(h, s.EY2.Payload)
	return h.Sum(nil)
}

// VerifyDigest recomputes the share's digest and reports whether it
// matches the expected one.
func (s ClientCounterShare) VerifyDigest(expected []byte) bool {
	return bytes.Equal(s.Digest(), expected)
}

func writeLengthPrefixed(h hash.Hash, b []byte) {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(b)))
	h.Write(n[:])
	h.Write(b)
}
