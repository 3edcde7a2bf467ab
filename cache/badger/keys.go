// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import "encoding/binary"

const (
	valuePrefix  = "cacval"
	orderPrefix  = "cacord"
	orderSeqName = "cacordseq"
)

// makeValueKey generates the key holding the entry for a key digest.
// Format: prefix:digest
func makeValueKey(digest string) []byte {
	return []byte(valuePrefix + ":" + digest)
}

// makeOrderKey generates a key for the insertion-order index.
// Format: prefix:seq
func makeOrderKey(seq uint64) []byte {
	prefix := orderPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makeOrderPrefix returns the prefix shared by every order index key.
func makeOrderPrefix() []byte {
	return []byte(orderPrefix + ":")
}

// orderSeq decodes the sequence suffix of an order index key.
func orderSeq(suffix []byte) uint64 {
	return binary.BigEndian.Uint64(suffix)
}
