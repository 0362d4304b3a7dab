// Copyright 2024 Google LLC
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

// Package verify implements the Memory Access Verifier, Operand, Operation,
// Model and Request validators of spec.md §4.
package verify

import "github.com/nnhal/corevalidate/graph"

// MemoryAccessVerifier checks (poolIndex, offset, length) triples against
// a fixed list of pools, caching each pool's effective size up front
// (spec.md §4.1).
type MemoryAccessVerifier struct {
	sizes []uint64
}

// NewMemoryAccessVerifier builds a verifier over pools.
func NewMemoryAccessVerifier(pools []graph.MemoryPool) *MemoryAccessVerifier {
	sizes := make([]uint64, len(pools))
	for i, p := range pools {
		sizes[i] = p.EffectiveSize()
	}
	return &MemoryAccessVerifier{sizes: sizes}
}

// Validate reports whether loc addresses a legal byte range within one of
// the verifier's pools. offset+length is computed in 64 bits so a
// 32-bit-native overflow cannot be mistaken for an in-range access
// (spec.md §4.1, §8).
func (v *MemoryAccessVerifier) Validate(loc graph.Location) bool {
	if uint64(loc.PoolIndex) >= uint64(len(v.sizes)) {
		return false
	}
	end := uint64(loc.Offset) + uint64(loc.Length)
	return end <= v.sizes[loc.PoolIndex]
}

// PoolCount returns the number of pools the verifier was built from.
func (v *MemoryAccessVerifier) PoolCount() int { return len(v.sizes) }
