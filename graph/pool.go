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

package graph

// PoolKind discriminates the MemoryPool tagged union.
type PoolKind int

const (
	// PoolHidlMemory is a named shared-memory region (ashmem, mmap_fd,
	// hardware_buffer_blob, hardware_buffer).
	PoolHidlMemory PoolKind = iota
	// PoolToken is a HAL v1.3 request-only opaque token pool, treated as
	// size 0 for location checks.
	PoolToken
)

// MemoryPool is either a hidlMemory region or (v1.3 requests only) a
// positive token.
type MemoryPool struct {
	Kind PoolKind

	// Set when Kind == PoolHidlMemory.
	HidlName string
	Size     uint64
	Handle   any

	// Set when Kind == PoolToken. Must be > 0.
	Token int64
}

// HidlMemoryPool constructs a named hidlMemory pool.
func HidlMemoryPool(name string, size uint64, handle any) MemoryPool {
	return MemoryPool{Kind: PoolHidlMemory, HidlName: name, Size: size, Handle: handle}
}

// TokenPool constructs a v1.3 token pool.
func TokenPool(token int64) MemoryPool {
	return MemoryPool{Kind: PoolToken, Token: token}
}

// EffectiveSize returns the size used for location checks: the declared
// size for a hidlMemory pool, or 0 for a token pool.
func (p MemoryPool) EffectiveSize() uint64 {
	if p.Kind == PoolToken {
		return 0
	}
	return p.Size
}
