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

package haltype

// OperandType is the type tag of an Operand: a scalar, a tensor, or an
// opaque extension type.
type OperandType int32

// Scalar and tensor operand types known to this registry.
const (
	FLOAT32 OperandType = iota
	INT32
	UINT32
	FLOAT16
	BOOL
	SUBGRAPH
	OEM

	TENSOR_FLOAT32
	TENSOR_INT32
	TENSOR_QUANT8_ASYMM
	TENSOR_FLOAT16
	TENSOR_BOOL8
	TENSOR_QUANT8_SYMM
	TENSOR_QUANT16_ASYMM
	TENSOR_QUANT16_SYMM
	TENSOR_QUANT8_SYMM_PER_CHANNEL
	TENSOR_QUANT8_ASYMM_SIGNED
	TENSOR_OEM_BYTE

	// numKnownOperandTypes marks the end of the known-type table; it is
	// not itself a valid operand type.
	numKnownOperandTypes
)

// ExtensionTypeBase is the smallest integer tag treated as an opaque
// extension type rather than a known built-in type.
const ExtensionTypeBase OperandType = 0x10000

// IsExtension reports whether t is an opaque extension type.
func (t OperandType) IsExtension() bool {
	return t >= ExtensionTypeBase
}

// knownSince records the HAL version at which each built-in type was
// introduced. A type not in this table, and not an extension type, is
// unknown at every version.
var knownSince = map[OperandType]HalVersion{
	FLOAT32:             V1_0,
	INT32:               V1_0,
	UINT32:              V1_0,
	OEM:                 V1_0,
	TENSOR_FLOAT32:      V1_0,
	TENSOR_INT32:        V1_0,
	TENSOR_QUANT8_ASYMM: V1_0,
	TENSOR_OEM_BYTE:     V1_0,

	FLOAT16:                        V1_2,
	BOOL:                           V1_2,
	TENSOR_FLOAT16:                 V1_2,
	TENSOR_BOOL8:                   V1_2,
	TENSOR_QUANT8_SYMM:             V1_2,
	TENSOR_QUANT16_ASYMM:           V1_2,
	TENSOR_QUANT16_SYMM:            V1_2,
	TENSOR_QUANT8_SYMM_PER_CHANNEL: V1_2,

	SUBGRAPH:                    V1_3,
	TENSOR_QUANT8_ASYMM_SIGNED:  V1_3,
}

// KnownSince returns the HAL version that introduced t, and whether t is
// known at all (built-in or extension).
func (t OperandType) KnownSince() (HalVersion, bool) {
	if t.IsExtension() {
		return V1_0, true
	}
	v, ok := knownSince[t]
	return v, ok
}

// SupportedAt reports whether t may legally appear in a model declared at
// HAL version v.
func (t OperandType) SupportedAt(v HalVersion) bool {
	since, ok := t.KnownSince()
	if !ok {
		return false
	}
	return v.AtLeast(since)
}

var scalarTypes = map[OperandType]bool{
	FLOAT16:  true,
	FLOAT32:  true,
	INT32:    true,
	UINT32:   true,
	BOOL:     true,
	SUBGRAPH: true,
	OEM:      true,
}

// IsScalar reports whether t is a scalar (rank-0) type.
func (t OperandType) IsScalar() bool {
	if t.IsExtension() {
		return false
	}
	return scalarTypes[t]
}

// IsTensor reports whether t is a tensor type.
func (t OperandType) IsTensor() bool {
	if t.IsExtension() {
		return false
	}
	return !scalarTypes[t] && t < numKnownOperandTypes
}

// IsPerChannelQuant reports whether t is the per-channel symmetric
// quantized tensor type, the only type that requires channelQuant params.
func (t OperandType) IsPerChannelQuant() bool {
	return t == TENSOR_QUANT8_SYMM_PER_CHANNEL
}

var elementByteSize = map[OperandType]uint32{
	FLOAT32:                     4,
	INT32:                       4,
	UINT32:                      4,
	FLOAT16:                     2,
	BOOL:                        1,
	TENSOR_FLOAT32:              4,
	TENSOR_INT32:                4,
	TENSOR_QUANT8_ASYMM:         1,
	TENSOR_FLOAT16:              2,
	TENSOR_BOOL8:                1,
	TENSOR_QUANT8_SYMM:          1,
	TENSOR_QUANT16_ASYMM:        2,
	TENSOR_QUANT16_SYMM:         2,
	TENSOR_QUANT8_SYMM_PER_CHANNEL: 1,
	TENSOR_QUANT8_ASYMM_SIGNED:  1,
	TENSOR_OEM_BYTE:             1,
}

// ElementByteSize returns the size in bytes of one element of t, and
// whether t has a known, type-determined element size at all. OEM and
// extension types have no such size: their declared length is trusted,
// not computed.
func (t OperandType) ElementByteSize() (uint32, bool) {
	if t.IsExtension() || t == OEM || t == TENSOR_OEM_BYTE || t == SUBGRAPH {
		return 0, false
	}
	sz, ok := elementByteSize[t]
	return sz, ok
}
