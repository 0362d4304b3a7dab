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

import "github.com/nnhal/corevalidate/haltype"

// NonExtensionOperandSizeOfData computes the number of bytes a constant
// operand's value must occupy, for every type that is neither an
// extension type nor OEM/TENSOR_OEM_BYTE (spec.md invariant 6). The
// second return value is false when typ has no type-determined size
// (extension, OEM, TENSOR_OEM_BYTE, SUBGRAPH) — callers must not apply
// this check to those operands.
func NonExtensionOperandSizeOfData(typ haltype.OperandType, dimensions []uint32) (uint64, bool) {
	elemSize, ok := typ.ElementByteSize()
	if !ok {
		return 0, false
	}
	count := uint64(1)
	for _, d := range dimensions {
		count *= uint64(d)
	}
	return count * uint64(elemSize), true
}
