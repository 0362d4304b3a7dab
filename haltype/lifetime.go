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

// OperandLifeTime classifies where an operand's value comes from and how
// long it lives.
type OperandLifeTime int

const (
	// CONSTANT_COPY values are inlined in the model's operandValues blob.
	CONSTANT_COPY OperandLifeTime = iota
	// CONSTANT_REFERENCE values live in a memory pool.
	CONSTANT_REFERENCE
	// TEMPORARY_VARIABLE values are produced and consumed within the graph.
	TEMPORARY_VARIABLE
	// SUBGRAPH_INPUT marks a subgraph boundary input.
	SUBGRAPH_INPUT
	// SUBGRAPH_OUTPUT marks a subgraph boundary output.
	SUBGRAPH_OUTPUT
	// NO_VALUE marks an optional, absent operand.
	NO_VALUE
	// SUBGRAPH_LIFETIME marks a reference to another subgraph (HAL v1.3 only).
	SUBGRAPH_LIFETIME
)

// String names the lifetime, for diagnostics.
func (l OperandLifeTime) String() string {
	switch l {
	case CONSTANT_COPY:
		return "CONSTANT_COPY"
	case CONSTANT_REFERENCE:
		return "CONSTANT_REFERENCE"
	case TEMPORARY_VARIABLE:
		return "TEMPORARY_VARIABLE"
	case SUBGRAPH_INPUT:
		return "SUBGRAPH_INPUT"
	case SUBGRAPH_OUTPUT:
		return "SUBGRAPH_OUTPUT"
	case NO_VALUE:
		return "NO_VALUE"
	case SUBGRAPH_LIFETIME:
		return "SUBGRAPH_LIFETIME"
	default:
		return "UNKNOWN_LIFETIME"
	}
}

// HasAllZeroLocation reports whether this lifetime requires an all-zero
// (poolIndex, offset, length) location.
func (l OperandLifeTime) HasAllZeroLocation() bool {
	switch l {
	case TEMPORARY_VARIABLE, SUBGRAPH_INPUT, SUBGRAPH_OUTPUT, NO_VALUE:
		return true
	default:
		return false
	}
}

// Valid reports whether l is a known lifetime.
func (l OperandLifeTime) Valid() bool {
	return l >= CONSTANT_COPY && l <= SUBGRAPH_LIFETIME
}

// MinVersion returns the HAL version at which this lifetime may first be
// used. SUBGRAPH_LIFETIME is the only lifetime gated past v1.0.
func (l OperandLifeTime) MinVersion() HalVersion {
	if l == SUBGRAPH_LIFETIME {
		return V1_3
	}
	return V1_0
}
