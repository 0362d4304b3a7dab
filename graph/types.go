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

// Package graph is the data model: Operand, Operation, Subgraph, Model,
// MemoryPool and Request, and the pure functions over them
// (nonExtensionOperandSizeOfData, HAL-version upgrade). It has no
// validation logic of its own; see package verify for that.
package graph

import "github.com/nnhal/corevalidate/haltype"

// Location identifies a (poolIndex, offset, length) byte range. The
// all-zero location is used by lifetimes that carry no address
// (TEMPORARY_VARIABLE, SUBGRAPH_INPUT/OUTPUT, NO_VALUE).
type Location struct {
	PoolIndex uint32
	Offset    uint32
	Length    uint32
}

// IsAllZero reports whether every field of the location is zero.
func (l Location) IsAllZero() bool {
	return l.PoolIndex == 0 && l.Offset == 0 && l.Length == 0
}

// ExtraParamsKind discriminates the ExtraParams tagged union.
type ExtraParamsKind int

const (
	ExtraParamsNone ExtraParamsKind = iota
	ExtraParamsChannelQuant
	ExtraParamsExtension
)

// ChannelQuant is the per-channel quantization parameter set, valid only
// for TENSOR_QUANT8_SYMM_PER_CHANNEL operands.
type ChannelQuant struct {
	ChannelDim uint32
	Scales     []float32
}

// ExtraParams is a tagged union over {none, channelQuant, extension}, per
// spec.md §3.
type ExtraParams struct {
	Kind           ExtraParamsKind
	ChannelQuant   ChannelQuant
	ExtensionBytes []byte
}

// NoExtraParams returns the "none" alternative.
func NoExtraParams() ExtraParams { return ExtraParams{Kind: ExtraParamsNone} }

// ChannelQuantParams returns the "channelQuant" alternative.
func ChannelQuantParams(channelDim uint32, scales []float32) ExtraParams {
	return ExtraParams{Kind: ExtraParamsChannelQuant, ChannelQuant: ChannelQuant{ChannelDim: channelDim, Scales: scales}}
}

// ExtensionParams returns the "extension" alternative.
func ExtensionParams(bytes []byte) ExtraParams {
	return ExtraParams{Kind: ExtraParamsExtension, ExtensionBytes: bytes}
}

// Operand is a typed value node in the graph.
type Operand struct {
	Type        haltype.OperandType
	Dimensions  []uint32
	Scale       float32
	ZeroPoint   int32
	Lifetime    haltype.OperandLifeTime
	Location    Location
	ExtraParams ExtraParams
}

// Rank returns the operand's declared rank (number of dimensions).
func (o Operand) Rank() int { return len(o.Dimensions) }

// HasUnspecifiedRank reports whether the operand was declared with no
// dimensions at all, which is only meaningful for tensor types.
func (o Operand) HasUnspecifiedRank() bool { return len(o.Dimensions) == 0 }

// HasUnknownDimension reports whether any dimension is zero, i.e. not yet
// resolved by shape inference.
func (o Operand) HasUnknownDimension() bool {
	for _, d := range o.Dimensions {
		if d == 0 {
			return true
		}
	}
	return false
}

// Operation is a node that consumes input operands and produces output
// operands.
type Operation struct {
	Type    haltype.OperationType
	Inputs  []int
	Outputs []int
}

// Subgraph is a self-contained collection of operands and operations with
// its own input/output boundary.
type Subgraph struct {
	Operands      []Operand
	Operations    []Operation
	InputIndexes  []int
	OutputIndexes []int
}

// OperandCount returns the number of operands declared in the subgraph.
func (s *Subgraph) OperandCount() int { return len(s.Operands) }
