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

// Package opset is the consumed operator library interface of spec.md
// §4.3 and §6: the per-operation signature check that the Operation
// Validator delegates to, plus (not part of the consumed interface, but
// needed to exercise it end-to-end) a reference registry implementing it
// for a representative subset of the operation repertoire. The numerical
// kernels themselves are explicitly out of scope (spec.md §1 Non-goals).
package opset

import (
	"github.com/nnhal/corevalidate/graph"
	"github.com/nnhal/corevalidate/haltype"
)

// Status is the operator-library-style numeric result code of
// ValidateOperation. NoError is the only success value.
type Status int32

const (
	NoError        Status = 0
	BadData        Status = 1
	UnexpectedNull Status = 2
	BadState       Status = 3
	OutOfMemory    Status = 4
	Incomplete     Status = 5
	OpFailed       Status = 6
)

// OperandTable gives a signature check read access to the subgraph's
// operand list by index, without exposing the whole Subgraph type.
type OperandTable interface {
	Operand(index int) (graph.Operand, bool)
	Count() int
}

// SubgraphHelpers exposes the subgraph-operand helpers of spec.md §4.3 to
// a signature check, so operations like IF/WHILE can inspect the shape of
// a referenced subgraph's boundary without the operator library importing
// package verify.
type SubgraphHelpers interface {
	IsValidSubgraphReference(operandIndex int) bool
	SubgraphInputCount(operandIndex int) int
	SubgraphOutputCount(operandIndex int) int
	SubgraphInputOperand(operandIndex, i int) (graph.Operand, bool)
	SubgraphOutputOperand(operandIndex, i int) (graph.Operand, bool)
}

// Library is the external operator library interface consumed by the
// Operation Validator (spec.md §6).
type Library interface {
	ValidateOperation(
		opType haltype.OperationType,
		inputs, outputs []int,
		operands OperandTable,
		version haltype.HalVersion,
		helpers SubgraphHelpers,
	) Status
}
