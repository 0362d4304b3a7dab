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

package verify

import (
	"github.com/nnhal/corevalidate/graph"
	"github.com/nnhal/corevalidate/haltype"
)

// subgraphAdapter exposes a Subgraph (within the context of its owning
// Model, for SUBGRAPH operand resolution) as the opset.OperandTable and
// opset.SubgraphHelpers the operator library callback expects.
type subgraphAdapter struct {
	model *graph.Model
	sub   *graph.Subgraph
}

// Operand implements opset.OperandTable.
func (a *subgraphAdapter) Operand(index int) (graph.Operand, bool) {
	if index < 0 || index >= len(a.sub.Operands) {
		return graph.Operand{}, false
	}
	return a.sub.Operands[index], true
}

// Count implements opset.OperandTable.
func (a *subgraphAdapter) Count() int { return len(a.sub.Operands) }

func (a *subgraphAdapter) referencedSubgraph(operandIndex int) (*graph.Subgraph, bool) {
	o, ok := a.Operand(operandIndex)
	if !ok || o.Lifetime != haltype.SUBGRAPH_LIFETIME {
		return nil, false
	}
	idx := int(o.Location.Offset)
	if idx < 0 || idx >= len(a.model.Referenced) {
		return nil, false
	}
	return &a.model.Referenced[idx], true
}

// IsValidSubgraphReference implements opset.SubgraphHelpers.
func (a *subgraphAdapter) IsValidSubgraphReference(operandIndex int) bool {
	_, ok := a.referencedSubgraph(operandIndex)
	return ok
}

// SubgraphInputCount implements opset.SubgraphHelpers.
func (a *subgraphAdapter) SubgraphInputCount(operandIndex int) int {
	sub, ok := a.referencedSubgraph(operandIndex)
	if !ok {
		return 0
	}
	return len(sub.InputIndexes)
}

// SubgraphOutputCount implements opset.SubgraphHelpers.
func (a *subgraphAdapter) SubgraphOutputCount(operandIndex int) int {
	sub, ok := a.referencedSubgraph(operandIndex)
	if !ok {
		return 0
	}
	return len(sub.OutputIndexes)
}

// SubgraphInputOperand implements opset.SubgraphHelpers.
func (a *subgraphAdapter) SubgraphInputOperand(operandIndex, i int) (graph.Operand, bool) {
	sub, ok := a.referencedSubgraph(operandIndex)
	if !ok || i < 0 || i >= len(sub.InputIndexes) {
		return graph.Operand{}, false
	}
	idx := sub.InputIndexes[i]
	if idx < 0 || idx >= len(sub.Operands) {
		return graph.Operand{}, false
	}
	return sub.Operands[idx], true
}

// SubgraphOutputOperand implements opset.SubgraphHelpers.
func (a *subgraphAdapter) SubgraphOutputOperand(operandIndex, i int) (graph.Operand, bool) {
	sub, ok := a.referencedSubgraph(operandIndex)
	if !ok || i < 0 || i >= len(sub.OutputIndexes) {
		return graph.Operand{}, false
	}
	idx := sub.OutputIndexes[i]
	if idx < 0 || idx >= len(sub.Operands) {
		return graph.Operand{}, false
	}
	return sub.Operands[idx], true
}
