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

// CheckNoReferenceCycles walks the subgraph-reference graph starting
// from main, depth-first, maintaining the set of subgraphs currently on
// the recursion stack (spec.md §4.4). It returns false both for a true
// cycle and for an out-of-range SUBGRAPH reference, since the walk
// bounds-checks before recursing. General cyclicity of the value-flow
// DAG, as opposed to this subgraph-reference graph, is a stated open
// question (spec.md §9) and is not checked anywhere in this package.
func CheckNoReferenceCycles(m *graph.Model) bool {
	onStack := make(map[int]bool)
	return walkNoCycle(m, -1, &m.Main, onStack)
}

// walkNoCycle recurses into every subgraph referenced by sub's operands.
// Recursion depth is bounded by len(m.Referenced); an iterative
// explicit-stack version is equivalent and would be preferable only if
// that bound were large, per spec.md §9's design note.
func walkNoCycle(m *graph.Model, subIndex int, sub *graph.Subgraph, onStack map[int]bool) bool {
	onStack[subIndex] = true
	defer delete(onStack, subIndex)

	for _, operand := range sub.Operands {
		if operand.Lifetime != haltype.SUBGRAPH_LIFETIME {
			continue
		}
		idx := int(operand.Location.Offset)
		if idx < 0 || idx >= len(m.Referenced) {
			return false
		}
		if onStack[idx] {
			return false
		}
		if !walkNoCycle(m, idx, &m.Referenced[idx], onStack) {
			return false
		}
	}
	return true
}
