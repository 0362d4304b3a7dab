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

// Model is a versioned computation graph submitted by a client. Main
// holds the top-level subgraph; Referenced holds further subgraphs
// reachable from Main (and from each other) via SUBGRAPH operands — legal
// only at HAL v1.3, where Referenced may be non-empty.
type Model struct {
	Version    haltype.HalVersion
	Main       Subgraph
	Referenced []Subgraph

	// OperandValues is the model's inlined byte blob; CONSTANT_COPY
	// operands address into it.
	OperandValues []byte
	Pools         []MemoryPool

	RelaxedComputationFloat32toFloat16 bool
}

// Operands returns the top-level subgraph's operands, for callers that
// only care about the main graph.
func (m *Model) Operands() []Operand { return m.Main.Operands }

// Operations returns the top-level subgraph's operations.
func (m *Model) Operations() []Operation { return m.Main.Operations }

// InputIndexes returns the top-level subgraph's model input indexes.
func (m *Model) InputIndexes() []int { return m.Main.InputIndexes }

// OutputIndexes returns the top-level subgraph's model output indexes.
func (m *Model) OutputIndexes() []int { return m.Main.OutputIndexes }

// ReferencedCount returns the number of referenced subgraphs.
func (m *Model) ReferencedCount() int { return len(m.Referenced) }

// Subgraph returns the main subgraph (index -1, by convention used in
// this package's helpers) or a referenced subgraph by index.
func (m *Model) Subgraph(index int) (*Subgraph, bool) {
	if index < 0 {
		return &m.Main, true
	}
	if index >= len(m.Referenced) {
		return nil, false
	}
	return &m.Referenced[index], true
}
