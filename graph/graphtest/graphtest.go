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

// Package graphtest builds small valid and invalid graph.Model fixtures
// shared by the graph, verify and hal packages' tests.
package graphtest

import (
	"github.com/nnhal/corevalidate/graph"
	"github.com/nnhal/corevalidate/haltype"
)

// Float32Tensor returns a SUBGRAPH_INPUT/OUTPUT-ready FLOAT32 tensor
// operand of the given shape; set lifetime after construction as needed.
func Float32Tensor(dims ...uint32) graph.Operand {
	return graph.Operand{
		Type:       haltype.TENSOR_FLOAT32,
		Dimensions: dims,
		ExtraParams: graph.NoExtraParams(),
	}
}

// MinimalAddModel returns spec.md §8 scenario 1: a v1.0 model with two
// FLOAT32 [2,2] inputs, one ADD producing a FLOAT32 [2,2] output.
func MinimalAddModel() *graph.Model {
	in0 := Float32Tensor(2, 2)
	in0.Lifetime = haltype.SUBGRAPH_INPUT
	in1 := Float32Tensor(2, 2)
	in1.Lifetime = haltype.SUBGRAPH_INPUT
	out := Float32Tensor(2, 2)
	out.Lifetime = haltype.SUBGRAPH_OUTPUT

	return &graph.Model{
		Version: haltype.V1_0,
		Main: graph.Subgraph{
			Operands: []graph.Operand{in0, in1, out},
			Operations: []graph.Operation{
				{Type: haltype.ADD, Inputs: []int{0, 1}, Outputs: []int{2}},
			},
			InputIndexes:  []int{0, 1},
			OutputIndexes: []int{2},
		},
	}
}

// QuantAsymmOperand returns a TENSOR_QUANT8_ASYMM operand with the given
// scale and zero point, lifetime TEMPORARY_VARIABLE.
func QuantAsymmOperand(scale float32, zeroPoint int32, dims ...uint32) graph.Operand {
	return graph.Operand{
		Type:        haltype.TENSOR_QUANT8_ASYMM,
		Dimensions:  dims,
		Scale:       scale,
		ZeroPoint:   zeroPoint,
		Lifetime:    haltype.TEMPORARY_VARIABLE,
		ExtraParams: graph.NoExtraParams(),
	}
}

// CycleModel returns spec.md §8 scenario 4: a v1.3 model whose main
// subgraph references referenced[0], which references referenced[1],
// which references referenced[0] again via a SUBGRAPH operand, forming a
// cycle reachable from main.
func CycleModel() *graph.Model {
	mainRef := graph.Operand{
		Type:     haltype.SUBGRAPH,
		Lifetime: haltype.SUBGRAPH_LIFETIME,
		Location: graph.Location{Offset: 0}, // referenced[0]
	}
	main := graph.Subgraph{
		Operands:      []graph.Operand{mainRef},
		InputIndexes:  nil,
		OutputIndexes: nil,
	}

	backToMain := graph.Operand{
		Type:     haltype.SUBGRAPH,
		Lifetime: haltype.SUBGRAPH_LIFETIME,
		Location: graph.Location{Offset: 1}, // referenced[1]
	}
	refSub := graph.Subgraph{
		Operands: []graph.Operand{backToMain},
	}

	// referenced[1] closes the cycle by referencing referenced[0] again.
	closing := graph.Operand{
		Type:     haltype.SUBGRAPH,
		Lifetime: haltype.SUBGRAPH_LIFETIME,
		Location: graph.Location{Offset: 0},
	}
	refSub2 := graph.Subgraph{
		Operands: []graph.Operand{closing},
	}

	return &graph.Model{
		Version:    haltype.V1_3,
		Main:       main,
		Referenced: []graph.Subgraph{refSub, refSub2},
	}
}
