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

package verify_test

import (
	"testing"

	"github.com/nnhal/corevalidate/graph"
	"github.com/nnhal/corevalidate/haltype"
	"github.com/nnhal/corevalidate/verify"
)

func modelWithSingleInput(dims ...uint32) *graph.Model {
	in := graph.Operand{
		Type:        haltype.TENSOR_FLOAT32,
		Dimensions:  dims,
		Lifetime:    haltype.SUBGRAPH_INPUT,
		ExtraParams: graph.NoExtraParams(),
	}
	return &graph.Model{
		Version: haltype.V1_0,
		Main: graph.Subgraph{
			Operands:     []graph.Operand{in},
			InputIndexes: []int{0},
		},
	}
}

// Scenario 5: request rank mismatch.
func TestValidateRequest_RankMismatch(t *testing.T) {
	m := modelWithSingleInput(1, 3, 224, 224)
	req := &graph.Request{
		Inputs: []graph.RequestArgument{
			{Dimensions: []uint32{1, 3, 224}},
		},
	}
	if err := verify.ValidateRequest(req, m); err == nil {
		t.Error("ValidateRequest(rank mismatch) = nil, want error")
	}
}

// Scenario 6: token pool constraint.
func TestValidateRequest_TokenPoolConstraint(t *testing.T) {
	m := modelWithSingleInput(1, 2)
	m.Version = haltype.V1_3
	req := &graph.Request{
		Inputs: []graph.RequestArgument{
			{Location: graph.Location{PoolIndex: 0, Offset: 0, Length: 100}},
		},
		Pools: []graph.MemoryPool{graph.TokenPool(7)},
	}
	if err := verify.ValidateRequest(req, m); err == nil {
		t.Error("ValidateRequest(token pool, length 100) = nil, want error")
	}
}

func TestValidateRequest_Valid(t *testing.T) {
	m := modelWithSingleInput(1, 2)
	req := &graph.Request{
		Inputs: []graph.RequestArgument{
			{Location: graph.Location{PoolIndex: 0, Offset: 0, Length: 8}, Dimensions: []uint32{1, 2}},
		},
		Pools: []graph.MemoryPool{graph.HidlMemoryPool("ashmem", 8, struct{}{})},
	}
	if err := verify.ValidateRequest(req, m); err != nil {
		t.Errorf("ValidateRequest(valid) = %v, want nil", err)
	}
}

func TestValidateRequest_HasNoValue(t *testing.T) {
	m := modelWithSingleInput(1, 2)
	req := &graph.Request{
		Inputs: []graph.RequestArgument{
			{HasNoValue: true},
		},
	}
	if err := verify.ValidateRequest(req, m); err != nil {
		t.Errorf("ValidateRequest(hasNoValue) = %v, want nil", err)
	}
}

func unspecifiedOutputModel(version haltype.HalVersion) *graph.Model {
	out := graph.Operand{
		Type:        haltype.TENSOR_FLOAT32,
		Dimensions:  nil, // unspecified rank
		Lifetime:    haltype.SUBGRAPH_OUTPUT,
		ExtraParams: graph.NoExtraParams(),
	}
	return &graph.Model{
		Version: version,
		Main: graph.Subgraph{
			Operands:      []graph.Operand{out},
			OutputIndexes: []int{0},
		},
	}
}

func TestValidateRequest_UnspecifiedOutputAllowedAtV1_2(t *testing.T) {
	m := unspecifiedOutputModel(haltype.V1_2)
	req := &graph.Request{
		Outputs: []graph.RequestArgument{
			{Location: graph.Location{PoolIndex: 0, Offset: 0, Length: 0}},
		},
		Pools: []graph.MemoryPool{graph.HidlMemoryPool("ashmem", 8, struct{}{})},
	}
	if err := verify.ValidateRequest(req, m); err != nil {
		t.Errorf("ValidateRequest(unspecified output at v1.2) = %v, want nil", err)
	}
}

func TestValidateRequest_UnspecifiedOutputRejectedBeforeV1_2(t *testing.T) {
	m := unspecifiedOutputModel(haltype.V1_1)
	req := &graph.Request{
		Outputs: []graph.RequestArgument{
			{Location: graph.Location{PoolIndex: 0, Offset: 0, Length: 0}},
		},
		Pools: []graph.MemoryPool{graph.HidlMemoryPool("ashmem", 8, struct{}{})},
	}
	if err := verify.ValidateRequest(req, m); err == nil {
		t.Error("ValidateRequest(unspecified output at v1.1) = nil, want error")
	}
}
