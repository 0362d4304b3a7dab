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
	"github.com/nnhal/corevalidate/graph/graphtest"
	"github.com/nnhal/corevalidate/haltype"
	"github.com/nnhal/corevalidate/opset"
	"github.com/nnhal/corevalidate/verify"
)

func lib() opset.Library { return opset.NewReferenceLibrary() }

// Scenario 1: minimal valid add model.
func TestValidateModel_MinimalAdd(t *testing.T) {
	m := graphtest.MinimalAddModel()
	if err := verify.ValidateModel(m, lib()); err != nil {
		t.Errorf("ValidateModel(minimal add) = %v, want nil", err)
	}
}

// Scenario 2: duplicate output index.
func TestValidateModel_DuplicateOutputIndex(t *testing.T) {
	m := graphtest.MinimalAddModel()
	m.Main.OutputIndexes = []int{2, 2}
	if err := verify.ValidateModel(m, lib()); err == nil {
		t.Error("ValidateModel(duplicate output index) = nil, want error")
	}
}

// Scenario 3: quant zero-point overflow.
func TestValidateModel_QuantZeroPointOverflow(t *testing.T) {
	in0 := graphtest.QuantAsymmOperand(0.5, 256, 2, 2)
	in0.Lifetime = haltype.SUBGRAPH_INPUT
	m := &graph.Model{
		Version: haltype.V1_0,
		Main: graph.Subgraph{
			Operands:      []graph.Operand{in0},
			InputIndexes:  []int{0},
			OutputIndexes: nil,
		},
	}
	if err := verify.ValidateModel(m, lib()); err == nil {
		t.Error("ValidateModel(zero-point 256) = nil, want error")
	}
}

// Scenario 4: cyclic subgraph reference.
func TestCheckNoReferenceCycles_Cycle(t *testing.T) {
	m := graphtest.CycleModel()
	if verify.CheckNoReferenceCycles(m) {
		t.Error("CheckNoReferenceCycles(cycle) = true, want false")
	}
}

func TestCheckNoReferenceCycles_Acyclic(t *testing.T) {
	m := graphtest.MinimalAddModel()
	m.Version = haltype.V1_3
	if !verify.CheckNoReferenceCycles(m) {
		t.Error("CheckNoReferenceCycles(no referenced subgraphs) = false, want true")
	}
}

func TestValidateModel_UpgradeV1_0ToV1_3StaysValid(t *testing.T) {
	m := graphtest.MinimalAddModel()
	if err := verify.ValidateModel(m, lib()); err != nil {
		t.Fatalf("v1.0 model invalid before upgrade: %v", err)
	}
	upgraded := graph.ToV1_3(m)
	if err := verify.ValidateModel(upgraded, lib()); err != nil {
		t.Errorf("ValidateModel(upgraded to v1.3) = %v, want nil", err)
	}
}

func TestValidateModel_Idempotent(t *testing.T) {
	m := graphtest.MinimalAddModel()
	err1 := verify.ValidateModel(m, lib())
	err2 := verify.ValidateModel(m, lib())
	if (err1 == nil) != (err2 == nil) {
		t.Errorf("ValidateModel is not idempotent: %v vs %v", err1, err2)
	}
}

func TestValidateModel_ScaleBoundary(t *testing.T) {
	tests := []struct {
		name      string
		typ       haltype.OperandType
		scale     float32
		wantValid bool
	}{
		{"per-channel scale 0 ok", haltype.TENSOR_QUANT8_SYMM_PER_CHANNEL, 0, true},
		{"quant8 asymm scale 0 rejected", haltype.TENSOR_QUANT8_ASYMM, 0, false},
		{"tensor int32 scale -1 rejected", haltype.TENSOR_INT32, -1, false},
		{"tensor int32 scale 0 ok", haltype.TENSOR_INT32, 0, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			operand := graph.Operand{
				Type:       test.typ,
				Dimensions: []uint32{4},
				Scale:      test.scale,
				Lifetime:   haltype.SUBGRAPH_INPUT,
			}
			if test.typ.IsPerChannelQuant() {
				operand.ExtraParams = graph.ChannelQuantParams(0, []float32{1, 1, 1, 1})
			} else {
				operand.ExtraParams = graph.NoExtraParams()
			}
			m := &graph.Model{
				Version: haltype.V1_2,
				Main: graph.Subgraph{
					Operands:     []graph.Operand{operand},
					InputIndexes: []int{0},
				},
			}
			err := verify.ValidateModel(m, lib())
			if (err == nil) != test.wantValid {
				t.Errorf("ValidateModel() = %v, wantValid %v", err, test.wantValid)
			}
		})
	}
}

func TestValidateModel_ZeroPointBoundary(t *testing.T) {
	tests := []struct {
		zeroPoint int32
		typ       haltype.OperandType
		wantValid bool
	}{
		{255, haltype.TENSOR_QUANT8_ASYMM, true},
		{256, haltype.TENSOR_QUANT8_ASYMM, false},
		{-128, haltype.TENSOR_QUANT8_ASYMM_SIGNED, true},
		{127, haltype.TENSOR_QUANT8_ASYMM_SIGNED, true},
		{-129, haltype.TENSOR_QUANT8_ASYMM_SIGNED, false},
		{128, haltype.TENSOR_QUANT8_ASYMM_SIGNED, false},
	}
	for _, test := range tests {
		operand := graph.Operand{
			Type:        test.typ,
			Dimensions:  []uint32{4},
			Scale:       0.5,
			ZeroPoint:   test.zeroPoint,
			Lifetime:    haltype.SUBGRAPH_INPUT,
			ExtraParams: graph.NoExtraParams(),
		}
		m := &graph.Model{
			Version: haltype.V1_3,
			Main: graph.Subgraph{
				Operands:     []graph.Operand{operand},
				InputIndexes: []int{0},
			},
		}
		err := verify.ValidateModel(m, lib())
		if (err == nil) != test.wantValid {
			t.Errorf("zeroPoint=%d type=%v: ValidateModel() = %v, wantValid %v", test.zeroPoint, test.typ, err, test.wantValid)
		}
	}
}

func TestMemoryAccessVerifier_OverflowDetected(t *testing.T) {
	pools := []graph.MemoryPool{graph.HidlMemoryPool("ashmem", 100, struct{}{})}
	v := verify.NewMemoryAccessVerifier(pools)
	// offset + length overflows a native 32-bit uint but not 64-bit.
	loc := graph.Location{PoolIndex: 0, Offset: 0xFFFFFFF0, Length: 0x20}
	if v.Validate(loc) {
		t.Error("Validate(overflowing location) = true, want false")
	}
}

func TestMemoryAccessVerifier_TokenPoolIsZeroSized(t *testing.T) {
	pools := []graph.MemoryPool{graph.TokenPool(7)}
	v := verify.NewMemoryAccessVerifier(pools)
	if v.Validate(graph.Location{PoolIndex: 0, Offset: 0, Length: 1}) {
		t.Error("Validate on a token pool with length 1 = true, want false")
	}
	if !v.Validate(graph.Location{PoolIndex: 0, Offset: 0, Length: 0}) {
		t.Error("Validate on a token pool with length 0 = false, want true")
	}
}
