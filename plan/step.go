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

package plan

import (
	"github.com/nnhal/corevalidate/device"
	"github.com/nnhal/corevalidate/graph"
	"github.com/nnhal/corevalidate/haltype"
)

// RemapPair relates an operand index in the main model to the
// corresponding operand index in a step's sub-model.
type RemapPair struct {
	MainIndex int
	SubIndex  int
}

// ExecutionStep is one device-assigned partition of a compound plan,
// carrying its own freshly-built sub-model plus the remap tables
// reconnecting that sub-model's boundary to the main model (spec.md §4.7).
type ExecutionStep struct {
	plan  *ExecutionPlan
	index int

	device   device.Device
	subModel *graph.Model

	// operandMap relates main operand indexes to their sub-model
	// counterpart, for operands already cloned into this step.
	operandMap map[int]int
	// cloneOrder preserves the sequence operands were first cloned in,
	// so finish() walks them deterministically instead of in map order.
	cloneOrder []int

	// ModelInputs/ModelOutputs pair operands at the boundary of the main
	// model itself. SubModelInputs/SubModelOutputs pair operands that
	// cross a step boundary: a SubModelInput here was produced by an
	// earlier step; a SubModelOutput here is consumed by a later one.
	modelInputs     []RemapPair
	modelOutputs    []RemapPair
	subModelInputs  []RemapPair
	subModelOutputs []RemapPair

	prepared device.PreparedModel

	unknownOutputShape bool
}

// Index returns the step's 0-based position in its plan.
func (s *ExecutionStep) Index() int { return s.index }

// Plan returns the plan this step belongs to.
func (s *ExecutionStep) Plan() *ExecutionPlan { return s.plan }

// Device returns the device assigned to this step.
func (s *ExecutionStep) Device() device.Device { return s.device }

// SubModel returns the step's self-contained sub-model.
func (s *ExecutionStep) SubModel() *graph.Model { return s.subModel }

// Prepared returns the device-side artifact produced by PrepareSubModel,
// or nil if the step has not been prepared yet.
func (s *ExecutionStep) Prepared() device.PreparedModel { return s.prepared }

// ModelInputs returns the pairs binding the step's sub-model inputs to
// main-model inputs.
func (s *ExecutionStep) ModelInputs() []RemapPair { return s.modelInputs }

// ModelOutputs returns the pairs binding the step's sub-model outputs to
// main-model outputs.
func (s *ExecutionStep) ModelOutputs() []RemapPair { return s.modelOutputs }

// SubModelInputs returns the pairs binding the step's sub-model inputs to
// temporaries produced by an earlier step.
func (s *ExecutionStep) SubModelInputs() []RemapPair { return s.subModelInputs }

// SubModelOutputs returns the pairs binding the step's sub-model outputs
// to temporaries consumed by a later step.
func (s *ExecutionStep) SubModelOutputs() []RemapPair { return s.subModelOutputs }

// HasUnknownOutputShape reports whether any of the step's SubModelOutputs
// (temporaries handed to a later step) has a zero dimension or no
// dimensions at all (spec.md §4.7's shape-inference gap: this module does
// not infer shapes, so "unknown" means the source operand itself was
// declared that way). Outputs listed in ModelOutputs are not examined.
func (s *ExecutionStep) HasUnknownOutputShape() bool { return s.unknownOutputShape }

// stepBuilder accumulates operations into a single ExecutionStep's
// sub-model. opType, the defining step of each temporary, lets it
// classify each operand reference as a main-model boundary, a constant,
// an intra-step temporary, or a temporary produced by another step.
type stepBuilder struct {
	step   *ExecutionStep
	main   *graph.Model
	opType map[int]int // main operand index -> step index that writes it
}

func newStepBuilder(p *ExecutionPlan, index int, dev device.Device, main *graph.Model, opType map[int]int) *stepBuilder {
	step := &ExecutionStep{
		plan:       p,
		index:      index,
		device:     dev,
		operandMap: map[int]int{},
		subModel: &graph.Model{
			Version:       main.Version,
			OperandValues: main.OperandValues,
			Pools:         main.Pools,
		},
	}
	return &stepBuilder{step: step, main: main, opType: opType}
}

// cloneOperand copies operand mainIdx into the sub-model the first time
// it is referenced, tagging it with a lifetime appropriate to how the
// step sees it (spec.md §4.7's "adding an operation" rule), and returns
// its sub-model index.
func (b *stepBuilder) cloneOperand(mainIdx int, asOutput bool) int {
	if subIdx, ok := b.step.operandMap[mainIdx]; ok {
		return subIdx
	}
	src := b.main.Main.Operands[mainIdx]
	clone := src

	switch src.Lifetime {
	case haltype.CONSTANT_COPY, haltype.CONSTANT_REFERENCE:
		// Constants travel with the step unchanged: the sub-model shares
		// the main model's blob and pools.
	case haltype.SUBGRAPH_INPUT:
		clone.Lifetime = haltype.SUBGRAPH_INPUT
		clone.Location = graph.Location{}
		b.step.modelInputs = append(b.step.modelInputs, RemapPair{MainIndex: mainIdx, SubIndex: len(b.step.subModel.Main.Operands)})
	case haltype.SUBGRAPH_OUTPUT:
		clone.Lifetime = haltype.SUBGRAPH_OUTPUT
		clone.Location = graph.Location{}
		b.step.modelOutputs = append(b.step.modelOutputs, RemapPair{MainIndex: mainIdx, SubIndex: len(b.step.subModel.Main.Operands)})
	case haltype.TEMPORARY_VARIABLE:
		if !asOutput && b.opType[mainIdx] != b.step.index {
			// Produced by a different step: this step sees it as a
			// sub-model input fed by that step's output.
			clone.Lifetime = haltype.SUBGRAPH_INPUT
			clone.Location = graph.Location{}
			b.step.subModelInputs = append(b.step.subModelInputs, RemapPair{MainIndex: mainIdx, SubIndex: len(b.step.subModel.Main.Operands)})
		} else {
			clone.Lifetime = haltype.TEMPORARY_VARIABLE
			clone.Location = graph.Location{}
		}
	}

	subIdx := len(b.step.subModel.Main.Operands)
	b.step.subModel.Main.Operands = append(b.step.subModel.Main.Operands, clone)
	b.step.operandMap[mainIdx] = subIdx
	b.step.cloneOrder = append(b.step.cloneOrder, mainIdx)
	return subIdx
}

// addOperation clones opIdx's operation (and any operand it touches for
// the first time) into the step's sub-model.
func (b *stepBuilder) addOperation(opIdx int) {
	op := b.main.Main.Operations[opIdx]
	subIn := make([]int, len(op.Inputs))
	for i, in := range op.Inputs {
		subIn[i] = b.cloneOperand(in, false)
	}
	subOut := make([]int, len(op.Outputs))
	for i, out := range op.Outputs {
		subOut[i] = b.cloneOperand(out, true)
	}
	b.step.subModel.Main.Operations = append(b.step.subModel.Main.Operations, graph.Operation{
		Type:    op.Type,
		Inputs:  subIn,
		Outputs: subOut,
	})
}

// finish resolves the step's boundary index lists and promotes any
// temporary consumed by a later step to a sub-model output, registering
// it with the plan's cross-step bookkeeping (spec.md §4.7's "finishing a
// step"). consumedElsewhere reports, for a main operand index, whether
// any operation outside this step consumes it.
func (b *stepBuilder) finish(consumedElsewhere func(mainIdx int) bool) error {
	s := b.step
	for _, mainIdx := range s.cloneOrder {
		subIdx := s.operandMap[mainIdx]
		op := &s.subModel.Main.Operands[subIdx]
		if op.Lifetime != haltype.TEMPORARY_VARIABLE {
			continue
		}
		if b.opType[mainIdx] != s.index {
			continue // this step consumed it, did not produce it.
		}
		if !consumedElsewhere(mainIdx) {
			continue
		}
		if op.HasUnknownDimension() || op.HasUnspecifiedRank() {
			s.unknownOutputShape = true
		}
		op.Lifetime = haltype.SUBGRAPH_OUTPUT
		s.subModelOutputs = append(s.subModelOutputs, RemapPair{MainIndex: mainIdx, SubIndex: subIdx})
		if err := s.plan.recordTemporaryDef(mainIdx, s.index); err != nil {
			return err
		}
	}
	for _, pair := range s.modelInputs {
		s.subModel.Main.InputIndexes = append(s.subModel.Main.InputIndexes, pair.SubIndex)
	}
	for _, pair := range s.subModelInputs {
		s.subModel.Main.InputIndexes = append(s.subModel.Main.InputIndexes, pair.SubIndex)
	}
	for _, pair := range s.modelOutputs {
		s.subModel.Main.OutputIndexes = append(s.subModel.Main.OutputIndexes, pair.SubIndex)
	}
	for _, pair := range s.subModelOutputs {
		s.subModel.Main.OutputIndexes = append(s.subModel.Main.OutputIndexes, pair.SubIndex)
	}
	return nil
}
