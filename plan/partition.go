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
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/nnhal/corevalidate/device"
	"github.com/nnhal/corevalidate/graph"
	"github.com/nnhal/corevalidate/haltype"
)

// DeviceAssignment picks the device responsible for the operation at
// opIndex in the model's main subgraph. The planner calls it once per
// operation, in order; callers typically close over a per-device
// capability check such as an opset.Library.ValidateOperation result.
type DeviceAssignment func(opIndex int) device.Device

// Planner partitions a validated Model into an ExecutionPlan, grouping
// consecutive operations assigned to the same device into one step
// (spec.md §4.7). It assumes the model's operation order is already a
// valid execution order, matching the teacher's assumption that its
// builder emits operations in dependency order (build/ir's block
// ordering).
type Planner struct{}

// NewPlanner returns a Planner.
func NewPlanner() *Planner { return &Planner{} }

// Plan partitions m according to assign, preparing every resulting
// step (or the whole model, for a simple plan) on its device.
func (p *Planner) Plan(ctx context.Context, m *graph.Model, assign DeviceAssignment) (*ExecutionPlan, error) {
	n := len(m.Main.Operations)
	if n == 0 {
		return nil, fmt.Errorf("plan: model has no operations")
	}

	devices := make([]device.Device, n)
	for i := range devices {
		d := assign(i)
		if d == nil {
			return nil, fmt.Errorf("plan: no device assigned to operation %d", i)
		}
		devices[i] = d
	}

	if allSameDevice(devices) {
		prepared, err := devices[0].PrepareSubModel(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("plan: prepare whole model on %s: %w", devices[0].Name(), err)
		}
		return &ExecutionPlan{
			kind:           Simple,
			simpleDevice:   devices[0],
			simpleModel:    m,
			simplePrepared: prepared,
			mainModel:      m,
		}, nil
	}

	return partitionCompound(ctx, m, devices)
}

func allSameDevice(devices []device.Device) bool {
	for i := 1; i < len(devices); i++ {
		if devices[i] != devices[0] {
			return false
		}
	}
	return true
}

// partitionCompound groups operations into maximal contiguous runs per
// device, builds each run's sub-model, wires the cross-step temporary
// bookkeeping, and prepares every step on its device.
func partitionCompound(ctx context.Context, m *graph.Model, devices []device.Device) (*ExecutionPlan, error) {
	n := len(m.Main.Operations)
	opStep := make([]int, n)
	var runs [][2]int // [start, end) operation index ranges
	start := 0
	for i := 1; i <= n; i++ {
		if i == n || devices[i] != devices[start] {
			runs = append(runs, [2]int{start, i})
			start = i
		}
	}
	for stepIdx, run := range runs {
		for i := run[0]; i < run[1]; i++ {
			opStep[i] = stepIdx
		}
	}

	// definingStep[operandIdx] = step index that writes it, for every
	// TEMPORARY_VARIABLE operand.
	definingStep := map[int]int{}
	for i, op := range m.Main.Operations {
		for _, out := range op.Outputs {
			if m.Main.Operands[out].Lifetime == haltype.TEMPORARY_VARIABLE {
				definingStep[out] = opStep[i]
			}
		}
	}

	// maxConsumingStep[operandIdx] = highest step index that reads it.
	maxConsumingStep := map[int]int{}
	for i, op := range m.Main.Operations {
		for _, in := range op.Inputs {
			if s, ok := maxConsumingStep[in]; !ok || opStep[i] > s {
				maxConsumingStep[in] = opStep[i]
			}
		}
	}

	p := &ExecutionPlan{kind: Compound, mainModel: m}
	builders := make([]*stepBuilder, len(runs))
	for stepIdx, run := range runs {
		b := newStepBuilder(p, stepIdx, devices[run[0]], m, definingStep)
		for i := run[0]; i < run[1]; i++ {
			b.addOperation(i)
		}
		builders[stepIdx] = b
	}

	// Finishing is independent per step, so every step's error is worth
	// reporting rather than aborting at the first one.
	var finishErr error
	for stepIdx, b := range builders {
		err := b.finish(func(mainIdx int) bool {
			return maxConsumingStep[mainIdx] > stepIdx
		})
		if err != nil {
			finishErr = multierr.Append(finishErr, fmt.Errorf("finishing step %d: %w", stepIdx, err))
		}
	}
	if finishErr != nil {
		return nil, fmt.Errorf("plan: %w", finishErr)
	}

	for stepIdx, b := range builders {
		prepared, err := b.step.device.PrepareSubModel(ctx, b.step.subModel)
		if err != nil {
			return nil, fmt.Errorf("plan: prepare step %d on %s: %w", stepIdx, b.step.device.Name(), err)
		}
		b.step.prepared = prepared
		p.steps = append(p.steps, b.step)
	}

	return p, nil
}
