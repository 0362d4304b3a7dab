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

// Package plan implements the Execution Planner and the Controller/
// StepExecutor pair that drives stepwise execution (spec.md §4.7, §4.8).
package plan

import (
	"fmt"

	"github.com/nnhal/corevalidate/device"
	"github.com/nnhal/corevalidate/graph"
)

// Kind discriminates the ExecutionPlan tagged union: a plan is either
// empty (not yet built), simple (one device, whole model) or compound
// (an ordered sequence of device-assigned steps).
type Kind int

const (
	Empty Kind = iota
	Simple
	Compound
)

// ExecutionPlan is the result of partitioning a validated Model, per
// spec.md §4.7. Its shape follows the teacher's design-notes preference
// for a discriminated union over an inheritance hierarchy (spec.md §9).
type ExecutionPlan struct {
	kind Kind

	// Set when kind == Simple: the single device handling the whole model.
	simpleDevice   device.Device
	simpleModel    *graph.Model
	simplePrepared device.PreparedModel

	// Set when kind == Compound.
	steps                   []*ExecutionStep
	temporaryToDefiningStep map[int]int

	mainModel *graph.Model
}

// Kind returns the plan's shape.
func (p *ExecutionPlan) Kind() Kind { return p.kind }

// Model returns the main model the plan was built from.
func (p *ExecutionPlan) Model() *graph.Model { return p.mainModel }

// SimpleDevice returns the plan's device and prepared model, valid only
// when Kind() == Simple.
func (p *ExecutionPlan) SimpleDevice() (device.Device, device.PreparedModel) {
	return p.simpleDevice, p.simplePrepared
}

// Steps returns the plan's ordered steps, valid only when Kind() == Compound.
func (p *ExecutionPlan) Steps() []*ExecutionStep { return p.steps }

// StepCount returns the number of steps: 1 for a simple plan, len(Steps())
// for a compound one, 0 for an empty plan.
func (p *ExecutionPlan) StepCount() int {
	switch p.kind {
	case Simple:
		return 1
	case Compound:
		return len(p.steps)
	default:
		return 0
	}
}

// CrossStepTemporaryCount returns the number of temporaries that cross a
// step boundary — the cached count spec.md §4.7 asks the plan to carry.
func (p *ExecutionPlan) CrossStepTemporaryCount() int {
	return len(p.temporaryToDefiningStep)
}

// DefiningStep returns the step index that produces the temporary at
// mainOperandIndex, and whether that temporary crosses a step boundary
// at all.
func (p *ExecutionPlan) DefiningStep(mainOperandIndex int) (int, bool) {
	idx, ok := p.temporaryToDefiningStep[mainOperandIndex]
	return idx, ok
}

// recordTemporaryDef records that stepIndex produces the cross-step
// temporary at mainOperandIndex. The same main index may never be
// recorded twice: a temporary has exactly one defining step (spec.md
// §4.7, §3 invariant 5).
func (p *ExecutionPlan) recordTemporaryDef(mainOperandIndex, stepIndex int) error {
	if p.temporaryToDefiningStep == nil {
		p.temporaryToDefiningStep = map[int]int{}
	}
	if existing, ok := p.temporaryToDefiningStep[mainOperandIndex]; ok {
		return fmt.Errorf("operand %d already has a defining step (%d), cannot also be defined by step %d", mainOperandIndex, existing, stepIndex)
	}
	p.temporaryToDefiningStep[mainOperandIndex] = stepIndex
	return nil
}
