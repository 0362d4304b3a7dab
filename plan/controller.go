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

	"golang.org/x/exp/maps"

	"github.com/nnhal/corevalidate/graph"
)

// Controller drives a compound plan one step at a time, per spec.md
// §4.8. It owns the live binding of each cross-step temporary to the
// memory the caller allocated for it, and the original Request the
// caller submitted against the main model. A Controller takes no locks
// and must not be advanced from more than one goroutine at a time.
type Controller struct {
	plan *ExecutionPlan
	req  *graph.Request

	// temporaryPools binds each cross-step temporary (by main operand
	// index) to the pool/offset/length the caller reserved for it. The
	// memory behind each location is the caller's responsibility; the
	// Controller only reads these locations when wiring a step's request.
	temporaryPools map[int]graph.Location

	nextStep int
}

// NewController starts a stepwise execution of plan against req. plan
// must be Compound; a Simple plan has nothing to step through and
// should be run directly via its device's Execute.
func NewController(p *ExecutionPlan, req *graph.Request) (*Controller, error) {
	if p.Kind() != Compound {
		return nil, fmt.Errorf("plan: NewController requires a compound plan, got kind %d", p.Kind())
	}
	return &Controller{
		plan:           p,
		req:            req,
		temporaryPools: map[int]graph.Location{},
	}, nil
}

// BindTemporary records the pool location the caller allocated to hold
// the cross-step temporary at mainOperandIndex. Every temporary
// DefiningStep reports must be bound before the step that produces it
// builds its Request, since that step needs a destination for it.
func (c *Controller) BindTemporary(mainOperandIndex int, loc graph.Location) {
	c.temporaryPools[mainOperandIndex] = loc
}

// BoundTemporaries returns the main operand indexes bound so far via
// BindTemporary, for diagnostics.
func (c *Controller) BoundTemporaries() []int {
	return maps.Keys(c.temporaryPools)
}

// Done reports whether every step has been handed out.
func (c *Controller) Done() bool { return c.nextStep >= len(c.plan.steps) }

// Next returns the StepExecutor for the next step to run, or nil once
// Done. Steps must run in order: a later step's sub-model inputs may
// depend on an earlier step's sub-model outputs having already been
// executed and written to their bound pool.
func (c *Controller) Next() *StepExecutor {
	if c.Done() {
		return nil
	}
	step := c.plan.steps[c.nextStep]
	c.nextStep++
	return &StepExecutor{controller: c, step: step}
}

// StepExecutor prepares and runs a single ExecutionStep's Request against
// its already-prepared device, translating the step's remap tables into
// concrete pool locations.
type StepExecutor struct {
	controller *Controller
	step       *ExecutionStep
}

// Step returns the underlying plan step.
func (e *StepExecutor) Step() *ExecutionStep { return e.step }

// Request builds the graph.Request this step should run, binding its
// sub-model inputs/outputs to either the caller's original request
// arguments (for ModelInputs/ModelOutputs) or the Controller's bound
// cross-step temporary pools (for SubModelInputs/SubModelOutputs).
func (e *StepExecutor) Request() (*graph.Request, error) {
	step := e.step
	req := &graph.Request{
		Inputs:  make([]graph.RequestArgument, len(step.subModel.Main.InputIndexes)),
		Outputs: make([]graph.RequestArgument, len(step.subModel.Main.OutputIndexes)),
		Pools:   e.controller.req.Pools,
	}

	inAt := map[int]int{}
	for i, idx := range step.subModel.Main.InputIndexes {
		inAt[idx] = i
	}
	outAt := map[int]int{}
	for i, idx := range step.subModel.Main.OutputIndexes {
		outAt[idx] = i
	}

	for i, pair := range step.modelInputs {
		mainPos := indexOf(e.controller.plan.mainModel.Main.InputIndexes, pair.MainIndex)
		if mainPos < 0 || mainPos >= len(e.controller.req.Inputs) {
			return nil, fmt.Errorf("plan: step %d model input %d has no matching request argument", step.index, i)
		}
		req.Inputs[inAt[pair.SubIndex]] = e.controller.req.Inputs[mainPos]
	}
	for i, pair := range step.modelOutputs {
		mainPos := indexOf(e.controller.plan.mainModel.Main.OutputIndexes, pair.MainIndex)
		if mainPos < 0 || mainPos >= len(e.controller.req.Outputs) {
			return nil, fmt.Errorf("plan: step %d model output %d has no matching request argument", step.index, i)
		}
		req.Outputs[outAt[pair.SubIndex]] = e.controller.req.Outputs[mainPos]
	}
	for _, pair := range step.subModelInputs {
		loc, ok := e.controller.temporaryPools[pair.MainIndex]
		if !ok {
			return nil, fmt.Errorf("plan: step %d needs temporary %d, not bound via BindTemporary", step.index, pair.MainIndex)
		}
		req.Inputs[inAt[pair.SubIndex]] = graph.RequestArgument{Location: loc}
	}
	for _, pair := range step.subModelOutputs {
		loc, ok := e.controller.temporaryPools[pair.MainIndex]
		if !ok {
			return nil, fmt.Errorf("plan: step %d produces temporary %d, not bound via BindTemporary", step.index, pair.MainIndex)
		}
		req.Outputs[outAt[pair.SubIndex]] = graph.RequestArgument{Location: loc}
	}
	return req, nil
}

// Run builds this step's Request and executes it on the step's device.
func (e *StepExecutor) Run(ctx context.Context) error {
	req, err := e.Request()
	if err != nil {
		return err
	}
	return e.step.device.Execute(ctx, e.step.prepared, req)
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
