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

package plan_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nnhal/corevalidate/device"
	"github.com/nnhal/corevalidate/graph"
	"github.com/nnhal/corevalidate/haltype"
	"github.com/nnhal/corevalidate/plan"
)

// chainModel returns a two-operation model: ADD writes a temporary that
// RELU then consumes and republishes as the model's output.
func chainModel() *graph.Model {
	in := graph.Operand{Type: haltype.TENSOR_FLOAT32, Dimensions: []uint32{2, 2}, Lifetime: haltype.SUBGRAPH_INPUT, ExtraParams: graph.NoExtraParams()}
	tmp := graph.Operand{Type: haltype.TENSOR_FLOAT32, Dimensions: []uint32{2, 2}, Lifetime: haltype.TEMPORARY_VARIABLE, ExtraParams: graph.NoExtraParams()}
	out := graph.Operand{Type: haltype.TENSOR_FLOAT32, Dimensions: []uint32{2, 2}, Lifetime: haltype.SUBGRAPH_OUTPUT, ExtraParams: graph.NoExtraParams()}
	return &graph.Model{
		Version: haltype.V1_0,
		Main: graph.Subgraph{
			Operands: []graph.Operand{in, tmp, out},
			Operations: []graph.Operation{
				{Type: haltype.ADD, Inputs: []int{0, 0}, Outputs: []int{1}},
				{Type: haltype.LOGISTIC, Inputs: []int{1}, Outputs: []int{2}},
			},
			InputIndexes:  []int{0},
			OutputIndexes: []int{2},
		},
	}
}

func TestPlanner_SingleDeviceIsSimple(t *testing.T) {
	m := chainModel()
	cpu := device.NewReferenceDevice("cpu")
	p, err := plan.NewPlanner().Plan(context.Background(), m, func(int) device.Device { return cpu })
	if err != nil {
		t.Fatalf("Plan() = %v", err)
	}
	if p.Kind() != plan.Simple {
		t.Errorf("Kind() = %v, want Simple", p.Kind())
	}
	if p.StepCount() != 1 {
		t.Errorf("StepCount() = %d, want 1", p.StepCount())
	}
	if cpu.Prepared != 1 {
		t.Errorf("device.Prepared = %d, want 1", cpu.Prepared)
	}
}

func TestPlanner_TwoDevicesSplitIntoSteps(t *testing.T) {
	m := chainModel()
	cpu := device.NewReferenceDevice("cpu")
	npu := device.NewReferenceDevice("npu")
	assign := func(opIdx int) device.Device {
		if opIdx == 0 {
			return cpu
		}
		return npu
	}
	p, err := plan.NewPlanner().Plan(context.Background(), m, assign)
	if err != nil {
		t.Fatalf("Plan() = %v", err)
	}
	if p.Kind() != plan.Compound {
		t.Fatalf("Kind() = %v, want Compound", p.Kind())
	}
	steps := p.Steps()
	if len(steps) != 2 {
		t.Fatalf("len(Steps()) = %d, want 2", len(steps))
	}

	step0, step1 := steps[0], steps[1]
	if step0.Device() != device.Device(cpu) {
		t.Errorf("steps[0].Device() = %v, want cpu", step0.Device())
	}
	if step1.Device() != device.Device(npu) {
		t.Errorf("steps[1].Device() = %v, want npu", step1.Device())
	}

	// Step 0 clones the input (sub index 0) then the temporary (sub index
	// 1); step 1 clones the temporary (sub index 0) then the output (sub
	// index 1).
	if diff := cmp.Diff([]plan.RemapPair{{MainIndex: 0, SubIndex: 0}}, step0.ModelInputs()); diff != "" {
		t.Errorf("step0.ModelInputs() mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]plan.RemapPair{{MainIndex: 1, SubIndex: 1}}, step0.SubModelOutputs()); diff != "" {
		t.Errorf("step0.SubModelOutputs() mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]plan.RemapPair{{MainIndex: 1, SubIndex: 0}}, step1.SubModelInputs()); diff != "" {
		t.Errorf("step1.SubModelInputs() mismatch:\n%s", diff)
	}
	if diff := cmp.Diff([]plan.RemapPair{{MainIndex: 2, SubIndex: 1}}, step1.ModelOutputs()); diff != "" {
		t.Errorf("step1.ModelOutputs() mismatch:\n%s", diff)
	}

	if p.CrossStepTemporaryCount() != 1 {
		t.Errorf("CrossStepTemporaryCount() = %d, want 1", p.CrossStepTemporaryCount())
	}
	if defIdx, ok := p.DefiningStep(1); !ok || defIdx != 0 {
		t.Errorf("DefiningStep(1) = (%d, %v), want (0, true)", defIdx, ok)
	}

	if cpu.Prepared != 1 || npu.Prepared != 1 {
		t.Errorf("Prepared counts = cpu:%d npu:%d, want 1 and 1", cpu.Prepared, npu.Prepared)
	}
}

func TestController_StepwiseExecutionBindsTemporary(t *testing.T) {
	m := chainModel()
	cpu := device.NewReferenceDevice("cpu")
	npu := device.NewReferenceDevice("npu")
	assign := func(opIdx int) device.Device {
		if opIdx == 0 {
			return cpu
		}
		return npu
	}
	p, err := plan.NewPlanner().Plan(context.Background(), m, assign)
	if err != nil {
		t.Fatalf("Plan() = %v", err)
	}

	req := &graph.Request{
		Inputs:  []graph.RequestArgument{{Location: graph.Location{PoolIndex: 0, Offset: 0, Length: 16}}},
		Outputs: []graph.RequestArgument{{Location: graph.Location{PoolIndex: 0, Offset: 16, Length: 16}}},
		Pools:   []graph.MemoryPool{graph.HidlMemoryPool("ashmem", 64, struct{}{})},
	}
	ctrl, err := plan.NewController(p, req)
	if err != nil {
		t.Fatalf("NewController() = %v", err)
	}
	ctrl.BindTemporary(1, graph.Location{PoolIndex: 0, Offset: 32, Length: 16})

	var ran []string
	for !ctrl.Done() {
		exec := ctrl.Next()
		ran = append(ran, exec.Step().Device().Name())
		if err := exec.Run(context.Background()); err != nil {
			t.Fatalf("Run() = %v", err)
		}
	}
	if len(ran) != 2 || ran[0] != "cpu" || ran[1] != "npu" {
		t.Errorf("execution order = %v, want [cpu npu]", ran)
	}
	if cpu.Executed != 1 || npu.Executed != 1 {
		t.Errorf("Executed counts = cpu:%d npu:%d, want 1 and 1", cpu.Executed, npu.Executed)
	}
}

func TestController_UnboundTemporaryFails(t *testing.T) {
	m := chainModel()
	cpu := device.NewReferenceDevice("cpu")
	npu := device.NewReferenceDevice("npu")
	assign := func(opIdx int) device.Device {
		if opIdx == 0 {
			return cpu
		}
		return npu
	}
	p, err := plan.NewPlanner().Plan(context.Background(), m, assign)
	if err != nil {
		t.Fatalf("Plan() = %v", err)
	}
	req := &graph.Request{
		Inputs:  []graph.RequestArgument{{Location: graph.Location{PoolIndex: 0, Offset: 0, Length: 16}}},
		Outputs: []graph.RequestArgument{{Location: graph.Location{PoolIndex: 0, Offset: 16, Length: 16}}},
		Pools:   []graph.MemoryPool{graph.HidlMemoryPool("ashmem", 64, struct{}{})},
	}
	ctrl, err := plan.NewController(p, req)
	if err != nil {
		t.Fatalf("NewController() = %v", err)
	}
	// Temporary 1 is never bound: step 0 already needs a destination for
	// it before it can run, since it produces it.
	exec := ctrl.Next()
	if _, err := exec.Request(); err == nil {
		t.Error("Request() on unbound temporary = nil, want error")
	}
}

func TestNewController_RejectsSimplePlan(t *testing.T) {
	m := chainModel()
	cpu := device.NewReferenceDevice("cpu")
	p, err := plan.NewPlanner().Plan(context.Background(), m, func(int) device.Device { return cpu })
	if err != nil {
		t.Fatalf("Plan() = %v", err)
	}
	if _, err := plan.NewController(p, &graph.Request{}); err == nil {
		t.Error("NewController(simple plan) = nil error, want error")
	}
}
