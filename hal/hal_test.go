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

package hal_test

import (
	"context"
	"testing"

	"github.com/nnhal/corevalidate/device"
	"github.com/nnhal/corevalidate/graph"
	"github.com/nnhal/corevalidate/graph/graphtest"
	"github.com/nnhal/corevalidate/hal"
	"github.com/nnhal/corevalidate/opset"
	"github.com/nnhal/corevalidate/plan"
)

func TestValidateAndPlan_MinimalAdd(t *testing.T) {
	m := graphtest.MinimalAddModel()
	cpu := device.NewReferenceDevice("cpu")
	p, err := hal.ValidateAndPlan(context.Background(), m, opset.NewReferenceLibrary(), func(int) device.Device { return cpu })
	if err != nil {
		t.Fatalf("ValidateAndPlan() = %v", err)
	}
	if p.Kind() != plan.Simple {
		t.Errorf("Kind() = %v, want Simple", p.Kind())
	}
}

func TestValidateAndPlan_InvalidModelRejected(t *testing.T) {
	m := graphtest.MinimalAddModel()
	m.Main.OutputIndexes = []int{2, 2}
	cpu := device.NewReferenceDevice("cpu")
	if _, err := hal.ValidateAndPlan(context.Background(), m, opset.NewReferenceLibrary(), func(int) device.Device { return cpu }); err == nil {
		t.Error("ValidateAndPlan(invalid model) = nil, want error")
	}
}

func TestValidateAndRunSimple(t *testing.T) {
	m := graphtest.MinimalAddModel()
	cpu := device.NewReferenceDevice("cpu")
	req := &graph.Request{
		Inputs: []graph.RequestArgument{
			{Location: graph.Location{PoolIndex: 0, Offset: 0, Length: 16}, Dimensions: []uint32{2, 2}},
			{Location: graph.Location{PoolIndex: 0, Offset: 16, Length: 16}, Dimensions: []uint32{2, 2}},
		},
		Outputs: []graph.RequestArgument{
			{Location: graph.Location{PoolIndex: 0, Offset: 32, Length: 16}, Dimensions: []uint32{2, 2}},
		},
		Pools: []graph.MemoryPool{graph.HidlMemoryPool("ashmem", 48, struct{}{})},
	}
	err := hal.ValidateAndRunSimple(context.Background(), m, req, opset.NewReferenceLibrary(), func(int) device.Device { return cpu })
	if err != nil {
		t.Fatalf("ValidateAndRunSimple() = %v", err)
	}
	if cpu.Executed != 1 {
		t.Errorf("Executed = %d, want 1", cpu.Executed)
	}
}
