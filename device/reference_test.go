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

package device_test

import (
	"context"
	"testing"

	"github.com/nnhal/corevalidate/device"
	"github.com/nnhal/corevalidate/graph"
)

func TestReferenceDevice_PrepareAndExecute(t *testing.T) {
	d := device.NewReferenceDevice("ref0")
	if d.Name() != "ref0" {
		t.Errorf("Name() = %q, want ref0", d.Name())
	}
	sub := &graph.Model{}
	prepared, err := d.PrepareSubModel(context.Background(), sub)
	if err != nil {
		t.Fatalf("PrepareSubModel() = %v", err)
	}
	handle, ok := prepared.(*device.ReferenceHandle)
	if !ok {
		t.Fatalf("PrepareSubModel() returned %T, want *ReferenceHandle", prepared)
	}
	if handle.Sub != sub {
		t.Error("ReferenceHandle.Sub does not point at the prepared sub-model")
	}
	if err := d.Execute(context.Background(), prepared, &graph.Request{}); err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if d.Prepared != 1 || d.Executed != 1 {
		t.Errorf("Prepared=%d Executed=%d, want 1 and 1", d.Prepared, d.Executed)
	}
}

func TestReferenceDevice_DistinctHandleIDs(t *testing.T) {
	d := device.NewReferenceDevice("ref0")
	h1, _ := d.PrepareSubModel(context.Background(), &graph.Model{})
	h2, _ := d.PrepareSubModel(context.Background(), &graph.Model{})
	id1 := h1.(*device.ReferenceHandle).ID
	id2 := h2.(*device.ReferenceHandle).ID
	if id1 == id2 {
		t.Errorf("two PrepareSubModel calls returned the same handle ID %d", id1)
	}
}
