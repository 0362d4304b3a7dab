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

package device

import (
	"context"
	"sync/atomic"

	"github.com/nnhal/corevalidate/graph"
)

// ReferenceHandle is the PreparedModel produced by ReferenceDevice: it
// just remembers the sub-model it was asked to prepare.
type ReferenceHandle struct {
	Device *ReferenceDevice
	Sub    *graph.Model
	ID     int64
}

// ReferenceDevice is an in-memory Device with no numerical behavior,
// used to exercise the planner and Controller end-to-end without a real
// accelerator — grounded in the teacher's CPU backend device
// (golang/backend/platform.Device), minus its kernel execution.
type ReferenceDevice struct {
	name      string
	nextID    int64
	Executed  int64 // count of Execute calls, for test assertions.
	Prepared  int64 // count of PrepareSubModel calls, for test assertions.
}

// NewReferenceDevice builds a reference device with the given name.
func NewReferenceDevice(name string) *ReferenceDevice {
	return &ReferenceDevice{name: name}
}

// Name implements Device.
func (d *ReferenceDevice) Name() string { return d.name }

// PrepareSubModel implements Device.
func (d *ReferenceDevice) PrepareSubModel(_ context.Context, sub *graph.Model) (PreparedModel, error) {
	atomic.AddInt64(&d.Prepared, 1)
	id := atomic.AddInt64(&d.nextID, 1)
	return &ReferenceHandle{Device: d, Sub: sub, ID: id}, nil
}

// Execute implements Device. It performs no numerical work: on-device
// execution semantics are explicitly out of scope (spec.md §1).
func (d *ReferenceDevice) Execute(_ context.Context, _ PreparedModel, _ *graph.Request) error {
	atomic.AddInt64(&d.Executed, 1)
	return nil
}
