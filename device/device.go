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

// Package device is the consumed device interface of spec.md §6: an
// opaque accelerator that can prepare a sub-model and execute it against
// a request. The planner treats every call here as an opaque synchronous
// call whose latency is the caller's concern (spec.md §5).
package device

import (
	"context"

	"github.com/nnhal/corevalidate/graph"
)

// PreparedModel is an opaque device-side compilation artifact of a
// sub-model, returned by Device.PrepareSubModel.
type PreparedModel any

// Device is one heterogeneous accelerator target. Non-goals: on-device
// scheduling inside a single step, compilation caching, memory-pool
// allocation strategy (spec.md §1) — all of that is this interface's
// implementation's business, not this module's.
type Device interface {
	// Name identifies the device, for diagnostics and step assignment.
	Name() string
	// PrepareSubModel compiles sub for this device.
	PrepareSubModel(ctx context.Context, sub *graph.Model) (PreparedModel, error)
	// Execute runs prepared against req's bound inputs/outputs.
	Execute(ctx context.Context, prepared PreparedModel, req *graph.Request) error
}
