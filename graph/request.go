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

package graph

// RequestArgument binds a runtime value to a model input or output.
type RequestArgument struct {
	HasNoValue bool
	Location   Location
	// Dimensions is nil when the caller omits dimensions entirely (not the
	// same as an explicit empty/rank-0 dimension list).
	Dimensions []uint32
}

// Request is a runtime execution request against a previously validated
// Model.
type Request struct {
	Inputs  []RequestArgument
	Outputs []RequestArgument
	Pools   []MemoryPool
}
