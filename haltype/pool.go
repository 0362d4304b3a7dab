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

package haltype

// poolKind describes one wire-visible hidlMemory pool kind name and the
// HAL version at which it becomes legal. Adding a future kind is one row.
type poolKind struct {
	name       string
	minVersion HalVersion
}

var poolKinds = []poolKind{
	{"ashmem", V1_0},
	{"mmap_fd", V1_0},
	{"hardware_buffer_blob", V1_2},
	{"hardware_buffer", V1_2},
}

// PoolKindMinVersion returns the HAL version that legalizes the named
// hidlMemory pool kind, and whether the name is recognized at all.
func PoolKindMinVersion(name string) (HalVersion, bool) {
	for _, k := range poolKinds {
		if k.name == name {
			return k.minVersion, true
		}
	}
	return V1_0, false
}

// ExecutionPreference is one of the validated (not interpreted) execution
// preferences a client may request.
type ExecutionPreference int

const (
	LOW_POWER ExecutionPreference = iota
	FAST_SINGLE_ANSWER
	SUSTAINED_SPEED
)

// Valid reports whether p is a known execution preference.
func (p ExecutionPreference) Valid() bool {
	return p >= LOW_POWER && p <= SUSTAINED_SPEED
}

// Priority is one of the validated (not interpreted) execution priorities.
type Priority int

const (
	PRIORITY_LOW Priority = iota
	PRIORITY_MEDIUM
	PRIORITY_HIGH
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p >= PRIORITY_LOW && p <= PRIORITY_HIGH
}
