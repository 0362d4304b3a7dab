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

import "github.com/nnhal/corevalidate/haltype"

// UpgradeOperand re-tags an operand at a newer HAL version. Per
// spec.md §9, upgrade never loses information: the wire shape of Operand
// is already version-agnostic, so this is the identity function — it
// exists so call sites read the same way as a real per-field upgrade
// would, and so a future HAL version that does need a field migration has
// a single place to add it.
func UpgradeOperand(o Operand, _ haltype.HalVersion) Operand { return o }

// ToV1_3 upgrades m to HAL v1.3. Operands, operations and pools are
// unchanged; only the version tag moves forward. Upgrading a model that
// uses no features beyond its current version yields a model that is
// valid at v1.3, because every known operand and operation type, once
// introduced, remains legal at every later version (spec.md §3).
func ToV1_3(m *Model) *Model {
	return Upgrade(m, haltype.V1_3)
}

// Upgrade re-tags m at target, which must not be older than m's current
// version. The returned Model shares m's slices; callers must treat the
// input as consumed once upgraded, matching the exclusive-ownership model
// of spec.md §3.
func Upgrade(m *Model, target haltype.HalVersion) *Model {
	up := *m
	up.Version = haltype.UpgradeTo(m.Version, target)
	return &up
}
