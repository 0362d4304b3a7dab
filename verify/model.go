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

package verify

import (
	"fmt"

	"github.com/nnhal/corevalidate/graph"
	"github.com/nnhal/corevalidate/haltype"
	"github.com/nnhal/corevalidate/opset"
	"github.com/nnhal/corevalidate/vfmt"
)

// ModelValidator drives the Operand and Operation validators over a
// whole Model, per spec.md §4.5.
type ModelValidator struct {
	lib opset.Library
}

// NewModelValidator builds a validator that dispatches operation
// signature checks to lib.
func NewModelValidator(lib opset.Library) *ModelValidator {
	return &ModelValidator{lib: lib}
}

// Validate runs the full pipeline of spec.md §4.5 and returns nil if m is
// structurally valid, or the first-failing stage's accumulated errors
// otherwise. Each pipeline stage is a separate scope per spec.md §7's
// "first error in a given scope... the scope aborts": a stage that fails
// stops the pipeline before the next stage runs, but a stage itself
// collects every error it finds within its own operands/operations so
// callers see more than just the very first mistake.
func (mv *ModelValidator) Validate(m *graph.Model) error {
	if !m.Version.Valid() {
		return vfmt.Errorf("model", vfmt.Version, "unknown HAL version %d", m.Version)
	}

	unspecifiedRankAllowed := m.Version.AtLeast(haltype.V1_2)
	if err := mv.validateSubgraphStructure("main", &m.Main, m, unspecifiedRankAllowed); err != nil {
		return err
	}

	if err := mv.validatePools(m); err != nil {
		return err
	}

	if m.Version.AtLeast(haltype.V1_3) {
		for i := range m.Referenced {
			scope := fmt.Sprintf("referenced[%d]", i)
			// Unspecified rank is always allowed on referenced subgraphs at
			// v1.3, per spec.md §4.2.
			if err := mv.validateSubgraphStructure(scope, &m.Referenced[i], m, true); err != nil {
				return err
			}
		}
		if !CheckNoReferenceCycles(m) {
			return vfmt.Errorf("model", vfmt.Structural, "subgraph reference graph is cyclic or contains an out-of-range reference")
		}
	}

	return nil
}

// validateSubgraphStructure validates one subgraph's operands and
// operations, plus (for any subgraph, not just main) its own input and
// output index lists against the SUBGRAPH_INPUT/SUBGRAPH_OUTPUT lifetime
// rule and the no-duplicates rule of spec.md invariant 8.
func (mv *ModelValidator) validateSubgraphStructure(scope string, sub *graph.Subgraph, m *graph.Model, unspecifiedRankAllowed bool) error {
	var errs vfmt.Errors

	ctx := operandContext{
		version:                m.Version,
		unspecifiedRankAllowed: unspecifiedRankAllowed,
		referencedCount:        len(m.Referenced),
		blobLen:                len(m.OperandValues),
		mem:                    NewMemoryAccessVerifier(m.Pools),
	}
	for i, o := range sub.Operands {
		ValidateOperand(fmt.Sprintf("%s.operand[%d]", scope, i), o, ctx, &errs)
	}
	if err := errs.ToError(); err != nil {
		return err
	}

	ValidateOperations(scope, sub, m, m.Version, mv.lib, &errs)
	if err := errs.ToError(); err != nil {
		return err
	}

	validateBoundaryIndexList(scope+".inputIndexes", sub.InputIndexes, sub, haltype.SUBGRAPH_INPUT, &errs)
	validateBoundaryIndexList(scope+".outputIndexes", sub.OutputIndexes, sub, haltype.SUBGRAPH_OUTPUT, &errs)
	return errs.ToError()
}

func validateBoundaryIndexList(scope string, indexes []int, sub *graph.Subgraph, wantLifetime haltype.OperandLifeTime, errs *vfmt.Errors) {
	if !validateIndexList(scope, indexes, len(sub.Operands), errs) {
		return
	}
	seen := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		if seen[idx] {
			errs.Appendf(scope, vfmt.Structural, "index %d appears more than once", idx)
			continue
		}
		seen[idx] = true
		if sub.Operands[idx].Lifetime != wantLifetime {
			errs.Appendf(scope, vfmt.Structural, "operand %d must have lifetime %s, has %s", idx, wantLifetime, sub.Operands[idx].Lifetime)
		}
	}
}

func (mv *ModelValidator) validatePools(m *graph.Model) error {
	var errs vfmt.Errors
	for i, p := range m.Pools {
		scope := fmt.Sprintf("pool[%d]", i)
		if p.Kind != graph.PoolHidlMemory {
			errs.Appendf(scope, vfmt.Resource, "a model pool must be a hidlMemory pool, not a token pool")
			continue
		}
		min, known := haltype.PoolKindMinVersion(p.HidlName)
		if !known {
			errs.Appendf(scope, vfmt.Resource, "unsupported pool kind %q", p.HidlName)
			continue
		}
		if !m.Version.AtLeast(min) {
			errs.Appendf(scope, vfmt.Version, "pool kind %q requires HAL %s, model is %s", p.HidlName, min, m.Version)
		}
		if p.Handle == nil {
			errs.Appendf(scope, vfmt.Resource, "pool has a null handle")
		}
	}
	return errs.ToError()
}

// ValidateModel is a convenience wrapper around NewModelValidator(lib).Validate.
func ValidateModel(m *graph.Model, lib opset.Library) error {
	return NewModelValidator(lib).Validate(m)
}
