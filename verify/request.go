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
	"github.com/nnhal/corevalidate/vfmt"
)

// ValidateRequest checks req's argument bindings and pools against a
// previously validated model, per spec.md §4.6. It does not re-validate
// m itself; callers are expected to have called ValidateModel first.
func ValidateRequest(req *graph.Request, m *graph.Model) error {
	var errs vfmt.Errors

	if len(req.Inputs) != len(m.Main.InputIndexes) {
		errs.Appendf("request.inputs", vfmt.Structural, "got %d input arguments, model declares %d inputs", len(req.Inputs), len(m.Main.InputIndexes))
	}
	if len(req.Outputs) != len(m.Main.OutputIndexes) {
		errs.Appendf("request.outputs", vfmt.Structural, "got %d output arguments, model declares %d outputs", len(req.Outputs), len(m.Main.OutputIndexes))
	}
	if err := errs.ToError(); err != nil {
		return err
	}

	mem := NewMemoryAccessVerifier(req.Pools)
	allowUnspecifiedOutput := m.Version.AtLeast(haltype.V1_2)

	for i, arg := range req.Inputs {
		operand := m.Main.Operands[m.Main.InputIndexes[i]]
		validateArgument(fmt.Sprintf("request.inputs[%d]", i), arg, operand, mem, false, &errs)
	}
	for i, arg := range req.Outputs {
		operand := m.Main.Operands[m.Main.OutputIndexes[i]]
		validateArgument(fmt.Sprintf("request.outputs[%d]", i), arg, operand, mem, allowUnspecifiedOutput, &errs)
	}

	validateRequestPools(req, m, &errs)

	return errs.ToError()
}

// validateArgument checks one RequestArgument against the operand it
// binds. allowUnspecified is true only for output arguments at HAL
// v1.2+; unspecified inputs are never allowed (spec.md §4.6).
func validateArgument(scope string, arg graph.RequestArgument, operand graph.Operand, mem *MemoryAccessVerifier, allowUnspecified bool, errs *vfmt.Errors) {
	if arg.HasNoValue {
		if !arg.Location.IsAllZero() || len(arg.Dimensions) != 0 {
			errs.Appendf(scope, vfmt.Structural, "hasNoValue requires an all-zero location and no dimensions")
		}
		return
	}

	if !mem.Validate(arg.Location) {
		errs.Appendf(scope, vfmt.Range, "location %s is out of range of the request's pools", locString(arg.Location))
	}

	if arg.Dimensions == nil {
		if !allowUnspecified && (operand.HasUnspecifiedRank() || operand.HasUnknownDimension()) {
			errs.Appendf(scope, vfmt.Structural, "argument omits dimensions and the operand is not fully specified")
		}
		return
	}

	if len(arg.Dimensions) != operand.Rank() {
		errs.Appendf(scope, vfmt.Structural, "argument has rank %d, operand has rank %d", len(arg.Dimensions), operand.Rank())
		return
	}
	for i, d := range arg.Dimensions {
		want := operand.Dimensions[i]
		if want != 0 && d != want {
			errs.Appendf(scope, vfmt.Structural, "dimension[%d] = %d does not match operand dimension %d", i, d, want)
		}
		if d == 0 && !allowUnspecified {
			errs.Appendf(scope, vfmt.Structural, "dimension[%d] is 0, but unspecified dimensions are not allowed here", i)
		}
	}
}

func validateRequestPools(req *graph.Request, m *graph.Model, errs *vfmt.Errors) {
	for i, p := range req.Pools {
		scope := fmt.Sprintf("request.pools[%d]", i)
		switch p.Kind {
		case graph.PoolToken:
			if !m.Version.AtLeast(haltype.V1_3) {
				errs.Appendf(scope, vfmt.Version, "token pools require HAL v1.3, model is %s", m.Version)
			}
			if p.Token <= 0 {
				errs.Appendf(scope, vfmt.Structural, "token pool must have a positive token, got %d", p.Token)
			}
		case graph.PoolHidlMemory:
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
	}
}
