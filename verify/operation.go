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

// validateIndexList checks that every index in indices is within
// [0, bound), and reports whether all of them were. It never checks for
// duplicates itself. A repeated index in an operation's input list is
// accepted; a repeated index in an operation's output list is still
// reported by ValidateOperations' write-once count, as an operand written
// more than once.
func validateIndexList(scope string, indices []int, bound int, errs *vfmt.Errors) bool {
	ok := true
	for i, idx := range indices {
		if idx < 0 || idx >= bound {
			errs.Appendf(scope, vfmt.Structural, "index[%d] = %d is out of range [0, %d)", i, idx, bound)
			ok = false
		}
	}
	return ok
}

// ValidateOperations runs spec.md §4.3 over every operation of sub: the
// operator-library signature check plus the write-once/reachability
// rules the validator enforces independently of the operator library.
func ValidateOperations(scope string, sub *graph.Subgraph, model *graph.Model, version haltype.HalVersion, lib opset.Library, errs *vfmt.Errors) {
	writers := make([]int, len(sub.Operands))
	adapter := &subgraphAdapter{model: model, sub: sub}

	for i, op := range sub.Operations {
		opScope := fmt.Sprintf("%s.operation[%d]", scope, i)
		inOK := validateIndexList(opScope+".inputs", op.Inputs, len(sub.Operands), errs)
		outOK := validateIndexList(opScope+".outputs", op.Outputs, len(sub.Operands), errs)
		if !inOK || !outOK {
			continue
		}

		since, known := op.Type.KnownSince()
		if !known {
			errs.Appendf(opScope, vfmt.Structural, "operation type %s is not known", op.Type)
			continue
		}
		if !version.AtLeast(since) {
			errs.Appendf(opScope, vfmt.Version, "operation type %s requires HAL %s, model is %s", op.Type, since, version)
		}

		if status := lib.ValidateOperation(op.Type, op.Inputs, op.Outputs, adapter, version, adapter); status != opset.NoError {
			errs.Appendf(opScope, vfmt.Structural, "operator library rejected %s (code %d)", op.Type, status)
		}

		for _, outIdx := range op.Outputs {
			operand := sub.Operands[outIdx]
			if operand.Lifetime != haltype.TEMPORARY_VARIABLE && operand.Lifetime != haltype.SUBGRAPH_OUTPUT {
				errs.Appendf(opScope, vfmt.Structural, "output operand %d has lifetime %s, must be TEMPORARY_VARIABLE or SUBGRAPH_OUTPUT", outIdx, operand.Lifetime)
			}
			writers[outIdx]++
			if writers[outIdx] > 1 {
				errs.Appendf(opScope, vfmt.Structural, "operand %d is written by more than one operation", outIdx)
			}
			// numberOfConsumers is not validated here, and an operand used
			// as both an input and an output of this same operation is not
			// checked either — both are open questions per spec.md §9.
		}
	}

	for idx, operand := range sub.Operands {
		if operand.Lifetime != haltype.TEMPORARY_VARIABLE && operand.Lifetime != haltype.SUBGRAPH_OUTPUT {
			continue
		}
		if writers[idx] == 0 {
			errs.Appendf(fmt.Sprintf("%s.operand[%d]", scope, idx), vfmt.Structural, "operand has lifetime %s but is never written by an operation", operand.Lifetime)
		}
	}
}
