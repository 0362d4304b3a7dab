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

package opset

import "github.com/nnhal/corevalidate/haltype"

// signatureCheck is one operation's arity/operand-compatibility check,
// the per-op table-driven unit the teacher's golang/backend/kernels
// package uses for its (numerical, not just shape) op implementations.
type signatureCheck func(inputs, outputs []int, operands OperandTable, version haltype.HalVersion, helpers SubgraphHelpers) Status

// ReferenceLibrary is a minimal, non-production implementation of Library
// covering a representative subset of the operation repertoire — enough
// to exercise the Operation Validator end-to-end without pulling in a
// real operator kernel library (spec.md §1 excludes that).
type ReferenceLibrary struct {
	checks map[haltype.OperationType]signatureCheck
}

// NewReferenceLibrary builds the default reference registry.
func NewReferenceLibrary() *ReferenceLibrary {
	r := &ReferenceLibrary{checks: map[haltype.OperationType]signatureCheck{}}
	binary := checkArity(2, 1)
	r.checks[haltype.ADD] = binary
	r.checks[haltype.MUL] = binary
	r.checks[haltype.SUB] = binary
	r.checks[haltype.DIV] = binary
	r.checks[haltype.CONV_2D] = checkArityRange(3, 10, 1)
	r.checks[haltype.DEPTHWISE_CONV_2D] = checkArityRange(3, 11, 1)
	r.checks[haltype.FULLY_CONNECTED] = checkArity(4, 1)
	r.checks[haltype.RESHAPE] = checkArity(2, 1)
	r.checks[haltype.CONCATENATION] = checkArityMin(2, 1)
	r.checks[haltype.SOFTMAX] = checkArityRange(1, 2, 1)
	r.checks[haltype.TRANSPOSE] = checkArity(2, 1)
	r.checks[haltype.PAD] = checkArity(2, 1)
	r.checks[haltype.AVERAGE_POOL_2D] = checkArityRange(7, 10, 1)
	r.checks[haltype.MAX_POOL_2D] = checkArityRange(7, 10, 1)
	r.checks[haltype.LOGISTIC] = checkArity(1, 1)
	r.checks[haltype.RELU] = checkArity(1, 1)
	return r
}

// ValidateOperation implements Library.
func (r *ReferenceLibrary) ValidateOperation(
	opType haltype.OperationType,
	inputs, outputs []int,
	operands OperandTable,
	version haltype.HalVersion,
	helpers SubgraphHelpers,
) Status {
	check, ok := r.checks[opType]
	if !ok {
		return BadData
	}
	return check(inputs, outputs, operands, version, helpers)
}

func checkArity(wantIn, wantOut int) signatureCheck {
	return func(inputs, outputs []int, _ OperandTable, _ haltype.HalVersion, _ SubgraphHelpers) Status {
		if len(inputs) != wantIn || len(outputs) != wantOut {
			return BadData
		}
		return NoError
	}
}

func checkArityMin(minIn, wantOut int) signatureCheck {
	return func(inputs, outputs []int, _ OperandTable, _ haltype.HalVersion, _ SubgraphHelpers) Status {
		if len(inputs) < minIn || len(outputs) != wantOut {
			return BadData
		}
		return NoError
	}
}

func checkArityRange(minIn, maxIn, wantOut int) signatureCheck {
	return func(inputs, outputs []int, _ OperandTable, _ haltype.HalVersion, _ SubgraphHelpers) Status {
		if len(inputs) < minIn || len(inputs) > maxIn || len(outputs) != wantOut {
			return BadData
		}
		return NoError
	}
}
