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

type scaleCategory int

const (
	scaleExactZero scaleCategory = iota
	scaleNonNegative
	scalePositive
)

func scaleCategoryOf(t haltype.OperandType) scaleCategory {
	if t.IsExtension() {
		return scaleExactZero
	}
	switch t {
	case haltype.TENSOR_INT32:
		return scaleNonNegative
	case haltype.TENSOR_QUANT8_ASYMM, haltype.TENSOR_QUANT8_ASYMM_SIGNED,
		haltype.TENSOR_QUANT8_SYMM, haltype.TENSOR_QUANT16_ASYMM, haltype.TENSOR_QUANT16_SYMM:
		return scalePositive
	default:
		return scaleExactZero
	}
}

type zeroPointCategory int

const (
	zpExactZero zeroPointCategory = iota
	zpQuant8Asymm
	zpQuant8AsymmSigned
	zpQuant16Asymm
)

func zeroPointCategoryOf(t haltype.OperandType) zeroPointCategory {
	if t.IsExtension() {
		return zpExactZero
	}
	switch t {
	case haltype.TENSOR_QUANT8_ASYMM:
		return zpQuant8Asymm
	case haltype.TENSOR_QUANT8_ASYMM_SIGNED:
		return zpQuant8AsymmSigned
	case haltype.TENSOR_QUANT16_ASYMM:
		return zpQuant16Asymm
	default:
		return zpExactZero
	}
}

// operandContext carries the per-subgraph facts an operand check needs
// but that an Operand value does not carry itself.
type operandContext struct {
	version                haltype.HalVersion
	unspecifiedRankAllowed bool
	referencedCount        int
	blobLen                int
	mem                    *MemoryAccessVerifier
}

// ValidateOperand runs the full ordered rule set of spec.md §4.2 on one
// operand and records any failures under scope in errs.
func ValidateOperand(scope string, o graph.Operand, ctx operandContext, errs *vfmt.Errors) {
	// (a) type known at this HAL version.
	since, known := o.Type.KnownSince()
	if !known {
		errs.Appendf(scope, vfmt.Structural, "operand type %d is not a known operand type", o.Type)
		return
	}
	if !ctx.version.AtLeast(since) {
		errs.Appendf(scope, vfmt.Version, "operand type %d requires HAL %s, model is %s", o.Type, since, ctx.version)
		return
	}

	validateRank(scope, o, ctx, errs)
	checkScale(scope, o, errs)
	checkZeroPoint(scope, o, errs)
	checkExtraParams(scope, o, errs)
	validateLifetimeLocation(scope, o, ctx, errs)

	// (g) SUBGRAPH type <-> SUBGRAPH lifetime coupling.
	if (o.Type == haltype.SUBGRAPH) != (o.Lifetime == haltype.SUBGRAPH_LIFETIME) {
		errs.Appendf(scope, vfmt.Structural, "type=SUBGRAPH must imply and be implied by lifetime=SUBGRAPH")
	}

	// (h) constant declared length matches computed size.
	if o.Lifetime == haltype.CONSTANT_COPY || o.Lifetime == haltype.CONSTANT_REFERENCE {
		if want, ok := graph.NonExtensionOperandSizeOfData(o.Type, o.Dimensions); ok {
			if uint64(o.Location.Length) != want {
				errs.Appendf(scope, vfmt.Structural, "constant operand declared length %d does not match computed size %d", o.Location.Length, want)
			}
		}
	}
}

func validateRank(scope string, o graph.Operand, ctx operandContext, errs *vfmt.Errors) {
	switch {
	case o.Type.IsExtension():
		// Extension types carry no rank constraint of their own: the
		// extension defines its own shape conventions.
	case o.Type.IsScalar():
		if o.Rank() != 0 {
			errs.Appendf(scope, vfmt.Structural, "scalar operand type %d requires rank 0, got rank %d", o.Type, o.Rank())
		}
	case o.Type.IsTensor():
		if o.Rank() == 0 {
			isConstant := o.Lifetime == haltype.CONSTANT_COPY || o.Lifetime == haltype.CONSTANT_REFERENCE
			if !(ctx.unspecifiedRankAllowed && !isConstant) {
				errs.Appendf(scope, vfmt.Structural, "tensor operand type %d requires rank >= 1 (unspecified rank not allowed here)", o.Type)
			}
		}
	default:
		errs.Appendf(scope, vfmt.Structural, "operand type %d is neither scalar nor tensor", o.Type)
	}
}

func checkScale(scope string, o graph.Operand, errs *vfmt.Errors) {
	switch scaleCategoryOf(o.Type) {
	case scaleExactZero:
		if o.Scale != 0 {
			errs.Appendf(scope, vfmt.Range, "operand type %d requires scale == 0, got %v", o.Type, o.Scale)
		}
	case scaleNonNegative:
		if o.Scale < 0 {
			errs.Appendf(scope, vfmt.Range, "operand type %d requires scale >= 0, got %v", o.Type, o.Scale)
		}
	case scalePositive:
		if o.Scale <= 0 {
			errs.Appendf(scope, vfmt.Range, "operand type %d requires scale > 0, got %v", o.Type, o.Scale)
		}
	}
}

func checkZeroPoint(scope string, o graph.Operand, errs *vfmt.Errors) {
	switch zeroPointCategoryOf(o.Type) {
	case zpExactZero:
		if o.ZeroPoint != 0 {
			errs.Appendf(scope, vfmt.Range, "operand type %d requires zeroPoint == 0, got %d", o.Type, o.ZeroPoint)
		}
	case zpQuant8Asymm:
		if o.ZeroPoint < 0 || o.ZeroPoint > 255 {
			errs.Appendf(scope, vfmt.Range, "TENSOR_QUANT8_ASYMM requires zeroPoint in [0, 255], got %d", o.ZeroPoint)
		}
	case zpQuant8AsymmSigned:
		if o.ZeroPoint < -128 || o.ZeroPoint > 127 {
			errs.Appendf(scope, vfmt.Range, "TENSOR_QUANT8_ASYMM_SIGNED requires zeroPoint in [-128, 127], got %d", o.ZeroPoint)
		}
	case zpQuant16Asymm:
		if o.ZeroPoint < 0 || o.ZeroPoint > 65535 {
			errs.Appendf(scope, vfmt.Range, "TENSOR_QUANT16_ASYMM requires zeroPoint in [0, 65535], got %d", o.ZeroPoint)
		}
	}
}

func checkExtraParams(scope string, o graph.Operand, errs *vfmt.Errors) {
	if o.Type.IsPerChannelQuant() {
		if o.ExtraParams.Kind != graph.ExtraParamsChannelQuant {
			errs.Appendf(scope, vfmt.Structural, "TENSOR_QUANT8_SYMM_PER_CHANNEL requires channelQuant extraParams")
			return
		}
		cq := o.ExtraParams.ChannelQuant
		if int(cq.ChannelDim) >= o.Rank() {
			errs.Appendf(scope, vfmt.Structural, "channelQuant.channelDim %d must be < rank %d", cq.ChannelDim, o.Rank())
			return
		}
		dimLen := o.Dimensions[cq.ChannelDim]
		if dimLen == 0 {
			errs.Appendf(scope, vfmt.Structural, "channelQuant.channelDim %d has dimension 0", cq.ChannelDim)
			return
		}
		if uint32(len(cq.Scales)) != dimLen {
			errs.Appendf(scope, vfmt.Structural, "channelQuant.scales length %d must equal dimensions[channelDim] %d", len(cq.Scales), dimLen)
		}
		for i, s := range cq.Scales {
			if s <= 0 {
				errs.Appendf(scope, vfmt.Range, "channelQuant.scales[%d] must be > 0, got %v", i, s)
			}
		}
		return
	}
	if o.Type.IsExtension() {
		switch o.ExtraParams.Kind {
		case graph.ExtraParamsNone, graph.ExtraParamsExtension:
		default:
			errs.Appendf(scope, vfmt.Structural, "extension operand type may only carry extension or no extraParams")
		}
		return
	}
	if o.ExtraParams.Kind != graph.ExtraParamsNone {
		errs.Appendf(scope, vfmt.Structural, "operand type %d must not carry extraParams", o.Type)
	}
}

func validateLifetimeLocation(scope string, o graph.Operand, ctx operandContext, errs *vfmt.Errors) {
	if !o.Lifetime.Valid() {
		errs.Appendf(scope, vfmt.Structural, "unknown operand lifetime %d", o.Lifetime)
		return
	}
	if ctx.version.Before(o.Lifetime.MinVersion()) {
		errs.Appendf(scope, vfmt.Version, "lifetime %s requires HAL %s, model is %s", o.Lifetime, o.Lifetime.MinVersion(), ctx.version)
		return
	}

	switch o.Lifetime {
	case haltype.CONSTANT_COPY:
		if o.Location.PoolIndex != 0 {
			errs.Appendf(scope, vfmt.Structural, "CONSTANT_COPY must have poolIndex 0, got %d", o.Location.PoolIndex)
			return
		}
		end := uint64(o.Location.Offset) + uint64(o.Location.Length)
		if end > uint64(ctx.blobLen) {
			errs.Appendf(scope, vfmt.Range, "CONSTANT_COPY range [%d, %d) exceeds operandValues blob of length %d", o.Location.Offset, end, ctx.blobLen)
		}
	case haltype.CONSTANT_REFERENCE:
		if !ctx.mem.Validate(o.Location) {
			errs.Appendf(scope, vfmt.Range, "CONSTANT_REFERENCE location %s is out of range of its pool", locString(o.Location))
		}
	case haltype.TEMPORARY_VARIABLE, haltype.SUBGRAPH_INPUT, haltype.SUBGRAPH_OUTPUT, haltype.NO_VALUE:
		if !o.Location.IsAllZero() {
			errs.Appendf(scope, vfmt.Structural, "lifetime %s requires an all-zero location, got %s", o.Lifetime, locString(o.Location))
		}
	case haltype.SUBGRAPH_LIFETIME:
		if o.Location.PoolIndex != 0 || o.Location.Length != 0 {
			errs.Appendf(scope, vfmt.Structural, "SUBGRAPH lifetime requires poolIndex=0 and length=0, got %s", locString(o.Location))
			return
		}
		if int(o.Location.Offset) >= ctx.referencedCount {
			errs.Appendf(scope, vfmt.Structural, "SUBGRAPH offset %d is out of range of %d referenced subgraphs", o.Location.Offset, ctx.referencedCount)
		}
	}
}

func locString(l graph.Location) string {
	return fmt.Sprintf("{poolIndex=%d, offset=%d, length=%d}", l.PoolIndex, l.Offset, l.Length)
}
