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

// Package hal is the module's façade: it ties model/request validation
// (package verify) to execution planning (package plan) behind a single
// entry point, the way the teacher's top-level api package wraps its
// build and interp packages.
package hal

import (
	"context"
	"fmt"

	"github.com/nnhal/corevalidate/graph"
	"github.com/nnhal/corevalidate/opset"
	"github.com/nnhal/corevalidate/plan"
	"github.com/nnhal/corevalidate/verify"
)

// ValidateAndPlan validates m against lib, and on success partitions it
// into an ExecutionPlan using assign. It does nothing in between: a
// caller who only wants validation should call verify.ValidateModel
// directly instead.
func ValidateAndPlan(ctx context.Context, m *graph.Model, lib opset.Library, assign plan.DeviceAssignment) (*plan.ExecutionPlan, error) {
	if err := verify.ValidateModel(m, lib); err != nil {
		return nil, fmt.Errorf("hal: model invalid: %w", err)
	}
	p, err := plan.NewPlanner().Plan(ctx, m, assign)
	if err != nil {
		return nil, fmt.Errorf("hal: %w", err)
	}
	return p, nil
}

// ValidateAndRunSimple is a convenience for the common case where the
// whole model runs on one device: it validates m, plans it, and
// expects the result to be a Simple plan, which it executes against req
// immediately.
func ValidateAndRunSimple(ctx context.Context, m *graph.Model, req *graph.Request, lib opset.Library, assign plan.DeviceAssignment) error {
	p, err := ValidateAndPlan(ctx, m, lib, assign)
	if err != nil {
		return err
	}
	if p.Kind() != plan.Simple {
		return fmt.Errorf("hal: model partitioned into %d steps, use plan.NewController for stepwise execution", p.StepCount())
	}
	if err := verify.ValidateRequest(req, m); err != nil {
		return fmt.Errorf("hal: request invalid: %w", err)
	}
	dev, prepared := p.SimpleDevice()
	return dev.Execute(ctx, prepared, req)
}
