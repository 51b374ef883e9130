/*
 * Copyright (C) 2019-Present Pivotal Software, Inc. All rights reserved.
 *
 * This program and the accompanying materials are made available under the terms
 * of the Apache License, Version 2.0 (the "License”); you may not use this file
 * except in compliance with the License. You may obtain a copy of the License at:
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed
 * under the License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR
 * CONDITIONS OF ANY KIND, either express or implied. See the License for the
 * specific language governing permissions and limitations under the License.
 */

package runner

import (
	"context"
	"fmt"

	"housesim/pkg/config"
	"housesim/pkg/logging"
	"housesim/pkg/model"
	"housesim/pkg/simulator"
)

type Result struct {
	Simulator *simulator.Simulator
	Summary   simulator.RunSummary
	Houses    []*simulator.Entity
	MaxTicks  int
}

// Execute builds the scenario's simulator, spawns its houses and runs it in the
// scenario's mode, reporting every step to observer.
func Execute(ctx context.Context, scenario config.Scenario, observer simulator.Observer) (Result, error) {
	if err := scenario.Validate(); err != nil {
		return Result{}, err
	}

	logger := logging.FromContext(ctx)
	rnd := scenario.RandomSource()

	placements, err := scenario.Placements(rnd)
	if err != nil {
		return Result{}, err
	}

	sim := simulator.NewSimulator(ctx, scenario.Bounds(), scenario.Speed, scenario.Options()...)
	houses, err := model.Populate(sim, rnd, placements)
	if err != nil {
		return Result{}, fmt.Errorf("could not populate scenario: %w", err)
	}

	maxTicks := scenario.TickBudget()
	logger.Infow("running scenario",
		"mode", scenario.Mode,
		"houses", len(houses),
		"moving", sim.Moving(),
		"maxTicks", maxTicks,
	)

	var summary simulator.RunSummary
	switch scenario.Mode {
	case config.ModeConcurrent:
		summary = sim.RunConcurrently(ctx, observer, maxTicks)
	default:
		summary = sim.RunToCompletion(ctx, observer, maxTicks)
	}

	return Result{
		Simulator: sim,
		Summary:   summary,
		Houses:    houses,
		MaxTicks:  maxTicks,
	}, nil
}
