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

package model

import (
	"fmt"

	"housesim/pkg/simulator"
)

type Placement struct {
	Kind simulator.EntityKind
	At   simulator.Point
}

// Pattern produces the starting placements of a scenario.
type Pattern interface {
	Name() string
	Generate() []Placement
}

type fixed struct {
	placements []Placement
}

func (f *fixed) Name() string {
	return "fixed"
}

func (f *fixed) Generate() []Placement {
	return append([]Placement(nil), f.placements...)
}

func NewFixed(placements []Placement) Pattern {
	return &fixed{placements: placements}
}

type uniformRandom struct {
	bounds         simulator.Bounds
	rnd            RandomSource
	numberOfHouses int
}

func (ur *uniformRandom) Name() string {
	return "uniform_random"
}

// Generate alternates capital and wooden houses, starting anywhere in bounds.
func (ur *uniformRandom) Generate() []Placement {
	placements := make([]Placement, 0, ur.numberOfHouses)
	for i := 0; i < ur.numberOfHouses; i++ {
		kind := CapitalHouse
		if i%2 == 1 {
			kind = WoodenHouse
		}

		placements = append(placements, Placement{
			Kind: kind,
			At: simulator.Point{
				X: ur.rnd.Float64Range(0, ur.bounds.Width),
				Y: ur.rnd.Float64Range(0, ur.bounds.Height),
			},
		})
	}
	return placements
}

func NewUniformRandom(bounds simulator.Bounds, rnd RandomSource, numberOfHouses int) Pattern {
	return &uniformRandom{
		bounds:         bounds,
		rnd:            rnd,
		numberOfHouses: numberOfHouses,
	}
}

// Populate spawns one house per placement using the simulator's bounds to build each kind's policy.
// Nothing is spawned unless every placement has a known kind.
func Populate(sim *simulator.Simulator, rnd RandomSource, placements []Placement) ([]*simulator.Entity, error) {
	policies := Policies(sim.Bounds())

	for i, p := range placements {
		if _, ok := policies[p.Kind]; !ok {
			return nil, fmt.Errorf("placement %d: no policy for house kind '%s'", i, p.Kind)
		}
	}

	houses := make([]*simulator.Entity, 0, len(placements))
	for _, p := range placements {
		houses = append(houses, SpawnHouse(sim, policies[p.Kind], rnd, p.At))
	}

	return houses, nil
}
