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
	"strings"

	"housesim/pkg/simulator"
)

const (
	CapitalHouse simulator.EntityKind = "CapitalHouse"
	WoodenHouse  simulator.EntityKind = "WoodenHouse"
)

// KindPolicy says where houses of one kind belong and where they go when they are elsewhere.
type KindPolicy struct {
	Kind        simulator.EntityKind
	Home        Region
	Destination Region
}

func (kp KindPolicy) HomePredicate() simulator.HomePredicate {
	return kp.Home.Contains
}

func (kp KindPolicy) Sampler(rnd RandomSource) simulator.TargetSampler {
	return func() simulator.Point {
		return kp.Destination.Sample(rnd)
	}
}

// CapitalPolicy keeps capital houses in the quarter nearest the origin.
func CapitalPolicy(bounds simulator.Bounds) KindPolicy {
	quarter := Region{MinX: 0, MinY: 0, MaxX: bounds.Width / 2, MaxY: bounds.Height / 2}
	return KindPolicy{
		Kind:        CapitalHouse,
		Home:        quarter,
		Destination: quarter,
	}
}

// WoodenPolicy keeps wooden houses in the quarter farthest from the origin.
func WoodenPolicy(bounds simulator.Bounds) KindPolicy {
	quarter := Region{MinX: bounds.Width / 2, MinY: bounds.Height / 2, MaxX: bounds.Width, MaxY: bounds.Height}
	return KindPolicy{
		Kind:        WoodenHouse,
		Home:        quarter,
		Destination: quarter,
	}
}

func Policies(bounds simulator.Bounds) map[simulator.EntityKind]KindPolicy {
	return map[simulator.EntityKind]KindPolicy{
		CapitalHouse: CapitalPolicy(bounds),
		WoodenHouse:  WoodenPolicy(bounds),
	}
}

func ParseKind(name string) (simulator.EntityKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "capital", "capitalhouse":
		return CapitalHouse, nil
	case "wooden", "woodenhouse":
		return WoodenHouse, nil
	default:
		return "", fmt.Errorf("unknown house kind '%s'", name)
	}
}

func SpawnHouse(sim *simulator.Simulator, policy KindPolicy, rnd RandomSource, at simulator.Point) *simulator.Entity {
	return sim.Spawn(at, policy.Kind, policy.HomePredicate(), policy.Sampler(rnd))
}
