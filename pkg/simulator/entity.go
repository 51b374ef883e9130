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

package simulator

import "math"

type EntityKind string

type EntityID int

type Point struct {
	X float64
	Y float64
}

func Distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// HomePredicate reports whether an entity spawned at p is already where it belongs.
type HomePredicate func(p Point) bool

// TargetSampler picks a destination for an entity that is not home.
type TargetSampler func() Point

// Entity is plain data. Only Simulator.Step mutates Position, Moving and Ticks,
// and once Moving is false it stays false.
type Entity struct {
	ID       EntityID
	Kind     EntityKind
	Start    Point
	Position Point
	Target   Point
	Moving   bool
	Ticks    int
}

func (e *Entity) Remaining() float64 {
	return Distance(e.Position, e.Target)
}
