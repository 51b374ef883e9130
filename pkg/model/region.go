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
	"math/rand"
	"sync"
	"time"

	"housesim/pkg/simulator"
)

// RandomSource supplies uniform values in [min, max).
type RandomSource interface {
	Float64Range(min, max float64) float64
}

type randomSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (rs *randomSource) Float64Range(min, max float64) float64 {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return min + rs.rnd.Float64()*(max-min)
}

func NewRandomSource(seed int64) RandomSource {
	return &randomSource{
		rnd: rand.New(rand.NewSource(seed)),
	}
}

// NewProcessRandomSource is seeded from the clock, so every process sees different targets.
func NewProcessRandomSource() RandomSource {
	return NewRandomSource(time.Now().UnixNano())
}

type Region struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Contains treats the region as a closed rectangle.
func (r Region) Contains(p simulator.Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

func (r Region) Sample(rnd RandomSource) simulator.Point {
	return simulator.Point{
		X: rnd.Float64Range(r.MinX, r.MaxX),
		Y: rnd.Float64Range(r.MinY, r.MaxY),
	}
}
