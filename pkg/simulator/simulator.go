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

import (
	"context"
	"math"
	"time"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"housesim/pkg/logging"
)

const (
	StateReady     = "Ready"
	StateRunning   = "Running"
	StateCompleted = "Completed"
	StateHalted    = "Halted"

	startRun    = "start"
	completeRun = "complete"
	haltRun     = "halt"
)

type Bounds struct {
	Width  float64
	Height float64
}

type Option func(s *Simulator)

// WithArrivalTolerance decouples the arrival test from the step size.
// Non-positive values are ignored.
func WithArrivalTolerance(tolerance float64) Option {
	return func(s *Simulator) {
		if tolerance > 0 {
			s.tolerance = tolerance
		}
	}
}

// WithTickDelay paces runs by sleeping between ticks. It has no effect on results.
func WithTickDelay(delay time.Duration) Option {
	return func(s *Simulator) {
		s.tickDelay = delay
	}
}

type Simulator struct {
	bounds    Bounds
	speed     float64
	tolerance float64
	tickDelay time.Duration

	entities []*Entity

	fsm    *fsm.FSM
	logger *zap.SugaredLogger
}

func NewSimulator(ctx context.Context, bounds Bounds, speed float64, opts ...Option) *Simulator {
	s := &Simulator{
		bounds:    bounds,
		speed:     speed,
		tolerance: speed,
		entities:  make([]*Entity, 0),
		logger:    logging.FromContext(ctx),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.fsm = fsm.NewFSM(
		StateReady,
		fsm.Events{
			{Name: startRun, Src: []string{StateReady, StateCompleted, StateHalted}, Dst: StateRunning},
			{Name: completeRun, Src: []string{StateRunning}, Dst: StateCompleted},
			{Name: haltRun, Src: []string{StateRunning}, Dst: StateHalted},
		},
		fsm.Callbacks{},
	)

	return s
}

// Spawn creates an entity at initial. An entity that is already home never
// moves; any other entity gets a target from sample straight away.
func (s *Simulator) Spawn(initial Point, kind EntityKind, home HomePredicate, sample TargetSampler) *Entity {
	e := &Entity{
		ID:       EntityID(len(s.entities)),
		Kind:     kind,
		Start:    initial,
		Position: initial,
		Target:   initial,
	}

	if !home(initial) {
		e.Target = sample()
		e.Moving = true
	}

	s.entities = append(s.entities, e)
	s.logger.Debugw("spawned entity",
		"id", e.ID,
		"kind", e.Kind,
		"x", e.Position.X,
		"y", e.Position.Y,
		"moving", e.Moving,
		"targetX", e.Target.X,
		"targetY", e.Target.Y,
	)

	return e
}

func (s *Simulator) Entities() []*Entity {
	return s.entities
}

func (s *Simulator) Bounds() Bounds {
	return s.bounds
}

func (s *Simulator) Speed() float64 {
	return s.speed
}

func (s *Simulator) ArrivalTolerance() float64 {
	return s.tolerance
}

func (s *Simulator) State() string {
	return s.fsm.Current()
}

func (s *Simulator) Moving() int {
	n := 0
	for _, e := range s.entities {
		if e.Moving {
			n++
		}
	}
	return n
}

// MaxTickBudget is the largest tick budget MaxTicksFor will report.
const MaxTickBudget = math.MaxInt32

// MaxTicksFor is the number of ticks needed for the longest straight crossing of bounds,
// capped at MaxTickBudget.
func MaxTicksFor(bounds Bounds, speed float64) int {
	ticks := math.Ceil(math.Max(bounds.Width, bounds.Height) * math.Sqrt2 / speed)
	if math.IsNaN(ticks) || ticks > MaxTickBudget {
		return MaxTickBudget
	}
	return int(ticks)
}

func (s *Simulator) transition(event string) {
	err := s.fsm.Event(event)
	if err != nil {
		switch err.(type) {
		case fsm.NoTransitionError:
		// ignore
		default:
			panic(err.Error())
		}
	}
}
