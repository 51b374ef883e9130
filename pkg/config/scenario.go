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

package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"housesim/pkg/model"
	"housesim/pkg/simulator"
)

const (
	ModeSequential = "sequential"
	ModeConcurrent = "concurrent"
)

type House struct {
	Kind string  `yaml:"kind" json:"kind"`
	X    float64 `yaml:"x" json:"x"`
	Y    float64 `yaml:"y" json:"y"`
}

type Scenario struct {
	Width            float64       `yaml:"width" json:"width"`
	Height           float64       `yaml:"height" json:"height"`
	Speed            float64       `yaml:"speed" json:"speed"`
	ArrivalTolerance float64       `yaml:"arrival_tolerance" json:"arrival_tolerance"`
	MaxTicks         int           `yaml:"max_ticks" json:"max_ticks"`
	TickDelay        time.Duration `yaml:"tick_delay" json:"tick_delay"`
	Mode             string        `yaml:"mode" json:"mode"`
	Seed             int64         `yaml:"seed" json:"seed"`
	Houses           []House       `yaml:"houses" json:"houses"`
	RandomHouses     int           `yaml:"random_houses" json:"random_houses"`
}

// Default is the classic two-house scenario: a capital house in the wooden
// quarter and a wooden house in the capital quarter.
func Default() Scenario {
	return Scenario{
		Width:    1000,
		Height:   800,
		Speed:    2,
		MaxTicks: 1000,
		Mode:     ModeSequential,
		Houses: []House{
			{Kind: string(model.CapitalHouse), X: 800, Y: 600},
			{Kind: string(model.WoodenHouse), X: 100, Y: 100},
		},
	}
}

// Load reads a YAML scenario file. Keys missing from the file keep their Default values.
func Load(path string) (Scenario, error) {
	s := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s Scenario) Validate() error {
	var problems []string

	if !positiveFinite(s.Width) || !positiveFinite(s.Height) {
		problems = append(problems, fmt.Sprintf("bounds must be positive and finite, got %gx%g", s.Width, s.Height))
	}
	if !positiveFinite(s.Speed) {
		problems = append(problems, fmt.Sprintf("speed must be positive and finite, got %g", s.Speed))
	}
	if s.ArrivalTolerance < 0 || math.IsNaN(s.ArrivalTolerance) || math.IsInf(s.ArrivalTolerance, 0) {
		problems = append(problems, fmt.Sprintf("arrival tolerance must be finite and not negative, got %g", s.ArrivalTolerance))
	}
	if s.MaxTicks == 0 && positiveFinite(s.Width) && positiveFinite(s.Height) && positiveFinite(s.Speed) {
		crossing := math.Ceil(math.Max(s.Width, s.Height) * math.Sqrt2 / s.Speed)
		if crossing > simulator.MaxTickBudget {
			problems = append(problems, fmt.Sprintf("crossing %gx%g at speed %g takes %g ticks, more than the %d tick limit", s.Width, s.Height, s.Speed, crossing, simulator.MaxTickBudget))
		}
	}
	if s.MaxTicks < 0 {
		problems = append(problems, fmt.Sprintf("max ticks cannot be negative, got %d", s.MaxTicks))
	}
	if s.TickDelay < 0 {
		problems = append(problems, fmt.Sprintf("tick delay cannot be negative, got %s", s.TickDelay))
	}
	if s.RandomHouses < 0 {
		problems = append(problems, fmt.Sprintf("random houses cannot be negative, got %d", s.RandomHouses))
	}
	if s.Mode != ModeSequential && s.Mode != ModeConcurrent {
		problems = append(problems, fmt.Sprintf("mode must be '%s' or '%s', got '%s'", ModeSequential, ModeConcurrent, s.Mode))
	}
	for i, h := range s.Houses {
		if _, err := model.ParseKind(h.Kind); err != nil {
			problems = append(problems, fmt.Sprintf("house %d: %s", i, err.Error()))
		}
		if math.IsNaN(h.X) || math.IsInf(h.X, 0) || math.IsNaN(h.Y) || math.IsInf(h.Y, 0) {
			problems = append(problems, fmt.Sprintf("house %d: position must be finite, got (%g, %g)", i, h.X, h.Y))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid scenario: %s", strings.Join(problems, "; "))
	}
	return nil
}

func positiveFinite(f float64) bool {
	return f > 0 && !math.IsInf(f, 1)
}

func (s Scenario) Bounds() simulator.Bounds {
	return simulator.Bounds{Width: s.Width, Height: s.Height}
}

// TickBudget is MaxTicks, or the diagonal crossing bound when MaxTicks is zero.
func (s Scenario) TickBudget() int {
	if s.MaxTicks > 0 {
		return s.MaxTicks
	}
	return simulator.MaxTicksFor(s.Bounds(), s.Speed)
}

func (s Scenario) RandomSource() model.RandomSource {
	if s.Seed == 0 {
		return model.NewProcessRandomSource()
	}
	return model.NewRandomSource(s.Seed)
}

func (s Scenario) Options() []simulator.Option {
	return []simulator.Option{
		simulator.WithArrivalTolerance(s.ArrivalTolerance),
		simulator.WithTickDelay(s.TickDelay),
	}
}

// Placements lists the configured houses followed by RandomHouses generated ones.
func (s Scenario) Placements(rnd model.RandomSource) ([]model.Placement, error) {
	placements := make([]model.Placement, 0, len(s.Houses)+s.RandomHouses)
	for i, h := range s.Houses {
		kind, err := model.ParseKind(h.Kind)
		if err != nil {
			return nil, fmt.Errorf("house %d: %w", i, err)
		}
		placements = append(placements, model.Placement{
			Kind: kind,
			At:   simulator.Point{X: h.X, Y: h.Y},
		})
	}

	if s.RandomHouses > 0 {
		placements = append(placements, model.NewUniformRandom(s.Bounds(), rnd, s.RandomHouses).Generate()...)
	}

	return placements, nil
}
