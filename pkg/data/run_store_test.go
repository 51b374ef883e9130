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

package data

import (
	"context"
	"testing"

	"github.com/bvinc/go-sqlite-lite/sqlite3"
	"github.com/google/uuid"
	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housesim/pkg/simulator"
)

func TestRunStore(t *testing.T) {
	spec.Run(t, "RunStore", testStorer, spec.Report(report.Terminal{}))
}

func testStorer(t *testing.T, describe spec.G, it spec.S) {
	var subject RunStore
	var conn *sqlite3.Conn
	var sim *simulator.Simulator
	var recorder *Recorder
	var summary simulator.RunSummary
	bounds := simulator.Bounds{Width: 800, Height: 600}

	it.Before(func() {
		var err error
		conn, err = sqlite3.Open(":memory:")
		require.NoError(t, err)

		subject, err = NewRunStore(conn)
		require.NoError(t, err)

		sim = simulator.NewSimulator(context.Background(), bounds, 2)
		sim.Spawn(simulator.Point{X: 0, Y: 0}, "CapitalHouse", simulator.NeverHome, simulator.FixedTarget(simulator.Point{X: 3, Y: 4}))
		sim.Spawn(simulator.Point{X: 50, Y: 50}, "WoodenHouse", simulator.AlwaysHome, nil)

		recorder = NewRecorder()
		summary = sim.RunToCompletion(context.Background(), recorder, 100)
	})

	it.After(func() {
		assert.NoError(t, conn.Close())
	})

	describe("Store()", func() {
		var scenarioRunId int64
		var runUUID uuid.UUID

		it.Before(func() {
			var err error
			runUUID = uuid.New()
			scenarioRunId, err = subject.Store(RunRecord{
				UUID:         runUUID,
				Origin:       "test_origin",
				Mode:         "sequential",
				Bounds:       bounds,
				Speed:        2,
				MaxTicks:     100,
				Summary:      summary,
				Entities:     sim.Entities(),
				Observations: recorder.Observations(),
			})
			require.NoError(t, err)
		})

		it("returns the scenario_run ID", func() {
			assert.Equal(t, int64(1), scenarioRunId)
		})

		describe("Run()", func() {
			var run StoredRun

			it.Before(func() {
				var err error
				run, err = subject.Run(scenarioRunId)
				require.NoError(t, err)
			})

			it("keeps the run metadata", func() {
				assert.Equal(t, runUUID.String(), run.UUID)
				assert.Equal(t, "test_origin", run.Origin)
				assert.Equal(t, "sequential", run.Mode)
				assert.Equal(t, bounds, run.Bounds)
				assert.Equal(t, 2.0, run.Speed)
				assert.Equal(t, 100, run.MaxTicks)
			})

			it("keeps the run outcome", func() {
				assert.Equal(t, 3, run.Ticks)
				assert.False(t, run.Halted)
			})

			it("records a timestamp", func() {
				assert.NotEmpty(t, run.Recorded)
			})
		})

		describe("Entities()", func() {
			var entities []StoredEntity

			it.Before(func() {
				var err error
				entities, err = subject.Entities(scenarioRunId)
				require.NoError(t, err)
			})

			it("stores every entity in spawn order", func() {
				require.Len(t, entities, 2)
				assert.Equal(t, simulator.EntityID(0), entities[0].ID)
				assert.Equal(t, simulator.EntityID(1), entities[1].ID)
			})

			it("stores where the travelling house started, aimed and ended", func() {
				assert.Equal(t, StoredEntity{
					ID:     0,
					Kind:   "CapitalHouse",
					Start:  simulator.Point{X: 0, Y: 0},
					Target: simulator.Point{X: 3, Y: 4},
					Final:  simulator.Point{X: 3, Y: 4},
					Moving: false,
					Ticks:  3,
				}, entities[0])
			})

			it("stores the house that stayed home", func() {
				assert.Equal(t, simulator.Point{X: 50, Y: 50}, entities[1].Final)
				assert.Equal(t, 0, entities[1].Ticks)
			})
		})

		describe("Trajectory()", func() {
			it("lists one point per tick", func() {
				points, err := subject.Trajectory(scenarioRunId, 0)
				require.NoError(t, err)
				require.Len(t, points, 3)

				assert.Equal(t, 1, points[0].Tick)
				assert.True(t, points[0].Moving)
				assert.Equal(t, "in_progress", points[0].Result)
				assert.Equal(t, simulator.Point{X: 3, Y: 4}, points[2].Position)
				assert.Equal(t, "arrived", points[2].Result)
			})

			it("is empty for a house that never moved", func() {
				points, err := subject.Trajectory(scenarioRunId, 1)
				require.NoError(t, err)
				assert.Empty(t, points)
			})
		})

		it("counts arrivals per tick", func() {
			stmt, err := conn.Prepare(ArrivalsPerTickQuery, scenarioRunId)
			require.NoError(t, err)
			defer stmt.Close()

			hasRow, err := stmt.Step()
			require.NoError(t, err)
			require.True(t, hasRow)

			var tick, arrivals int
			require.NoError(t, stmt.Scan(&tick, &arrivals))
			assert.Equal(t, 3, tick)
			assert.Equal(t, 1, arrivals)
		})

		it("gives a second run the next ID", func() {
			nextId, err := subject.Store(RunRecord{Origin: "again", Mode: "concurrent", Bounds: bounds, Speed: 2})
			require.NoError(t, err)
			assert.Equal(t, int64(2), nextId)

			run, err := subject.Run(nextId)
			require.NoError(t, err)
			_, err = uuid.Parse(run.UUID)
			assert.NoError(t, err)
		})
	})

	describe("Run() for an unknown id", func() {
		it("returns an error", func() {
			_, err := subject.Run(42)
			assert.EqualError(t, err, "no scenario run with id 42")
		})
	})
}

func TestRecorder(t *testing.T) {
	spec.Run(t, "Recorder", testRecorder, spec.Report(report.Terminal{}))
}

func testRecorder(t *testing.T, describe spec.G, it spec.S) {
	it("hands out a copy of what it saw", func() {
		subject := NewRecorder()
		subject.Observe(simulator.Observation{Tick: 1})

		got := subject.Observations()
		got[0].Tick = 99

		assert.Equal(t, 1, subject.Observations()[0].Tick)
	})
}
