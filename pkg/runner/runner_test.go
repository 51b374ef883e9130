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
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housesim/pkg/config"
	"housesim/pkg/model"
	"housesim/pkg/simulator"
)

func TestRunner(t *testing.T) {
	spec.Run(t, "Runner spec", testRunner, spec.Report(report.Terminal{}))
}

func testRunner(t *testing.T, describe spec.G, it spec.S) {
	var scenario config.Scenario

	it.Before(func() {
		scenario = config.Default()
		scenario.Seed = 21
	})

	describe("Execute()", func() {
		describe("the default scenario", func() {
			var result Result
			var recorder *simulator.RecordingObserver

			it.Before(func() {
				var err error
				recorder = new(simulator.RecordingObserver)
				result, err = Execute(context.Background(), scenario, recorder)
				require.NoError(t, err)
			})

			it("settles both houses in their quarters", func() {
				require.Len(t, result.Houses, 2)
				policies := model.Policies(scenario.Bounds())
				for _, h := range result.Houses {
					assert.False(t, h.Moving)
					assert.True(t, policies[h.Kind].Home.Contains(h.Position))
				}
				assert.False(t, result.Summary.Halted)
			})

			it("observes every step", func() {
				total := 0
				for _, h := range result.Houses {
					total += h.Ticks
				}
				assert.Len(t, recorder.Observations, total)
			})

			it("uses the scenario's tick budget", func() {
				assert.Equal(t, 1000, result.MaxTicks)
			})
		})

		describe("sequential and concurrent modes", func() {
			it("end in the same place", func() {
				scenario.RandomHouses = 10
				sequential, err := Execute(context.Background(), scenario, nil)
				require.NoError(t, err)

				scenario.Mode = config.ModeConcurrent
				concurrent, err := Execute(context.Background(), scenario, nil)
				require.NoError(t, err)

				require.Len(t, concurrent.Houses, len(sequential.Houses))
				for i := range sequential.Houses {
					assert.Equal(t, sequential.Houses[i].Position, concurrent.Houses[i].Position)
				}
				assert.Equal(t, sequential.Summary, concurrent.Summary)
			})
		})

		describe("a cancelled context", func() {
			it.Before(func() {
				scenario.Width = 1e7
				scenario.Height = 1e7
				scenario.Speed = 1e-3
				scenario.MaxTicks = 1000000000
			})

			for _, mode := range []string{config.ModeSequential, config.ModeConcurrent} {
				mode := mode
				it("halts the "+mode+" run without stepping", func() {
					scenario.Mode = mode
					ctx, cancel := context.WithCancel(context.Background())
					cancel()

					result, err := Execute(ctx, scenario, nil)
					require.NoError(t, err)
					assert.True(t, result.Summary.Halted)
					assert.Equal(t, 0, result.Summary.Ticks)
				})
			}
		})

		describe("an invalid scenario", func() {
			it("is rejected before anything runs", func() {
				scenario.Speed = 0
				_, err := Execute(context.Background(), scenario, nil)
				assert.Error(t, err)
			})
		})
	})
}
