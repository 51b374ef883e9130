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

package serve

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/google/uuid"

	"housesim/pkg/config"
	"housesim/pkg/data"
	"housesim/pkg/logging"
	"housesim/pkg/runner"
	"housesim/pkg/simulator"
)

const (
	maxHousesPerRun = 10000
	// maxStepsPerRun bounds houses times tick budget.
	maxStepsPerRun = 10000000
)

type RunResponse struct {
	ScenarioRunID int64               `json:"scenario_run_id"`
	UUID          string              `json:"uuid"`
	Mode          string              `json:"mode"`
	MaxTicks      int                 `json:"max_ticks"`
	Ticks         int                 `json:"ticks"`
	Settled       int                 `json:"settled"`
	Halted        bool                `json:"halted"`
	Entities      []data.StoredEntity `json:"entities"`
}

type StoredRunResponse struct {
	Run      data.StoredRun      `json:"run"`
	Entities []data.StoredEntity `json:"entities"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// RunHandler runs the posted scenario. Fields missing from the body keep their default values.
func (hs *HousesimServer) RunHandler(w http.ResponseWriter, r *http.Request) {
	scenario := config.Default()
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("could not decode scenario: %w", err))
		return
	}

	if err := scenario.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	houses := len(scenario.Houses) + scenario.RandomHouses
	if houses > maxHousesPerRun {
		writeError(w, http.StatusBadRequest, fmt.Errorf("at most %d houses may be simulated per run", maxHousesPerRun))
		return
	}
	if houses > 0 && scenario.TickBudget() > maxStepsPerRun/houses {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%d houses over %d ticks is more than the %d steps allowed per run", houses, scenario.TickBudget(), maxStepsPerRun))
		return
	}

	ctx := logging.WithLogger(r.Context(), hs.logger)
	recorder := data.NewRecorder()
	result, err := runner.Execute(ctx, scenario, recorder)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	runUUID := uuid.New()
	scenarioRunId, entities, err := hs.storeRun(data.RunRecord{
		UUID:         runUUID,
		Origin:       "housesim_web",
		Mode:         scenario.Mode,
		Bounds:       scenario.Bounds(),
		Speed:        scenario.Speed,
		MaxTicks:     result.MaxTicks,
		Summary:      result.Summary,
		Entities:     result.Houses,
		Observations: recorder.Observations(),
	})
	if err != nil {
		hs.logger.Errorw("could not store run", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, RunResponse{
		ScenarioRunID: scenarioRunId,
		UUID:          runUUID.String(),
		Mode:          scenario.Mode,
		MaxTicks:      result.MaxTicks,
		Ticks:         result.Summary.Ticks,
		Settled:       result.Summary.Settled,
		Halted:        result.Summary.Halted,
		Entities:      entities,
	})
}

func (hs *HousesimServer) StoredRunHandler(w http.ResponseWriter, r *http.Request) {
	scenarioRunId, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("run id must be an integer: %w", err))
		return
	}

	hs.mu.Lock()
	run, err := hs.store.Run(scenarioRunId)
	var entities []data.StoredEntity
	if err == nil {
		entities, err = hs.store.Entities(scenarioRunId)
	}
	hs.mu.Unlock()

	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, StoredRunResponse{Run: run, Entities: entities})
}

func (hs *HousesimServer) TrajectoryHandler(w http.ResponseWriter, r *http.Request) {
	scenarioRunId, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("run id must be an integer: %w", err))
		return
	}
	entity, err := strconv.Atoi(chi.URLParam(r, "entity"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("entity id must be an integer: %w", err))
		return
	}

	hs.mu.Lock()
	_, err = hs.store.Run(scenarioRunId)
	var points []data.TrajectoryPoint
	if err == nil {
		points, err = hs.store.Trajectory(scenarioRunId, simulator.EntityID(entity))
	}
	hs.mu.Unlock()

	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, points)
}

func (hs *HousesimServer) storeRun(record data.RunRecord) (int64, []data.StoredEntity, error) {
	hs.mu.Lock()
	defer hs.mu.Unlock()

	scenarioRunId, err := hs.store.Store(record)
	if err != nil {
		return -1, nil, err
	}

	entities, err := hs.store.Entities(scenarioRunId)
	return scenarioRunId, entities, err
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, data.ErrNoSuchRun) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeError(w, http.StatusInternalServerError, err)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
