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
	"errors"
	"fmt"
	"time"

	"github.com/bvinc/go-sqlite-lite/sqlite3"
	"github.com/google/uuid"

	"housesim/pkg/simulator"
)

var ErrNoSuchRun = errors.New("no scenario run")

type RunRecord struct {
	UUID         uuid.UUID
	Origin       string
	Mode         string
	Bounds       simulator.Bounds
	Speed        float64
	MaxTicks     int
	Summary      simulator.RunSummary
	Entities     []*simulator.Entity
	Observations []simulator.Observation
}

type StoredRun struct {
	ID       int64            `json:"id"`
	UUID     string           `json:"uuid"`
	Recorded string           `json:"recorded"`
	Origin   string           `json:"origin"`
	Mode     string           `json:"mode"`
	Bounds   simulator.Bounds `json:"bounds"`
	Speed    float64          `json:"speed"`
	MaxTicks int              `json:"max_ticks"`
	Ticks    int              `json:"ticks"`
	Halted   bool             `json:"halted"`
}

type StoredEntity struct {
	ID     simulator.EntityID   `json:"id"`
	Kind   simulator.EntityKind `json:"kind"`
	Start  simulator.Point      `json:"start"`
	Target simulator.Point      `json:"target"`
	Final  simulator.Point      `json:"final"`
	Moving bool                 `json:"moving"`
	Ticks  int                  `json:"ticks"`
}

type TrajectoryPoint struct {
	Tick     int             `json:"tick"`
	Position simulator.Point `json:"position"`
	Moving   bool            `json:"moving"`
	Result   string          `json:"result"`
}

type RunStore interface {
	Store(run RunRecord) (scenarioRunId int64, err error)
	Run(scenarioRunId int64) (StoredRun, error)
	Entities(scenarioRunId int64) ([]StoredEntity, error)
	Trajectory(scenarioRunId int64, entity simulator.EntityID) ([]TrajectoryPoint, error)
}

type storer struct {
	conn *sqlite3.Conn
}

func (s *storer) Store(run RunRecord) (scenarioRunId int64, err error) {
	if run.UUID == uuid.Nil {
		run.UUID = uuid.New()
	}

	err = s.conn.WithTx(func() error {
		scenarioRunId, err = s.scenarioRun(run)
		if err != nil {
			return err
		}

		err = s.entities(scenarioRunId, run.Entities)
		if err != nil {
			return err
		}

		return s.observations(scenarioRunId, run.Observations)
	})
	if err != nil {
		return -1, err
	}

	return scenarioRunId, nil
}

func (s *storer) scenarioRun(run RunRecord) (int64, error) {
	srStmt, err := s.conn.Prepare(`insert into scenario_runs(
									   run_uuid
									 , recorded
									 , origin
									 , mode
									 , width
									 , height
									 , speed
									 , max_ticks
									 , ticks
									 , halted)
									values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return -1, err
	}
	defer srStmt.Close()

	err = srStmt.Exec(
		run.UUID.String(),
		time.Now().Format(time.RFC3339),
		run.Origin,
		run.Mode,
		run.Bounds.Width,
		run.Bounds.Height,
		run.Speed,
		run.MaxTicks,
		run.Summary.Ticks,
		boolToInt(run.Summary.Halted),
	)
	if err != nil {
		return -1, err
	}

	return s.conn.LastInsertRowID(), nil
}

func (s *storer) entities(scenarioRunId int64, entities []*simulator.Entity) error {
	entityStmt, err := s.conn.Prepare(`insert into entities(
            scenario_run_id
          , entity_id
          , kind
          , start_x
          , start_y
          , target_x
          , target_y
          , final_x
          , final_y
          , moving
          , ticks
        ) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `)
	if err != nil {
		return err
	}
	defer entityStmt.Close()

	for _, e := range entities {
		err = entityStmt.Exec(
			scenarioRunId,
			int(e.ID),
			string(e.Kind),
			e.Start.X,
			e.Start.Y,
			e.Target.X,
			e.Target.Y,
			e.Position.X,
			e.Position.Y,
			boolToInt(e.Moving),
			e.Ticks,
		)
		if err != nil {
			return fmt.Errorf("could not store entity %d: %w", e.ID, err)
		}
	}

	return nil
}

func (s *storer) observations(scenarioRunId int64, observations []simulator.Observation) error {
	observationStmt, err := s.conn.Prepare(`insert into observations(
		scenario_run_id
	  , tick
	  , entity_id
	  , x
	  , y
	  , moving
	  , result
  ) values (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer observationStmt.Close()

	for _, o := range observations {
		err = observationStmt.Exec(
			scenarioRunId,
			o.Tick,
			int(o.EntityID),
			o.Position.X,
			o.Position.Y,
			boolToInt(o.Moving),
			o.Result.String(),
		)
		if err != nil {
			return fmt.Errorf("could not store observation of entity %d at tick %d: %w", o.EntityID, o.Tick, err)
		}
	}

	return nil
}

func (s *storer) Run(scenarioRunId int64) (StoredRun, error) {
	var run StoredRun

	stmt, err := s.conn.Prepare(RunQuery, scenarioRunId)
	if err != nil {
		return run, err
	}
	defer stmt.Close()

	hasRow, err := stmt.Step()
	if err != nil {
		return run, err
	}
	if !hasRow {
		return run, fmt.Errorf("%w with id %d", ErrNoSuchRun, scenarioRunId)
	}

	var halted int
	err = stmt.Scan(
		&run.ID,
		&run.UUID,
		&run.Recorded,
		&run.Origin,
		&run.Mode,
		&run.Bounds.Width,
		&run.Bounds.Height,
		&run.Speed,
		&run.MaxTicks,
		&run.Ticks,
		&halted,
	)
	if err != nil {
		return run, err
	}
	run.Halted = halted != 0

	return run, nil
}

func (s *storer) Entities(scenarioRunId int64) ([]StoredEntity, error) {
	stmt, err := s.conn.Prepare(EntitiesQuery, scenarioRunId)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	entities := make([]StoredEntity, 0)
	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return nil, err
		}
		if !hasRow {
			break
		}

		var e StoredEntity
		var id, moving int
		var kind string
		err = stmt.Scan(
			&id,
			&kind,
			&e.Start.X,
			&e.Start.Y,
			&e.Target.X,
			&e.Target.Y,
			&e.Final.X,
			&e.Final.Y,
			&moving,
			&e.Ticks,
		)
		if err != nil {
			return nil, err
		}
		e.ID = simulator.EntityID(id)
		e.Kind = simulator.EntityKind(kind)
		e.Moving = moving != 0

		entities = append(entities, e)
	}

	return entities, nil
}

func (s *storer) Trajectory(scenarioRunId int64, entity simulator.EntityID) ([]TrajectoryPoint, error) {
	stmt, err := s.conn.Prepare(TrajectoryQuery, scenarioRunId, int(entity))
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	points := make([]TrajectoryPoint, 0)
	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return nil, err
		}
		if !hasRow {
			break
		}

		var p TrajectoryPoint
		var moving int
		err = stmt.Scan(&p.Tick, &p.Position.X, &p.Position.Y, &moving, &p.Result)
		if err != nil {
			return nil, err
		}
		p.Moving = moving != 0

		points = append(points, p)
	}

	return points, nil
}

func NewRunStore(conn *sqlite3.Conn) (RunStore, error) {
	err := conn.Exec(Schema)
	if err != nil {
		return nil, fmt.Errorf("could not apply housesim schema: %w", err)
	}

	return &storer{
		conn: conn,
	}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
