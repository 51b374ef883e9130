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
	"time"

	"golang.org/x/sync/errgroup"
)

type RunSummary struct {
	Ticks    int
	Entities int
	Settled  int
	Halted   bool
}

// RunToCompletion steps every moving entity once per tick until none is moving
// or maxTicks ticks have elapsed.
func (s *Simulator) RunToCompletion(ctx context.Context, observer Observer, maxTicks int) RunSummary {
	if observer == nil {
		observer = Discard
	}
	s.transition(startRun)

	tick := 0
	for tick < maxTicks && s.Moving() > 0 {
		if err := ctx.Err(); err != nil {
			s.logger.Warnw("run interrupted", "tick", tick, "error", err)
			break
		}
		tick++
		for _, e := range s.entities {
			if !e.Moving {
				continue
			}
			observer.Observe(observe(tick, e, s.Step(e)))
		}

		if s.Moving() > 0 {
			if err := s.pace(ctx); err != nil {
				s.logger.Warnw("run interrupted", "tick", tick, "error", err)
				break
			}
		}
	}

	return s.finish(tick)
}

// RunConcurrently gives every entity its own goroutine running its own tick loop.
// Final positions are identical to RunToCompletion because no entity reads another.
func (s *Simulator) RunConcurrently(ctx context.Context, observer Observer, maxTicks int) RunSummary {
	observer = Synchronized(observer)
	s.transition(startRun)

	ticks := make([]int, len(s.entities))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, e := range s.entities {
		i, e := i, e
		group.Go(func() error {
			var err error
			ticks[i], err = s.journey(groupCtx, e, observer, maxTicks)
			return err
		})
	}

	if err := group.Wait(); err != nil {
		s.logger.Warnw("run interrupted", "error", err)
	}

	longest := 0
	for _, t := range ticks {
		if t > longest {
			longest = t
		}
	}

	return s.finish(longest)
}

func (s *Simulator) journey(ctx context.Context, e *Entity, observer Observer, maxTicks int) (int, error) {
	tick := 0
	for tick < maxTicks && e.Moving {
		if err := ctx.Err(); err != nil {
			return tick, err
		}
		tick++
		observer.Observe(observe(tick, e, s.Step(e)))

		if e.Moving {
			if err := s.pace(ctx); err != nil {
				return tick, err
			}
		}
	}

	return tick, nil
}

func (s *Simulator) pace(ctx context.Context) error {
	if s.tickDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.tickDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Simulator) finish(ticks int) RunSummary {
	moving := s.Moving()
	summary := RunSummary{
		Ticks:    ticks,
		Entities: len(s.entities),
		Settled:  len(s.entities) - moving,
		Halted:   moving > 0,
	}

	if summary.Halted {
		s.transition(haltRun)
		s.logger.Warnw("run halted with entities still moving", "ticks", ticks, "moving", moving)
	} else {
		s.transition(completeRun)
		s.logger.Infow("run completed", "ticks", ticks, "entities", summary.Entities)
	}

	return summary
}
