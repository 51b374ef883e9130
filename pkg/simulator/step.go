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

type StepResult int

const (
	Stationary StepResult = iota
	InProgress
	Arrived
)

func (r StepResult) String() string {
	switch r {
	case Stationary:
		return "stationary"
	case InProgress:
		return "in_progress"
	case Arrived:
		return "arrived"
	default:
		return "unknown"
	}
}

// Step advances e by one tick. An entity closer to its target than the arrival
// tolerance snaps onto the target and stops; otherwise it moves min(speed, dist)
// along the straight line toward the target.
func (s *Simulator) Step(e *Entity) StepResult {
	if !e.Moving {
		return Stationary
	}

	dx := e.Target.X - e.Position.X
	dy := e.Target.Y - e.Position.Y
	dist := math.Sqrt(dx*dx + dy*dy)

	e.Ticks++

	if dist < s.tolerance {
		e.Position = e.Target
		e.Moving = false
		return Arrived
	}

	advance := s.speed
	if dist < advance {
		advance = dist
	}

	e.Position.X += advance * dx / dist
	e.Position.Y += advance * dy / dist

	return InProgress
}
