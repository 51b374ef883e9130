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

import "sync"

// RecordingObserver keeps every observation it is given. Safe for concurrent use.
type RecordingObserver struct {
	mu           sync.Mutex
	Observations []Observation
}

func (ro *RecordingObserver) Observe(o Observation) {
	ro.mu.Lock()
	defer ro.mu.Unlock()

	ro.Observations = append(ro.Observations, o)
}

func (ro *RecordingObserver) For(id EntityID) []Observation {
	ro.mu.Lock()
	defer ro.mu.Unlock()

	var obs []Observation
	for _, o := range ro.Observations {
		if o.EntityID == id {
			obs = append(obs, o)
		}
	}
	return obs
}

// FixedTarget is a TargetSampler that always returns p.
func FixedTarget(p Point) TargetSampler {
	return func() Point {
		return p
	}
}

func NeverHome(Point) bool {
	return false
}

func AlwaysHome(Point) bool {
	return true
}
