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

type Observation struct {
	Tick     int
	EntityID EntityID
	Kind     EntityKind
	Position Point
	Moving   bool
	Result   StepResult
}

// Observer receives an Observation after every step of a moving entity.
// Implementations handed to RunConcurrently are wrapped with Synchronized;
// anything else that shares an Observer between goroutines must do the same.
type Observer interface {
	Observe(o Observation)
}

type ObserverFunc func(o Observation)

func (f ObserverFunc) Observe(o Observation) {
	f(o)
}

var Discard Observer = ObserverFunc(func(Observation) {})

type synchronized struct {
	mu       sync.Mutex
	delegate Observer
}

func (so *synchronized) Observe(o Observation) {
	so.mu.Lock()
	defer so.mu.Unlock()

	so.delegate.Observe(o)
}

// Synchronized serializes calls to o behind a single mutex.
func Synchronized(o Observer) Observer {
	if o == nil {
		return Discard
	}
	if so, ok := o.(*synchronized); ok {
		return so
	}
	return &synchronized{delegate: o}
}

// FinalOnly forwards only arrivals.
func FinalOnly(o Observer) Observer {
	if o == nil {
		return Discard
	}
	return ObserverFunc(func(obs Observation) {
		if obs.Result == Arrived {
			o.Observe(obs)
		}
	})
}

// Observers fans every observation out to each non-nil observer in order.
func Observers(observers ...Observer) Observer {
	live := make([]Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			live = append(live, o)
		}
	}

	return ObserverFunc(func(obs Observation) {
		for _, o := range live {
			o.Observe(obs)
		}
	})
}

func observe(tick int, e *Entity, result StepResult) Observation {
	return Observation{
		Tick:     tick,
		EntityID: e.ID,
		Kind:     e.Kind,
		Position: e.Position,
		Moving:   e.Moving,
		Result:   result,
	}
}
