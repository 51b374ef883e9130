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

package tracelog

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"

	"housesim/pkg/simulator"
)

type Entry struct {
	Tick     int     `json:"tick"`
	EntityID int     `json:"entity_id"`
	Kind     string  `json:"kind"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Moving   bool    `json:"moving"`
	Result   string  `json:"result"`
}

func EntryFor(o simulator.Observation) Entry {
	return Entry{
		Tick:     o.Tick,
		EntityID: int(o.EntityID),
		Kind:     string(o.Kind),
		X:        o.Position.X,
		Y:        o.Position.Y,
		Moving:   o.Moving,
		Result:   o.Result.String(),
	}
}

// Writer is an Observer that appends one compressed JSON line per observation.
// Observe cannot fail, so the first write error is kept and returned by Close.
type Writer struct {
	mu     sync.Mutex
	closer io.Closer
	enc    *zstd.Encoder
	w      *bufio.Writer
	err    error
}

func NewWriter(w io.WriteCloser) (*Writer, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}

	return &Writer{
		closer: w,
		enc:    enc,
		w:      bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

func Create(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}

	w, err := NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

func (tw *Writer) Observe(o simulator.Observation) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.err != nil || tw.w == nil {
		return
	}

	b, err := json.Marshal(EntryFor(o))
	if err != nil {
		tw.err = err
		return
	}
	if _, err := tw.w.Write(b); err != nil {
		tw.err = err
		return
	}
	if err := tw.w.WriteByte('\n'); err != nil {
		tw.err = err
	}
}

func (tw *Writer) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.w == nil {
		return tw.err
	}

	if err := tw.w.Flush(); err != nil && tw.err == nil {
		tw.err = err
	}
	if err := tw.enc.Close(); err != nil && tw.err == nil {
		tw.err = err
	}
	if err := tw.closer.Close(); err != nil && tw.err == nil {
		tw.err = err
	}
	tw.w = nil

	return tw.err
}

// Read decodes a trace produced by Writer.
func Read(r io.Reader) ([]Entry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	entries := make([]Entry, 0)
	scanner := bufio.NewScanner(dec)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			return entries, err
		}
		entries = append(entries, e)
	}

	return entries, scanner.Err()
}
