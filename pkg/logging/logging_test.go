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

package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/sclevine/spec"
	"github.com/sclevine/spec/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLogging(t *testing.T) {
	spec.Run(t, "Logging spec", testLogging, spec.Report(report.Terminal{}))
}

func testLogging(t *testing.T, describe spec.G, it spec.S) {
	var buf *bytes.Buffer

	it.Before(func() {
		buf = new(bytes.Buffer)
	})

	describe("NewLogger()", func() {
		it("names the logger housesim", func() {
			NewLogger(buf, zapcore.InfoLevel).Info("hello")
			assert.Contains(t, buf.String(), "housesim")
			assert.Contains(t, buf.String(), "hello")
		})

		it("drops entries below the level", func() {
			NewLogger(buf, zapcore.WarnLevel).Info("quiet")
			assert.Empty(t, buf.String())
		})
	})

	describe("FromContext()", func() {
		it("returns the logger placed with WithLogger()", func() {
			logger := NewLogger(buf, zapcore.DebugLevel)
			ctx := WithLogger(context.Background(), logger)
			assert.Same(t, logger, FromContext(ctx))
		})

		it("falls back to a no-op logger", func() {
			assert.NotNil(t, FromContext(context.Background()))
		})
	})

	describe("ParseLevel()", func() {
		it("parses known level names", func() {
			level, err := ParseLevel("debug")
			require.NoError(t, err)
			assert.Equal(t, zapcore.DebugLevel, level)
		})

		it("rejects unknown names", func() {
			_, err := ParseLevel("chatty")
			assert.Error(t, err)
		})
	})
}
