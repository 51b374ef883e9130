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
	"context"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKey struct{}

var fallbackLogger = zap.NewNop().Sugar()

// WithLogger attaches a logger to ctx; components built from that context log through it.
func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx, or a no-op logger if there is none.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*zap.SugaredLogger); ok && logger != nil {
			return logger
		}
	}
	return fallbackLogger
}

func NewLogger(w io.Writer, level zapcore.Level) *zap.SugaredLogger {
	sink := zapcore.AddSync(w)

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		sink,
		level,
	)

	unsugaredLogger := zap.New(core)

	return unsugaredLogger.Named("housesim").Sugar()
}

func ParseLevel(text string) (zapcore.Level, error) {
	var level zapcore.Level
	err := level.UnmarshalText([]byte(text))
	return level, err
}
