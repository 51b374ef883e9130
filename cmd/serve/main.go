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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bvinc/go-sqlite-lite/sqlite3"

	"housesim/pkg/data"
	"housesim/pkg/logging"
	"housesim/pkg/serve"
)

var (
	addr     = flag.String("addr", "0.0.0.0:3000", "Address to listen on")
	dbPath   = flag.String("db", "housesim.db", "sqlite database that runs are stored in")
	logLevel = flag.String("logLevel", "info", "Minimum log level")
)

func main() {
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not configure logging: %s\n", err.Error())
		os.Exit(2)
	}
	logger := logging.NewLogger(os.Stderr, level)
	defer logger.Sync()

	conn, err := sqlite3.Open(*dbPath)
	if err != nil {
		logger.Fatalw("could not open database", "path", *dbPath, "error", err)
	}
	defer conn.Close()

	store, err := data.NewRunStore(conn)
	if err != nil {
		logger.Fatalw("could not prepare database", "path", *dbPath, "error", err)
	}

	ctx := logging.WithLogger(context.Background(), logger)
	server := serve.NewServer(ctx, *addr, store)
	server.Serve()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals

	shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("shutdown error", "error", err)
	}
	logger.Info("Done.")
}
