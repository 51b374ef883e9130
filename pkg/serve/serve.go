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
	"context"
	"net/http"
	"sync"

	"github.com/NYTimes/gziphandler"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"

	"housesim/pkg/data"
	"housesim/pkg/logging"
)

type HousesimServer struct {
	Addr string

	// sqlite connections are not safe for concurrent use
	mu    sync.Mutex
	store data.RunStore

	logger *zap.SugaredLogger
	srv    *http.Server
}

func (hs *HousesimServer) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.NoCache)
	router.Use(middleware.Logger)

	router.Mount("/debug", middleware.Profiler())
	router.Method(http.MethodPost, "/run", gziphandler.GzipHandler(http.HandlerFunc(hs.RunHandler)))
	router.Get("/runs/{id}", hs.StoredRunHandler)
	router.Get("/runs/{id}/entities/{entity}/trajectory", hs.TrajectoryHandler)

	return router
}

// Serve starts listening in the background. Use Shutdown to stop.
func (hs *HousesimServer) Serve() {
	hs.srv = &http.Server{
		Addr:    hs.Addr,
		Handler: hs.Router(),
	}

	go func() {
		hs.logger.Infow("listening", "addr", hs.Addr)
		if err := hs.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			hs.logger.Errorw("server stopped", "error", err)
		}
	}()
}

func (hs *HousesimServer) Shutdown(ctx context.Context) error {
	hs.logger.Info("shutting down ...")
	if hs.srv == nil {
		return nil
	}
	return hs.srv.Shutdown(ctx)
}

func NewServer(ctx context.Context, addr string, store data.RunStore) *HousesimServer {
	return &HousesimServer{
		Addr:   addr,
		store:  store,
		logger: logging.FromContext(ctx),
	}
}
