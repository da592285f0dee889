// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Bluespider HTTP Server
//
// This is the HTTP server for bluespider, providing a REST API for resource
// discovery and crawl history.
//
// Usage:
//
//	bluespider-server [flags]
//
// Flags:
//
//	-host string    Host to bind the server to (default "0.0.0.0")
//	-port int       Port to run the server on (default 8080)
//	-db string      Database path (default ~/.bluespider/bluespider.db)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agentberlin/bluespider/internal/app"
	"github.com/agentberlin/bluespider/internal/server"
	"github.com/agentberlin/bluespider/internal/store"
	"github.com/agentberlin/bluespider/internal/version"
)

func main() {
	port := flag.Int("port", 8080, "Port to run the HTTP server on")
	host := flag.String("host", "0.0.0.0", "Host to bind the HTTP server to")
	dbPath := flag.String("db", "", "Database path (default ~/.bluespider/bluespider.db)")
	verbose := flag.Bool("verbose", false, "Log debug output")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("bluespider server %s\n", version.CurrentVersion)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	path := *dbPath
	if path == "" {
		var err error
		if path, err = store.DefaultPath(); err != nil {
			logger.Error("failed to resolve database path", "err", err)
			os.Exit(1)
		}
	}
	st, err := store.NewStore(path)
	if err != nil {
		logger.Error("failed to initialize database", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	// The HTTP API is polled, so events are not needed
	coreApp, err := app.NewApp(st, &app.NoOpEmitter{}, &app.Config{Logger: logger})
	if err != nil {
		logger.Error("failed to initialize app", "err", err)
		os.Exit(1)
	}
	baseCtx, cancelCrawls := context.WithCancel(context.Background())
	defer cancelCrawls()
	coreApp.Startup(baseCtx)

	addr := fmt.Sprintf("%s:%d", *host, *port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.NewServer(coreApp, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("bluespider server starting", "version", version.CurrentVersion, "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	cancelCrawls()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}
	// Let stopped crawls record their final state
	for i := 0; i < 50 && len(coreApp.GetActiveCrawls()) > 0; i++ {
		time.Sleep(100 * time.Millisecond)
	}

	logger.Info("server exited")
}
