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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agentberlin/bluespider/internal/mcp"
	"github.com/agentberlin/bluespider/internal/store"
)

func runMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)

	var (
		common   commonFlags
		dbPath   string
		noDB     bool
		httpAddr string
	)
	common.bind(fs)
	fs.StringVar(&dbPath, "db", "", "Database path (default ~/.bluespider/bluespider.db)")
	fs.BoolVar(&noDB, "no-db", false, "Run without a database; crawl history tools are disabled")
	fs.StringVar(&httpAddr, "http", "", "Serve streamable HTTP on this address instead of stdio")

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), `Usage: bluespider mcp [flags]

Serve the bluespider MCP tools. Logs go to stderr; stdout carries the protocol.

Flags:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := newLogger(os.Stderr, common.verbose, common.quiet)
	parserConfig, err := loadParserConfig(common.configPath, logger)
	if err != nil {
		return err
	}

	var st *store.Store
	if !noDB {
		if st, err = openStore(dbPath); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	closeStore := func() {
		if st != nil {
			st.Close()
		}
	}
	coreApp, err := newApp(st, nil, parserConfig, common.fetchConfig(logger), logger)
	if err != nil {
		closeStore()
		return err
	}
	coreApp.Startup(ctx)

	server, err := mcp.NewMCPServer(coreApp, logger)
	if err != nil {
		closeStore()
		return err
	}
	defer server.Close()

	if httpAddr == "" {
		return server.RunStdio(ctx)
	}

	httpServer, err := server.RunHTTP(httpAddr)
	if err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
