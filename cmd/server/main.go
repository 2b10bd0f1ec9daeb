// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

// Package main is the entry point for the Pinpoint server.
//
// Pinpoint answers whether a point with decimal-exact coordinates falls
// inside a composite figure on the plane. Users register, log in and
// submit checks; every checked dot lands in a per-user history backed
// by SQLite.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables layered over an optional
//     config file and built-in defaults (Koanf v2)
//  2. Store: SQLite database and the background write queue
//  3. Users: accounts, sessions and the store circuit breaker
//  4. HTTP: route table, wire handling and the TCP worker pool
//  5. Supervisor: storage and network layers under one suture tree
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (JWT_SECRET, HTTP_PORT, DATABASE_PATH, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// JWT_SECRET is the only setting without a usable default and must be
// at least 16 characters.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the listener
// closes, in-flight requests finish, and the store writer drains its
// queue before the process exits.
//
// # Example Usage
//
//	export JWT_SECRET=$(openssl rand -base64 24)
//	export DATABASE_PATH=/data/pinpoint.db
//	./pinpoint
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/mzheludkov/pinpoint/internal/api"
	"github.com/mzheludkov/pinpoint/internal/config"
	"github.com/mzheludkov/pinpoint/internal/geometry"
	"github.com/mzheludkov/pinpoint/internal/httpserver"
	"github.com/mzheludkov/pinpoint/internal/logging"
	"github.com/mzheludkov/pinpoint/internal/store"
	"github.com/mzheludkov/pinpoint/internal/supervisor"
	"github.com/mzheludkov/pinpoint/internal/tcpserver"
	"github.com/mzheludkov/pinpoint/internal/users"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging)
	log := logging.Logger()

	logging.Info().
		Str("addr", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("db_path", cfg.Database.Path).
		Msg("Starting Pinpoint")

	st, err := store.Open(cfg.Database.Path, log)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Store close failed")
		}
	}()

	writer := store.NewWriter(st, cfg.Database.WriteQueueSize, log)

	svc := users.New(st, writer, users.Config{
		JWTSecret:          cfg.Security.JWTSecret,
		SessionTTL:         cfg.Security.SessionTTL,
		BcryptCost:         cfg.Security.BcryptCost,
		BreakerMaxFailures: cfg.Breaker.MaxFailures,
		BreakerOpenTimeout: cfg.Breaker.OpenTimeout,
	}, log)

	router := httpserver.NewRouter()
	api.New(svc, geometry.NewChecker(), log).RegisterRoutes(router)

	httpSrv := httpserver.New(httpserver.Config{
		MaxHeaderSize: cfg.Server.MaxHeaderSize,
		MaxBodySize:   cfg.Server.MaxBodySize,
		SocketTimeout: cfg.Server.SocketTimeout,
		CORSEnabled:   cfg.Server.CORSEnabled,
		CORSOrigin:    cfg.Server.CORSOrigin,
		CORSMethods:   cfg.Server.CORSMethods,
		CORSHeaders:   cfg.Server.CORSHeaders,
	}, router, log)

	tcpSrv := tcpserver.New(tcpserver.Config{
		Addr:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		Workers:       cfg.Server.Workers,
		MaxQueueSize:  cfg.Server.MaxQueueSize,
		SocketTimeout: cfg.Server.SocketTimeout,
		AcceptRPS:     cfg.Server.AcceptRPS,
	}, httpSrv.HandleConn, log)

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddStorageService(writer)
	tree.AddNetworkService(tcpSrv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
		os.Exit(1)
	}
	logging.Info().Msg("Shutdown complete")
}
