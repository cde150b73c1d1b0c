// Copyright (c) 2026 Sachly. All rights reserved.
// Author: duc.phamminh.vn@gmail.com

package api

import (
	"encoding/json"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/phamduc/sachly/internal/platform/constants"
	"github.com/phamduc/sachly/internal/platform/postgres"
	"github.com/phamduc/sachly/internal/platform/redis"
)

// # Operational Endpoints

type healthHandler struct {
	pool  *pgxpool.Pool
	redis *goredis.Client
}

func newHealthHandler(pool *pgxpool.Pool, client *goredis.Client) *healthHandler {
	return &healthHandler{pool: pool, redis: client}
}

/*
liveness reports that the process is up.

GET /health

Description: Never touches downstream dependencies, so a struggling database
cannot make an orchestrator restart a healthy process.
*/
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	writeStatus(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"name":    constants.AppName,
		"version": constants.AppVersion,
	})
}

/*
readiness reports whether the server can actually do work.

GET /ready

Description: Pings Postgres and Redis; any failure yields 503 so load
balancers drain this instance until its dependencies recover.
*/
func (handler *healthHandler) readiness(writer http.ResponseWriter, req *http.Request) {
	checks := map[string]string{
		"postgres": "ok",
		"redis":    "ok",
	}
	status := http.StatusOK

	if err := postgres.Ping(req.Context(), handler.pool); err != nil {
		checks["postgres"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	if err := redis.Ping(req.Context(), handler.redis); err != nil {
		checks["redis"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	writeStatus(writer, status, checks)
}

// writeStatus emits a minimal JSON document outside the standard envelope.
func writeStatus(writer http.ResponseWriter, status int, payload map[string]string) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}
