package main

import (
	"time"

	"github.com/rise-and-shine/medalists/http/server"
	"github.com/rise-and-shine/medalists/observability/logger"
	"github.com/rise-and-shine/medalists/observability/tracing"
	"github.com/rise-and-shine/medalists/pg"
)

// Config is the root configuration, read from ./config/${ENVIRONMENT}.yaml.
type Config struct {
	Service    ServiceConfig  `yaml:"service"`
	Startup    StartupConfig  `yaml:"startup"`
	Logger     logger.Config  `yaml:"logger"`
	Tracing    tracing.Config `yaml:"tracing"`
	Postgres   pg.Config      `yaml:"postgres"`
	HTTPServer server.Config  `yaml:"http_server"`
}

type ServiceConfig struct {
	Name    string `yaml:"name"    validate:"required" default:"medalists"`
	Version string `yaml:"version" validate:"required" default:"dev"`
}

// StartupConfig controls how long startup waits for the database.
type StartupConfig struct {
	PingAttempts uint          `yaml:"ping_attempts" validate:"gte=1" default:"10"`
	PingDelay    time.Duration `yaml:"ping_delay"                     default:"1s"`
}
