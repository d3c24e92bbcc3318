// Command medalists serves the Olympic medalists REST API.
//
// Usage:
//
//	medalists [serve]    start the HTTP server
//	medalists load DIR   load the JSON dataset in DIR into the database
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/avast/retry-go/v4"
	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/medalists/athlete"
	"github.com/rise-and-shine/medalists/cfgloader"
	"github.com/rise-and-shine/medalists/crud"
	"github.com/rise-and-shine/medalists/dataload"
	"github.com/rise-and-shine/medalists/http/server"
	"github.com/rise-and-shine/medalists/http/server/middleware"
	"github.com/rise-and-shine/medalists/medal"
	"github.com/rise-and-shine/medalists/meta"
	"github.com/rise-and-shine/medalists/model"
	"github.com/rise-and-shine/medalists/observability/logger"
	"github.com/rise-and-shine/medalists/observability/tracing"
	"github.com/rise-and-shine/medalists/pg"
	"github.com/rise-and-shine/medalists/repogen"
	"github.com/rise-and-shine/medalists/val"
	"github.com/uptrace/bun"
)

const codeUsage = "USAGE"

func main() {
	cfg := cfgloader.MustLoad[Config]()
	logger.SetGlobal(cfg.Logger)

	err := run(cfg, os.Args[1:])
	if err != nil {
		logger.Named("main").Errorx(err)
	}

	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg Config, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}
	if command != "serve" && command != "load" {
		return errx.New("unknown command "+command+"; expected serve or load", errx.WithCode(codeUsage))
	}
	if command == "load" && len(args) != 2 {
		return errx.New("usage: medalists load DIR", errx.WithCode(codeUsage))
	}

	shutdownTracer, err := tracing.InitGlobalTracer(cfg.Tracing, cfg.Service.Name, cfg.Service.Version)
	if err != nil {
		return errx.Wrap(err)
	}
	defer func() {
		if err := shutdownTracer(); err != nil {
			logger.Named("main").Errorx(err)
		}
	}()

	db, err := openDB(ctx, cfg)
	if err != nil {
		return errx.Wrap(err)
	}
	defer db.Close()

	if command == "load" {
		return load(ctx, db, args[1])
	}
	return serve(ctx, cfg, db)
}

// openDB connects to PostgreSQL, waiting for it to accept connections, and
// creates the missing tables.
func openDB(ctx context.Context, cfg Config) (*bun.DB, error) {
	log := logger.Named("main")

	db, err := pg.NewBunDB(cfg.Postgres)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	err = retry.Do(
		func() error { return db.PingContext(ctx) },
		retry.Attempts(cfg.Startup.PingAttempts),
		retry.Delay(cfg.Startup.PingDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.With("attempt", n+1, "error", err.Error()).Warn("database is not reachable yet")
		}),
		retry.Context(ctx),
	)
	if err != nil {
		_ = db.Close()
		return nil, errx.Wrap(err)
	}

	if err = pg.CreateTables(ctx, db, model.Tables()...); err != nil {
		_ = db.Close()
		return nil, errx.Wrap(err)
	}

	return db, nil
}

func serve(ctx context.Context, cfg Config, db *bun.DB) error {
	log := logger.Named("http")

	ew := server.ErrorWriter{
		HideDetails:     cfg.HTTPServer.HideErrorDetails,
		StatusOverrides: crud.StatusOverrides(),
	}

	srv := server.NewHTTPServer(cfg.HTTPServer, ew, []server.Middleware{
		middleware.NewRecoveryMW(log),
		middleware.NewTracingMW(),
		middleware.NewTimeoutMW(cfg.HTTPServer.HandleTimeout),
		middleware.NewMetaInjectMW(cfg.Service.Name, cfg.Service.Version),
		middleware.NewLoggerMW(log),
		middleware.NewErrorHandlerMW(ew),
	})

	athletes := crud.NewService[model.Athlete, athlete.CreateRequest](
		db,
		repogen.NewPgRepo[model.Athlete, athlete.CreateRequest](model.Athletes, model.ConflictCodes),
		"Athlete",
	)
	medals := crud.NewService[model.Medal, medal.CreateRequest](
		db,
		repogen.NewPgRepo[model.Medal, medal.CreateRequest](model.Medals, model.ConflictCodes),
		"Medal",
	)

	srv.RegisterRouter(func(r fiber.Router) {
		api := r.Group(cfg.HTTPServer.APIPrefix)
		athlete.RegisterRoutes(api, athletes)
		medal.RegisterRoutes(api, medals)
	})

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.HTTPServer.Address())
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return errx.Wrap(err)
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		return errx.Wrap(err)
	}
	return nil
}

func load(ctx context.Context, db *bun.DB, dir string) error {
	loader := dataload.New(db, dataload.NewPgRepos())
	in := dataload.Input{Dir: dir}

	if err := val.ValidateSchema(in); err != nil {
		return errx.Wrap(err)
	}

	ctx = meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{
		meta.TraceID:     tracing.GetStartingTraceID(ctx),
		meta.OperationID: loader.OperationID(),
	})

	return loader.Execute(ctx, in)
}
