// @title			Apontamento API
// @version		1.0
// @description	Shop-floor production tracking: append-only operator action log, reconstructed work-order status and kanban dashboard aggregation.
// @BasePath		/api/v1

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chaodefabrica/apontamento/internal/config"
	"github.com/chaodefabrica/apontamento/internal/database"
	"github.com/chaodefabrica/apontamento/internal/domain"
	"github.com/chaodefabrica/apontamento/internal/handler"
	"github.com/chaodefabrica/apontamento/internal/logger"
	"github.com/chaodefabrica/apontamento/internal/middleware"
	"github.com/chaodefabrica/apontamento/internal/repository"
	"github.com/chaodefabrica/apontamento/internal/service"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "apontamento",
		Usage: "Shop-floor production tracking service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   config.DefaultLogFormat,
				Usage:   "Log format (json, console)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:     "database-url",
				Aliases:  []string{"d"},
				Value:    config.DefaultDatabaseURL,
				Usage:    "PostgreSQL database URL",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "timezone",
				Value:   config.DefaultTimezone,
				Usage:   "Display timezone for timestamps in responses",
				EnvVars: []string{"DISPLAY_TIMEZONE"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")), c.String("log-format"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
				},
				Action: runServe,
			},
			{
				Name:   "seed-lists",
				Usage:  "Seed the kanban list definitions for a fresh installation",
				Action: runSeedLists,
			},
			{
				Name:   "rebuild-snapshots",
				Usage:  "Recompute every work order status snapshot from the action log",
				Action: runRebuildSnapshots,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func displayLocation(c *cli.Context) (*time.Location, error) {
	loc, err := time.LoadLocation(c.String("timezone"))
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.String("timezone"), err)
	}
	return loc, nil
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}
	databaseURL := c.String("database-url")

	location, err := displayLocation(c)
	if err != nil {
		return err
	}

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	h := handler.New(db.Pool(), location)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           middleware.RequestID(middleware.AccessLog(mux)),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runSeedLists(c *cli.Context) error {
	ctx := c.Context

	db, err := database.New(ctx, c.String("database-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	kanbanRepo := repository.NewKanbanRepository(db.Pool())
	inserted, err := kanbanRepo.SeedLists(ctx, domain.DefaultKanbanLists())
	if err != nil {
		return fmt.Errorf("seed kanban lists: %w", err)
	}

	slog.Info("kanban lists seeded", "inserted", inserted)
	return nil
}

func runRebuildSnapshots(c *cli.Context) error {
	ctx := c.Context

	db, err := database.New(ctx, c.String("database-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	pool := db.Pool()
	actionService := service.NewActionService(
		pool,
		repository.NewActionRepository(pool),
		repository.NewSnapshotRepository(pool),
		repository.NewWorkOrderRepository(pool),
		repository.NewCatalogRepository(pool),
	)

	count, err := actionService.RebuildSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("rebuild snapshots: %w", err)
	}

	slog.Info("snapshot rebuild finished", "count", count)
	return nil
}
