// Command tilenav serves grid path search over REST, websocket and MCP.
//
// Commands:
//  1. "serve" (default) runs the HTTP server exposing the REST API, the
//     websocket hub, Prometheus metrics and an /mcp HTTP endpoint
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if
//     none is reachable
//  3. "find" runs one search on a map and prints the path
//  4. "validate" checks map files
//  5. "version" prints the version
//
// Flags can also be set through environment variables or a .env file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/tilenav/metrics"
	"github.com/wricardo/tilenav/observability"
	"github.com/wricardo/tilenav/world/config"
	"github.com/wricardo/tilenav/world/service"
	"github.com/wricardo/tilenav/world/session"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "tilenav"
)

// app holds the wired services shared by the serve and mcp commands
type app struct {
	logger      *slog.Logger
	registry    *prometheus.Registry
	maps        *config.Manager
	persistence *session.FilePersistence
	sessions    *session.Manager
	service     service.NavService
}

func main() {
	// Load .env file if it exists
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newCommand()
	cmd.Before = func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		logger := observability.NewLogger(os.Stderr, observability.LoggerOptions{
			Debug:   cmd.Bool("debug"),
			NoColor: cmd.Bool("no-color"),
		})
		slog.SetDefault(logger)
		if envErr != nil && !os.IsNotExist(envErr) {
			logger.Warn("failed to load .env file", "error", envErr)
		}
		return ctx, nil
	}

	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "grid path search server",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "maps-dir",
				Value:   "configs",
				Usage:   "directory containing map configurations",
				Sources: cli.EnvVars("MAPS_DIR", "CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "sessions-dir",
				Value:   "sessions",
				Usage:   "directory for persisted sessions",
				Sources: cli.EnvVars("SESSIONS_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "disable colored log output",
				Sources: cli.EnvVars("NO_COLOR"),
			},
		},
		Action: runServe,
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			findCommand(),
			validateCommand(),
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Fprintf(cmd.Root().Writer, "%s v%s\n", AppName, Version)
					return nil
				},
			},
		},
	}
}

// newApp wires config and session managers, the metrics registry and the
// navigation service. Persisted sessions are loaded before it returns.
func newApp(mapsDir, sessionsDir string, logger *slog.Logger) (*app, error) {
	maps, err := config.NewManager(mapsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(sessionsDir, maps)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessions := session.NewManagerWithPersistence(persistence, session.WithLogger(logger))
	loaded, err := sessions.LoadPersistedSessions()
	if err != nil {
		logger.Warn("failed to load persisted sessions", "error", err)
	} else if loaded > 0 {
		logger.Info("loaded persisted sessions", "count", loaded)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics.RegisterSessionGauge(registry, sessions.Count)

	observer := observability.NewMultiObserver(
		metrics.NewObserver(registry),
		observability.NewSlogObserver(logger),
	)

	navService := service.NewNavService(sessions, maps,
		service.WithObserver(observer),
		service.WithLogger(logger),
	)

	return &app{
		logger:      logger,
		registry:    registry,
		maps:        maps,
		persistence: persistence,
		sessions:    sessions,
		service:     navService,
	}, nil
}

func newAppFromCommand(cmd *cli.Command) (*app, error) {
	return newApp(cmd.String("maps-dir"), cmd.String("sessions-dir"), slog.Default())
}

// runMaintenance prunes idle sessions and drops sessions whose files were
// deleted, until ctx is done.
func (a *app) runMaintenance(ctx context.Context, ttl time.Duration) {
	cleanup := time.NewTicker(time.Hour)
	fsSync := time.NewTicker(5 * time.Second)
	defer cleanup.Stop()
	defer fsSync.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-cleanup.C:
			if removed := a.sessions.CleanupExpiredSessions(ttl); removed > 0 {
				a.logger.Info("cleaned up expired sessions", "count", removed)
			}

		case <-fsSync.C:
			for _, sess := range a.sessions.List() {
				if a.persistence.Exists(sess.ID) {
					continue
				}
				if err := a.sessions.DeleteFromMemory(sess.ID); err == nil {
					a.logger.Info("pruned session from memory, file deleted", "session_id", sess.ID)
				}
			}
		}
	}
}

// shutdown persists every in-memory session
func (a *app) shutdown() {
	if err := a.sessions.SaveAllSessions(); err != nil {
		a.logger.Warn("failed to save sessions on shutdown", "error", err)
	}
}
