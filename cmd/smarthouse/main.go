// Smart House API
//
// This is the main entry point for the smart house REST service. It serves
// CRUD endpoints for houses, the rooms inside them and the devices inside
// those rooms, backed by SQLite. Change events are streamed over WebSocket
// and, when configured, published to MQTT and recorded in InfluxDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/nerrad567/smarthouse/internal/api"
	"github.com/nerrad567/smarthouse/internal/home"
	"github.com/nerrad567/smarthouse/internal/infrastructure/config"
	"github.com/nerrad567/smarthouse/internal/infrastructure/database"
	"github.com/nerrad567/smarthouse/internal/infrastructure/influxdb"
	"github.com/nerrad567/smarthouse/internal/infrastructure/logging"
	"github.com/nerrad567/smarthouse/internal/infrastructure/mqtt"
	"github.com/nerrad567/smarthouse/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// configEnvVar names the environment variable that supplies --config.
const configEnvVar = "SMARTHOUSE_CONFIG"

func main() {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: loading .env: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp builds the command tree. Running it without a subcommand serves the API.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "smarthouse",
		Usage:   "Smart house REST API",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to YAML config file (defaults and environment only when empty)",
				Sources: cli.EnvVars(configEnvVar),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd.String("config"))
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP API server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return run(ctx, cmd.String("config"))
				},
			},
			migrateCommand(),
		},
	}
}

// migrateCommand groups the schema migration subcommands.
func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return migrateUp(ctx, cmd.String("config"), cmd.Root().Writer)
				},
			},
			{
				Name:  "down",
				Usage: "Roll back the most recent migration",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return migrateDown(ctx, cmd.String("config"), cmd.Root().Writer)
				},
			},
			{
				Name:  "status",
				Usage: "List applied and pending migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return migrateStatus(ctx, cmd.String("config"), cmd.Root().Writer)
				},
			},
		},
	}
}

// run is the serve logic, separated from main for testability.
// It blocks until ctx is cancelled, then shuts everything down in reverse order.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - configPath: YAML config file, or "" for defaults plus environment
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context, configPath string) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting smart house API",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded", "path", configPath, "level", cfg.Logging.Level)

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected",
		"path", cfg.Database.Path,
		"max_open_conns", cfg.Database.MaxOpenConns,
	)

	if migrateErr := db.Migrate(ctx, migrations.FS); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	deps := api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log,
		Repo:    home.NewSQLiteRepository(db.DB),
		Pool:    db,
		Version: version,
	}

	// MQTT and InfluxDB are optional; the API keeps serving without them.
	if mqttClient := connectMQTT(cfg.MQTT, log); mqttClient != nil {
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		deps.Publisher = mqttClient
	}

	if influxClient := connectInfluxDB(cfg.InfluxDB, log); influxClient != nil {
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		deps.Recorder = influxClient
	}

	srv, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := srv.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal", "address", srv.Addr())

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	// 4. Database

	return nil
}

// openDatabase opens the connection pool described by cfg.
func openDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.Open(ctx, database.Config{
		Path:         cfg.Database.Path,
		WALMode:      cfg.Database.WALMode,
		BusyTimeout:  cfg.Database.BusyTimeout,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// connectMQTT connects the change event publisher, or returns nil when MQTT
// is disabled or the broker is unreachable.
func connectMQTT(cfg config.MQTTConfig, log *logging.Logger) *mqtt.Client {
	if !cfg.Enabled {
		log.Info("MQTT disabled")
		return nil
	}

	client, err := mqtt.Connect(cfg)
	if err != nil {
		log.Warn("MQTT unavailable, change events will not be published", "error", err)
		return nil
	}

	client.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.Broker.Host, cfg.Broker.Port),
		"client_id", client.ClientID(),
		"topic_prefix", client.Topics().Prefix(),
	)
	return client
}

// connectInfluxDB connects the device state recorder, or returns nil when
// InfluxDB is disabled or unreachable.
func connectInfluxDB(cfg config.InfluxDBConfig, log *logging.Logger) *influxdb.Client {
	if !cfg.Enabled {
		log.Info("InfluxDB disabled")
		return nil
	}

	client, err := influxdb.Connect(cfg)
	if err != nil {
		log.Warn("InfluxDB unavailable, device state history disabled", "error", err)
		return nil
	}

	client.SetOnError(func(err error) {
		log.Error("InfluxDB write error", "error", err)
	})

	log.Info("InfluxDB connected",
		"url", cfg.URL,
		"org", cfg.Org,
		"bucket", cfg.Bucket,
	)
	return client
}

// withDatabase loads config, opens the pool and calls fn with it.
func withDatabase(ctx context.Context, configPath string, fn func(*database.DB) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Read-mostly CLI session; close errors are not actionable

	return fn(db)
}

// migrateUp applies pending migrations.
func migrateUp(ctx context.Context, configPath string, w io.Writer) error {
	return withDatabase(ctx, configPath, func(db *database.DB) error {
		_, pending, err := db.GetMigrationStatus(ctx, migrations.FS)
		if err != nil {
			return fmt.Errorf("reading migration status: %w", err)
		}
		if err := db.Migrate(ctx, migrations.FS); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		for _, m := range pending {
			fmt.Fprintf(w, "applied %s_%s\n", m.Version, m.Name)
		}
		if len(pending) == 0 {
			fmt.Fprintln(w, "schema is up to date")
		}
		return nil
	})
}

// migrateDown rolls back the most recent migration.
func migrateDown(ctx context.Context, configPath string, w io.Writer) error {
	return withDatabase(ctx, configPath, func(db *database.DB) error {
		m, err := db.MigrateDown(ctx, migrations.FS)
		if err != nil {
			return fmt.Errorf("rolling back migration: %w", err)
		}
		if m == nil {
			fmt.Fprintln(w, "no migrations applied")
			return nil
		}
		fmt.Fprintf(w, "rolled back %s_%s\n", m.Version, m.Name)
		return nil
	})
}

// migrateStatus prints applied and pending migrations.
func migrateStatus(ctx context.Context, configPath string, w io.Writer) error {
	return withDatabase(ctx, configPath, func(db *database.DB) error {
		applied, pending, err := db.GetMigrationStatus(ctx, migrations.FS)
		if err != nil {
			return fmt.Errorf("reading migration status: %w", err)
		}
		for _, r := range applied {
			fmt.Fprintf(w, "applied  %s  %s\n", r.Version, r.AppliedAt.Format("2006-01-02 15:04:05"))
		}
		for _, m := range pending {
			fmt.Fprintf(w, "pending  %s  %s\n", m.Version, m.Name)
		}
		return nil
	})
}
