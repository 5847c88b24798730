// Command migrate manages the admin_configs and business_context schemas.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/rooted/analytics/internal/infrastructure/config"
	"github.com/rooted/analytics/internal/infrastructure/logger"
	"github.com/rooted/analytics/internal/infrastructure/migration"
)

const usage = `Usage: migrate [-path dir] [-log-level level] <command> [args]

Commands:
  up                  apply pending migrations
  down                roll back every migration
  steps <n>           apply n migrations (negative rolls back)
  version             print the applied version
  force <version>     mark a version as applied (clears a dirty state)
  create <name> [d]   write an empty up/down pair
  list                list migrations found on disk

Connection settings come from the warehouse section of the config
(ANALYTICS_WAREHOUSE_HOST, ANALYTICS_WAREHOUSE_PASSWORD, ...).`

func main() {
	dir := flag.String("path", "migrations", "migrations directory")
	level := flag.String("log-level", "info", "log level")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: *level, Format: "console", Output: "stdout", TimeFormat: time.DateTime})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(log, *dir, args); err != nil {
		log.Fatal("Migration command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func run(log *zap.Logger, dir string, args []string) error {
	switch args[0] {
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("create needs a name")
		}
		desc := ""
		if len(args) > 2 {
			desc = args[2]
		}
		f, err := migration.Create(dir, args[1], desc, time.Now())
		if err != nil {
			return err
		}
		log.Info("Migration created", zap.String("up", f.UpPath), zap.String("down", f.DownPath))
		return nil
	case "list":
		names, err := migration.List(dir)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Warehouse.Driver != "postgres" {
		return fmt.Errorf("migrations need the postgres driver, got %q", cfg.Warehouse.Driver)
	}

	db, err := sql.Open("postgres", cfg.Warehouse.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping warehouse: %w", err)
	}

	m, err := migration.New(db, dir, log)
	if err != nil {
		return err
	}
	defer m.Close()

	switch args[0] {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "steps":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "force":
		n, err := intArg(args)
		if err != nil {
			return err
		}
		return m.Force(n)
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", v, dirty)
		return nil
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func intArg(args []string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("%s needs a number", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, fmt.Errorf("%s: %w", args[0], err)
	}
	return n, nil
}
