// Command migration manages the saved-games schema.
//
// Usage:
//
//	nba-migrate up
//	nba-migrate down 1
//	nba-migrate version
//	nba-migrate force 1773000000
//	nba-migrate goto 1773000000
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/nba-lineup-model/internal/app"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/logging"
)

var logger = logging.NewJSONWriter(os.Stderr, logging.LevelInfo).Component("migration")

func main() {
	_ = godotenv.Load(".env")
	defer func() { _ = logger.Sync() }()

	root := &cobra.Command{
		Use:           "nba-migrate",
		Short:         "Apply or roll back saved-games schema migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		migrateCmd("up", "Apply every pending migration", cobra.NoArgs, func(m *migrate.Migrate, _ []string) error {
			if err := ignoreNoChange(m.Up()); err != nil {
				return err
			}
			logger.Info("migrations applied")
			return nil
		}),
		migrateCmd("down [steps]", "Roll back migrations (default 1)", cobra.MaximumNArgs(1), func(m *migrate.Migrate, args []string) error {
			steps, err := parseSteps(args)
			if err != nil {
				return err
			}
			if err := ignoreNoChange(m.Steps(-steps)); err != nil {
				return err
			}
			logger.Info("migrations rolled back", "steps", steps)
			return nil
		}),
		migrateCmd("version", "Print the current schema version", cobra.NoArgs, func(m *migrate.Migrate, _ []string) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Println("version: none")
				fmt.Println("dirty: false")
				return nil
			}
			if err != nil {
				return fmt.Errorf("read version: %w", err)
			}
			fmt.Printf("version: %d\n", version)
			fmt.Printf("dirty: %t\n", dirty)
			return nil
		}),
		migrateCmd("force <version>", "Set the version without running migrations", cobra.ExactArgs(1), func(m *migrate.Migrate, args []string) error {
			version, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			if err := m.Force(version); err != nil {
				return fmt.Errorf("force version %d: %w", version, err)
			}
			logger.Info("forced schema version", "version", version)
			return nil
		}),
		migrateCmd("goto <version>", "Migrate up or down to a version", cobra.ExactArgs(1), func(m *migrate.Migrate, args []string) error {
			target, err := parseTarget(args[0])
			if err != nil {
				return err
			}
			if err := ignoreNoChange(m.Migrate(target)); err != nil {
				return err
			}
			logger.Info("migrated", "version", target)
			return nil
		}),
	)

	if err := root.Execute(); err != nil {
		logger.Error("migration failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func migrateCmd(use, short string, args cobra.PositionalArgs, run func(m *migrate.Migrate, args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMigrator()
			if err != nil {
				return err
			}
			defer closeMigrator(m)
			return run(m, args)
		},
	}
}

func newMigrator() (*migrate.Migrate, error) {
	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return nil, fmt.Errorf("DB_URL is required")
	}

	disablePrepared := true
	if raw := strings.TrimSpace(os.Getenv("DB_DISABLE_PREPARED_BINARY_RESULT")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
		}
		disablePrepared = v
	}

	dir, err := resolveMigrationsDir()
	if err != nil {
		return nil, err
	}

	sourceURL := "file://" + filepath.ToSlash(dir)
	m, err := migrate.New(sourceURL, app.NormalizeDBURL(dbURL, disablePrepared))
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	logger.Info("migration source resolved", "source", sourceURL)
	return m, nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Warn("close migration source failed", "error", srcErr)
	}
	if dbErr != nil {
		logger.Warn("close migration db failed", "error", dbErr)
	}
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}
	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("version must be >= 0")
	}
	return value, nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}

func resolveMigrationsDir() (string, error) {
	candidates := []string{
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"./db/migrations",
		"/app/db/migrations",
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}

	return "", fmt.Errorf("migration directory not found (checked MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
}
