package main

import (
	"errors"
	"fmt"
	"lager_server/config"
	"os"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	databaseURLFlag   = "database-url"
	migrationPathFlag = "migrations-path"
	downFlag          = "down"
	stepsFlag         = "steps"
)

type flags struct {
	databaseURL    string
	migrationsPath string
	down           bool
	steps          int
}

func main() {
	_ = godotenv.Load()

	cfg := config.GetConfig()
	logger := config.NewLogger(cfg, false)

	f := getFlagsValues()
	if f.databaseURL == "" {
		dsn, err := config.DatabaseDSN(cfg.Database)
		if err != nil {
			logger.Error("No database to migrate", gecho.Field("error", err))
			fallDown()
		}
		f.databaseURL = dsn
	}
	validateFlags(logger, f)
	makeMigrations(logger, f)
}

type migrationLogger struct {
	logger  *gecho.Logger
	verbose bool
}

func (ml *migrationLogger) Printf(format string, v ...any) {
	ml.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (ml *migrationLogger) Verbose() bool {
	return ml.verbose
}

func getFlagsValues() flags {
	databaseURL := pflag.StringP(databaseURLFlag, "d", "", "postgres URL, defaults to the server configuration")
	migrationsPath := pflag.StringP(migrationPathFlag, "m", "migrations", "directory holding the .sql files")
	down := pflag.Bool(downFlag, false, "roll back instead of applying")
	steps := pflag.IntP(stepsFlag, "n", 0, "number of migrations to apply or roll back, 0 for all")
	pflag.Parse()

	return flags{
		databaseURL:    *databaseURL,
		migrationsPath: *migrationsPath,
		down:           *down,
		steps:          *steps,
	}
}

func validateFlags(logger *gecho.Logger, f flags) {
	var errs []error

	if f.migrationsPath == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", migrationPathFlag))
	}
	if f.steps < 0 {
		errs = append(errs, fmt.Errorf("--%s flag: must not be negative", stepsFlag))
	}

	if len(errs) != 0 {
		logger.Error("Invalid arguments", gecho.Field("error", errors.Join(errs...)))
		fallDown()
	}
}

// pgx5URL swaps the scheme so golang-migrate picks its pgx v5 driver.
func pgx5URL(databaseURL string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(databaseURL, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return databaseURL
}

func makeMigrations(logger *gecho.Logger, f flags) {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", f.migrationsPath),
		pgx5URL(f.databaseURL),
	)
	if err != nil {
		logger.Error("Failed to migrate", gecho.Field("error", err))
		fallDown()
	}
	defer m.Close()

	m.Log = &migrationLogger{logger: logger, verbose: true}

	switch {
	case f.steps > 0 && f.down:
		err = m.Steps(-f.steps)
	case f.steps > 0:
		err = m.Steps(f.steps)
	case f.down:
		err = m.Down()
	default:
		err = m.Up()
	}

	if err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.Log.Printf("no migrations to apply")
			return
		}
		logger.Error("Failed to migrate", gecho.Field("error", err))
		fallDown()
	}
	m.Log.Printf("migration applied")
}

func fallDown() {
	os.Exit(2)
}
