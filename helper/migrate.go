package helper

//nolint:revive
import (
	"cowork/config"
	"cowork/infras/postgres"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const MigrationsSource = "file://migrations/postgres"

const (
	ActionUp      = "up"
	ActionDown    = "down"
	ActionStepUp  = "step-up"
	ActionDrop    = "drop"
	ActionVersion = "version"
)

var ErrUnknownAction = errors.New("unknown migration action")

type migration func(mig *migrate.Migrate) error

var actions = map[string]migration{
	ActionUp:      func(mig *migrate.Migrate) error { return mig.Up() },
	ActionDown:    func(mig *migrate.Migrate) error { return mig.Steps(-1) },
	ActionStepUp:  func(mig *migrate.Migrate) error { return mig.Steps(1) },
	ActionDrop:    func(mig *migrate.Migrate) error { return mig.Down() },
	ActionVersion: func(*migrate.Migrate) error { return nil },
}

// Actions lists what Runner accepts, for usage messages.
func Actions() []string {
	return []string{ActionUp, ActionDown, ActionStepUp, ActionDrop, ActionVersion}
}

// Runner applies action against the write endpoint. Schema changes always go to the primary.
func Runner(cfg *config.Config, action string) error {
	run, ok := actions[action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	extra := url.Values{}
	if cfg.DB.Postgres.MigrationTable != "" {
		extra.Set("x-migrations-table", cfg.DB.Postgres.MigrationTable)
	}

	mig, err := migrate.New(MigrationsSource, postgres.DSN(cfg, cfg.DB.Postgres.Write, extra))
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	defer mig.Close()

	if err := run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s: %w", action, err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("reading schema version: %w", err)
	}

	log.Info().Str("action", action).Uint("version", version).Bool("dirty", dirty).Msg("schema migration finished")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}
