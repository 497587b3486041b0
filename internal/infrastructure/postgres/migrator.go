package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

// SchemaVersion describes the migration state of a database.
type SchemaVersion struct {
	Version uint
	Dirty   bool
}

func openMigrator(databaseURL, migrationsPath string) (*migrate.Migrate, error) {
	if databaseURL == "" {
		return nil, errors.New("database url is required")
	}
	m, err := migrate.New("file://"+migrationsPath, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open migrations at %s: %w", migrationsPath, err)
	}
	return m, nil
}

// closeMigrator reports source and database close failures without masking
// the primary error.
func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if err := errors.Join(srcErr, dbErr); err != nil {
		log.Warn().Err(err).Msg("closing migrator")
	}
}

// RunMigrations brings the schema up to the newest migration.
func RunMigrations(databaseURL, migrationsPath string) error {
	m, err := openMigrator(databaseURL, migrationsPath)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Debug().Str("path", migrationsPath).Msg("schema already current")
	case err != nil:
		return fmt.Errorf("apply migrations: %w", err)
	}

	return logVersion(m, "schema migrated")
}

// RunMigrationsDown reverts exactly one migration.
func RunMigrationsDown(databaseURL, migrationsPath string) error {
	m, err := openMigrator(databaseURL, migrationsPath)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("revert migration: %w", err)
	}

	return logVersion(m, "schema reverted")
}

// MigrationVersion reports the applied version. A database with no applied
// migrations has version 0.
func MigrationVersion(databaseURL, migrationsPath string) (SchemaVersion, error) {
	m, err := openMigrator(databaseURL, migrationsPath)
	if err != nil {
		return SchemaVersion{}, err
	}
	defer closeMigrator(m)

	return currentVersion(m)
}

func currentVersion(m *migrate.Migrate) (SchemaVersion, error) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return SchemaVersion{}, nil
	}
	if err != nil {
		return SchemaVersion{}, fmt.Errorf("read schema version: %w", err)
	}
	return SchemaVersion{Version: v, Dirty: dirty}, nil
}

func logVersion(m *migrate.Migrate, msg string) error {
	v, err := currentVersion(m)
	if err != nil {
		return err
	}
	log.Info().Uint("version", v.Version).Bool("dirty", v.Dirty).Msg(msg)
	return nil
}
