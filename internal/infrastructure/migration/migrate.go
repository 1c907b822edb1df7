package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrator is the subset of migrate.Migrate the runner needs, so tests can
// substitute an engine without touching a real database.
type Migrator interface {
	Up() error
	Close() (error, error)
}

// MigrationEngine builds a Migrator for an open database and an embedded
// migration source.
type MigrationEngine func(db *sql.DB, source fs.FS) (Migrator, error)

type Migration struct {
	db     *sql.DB
	source fs.FS
	engine MigrationEngine
}

func NewMigration(db *sql.DB, source fs.FS, engine MigrationEngine) *Migration {
	return &Migration{
		db:     db,
		source: source,
		engine: engine,
	}
}

// DefaultEngine wires golang-migrate's sqlite3 driver to an iofs source.
func DefaultEngine(db *sql.DB, source fs.FS) (Migrator, error) {
	src, err := iofs.New(source, ".")
	if err != nil {
		return nil, fmt.Errorf("opening migration source: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("creating migration driver: %w", err)
	}
	return migrate.NewWithInstance("iofs", src, "sqlite3", driver)
}

func (mg *Migration) Up() error {
	m, err := mg.engine(mg.db, mg.source)
	if err != nil {
		return err
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration source error: %v", err, serr)
			} else {
				err = serr
			}
		}
		if dberr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration database error: %v", err, dberr)
			} else {
				err = dberr
			}
		}
	}()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w; migration up error", err)
	}
	return nil
}
