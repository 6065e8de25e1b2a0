package auth

import (
	"context"
	"database/sql"
	"sync"

	"github.com/goliatone/go-errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const (
	// DriverSQLite selects the embedded sqlite driver
	DriverSQLite = "sqlite"
	// DriverPostgres selects pgx through database/sql
	DriverPostgres = "postgres"
)

// goose keeps its base FS and dialect in package globals
var gooseMu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// OpenDB opens a bun database for driver and dsn and pings it
func OpenDB(ctx context.Context, driver, dsn string) (*bun.DB, error) {
	var db *bun.DB

	switch driver {
	case DriverSQLite, "":
		sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
		if err != nil {
			return nil, StorageError(err, "failed to open sqlite database")
		}
		// sqlite serializes writers; in-memory databases live per connection
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case DriverPostgres:
		sqldb, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, StorageError(err, "failed to open postgres database")
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, errors.New("unsupported database driver: "+driver, errors.CategoryBadInput)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, StorageError(err, "failed to reach database")
	}

	return db, nil
}

// Migrate applies the embedded migrations for driver
func Migrate(ctx context.Context, db *bun.DB, driver string) error {
	dir, dialect := "sqlite", "sqlite3"
	if driver == DriverPostgres {
		dir, dialect = "postgres", "postgres"
	}

	migrations, err := DialectMigrationsFS(dir)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to read embedded migrations")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to set migration dialect")
	}

	if err := gooseUpContext(ctx, db.DB, "."); err != nil {
		return StorageError(err, "failed to apply migrations")
	}
	return nil
}

// OpenAndMigrate opens the database and brings its schema up to date
func OpenAndMigrate(ctx context.Context, driver, dsn string) (*bun.DB, error) {
	db, err := OpenDB(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
