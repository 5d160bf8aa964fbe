package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/collabogames/collabo-auth/internal/dbx"
	"github.com/collabogames/collabo-auth/internal/server/migrations"
	"github.com/collabogames/collabo-auth/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories over a
// shared connection pool.
type PostgresRepositoryManager struct {
	db *sql.DB
}

// NewPostgresRepositoryManager wraps an open pool. The manager takes
// ownership of db and closes it in Close.
func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{db: db}
}

// OpenPostgres opens a pgx-backed pool for dsn and checks connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return NewPostgresRepositoryManager(db), nil
}

// Users returns a users.Repository bound to the pool.
func (m *PostgresRepositoryManager) Users() users.Repository {
	return users.NewPostgresRepository(m.db)
}

// WithinTx runs fn in a transaction, committing when it returns nil.
func (m *PostgresRepositoryManager) WithinTx(ctx context.Context, fn TxFunc) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, users.NewPostgresRepository(tx))
	})
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}
