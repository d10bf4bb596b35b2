package store

import (
	"context"
	"fmt"
	"time"

	"ongkir-service/internal/models"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sqlx.DB
}

// NewStore connects to the database and configures the connection pool.
// driver is one of postgres, mysql or sqlite. MySQL DSNs need parseTime=true.
func NewStore(driver, databaseURL string) (*Store, error) {
	db, err := sqlx.Connect(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// New wraps an already opened connection
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx is an open transaction. Inserts for orders and shipments only exist here.
type Tx struct {
	tx    *sqlx.Tx
	store *Store
}

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise (including on panic).
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &models.StorageError{Op: "begin transaction", Err: err}
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&Tx{tx: tx, store: s}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return &models.StorageError{Op: "commit", Err: err}
	}
	return nil
}

// insert executes an INSERT written with ? placeholders and returns the
// generated id. lib/pq has no LastInsertId, so postgres goes through RETURNING.
func (s *Store) insert(ctx context.Context, q sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	if sqlx.BindType(s.db.DriverName()) == sqlx.DOLLAR {
		var id int64
		err := sqlx.GetContext(ctx, q, &id, s.db.Rebind(query+" RETURNING id"), args...)
		return id, err
	}

	res, err := q.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
