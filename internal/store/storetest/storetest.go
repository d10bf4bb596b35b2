// Package storetest provides an in-memory SQLite store for tests.
package storetest

import (
	"testing"

	"ongkir-service/internal/store"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE produk (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  nama_produk TEXT    NOT NULL,
  harga       NUMERIC NOT NULL,
  berat       NUMERIC NOT NULL,
  stok        INTEGER NOT NULL
);

CREATE TABLE pengiriman (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  origin      TEXT    NOT NULL,
  destination TEXT    NOT NULL,
  weight      NUMERIC NOT NULL,
  courier     TEXT    NOT NULL,
  cost        NUMERIC NOT NULL
);

CREATE TABLE pesanan (
  id            INTEGER PRIMARY KEY AUTOINCREMENT,
  nama_pembeli  TEXT      NOT NULL,
  id_produk     INTEGER   NOT NULL,
  jumlah        INTEGER   NOT NULL,
  origin        TEXT      NOT NULL,
  destination   TEXT      NOT NULL,
  weight        NUMERIC   NOT NULL,
  courier       TEXT      NOT NULL,
  shipping_cost NUMERIC   NOT NULL,
  created_at    TIMESTAMP NOT NULL
);
`

// New opens a fresh in-memory database with the service schema.
// A single connection keeps every query on the same in-memory database.
func New(t *testing.T) *store.Store {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return store.New(db)
}

// Count returns the number of rows in table.
func Count(t *testing.T, s *store.Store, table string) int {
	t.Helper()

	var n int
	if err := s.GetDB().Get(&n, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatal(err)
	}
	return n
}
