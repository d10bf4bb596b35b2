package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"ongkir-service/internal/models"

	"github.com/shopspring/decimal"
)

// ListProducts retrieves all products in insertion order
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products,
		"SELECT id, nama_produk, harga, berat, stok FROM produk ORDER BY id")
	if err != nil {
		return nil, &models.StorageError{Op: "list products", Err: err}
	}
	return products, nil
}

// CreateProduct inserts a product and returns its generated id
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) (int64, error) {
	id, err := s.insert(ctx, s.db,
		"INSERT INTO produk (nama_produk, harga, berat, stok) VALUES (?, ?, ?, ?)",
		p.Name, p.Price, p.Weight, p.Stock)
	if err != nil {
		return 0, &models.StorageError{Op: "insert product", Err: err}
	}
	p.ID = id
	return id, nil
}

// UpdateProduct overwrites every field of a product. Updating an id that does
// not exist is not an error; the returned row count is zero.
func (s *Store) UpdateProduct(ctx context.Context, id int64, p *models.Product) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE produk SET nama_produk = ?, harga = ?, berat = ?, stok = ? WHERE id = ?"),
		p.Name, p.Price, p.Weight, p.Stock, id)
	if err != nil {
		return 0, &models.StorageError{Op: "update product", Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, &models.StorageError{Op: "update product", Err: err}
	}
	return n, nil
}

// GetProductWeight returns the per-unit weight of a product
func (s *Store) GetProductWeight(ctx context.Context, id int64) (decimal.Decimal, error) {
	var weight decimal.Decimal
	err := s.db.GetContext(ctx, &weight, s.db.Rebind("SELECT berat FROM produk WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, &models.NotFoundError{Entity: "product", Key: strconv.FormatInt(id, 10)}
	}
	if err != nil {
		return decimal.Zero, &models.StorageError{Op: "get product weight", Err: err}
	}
	return weight, nil
}
