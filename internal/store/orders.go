package store

import (
	"context"

	"ongkir-service/internal/models"
)

// ListOrders retrieves all orders
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders, `
		SELECT id, nama_pembeli, id_produk, jumlah, origin, destination,
		       weight, courier, shipping_cost, created_at
		FROM pesanan
		ORDER BY id`)
	if err != nil {
		return nil, &models.StorageError{Op: "list orders", Err: err}
	}
	return orders, nil
}

// CreateOrder inserts an order inside the transaction and sets its ID
func (t *Tx) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO pesanan (nama_pembeli, id_produk, jumlah, origin, destination,
		                     weight, courier, shipping_cost, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := t.store.insert(ctx, t.tx, query,
		order.BuyerName, order.ProductID, order.Quantity, order.Origin, order.Destination,
		order.TotalWeight, order.Courier, order.ShippingCost, order.CreatedAt)
	if err != nil {
		return &models.StorageError{Op: "insert order", Err: err}
	}

	order.ID = id
	return nil
}
