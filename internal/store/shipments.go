package store

import (
	"context"

	"ongkir-service/internal/models"
)

// ListShipments retrieves all shipment records
func (s *Store) ListShipments(ctx context.Context) ([]models.Shipment, error) {
	shipments := []models.Shipment{}
	err := s.db.SelectContext(ctx, &shipments,
		"SELECT id, origin, destination, weight, courier, cost FROM pengiriman ORDER BY id")
	if err != nil {
		return nil, &models.StorageError{Op: "list shipments", Err: err}
	}
	return shipments, nil
}

// CreateShipment inserts a shipment inside the transaction and sets its ID
func (t *Tx) CreateShipment(ctx context.Context, shipment *models.Shipment) error {
	id, err := t.store.insert(ctx, t.tx,
		"INSERT INTO pengiriman (origin, destination, weight, courier, cost) VALUES (?, ?, ?, ?, ?)",
		shipment.Origin, shipment.Destination, shipment.TotalWeight, shipment.Courier, shipment.Cost)
	if err != nil {
		return &models.StorageError{Op: "insert shipment", Err: err}
	}

	shipment.ID = id
	return nil
}
