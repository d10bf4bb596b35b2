package store_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"ongkir-service/internal/models"
	"ongkir-service/internal/store"
	"ongkir-service/internal/store/storetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(name string, price, weight string, stock int) *models.Product {
	return &models.Product{
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Weight: decimal.RequireFromString(weight),
		Stock:  stock,
	}
}

func TestProductCRUD(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	firstID, err := s.CreateProduct(ctx, newProduct("Kopi Gayo", "85000", "0.25", 40))
	require.NoError(t, err)
	secondID, err := s.CreateProduct(ctx, newProduct("Teh Tarik", "12500.50", "1.5", 3))
	require.NoError(t, err)
	assert.NotZero(t, firstID)
	assert.Greater(t, secondID, firstID)

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Kopi Gayo", products[0].Name)
	assert.Equal(t, "Teh Tarik", products[1].Name)
	assert.True(t, products[1].Price.Equal(decimal.RequireFromString("12500.50")))

	n, err := s.UpdateProduct(ctx, secondID, newProduct("Teh Tarik Jumbo", "15000", "2", 7))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	weight, err := s.GetProductWeight(ctx, secondID)
	require.NoError(t, err)
	assert.True(t, weight.Equal(decimal.NewFromInt(2)), "got %s", weight)
}

func TestListProductsEmpty(t *testing.T) {
	s := storetest.New(t)

	products, err := s.ListProducts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestUpdateMissingProductIsNoop(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	id, err := s.CreateProduct(ctx, newProduct("Kopi", "1000", "1", 1))
	require.NoError(t, err)

	n, err := s.UpdateProduct(ctx, 9999, newProduct("Ghost", "1", "1", 1))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, id, products[0].ID)
	assert.Equal(t, "Kopi", products[0].Name)
}

func TestGetProductWeightNotFound(t *testing.T) {
	s := storetest.New(t)

	_, err := s.GetProductWeight(context.Background(), 42)

	var notFound *models.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "product", notFound.Entity)
	assert.Equal(t, "42", notFound.Key)
}

func TestWithTxCommitsShipmentAndOrder(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	shipment := &models.Shipment{
		Origin: "23", Destination: "152", TotalWeight: decimal.RequireFromString("7.5"),
		Courier: "jne", Cost: decimal.NewFromInt(15000),
	}
	order := &models.Order{
		BuyerName: "Sari", ProductID: 1, Quantity: 3, Origin: "23", Destination: "152",
		TotalWeight: decimal.RequireFromString("7.5"), Courier: "jne",
		ShippingCost: decimal.NewFromInt(15000), CreatedAt: createdAt,
	}

	err := s.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.CreateShipment(ctx, shipment); err != nil {
			return err
		}
		return tx.CreateOrder(ctx, order)
	})
	require.NoError(t, err)
	assert.NotZero(t, shipment.ID)
	assert.NotZero(t, order.ID)

	shipments, err := s.ListShipments(ctx)
	require.NoError(t, err)
	require.Len(t, shipments, 1)
	assert.True(t, shipments[0].TotalWeight.Equal(decimal.RequireFromString("7.5")))
	assert.True(t, shipments[0].Cost.Equal(decimal.NewFromInt(15000)))

	orders, err := s.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Sari", orders[0].BuyerName)
	assert.Equal(t, 3, orders[0].Quantity)
	assert.True(t, orders[0].ShippingCost.Equal(shipments[0].Cost))
	assert.True(t, orders[0].CreatedAt.Equal(createdAt))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx *store.Tx) error {
		require.NoError(t, tx.CreateShipment(ctx, &models.Shipment{
			Origin: "1", Destination: "2", TotalWeight: decimal.NewFromInt(1),
			Courier: "pos", Cost: decimal.NewFromInt(9000),
		}))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, storetest.Count(t, s, "pengiriman"))
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = s.WithTx(ctx, func(tx *store.Tx) error {
			_ = tx.CreateShipment(ctx, &models.Shipment{
				Origin: "1", Destination: "2", TotalWeight: decimal.NewFromInt(1),
				Courier: "pos", Cost: decimal.NewFromInt(9000),
			})
			panic("unexpected")
		})
	})
	assert.Equal(t, 0, storetest.Count(t, s, "pengiriman"))
}

func TestPostgresRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("Integration test - requires TEST_DATABASE_URL")
	}

	s, err := store.NewStore("postgres", url)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	id, err := s.CreateProduct(ctx, newProduct("Integration", "1000", "2.5", 10))
	require.NoError(t, err)

	weight, err := s.GetProductWeight(ctx, id)
	require.NoError(t, err)
	assert.True(t, weight.Equal(decimal.RequireFromString("2.5")))
}
