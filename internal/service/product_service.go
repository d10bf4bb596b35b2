package service

import (
	"context"
	"fmt"
	"strings"

	"ongkir-service/internal/models"
	"ongkir-service/internal/store"
	"ongkir-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles catalog maintenance
type ProductService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(store *store.Store) *ProductService {
	return &ProductService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ProductRequest is the body of a create or update. Pointers distinguish an
// absent field from a zero value, so a stock of 0 is accepted.
type ProductRequest struct {
	Name   *string          `json:"nama_produk" binding:"required"`
	Price  *decimal.Decimal `json:"harga" binding:"required"`
	Weight *decimal.Decimal `json:"berat" binding:"required"`
	Stock  *int             `json:"stok" binding:"required"`
}

// Validate checks that all four fields are present
func (r *ProductRequest) Validate() error {
	var missing []string
	if r.Name == nil || strings.TrimSpace(*r.Name) == "" {
		missing = append(missing, "nama_produk")
	}
	if r.Price == nil {
		missing = append(missing, "harga")
	}
	if r.Weight == nil {
		missing = append(missing, "berat")
	}
	if r.Stock == nil {
		missing = append(missing, "stok")
	}
	if len(missing) > 0 {
		return &models.ValidationError{Fields: missing}
	}
	return nil
}

func (r *ProductRequest) product() *models.Product {
	return &models.Product{
		Name:   *r.Name,
		Price:  *r.Price,
		Weight: *r.Weight,
		Stock:  *r.Stock,
	}
}

// ListProducts retrieves every product
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.ListProducts")
	defer span.End()

	return s.store.ListProducts(ctx)
}

// CreateProduct validates and inserts a product, returning its id
func (s *ProductService) CreateProduct(ctx context.Context, req *ProductRequest) (int64, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.CreateProduct")
	defer span.End()

	if err := req.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.CreateProduct(ctx, req.product())
	if err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created", zap.Int64("product_id", id), zap.String("name", *req.Name))
	return id, nil
}

// UpdateProduct overwrites a product. An unknown id succeeds without effect.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req *ProductRequest) error {
	ctx, span := util.StartSpan(ctx, "ProductService.UpdateProduct")
	defer span.End()

	if err := req.Validate(); err != nil {
		return err
	}

	n, err := s.store.UpdateProduct(ctx, id, req.product())
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", id, err)
	}

	if n == 0 {
		s.logger.Debug("Update matched no product", zap.Int64("product_id", id))
	}
	return nil
}
