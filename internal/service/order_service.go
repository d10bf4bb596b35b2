package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ongkir-service/internal/models"
	"ongkir-service/internal/rajaongkir"
	"ongkir-service/internal/store"
	"ongkir-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ShippingQuoter prices a shipment with the rate provider
type ShippingQuoter interface {
	QuoteCost(ctx context.Context, q rajaongkir.QuoteRequest) (*rajaongkir.Quote, error)
}

// OrderEventPublisher publishes order lifecycle events
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
}

// OrderService places orders: product lookup, shipping quote, then one
// transaction writing the shipment and the order.
//
// Identical concurrent submissions are not deduplicated; each one creates its
// own order and shipment.
type OrderService struct {
	store          *store.Store
	quoter         ShippingQuoter
	eventPublisher OrderEventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewOrderService creates a new order service. eventPublisher may be nil.
func NewOrderService(
	store *store.Store,
	quoter ShippingQuoter,
	eventPublisher OrderEventPublisher,
) *OrderService {
	return &OrderService{
		store:          store,
		quoter:         quoter,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
		now:            time.Now,
	}
}

// PlaceOrderRequest represents a request to place an order
type PlaceOrderRequest struct {
	BuyerName   string `json:"nama_pembeli" binding:"required"`
	ProductID   int64  `json:"id_produk" binding:"required"`
	Quantity    int    `json:"jumlah" binding:"required,gt=0"`
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	Courier     string `json:"courier" binding:"required"`
}

// Validate checks that every field is present and jumlah is positive
func (r *PlaceOrderRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.BuyerName) == "" {
		missing = append(missing, "nama_pembeli")
	}
	if r.ProductID == 0 {
		missing = append(missing, "id_produk")
	}
	if r.Quantity == 0 {
		missing = append(missing, "jumlah")
	}
	if strings.TrimSpace(r.Origin) == "" {
		missing = append(missing, "origin")
	}
	if strings.TrimSpace(r.Destination) == "" {
		missing = append(missing, "destination")
	}
	if strings.TrimSpace(r.Courier) == "" {
		missing = append(missing, "courier")
	}
	if len(missing) > 0 {
		return &models.ValidationError{Fields: missing}
	}

	if r.Quantity < 0 {
		return &models.ValidationError{Reason: "jumlah must be a positive integer"}
	}
	return nil
}

// PlaceOrderResponse represents the response after placing an order
type PlaceOrderResponse struct {
	Message      string          `json:"message"`
	OrderID      int64           `json:"pesanan_id"`
	ShipmentID   int64           `json:"pengiriman_id"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
}

// TotalWeight is the shipment weight for quantity units of a product
func TotalWeight(perUnit decimal.Decimal, quantity int) decimal.Decimal {
	return perUnit.Mul(decimal.NewFromInt(int64(quantity)))
}

// PlaceOrder runs the order workflow. On any error nothing is persisted.
func (s *OrderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if err := req.Validate(); err != nil {
		util.OrdersFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("order.product_id", req.ProductID),
		attribute.Int("order.quantity", req.Quantity),
		attribute.String("order.courier", req.Courier),
	)

	weightPerUnit, err := s.store.GetProductWeight(ctx, req.ProductID)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, fmt.Errorf("failed to look up product %d: %w", req.ProductID, err)
	}

	totalWeight := TotalWeight(weightPerUnit, req.Quantity)

	// The quote is fetched before the transaction opens so no locks are held
	// across the provider round-trip.
	quote, err := s.quote(ctx, req, totalWeight)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues(failureReason(err)).Inc()
		s.logger.Warn("Shipping quote failed",
			zap.Int64("product_id", req.ProductID),
			zap.String("courier", req.Courier),
			zap.Error(err))
		return nil, fmt.Errorf("failed to quote shipping cost: %w", err)
	}

	shipment := &models.Shipment{
		Origin:      req.Origin,
		Destination: req.Destination,
		TotalWeight: totalWeight,
		Courier:     req.Courier,
		Cost:        quote.Value,
	}
	order := &models.Order{
		BuyerName:    req.BuyerName,
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		Origin:       req.Origin,
		Destination:  req.Destination,
		TotalWeight:  totalWeight,
		Courier:      req.Courier,
		ShippingCost: quote.Value,
		CreatedAt:    s.now().UTC(),
	}

	err = s.store.WithTx(ctx, func(tx *store.Tx) error {
		if err := tx.CreateShipment(ctx, shipment); err != nil {
			return err
		}
		return tx.CreateOrder(ctx, order)
	})
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues(failureReason(err)).Inc()
		s.logger.Error("Failed to persist order", zap.Error(err))
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("shipment_id", shipment.ID),
		zap.String("total_weight", totalWeight.String()),
		zap.String("shipping_cost", quote.Value.String()))

	s.publishOrderPlaced(ctx, order, shipment)

	return &PlaceOrderResponse{
		Message:      "order placed",
		OrderID:      order.ID,
		ShipmentID:   shipment.ID,
		ShippingCost: quote.Value,
	}, nil
}

func (s *OrderService) quote(ctx context.Context, req *PlaceOrderRequest, totalWeight decimal.Decimal) (*rajaongkir.Quote, error) {
	start := time.Now()
	defer func() {
		util.ShippingQuoteLatency.Observe(time.Since(start).Seconds())
	}()

	return s.quoter.QuoteCost(ctx, rajaongkir.QuoteRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Weight:      totalWeight,
		Courier:     req.Courier,
	})
}

// publishOrderPlaced emits ORDER_PLACED. The order is already committed, so a
// failure here is logged and counted but never returned.
func (s *OrderService) publishOrderPlaced(ctx context.Context, order *models.Order, shipment *models.Shipment) {
	if s.eventPublisher == nil {
		return
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:      order.ID,
		ShipmentID:   shipment.ID,
		ProductID:    order.ProductID,
		Quantity:     order.Quantity,
		Origin:       order.Origin,
		Destination:  order.Destination,
		TotalWeight:  order.TotalWeight,
		Courier:      order.Courier,
		ShippingCost: order.ShippingCost,
	}

	if err := s.eventPublisher.PublishOrderPlaced(ctx, event); err != nil {
		util.EventPublishFailedTotal.WithLabelValues(event.EventType).Inc()
		s.logger.Error("Failed to publish OrderPlaced event",
			zap.Int64("order_id", order.ID),
			zap.Error(err))
	}
}

// ListOrders retrieves all orders
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.store.ListOrders(ctx)
}

// ListShipments retrieves all shipments
func (s *OrderService) ListShipments(ctx context.Context) ([]models.Shipment, error) {
	return s.store.ListShipments(ctx)
}

func failureReason(err error) string {
	var (
		validationErr *models.ValidationError
		notFoundErr   *models.NotFoundError
		upstreamErr   *models.UpstreamError
		networkErr    *models.NetworkError
		storageErr    *models.StorageError
	)

	switch {
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &notFoundErr):
		return "product_not_found"
	case errors.As(err, &upstreamErr):
		return "upstream"
	case errors.As(err, &networkErr):
		return "network"
	case errors.As(err, &storageErr):
		return "storage"
	default:
		return "unknown"
	}
}
