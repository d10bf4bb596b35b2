package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ongkir-service/internal/rajaongkir"
	"ongkir-service/internal/service"
	"ongkir-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// CityDirectory looks cities up at the rate provider
type CityDirectory interface {
	ListCities(ctx context.Context) ([]rajaongkir.City, error)
	ResolveCityID(ctx context.Context, name string) (string, error)
}

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler contains HTTP handlers
type Handler struct {
	productService *service.ProductService
	orderService   *service.OrderService
	cities         CityDirectory
	dependencies   []dependency
	limiter        RateLimiter
	limit          int
	window         time.Duration
	logger         *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	productService *service.ProductService,
	orderService *service.OrderService,
	cities CityDirectory,
	db Pinger,
) *Handler {
	return &Handler{
		productService: productService,
		orderService:   orderService,
		cities:         cities,
		dependencies:   []dependency{{name: "database", pinger: db}},
		logger:         util.GetLogger(),
	}
}

// WithRateLimiter enables per-client rate limiting on the provider-backed
// routes. A nil limiter leaves them unlimited.
func (h *Handler) WithRateLimiter(limiter RateLimiter, limit int, window time.Duration) *Handler {
	h.limiter = limiter
	h.limit = limit
	h.window = window
	return h
}

type dependency struct {
	name   string
	pinger Pinger
}

// WithDependency adds a backend that must answer for /ready to succeed
func (h *Handler) WithDependency(name string, p Pinger) *Handler {
	h.dependencies = append(h.dependencies, dependency{name: name, pinger: p})
	return h
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(requestLogger(h.logger))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/produk", h.listProducts)
	router.POST("/produk", h.createProduct)
	router.PUT("/produk/:id", h.updateProduct)

	router.GET("/pesanan", h.listOrders)
	router.GET("/pengiriman", h.listShipments)

	limited := router.Group("/")
	if h.limiter != nil {
		limited.Use(rateLimitMiddleware(h.limiter, h.limit, h.window, h.logger))
	}
	{
		limited.POST("/get-city-id", h.resolveCityID)
		limited.GET("/cities", h.listCities)
		limited.POST("/pesanan", h.placeOrder)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready only when every dependency answers
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	for _, dep := range h.dependencies {
		if err := dep.pinger.Ping(ctx); err != nil {
			h.logger.Warn("Readiness check failed", zap.String("dependency", dep.name), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "unavailable",
				"dependency": dep.name,
				"time":       time.Now().Unix(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, products)
}

func (h *Handler) createProduct(c *gin.Context) {
	var req service.ProductRequest
	if !h.bind(c, &req) {
		return
	}

	id, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "failed to create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "product created",
		"id":      id,
	})
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
		return
	}

	var req service.ProductRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.productService.UpdateProduct(c.Request.Context(), id, &req); err != nil {
		h.fail(c, err, "failed to update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product updated"})
}

type cityRequest struct {
	CityName string `json:"city_name" binding:"required"`
}

func (h *Handler) resolveCityID(c *gin.Context) {
	var req cityRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.CityName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "city_name is required"})
		return
	}

	cityID, err := h.cities.ResolveCityID(c.Request.Context(), strings.TrimSpace(req.CityName))
	if err != nil {
		h.fail(c, err, "failed to resolve city")
		return
	}

	c.JSON(http.StatusOK, gin.H{"city_id": cityID})
}

func (h *Handler) listCities(c *gin.Context) {
	cities, err := h.cities.ListCities(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to fetch cities")
		return
	}

	c.JSON(http.StatusOK, cities)
}

func (h *Handler) placeOrder(c *gin.Context) {
	var req service.PlaceOrderRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.orderService.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err, "failed to place order")
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to fetch orders")
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *Handler) listShipments(c *gin.Context) {
	shipments, err := h.orderService.ListShipments(c.Request.Context())
	if err != nil {
		h.fail(c, err, "failed to fetch shipments")
		return
	}

	c.JSON(http.StatusOK, shipments)
}
