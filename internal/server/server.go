package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sharpshop/internal/cache"
	"sharpshop/internal/config"
	"sharpshop/internal/database"
	custommiddleware "sharpshop/internal/middleware"
	"sharpshop/internal/rates"
	"sharpshop/internal/repository"
	"sharpshop/internal/service"
	"sharpshop/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	catalogCachePrefix = "sharpshop:catalog:"
	ratesCachePrefix   = "sharpshop:rates:"
	rateLimitPrefix    = "sharpshop:ratelimit"
)

type Server struct {
	*http.Server
	config   *config.Config
	logger   *zap.Logger
	db       *database.Service
	redis    *redis.Client
	delivery service.DeliveryService
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *database.Service, redisClient *redis.Client) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Initialize caches
	catalogCache := cache.New(redisClient, catalogCachePrefix, cfg.Catalog.CacheTTL)
	ratesCache := cache.New(redisClient, ratesCachePrefix, cfg.Rates.CacheTTL)

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.DB())
	deliveryRepo := repository.NewDeliveryRepository(db.DB())
	profileRepo := repository.NewProfileRepository(db.DB())
	wishlistRepo := repository.NewWishlistRepository(db.DB())

	// Initialize services
	ratesClient := rates.NewClient(cfg.Rates.BaseURL, cfg.Rates.Timeout, cfg.Rates.Retries, logger)

	catalogService := service.NewCatalogService(productRepo, catalogCache, logger)
	productService := service.NewProductService(productRepo, catalogCache, logger)
	deliveryService := service.NewDeliveryService(deliveryRepo, logger)
	ratesService := service.NewRatesService(ratesClient, ratesCache, logger)
	checkoutService := service.NewCheckoutService(productRepo, deliveryService, ratesService, logger)
	profileService := service.NewProfileService(profileRepo, logger)
	wishlistService := service.NewWishlistService(wishlistRepo)

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.Auth.JWTSecret, logger)
	adminMiddleware := custommiddleware.RequireAdmin(cfg.Auth.AdminRole, logger)
	rateLimitMiddleware := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            cfg.RateLimit.Window,
		KeyPrefix:         rateLimitPrefix,
	}, logger)

	// Health check endpoint
	router.Get("/health", healthHandler(db, redisClient, catalogCache, ratesCache))

	// Register routes
	transport.NewCatalogHandler(catalogService, logger).RegisterRoutes(router)
	transport.NewProductHandler(productService, logger).RegisterRoutes(router, authMiddleware, adminMiddleware)
	transport.NewDeliveryHandler(deliveryService, logger).RegisterRoutes(router, authMiddleware, adminMiddleware)
	transport.NewCheckoutHandler(checkoutService, logger).RegisterRoutes(router, rateLimitMiddleware)
	transport.NewRatesHandler(ratesService, logger).RegisterRoutes(router)
	transport.NewAccountHandler(profileService, wishlistService, logger).RegisterRoutes(router, authMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:   cfg,
		logger:   logger,
		db:       db,
		redis:    redisClient,
		delivery: deliveryService,
	}

	return server
}

// LoadDeliveryTable replaces the built-in shipping table with the stored one.
// On failure the server keeps serving the built-in table.
func (s *Server) LoadDeliveryTable(ctx context.Context) error {
	return s.delivery.Reload(ctx)
}

func healthHandler(db *database.Service, redisClient *redis.Client, catalogCache, ratesCache *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbHealth := db.Health(r.Context())

		redisStatus := "up"
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisStatus = "down"
		}

		status, code := "ok", http.StatusOK
		if dbHealth["status"] != "up" {
			status, code = "unavailable", http.StatusServiceUnavailable
		} else if redisStatus != "up" {
			status = "degraded"
		}

		custommiddleware.RespondWithJSON(w, code, map[string]any{
			"status":   status,
			"database": dbHealth,
			"redis":    redisStatus,
			"cache": map[string]cache.Stats{
				"catalog": catalogCache.Stats(),
				"rates":   ratesCache.Stats(),
			},
		})
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
