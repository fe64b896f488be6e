package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prepkart/internal/config"
	"prepkart/internal/coupon"
	"prepkart/internal/database"
	"prepkart/internal/events"
	"prepkart/internal/handler"
	"prepkart/internal/otp"
	"prepkart/internal/repository"
	"prepkart/internal/router"
	"prepkart/internal/service"
	"prepkart/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting prepkart API server")

	// Prices are sent as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize repositories
	bookRepo := repository.NewBookRepository(pool, logger)
	quizRepo := repository.NewQuizRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	couponRepo := repository.NewCouponRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	attemptRepo := repository.NewAttemptRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	addressRepo := repository.NewAddressRepository(pool, logger)
	subRepo := repository.NewSubscriptionRepository(pool, logger)

	// Initialize OTP store, Redis when configured
	var otpStore otp.Store
	if cfg.Redis.Enabled {
		client, err := otp.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer client.Close()
		otpStore = otp.NewRedisStore(client)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("using redis OTP store")
	} else {
		otpStore = otp.NewMemoryStore()
		logger.Info().Msg("using in-memory OTP store (redis disabled)")
	}
	otps := otp.NewManager(otpStore, otp.NewLogSender(logger), cfg.OTP.TTL, cfg.OTP.MaxAttempts, logger)

	linker, err := newEbookLinker(ctx, cfg.Assets, logger)
	if err != nil {
		return err
	}

	publisher, err := newPublisher(ctx, cfg.SQS, logger)
	if err != nil {
		return err
	}

	if err := seedCoupons(ctx, cfg, couponRepo, logger); err != nil {
		return err
	}

	// Initialize services
	couponService := service.NewCouponService(couponRepo, logger)
	catalogService := service.NewCatalogService(bookRepo, quizRepo, userRepo, linker, logger)
	cartService := service.NewCartService(cartRepo, bookRepo, quizRepo, couponRepo, couponService, logger)
	orderService := service.NewOrderService(orderRepo, bookRepo, quizRepo, userRepo, publisher, service.OrderOptions{
		Atomic:               cfg.Orders.Atomic,
		StrictProductType:    cfg.Orders.StrictProductType,
		HonorPaymentProvider: cfg.Orders.HonorPaymentProvider,
	}, logger)
	attemptService := service.NewAttemptService(attemptRepo, quizRepo, userRepo, service.AttemptOptions{
		RequireAccess: cfg.Quizzes.RequireAccess,
	}, logger)
	subscriptionService := service.NewSubscriptionService(subRepo, quizRepo, userRepo, logger)
	userService := service.NewUserService(userRepo, otps, logger)
	addressService := service.NewAddressService(addressRepo, logger)

	// Initialize HTTP handlers and router
	mux := router.New(router.Handlers{
		User:         handler.NewUserHandler(userService, cfg.Auth.SecureCookies, logger),
		Address:      handler.NewAddressHandler(addressService, logger),
		Catalog:      handler.NewCatalogHandler(catalogService, logger),
		Cart:         handler.NewCartHandler(cartService, logger),
		Order:        handler.NewOrderHandler(orderService, couponService, logger),
		Attempt:      handler.NewAttemptHandler(attemptService, logger),
		Subscription: handler.NewSubscriptionHandler(subscriptionService, logger),
		Coupon:       handler.NewCouponHandler(couponService, logger),
	}, userService, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Bool("atomic_orders", cfg.Orders.Atomic).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newEbookLinker presigns S3 links when the assets bucket is configured and
// serves the stored PDF URL otherwise.
func newEbookLinker(ctx context.Context, cfg config.AssetsConfig, logger zerolog.Logger) (storage.EbookLinker, error) {
	if !cfg.Enabled {
		logger.Info().Msg("serving stored ebook URLs (S3 assets disabled)")
		return storage.NewStaticLinker(), nil
	}

	linker, err := storage.NewS3Linker(ctx, cfg.Bucket, cfg.Region, cfg.PresignTTL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ebook linker: %w", err)
	}
	return linker, nil
}

func newPublisher(ctx context.Context, cfg config.SQSConfig, logger zerolog.Logger) (events.Publisher, error) {
	if !cfg.Enabled {
		logger.Info().Msg("order events disabled (SQS disabled)")
		return events.NopPublisher{}, nil
	}

	publisher, err := events.NewSQSPublisher(ctx, cfg.QueueURL, cfg.Region, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize order event publisher: %w", err)
	}
	return publisher, nil
}

// seedCoupons upserts the configured coupon files, reading from S3 first
// when it is enabled and from the local file system otherwise.
func seedCoupons(ctx context.Context, cfg *config.Config, store coupon.Store, logger zerolog.Logger) error {
	if len(cfg.Coupons.SeedFiles) == 0 {
		logger.Info().Msg("no coupon seed files configured")
		return nil
	}

	fileLoader := coupon.NewFileLoader(logger)
	var s3Loader coupon.Loader
	if cfg.S3.Enabled {
		l, err := coupon.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = l
		}
	}

	loader := coupon.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)
	n, err := coupon.NewSeeder(loader, store, logger).Seed(ctx, cfg.Coupons.SeedFiles)
	if err != nil {
		return fmt.Errorf("failed to seed coupons: %w", err)
	}

	logger.Info().Int("coupons", n).Msg("coupon seed files applied")
	return nil
}
