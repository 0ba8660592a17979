package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/diogomassis/ngenius-bridge/cmd/handlers"
	"github.com/diogomassis/ngenius-bridge/internal/env"
	"github.com/diogomassis/ngenius-bridge/internal/logging"
	"github.com/diogomassis/ngenius-bridge/internal/models"
	"github.com/diogomassis/ngenius-bridge/internal/server"
	"github.com/diogomassis/ngenius-bridge/internal/services/bridge"
	"github.com/diogomassis/ngenius-bridge/internal/services/cache"
	"github.com/diogomassis/ngenius-bridge/internal/services/dispatcher"
	"github.com/diogomassis/ngenius-bridge/internal/services/gateway"
	"github.com/diogomassis/ngenius-bridge/internal/services/orchestrator"
	"github.com/diogomassis/ngenius-bridge/internal/services/platform"
)

func main() {
	cfg, err := env.Load()
	if err != nil {
		bootLogger := logging.New("info", false)
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := logging.New(cfg.LogLevel, cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw := gateway.NewClient(gateway.Config{
		APIKey:        cfg.APIKey,
		Realm:         cfg.Realm,
		OutletID:      cfg.OutletID,
		IdentityURL:   cfg.IdentityURL,
		GatewayURL:    cfg.GatewayURL,
		PayPageAPIURL: cfg.PayPageAPIURL,
		Currency:      cfg.Currency,
		HierarchyRef:  cfg.HierarchyRef,
		MerchantName:  cfg.MerchantName,
		Variant:       gateway.Variant(cfg.GatewayVariant),
		Timeout:       cfg.HTTPTimeout,
	}, logging.Component(logger, "gateway"))

	sandbox := bridge.NewSandbox(bridge.SandboxConfig{
		Platform:   models.Platform(cfg.Platform),
		Status:     cfg.SandboxStatus,
		Delay:      500 * time.Millisecond,
		SamsungPay: cfg.SamsungPayServiceID != "",
		ApplePay:   cfg.ApplePayMerchantID != "",
		GooglePay:  true,
	}, logging.Component(logger, "sandbox"))
	native := bridge.New(sandbox, logging.Component(logger, "bridge"))
	gw.WithDeviceInfo(native)

	d := dispatcher.New(native, gw, dispatcher.Config{
		GatewayURL:    cfg.GatewayURL,
		NativeTimeout: cfg.NativeTimeout,
		Variant:       gateway.Variant(cfg.GatewayVariant),
	}, logging.Component(logger, "dispatcher"))

	p, err := platform.New(cfg.Platform, native, d, platform.Config{
		SamsungPayServiceID: cfg.SamsungPayServiceID,
	}, logging.Component(logger, "platform"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to select platform")
	}

	redis, err := cache.NewRedisClient(cache.Config{
		URL:         cfg.RedisURL,
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		PoolSize:    cfg.RedisPoolSize,
		DialTimeout: cfg.HTTPTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid saved card store configuration")
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("redis close failed")
		}
	}()
	if err := redis.Ping(ctx); err != nil {
		logger.Warn().Err(err).Msg("saved card store unreachable, continuing without it")
	}
	store := cache.NewSavedCardStore(redis.Client(), logging.Component(logger, "cache"))

	showAmount := cfg.SDKShowOrderAmount
	handlers.Controller = orchestrator.NewController(gw, p, store, native, orchestrator.Config{
		HTTPTimeout:     cfg.HTTPTimeout,
		SaveCardEnabled: true,
		SDK:             bridge.SDKConfig{Language: cfg.SDKLanguage, ShouldShowOrderAmount: &showAmount},
		SamsungPay: models.SamsungPayConfig{
			MerchantName: cfg.MerchantName,
			ServiceID:    cfg.SamsungPayServiceID,
		},
		ApplePay: models.ApplePayConfig{
			MerchantIdentifier: cfg.ApplePayMerchantID,
			MerchantName:       cfg.MerchantName,
			CountryCode:        cfg.CountryCode,
		},
		GooglePay: models.GooglePayConfig{
			CountryCode: cfg.CountryCode,
			Environment: cfg.GooglePayEnv,
		},
	}, logging.Component(logger, "orchestrator"))

	health := server.NewHealthServer(redis, 5*time.Second, logging.Component(logger, "health"))
	go health.Watch(ctx)
	go serveHealth(health, cfg.GrpcAddr, logger)

	app := handlers.NewApp()
	go func() {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		health.Stop()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Warn().Err(err).Msg("http shutdown failed")
		}
	}()

	logger.Info().Str("port", cfg.BackendPort).Str("platform", cfg.Platform).Msg("payment demo listening")
	if err := app.Listen(":" + cfg.BackendPort); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}
}

func serveHealth(health *server.HealthServer, addr string, logger zerolog.Logger) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error().Err(err).Str("addr", addr).Msg("grpc health listener failed")
		return
	}
	logger.Info().Str("addr", addr).Msg("grpc health listening")
	if err := health.Serve(lis); err != nil {
		logger.Error().Err(err).Msg("grpc health server stopped")
	}
}
