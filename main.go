package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiani-exchange/otp-probe/config"
	"github.com/kiani-exchange/otp-probe/ghasedak"
	"github.com/kiani-exchange/otp-probe/otp"
	"github.com/kiani-exchange/otp-probe/proxy"
	"github.com/kiani-exchange/otp-probe/redis"
	"github.com/kiani-exchange/otp-probe/server"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.FromEnv()
	config.SetupLogging(cfg.LogLevel)

	if err := cfg.Validate(); err != nil && !cfg.MockMode {
		log.Fatal().Err(err).Msg("Gateway configuration incomplete")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proxyURL, err := proxy.URL(cfg.UseProxy, cfg.ProxyFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid proxy configuration")
	}

	gatewayClient := ghasedak.NewClient(ghasedak.Config{
		APIKey:         cfg.APIKey,
		TemplateName:   cfg.TemplateName,
		Endpoint:       cfg.Endpoint,
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
	}, proxyURL)
	if bound := gatewayClient.Proxy(); bound != nil {
		log.Info().Str("proxy", proxy.Redact(bound.String())).Msg("Using proxy for gateway requests")
	}

	otpService := otp.NewService(&gatewayClient, newStore(ctx, cfg), otp.Options{
		TTL:      cfg.OTPTTL,
		MockMode: cfg.MockMode,
	})

	log.Info().
		Bool("mock_mode", cfg.MockMode).
		Bool("use_proxy", cfg.UseProxy).
		Str("template", cfg.TemplateName).
		Msg("OTP service initialized")

	srv := server.New(otpService)

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	if err := srv.Start(cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

func newStore(ctx context.Context, cfg config.Config) otp.Store {
	if cfg.RedisAddr == "" {
		store := otp.NewMemoryStore()
		go store.RunCleanup(ctx, time.Minute)
		log.Info().Msg("Using in-memory OTP store")
		return store
	}

	client, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize OTP store")
	}
	return client
}
