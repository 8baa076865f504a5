package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/amandalabs/amanda-chat/backend/internal/config"
	"github.com/amandalabs/amanda-chat/backend/internal/handler"
	"github.com/amandalabs/amanda-chat/backend/internal/model/persona"
	"github.com/amandalabs/amanda-chat/backend/internal/payment"
	"github.com/amandalabs/amanda-chat/backend/internal/service/ai"
	checkoutService "github.com/amandalabs/amanda-chat/backend/internal/service/checkout"
	"github.com/amandalabs/amanda-chat/backend/internal/service/moderation"
	"github.com/amandalabs/amanda-chat/backend/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	codec, err := session.NewCodec(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		log.Fatalf("failed to initialize session codec: %v", err)
	}

	gateway := payment.NewStripeGateway(cfg.Payment)
	checkoutSvc := checkoutService.NewService(gateway, codec)

	amanda := persona.Amanda()

	// The relay is optional: without completion credentials the chat surface
	// still answers with the fallback reply.
	var aiSvc *ai.Service
	if cfg.AI.Enabled() {
		aiSvc, err = ai.NewService(ctx, amanda, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize AI service: %v", err)
			log.Println("continuing without AI functionality")
		} else {
			log.Println("AI service initialized successfully")
		}
	} else {
		log.Println("completion API credentials not configured, skipping AI initialization")
	}

	gate := moderation.NewService(cfg.Moderation)
	if gate.Enabled() {
		log.Printf("moderation gate enabled (fail-open=%t)", gate.FailOpen())
	} else {
		log.Println("moderation credentials not configured, content gate disabled")
	}

	router := handler.NewRouter(cfg.Server, codec, checkoutSvc, aiSvc, gate, amanda)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Amanda chat backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
