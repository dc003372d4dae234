package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pibridge/pibridge/internal/api"
	"github.com/pibridge/pibridge/internal/auth"
	"github.com/pibridge/pibridge/internal/bridge"
	"github.com/pibridge/pibridge/internal/config"
	"github.com/pibridge/pibridge/internal/history"
	"github.com/pibridge/pibridge/internal/metrics"
	"github.com/pibridge/pibridge/internal/progress"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := os.MkdirAll(cfg.DownloadDir, 0755); err != nil {
		log.Fatalf("failed to create download dir %s: %v", cfg.DownloadDir, err)
	}

	// Operation history (local observability only)
	hist, err := history.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to open history store: %v", err)
	}
	defer hist.Close()

	// Progress fan-out, optionally mirrored to NATS
	hub := progress.NewHub()
	var reporter progress.Reporter = hub
	if cfg.NATSURL != "" {
		pub, err := progress.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect progress mirror to NATS: %v", err)
		}
		defer pub.Close()
		reporter = progress.Tee(hub, pub)
		log.Printf("pibridge: mirroring progress events to %s", cfg.NATSURL)
	}

	creds := bridge.Credentials{
		Host:     cfg.SSHHost,
		User:     cfg.SSHUser,
		Password: cfg.SSHPassword,
	}
	svc := bridge.NewService(creds, cfg.DownloadDir, reporter, hist)

	var issuer *auth.JWTIssuer
	if cfg.JWTSecret != "" {
		issuer = auth.NewJWTIssuer(cfg.JWTSecret)
	} else {
		log.Println("pibridge: no PIBRIDGE_JWT_SECRET configured, progress socket is open")
	}

	if cfg.MetricsAddr != "" {
		metrics.StartMetricsServer(cfg.MetricsAddr)
		log.Printf("pibridge: metrics on %s", cfg.MetricsAddr)
	}

	srv := api.NewServer(svc, hub, issuer, hist, cfg.APIKey)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		log.Printf("pibridge: serving on %s (remote host %s)", addr, cfg.SSHHost)
		if err := srv.Start(addr); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("pibridge: shutting down")
	if err := srv.Close(); err != nil {
		log.Printf("pibridge: shutdown error: %v", err)
	}
}
