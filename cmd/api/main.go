package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campushub.org/internal/audit"
	"campushub.org/internal/auth"
	"campushub.org/internal/config"
	"campushub.org/internal/httpapi"
	"campushub.org/internal/obs"
	"campushub.org/internal/records"
	"campushub.org/internal/store/pg"
)

var version = "0.3.0"

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	obs.Init()
	obs.InitBuildInfo(version, os.Getenv("CAMPUSHUB_COMMIT"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.UsingDevSecret() {
		log.Println("WARNING: CAMPUSHUB_AUTH_SECRET is not set; using the insecure development secret")
	}

	tokens, err := auth.NewTokenService(cfg.AuthSecret, auth.WithTTL(cfg.TokenTTL))
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	// Stores: postgres when a DSN is configured, in-memory otherwise so the
	// service stays usable for local development.
	var (
		credStore   auth.CredentialStore
		recordStore records.Store
		auditStore  audit.Store
		readyProbe  httpapi.ReadyProbe
		pgStore     *pg.Store
	)
	if cfg.PostgresDSN != "" {
		pgStore, err = pg.Open(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		credStore = pgStore
		recordStore = pgStore
		auditStore = pgStore
		readyProbe = httpapi.ReadyProbe{DB: pgStore.DB()}
	} else {
		log.Println("WARNING: CAMPUSHUB_PG_DSN is not set; using volatile in-memory stores")
		credStore = auth.NewMemoryCredentialStore()
		recordStore = records.NewMemoryStore()
		auditStore = audit.NewMemoryStore()
	}

	authSvc, err := auth.NewService(credStore, tokens)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}

	api := httpapi.New(httpapi.Options{
		Auth:          authSvc,
		Records:       recordStore,
		Audit:         audit.NewRecorder(auditStore),
		ReadyProbe:    readyProbe,
		Version:       version,
		RateBurst:     cfg.RateBurst,
		RatePerSecond: cfg.RatePerSecond,
		MaxBodyBytes:  cfg.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting campushub-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if pgStore != nil {
		_ = pgStore.Close()
	}
	log.Println("Stopped")
}
