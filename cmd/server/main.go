package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/fund-ledger/internal/api"
	"github.com/ndewijer/fund-ledger/internal/api/middleware"
	"github.com/ndewijer/fund-ledger/internal/config"
	"github.com/ndewijer/fund-ledger/internal/database"
	"github.com/ndewijer/fund-ledger/internal/events"
	"github.com/ndewijer/fund-ledger/internal/events/kafka"
	"github.com/ndewijer/fund-ledger/internal/ledger"
	"github.com/ndewijer/fund-ledger/internal/repository"
	"github.com/ndewijer/fund-ledger/internal/scheduler"
	"github.com/ndewijer/fund-ledger/internal/service"
	"github.com/ndewijer/fund-ledger/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Entry events
	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Events.Brokers) > 0 {
		publisher = kafka.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic)
		log.Printf("Publishing entry events to %s on %v", cfg.Events.Topic, cfg.Events.Brokers)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Printf("Failed to close event publisher: %v", err)
		}
	}()

	// Create repositories
	fundRepo := repository.NewFundRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	fundService := service.NewFundService(
		fundRepo,
		cfg.Ledger.DefaultFundName,
	)
	entryService := service.NewEntryService(
		db,
		entryRepo,
		fundRepo,
		publisher,
	)
	ledgerService := service.NewLedgerService(
		fundRepo,
		entryRepo,
		ledger.Options{Precision: cfg.Ledger.Precision},
	)
	snapshotService := service.NewSnapshotService(
		fundRepo,
		snapshotRepo,
		ledgerService,
	)

	fund, err := fundService.EnsureDefaultFund(context.Background())
	if err != nil {
		log.Fatalf("Failed to prepare default fund: %v", err)
	}
	log.Printf("Current fund: %s (%s)", fund.Name, fund.ID)

	// Snapshot job
	var snapshots *scheduler.Scheduler
	if cfg.Snapshot.Schedule != "" {
		snapshots, err = scheduler.New(cfg.Snapshot.Schedule, snapshotService)
		if err != nil {
			log.Fatalf("Failed to create snapshot scheduler: %v", err)
		}
		snapshots.Start()
	}

	sessions, err := middleware.NewSessionCodec(cfg.Session.Key, cfg.Session.TTL)
	if err != nil {
		log.Fatalf("Failed to create session codec: %v", err)
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:   systemService,
		Fund:     fundService,
		Entry:    entryService,
		Ledger:   ledgerService,
		Snapshot: snapshotService,
	}, sessions, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting fund ledger %s on %s", version.Version, cfg.Server.Addr)
		if cfg.Server.Host == "0.0.0.0" {
			if ip := lanIP(); ip != "" {
				log.Printf("Reachable on the local network at http://%s:%s", ip, cfg.Server.Port)
			}
		}
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if snapshots != nil {
		if err := snapshots.Stop(ctx); err != nil {
			log.Printf("Snapshot job did not stop cleanly: %v", err)
		}
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		return
	}

	log.Println("Server exited")
}

// lanIP returns the first private IPv4 address of the host, or "" if there is none.
func lanIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip := ipNet.IP.To4(); ip != nil && ip.IsPrivate() {
			return ip.String()
		}
	}
	return ""
}
