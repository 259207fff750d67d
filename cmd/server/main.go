package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/conselheirocristao/newsletter/internal/api"
	"github.com/conselheirocristao/newsletter/internal/config"
	"github.com/conselheirocristao/newsletter/internal/repository/dynamo"
	"github.com/conselheirocristao/newsletter/internal/ses"
	"github.com/conselheirocristao/newsletter/internal/service/campaign"
	"github.com/conselheirocristao/newsletter/internal/service/contacts"
	"github.com/conselheirocristao/newsletter/internal/service/reconcile"
)

// checkPortAvailable verifies that the target port is not already in use.
// This prevents confusion from stale processes occupying the port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Pre-flight check: verify the target port is available
	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}
	log.Printf("Pre-flight check passed: port %d is available", port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the contact store
	repo, err := dynamo.NewContactRepository(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize contact store: %v", err)
	}
	log.Printf("Contact store initialized (table: %s, region: %s)", cfg.Storage.ContactsTable, cfg.Storage.AWSRegion)

	// Initialize the SES sender
	sender, err := ses.NewSender(ctx, cfg.SES)
	if err != nil {
		log.Fatalf("Failed to initialize SES sender: %v", err)
	}
	log.Printf("SES sender initialized (region: %s)", cfg.SES.Region)

	// Wire up services
	contactService := contacts.NewService(repo)
	campaignService := campaign.NewService(contactService, sender, campaign.Config{
		FromAddress:        cfg.Campaign.FromAddress,
		UnsubscribeBaseURL: cfg.Campaign.UnsubscribeBaseURL,
		ContinueOnError:    cfg.Campaign.ContinueOnError,
	})
	reconcileService := reconcile.NewService(repo)

	handlers := api.NewHandlers(contactService, campaignService, reconcileService)
	server := api.NewServer(cfg.Server, handlers, cfg.CORS.AllowedOrigins)

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", host, port)
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Println("All services initialized — server is ready")

	<-done
	log.Println("Shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
