package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/splitdeck/splitdeck/internal/adapters/otel"
	"github.com/splitdeck/splitdeck/internal/adapters/turso"
	"github.com/splitdeck/splitdeck/internal/infrastructure/config"
	"github.com/splitdeck/splitdeck/internal/lifecycle"
	"github.com/splitdeck/splitdeck/internal/migrate"
	"github.com/splitdeck/splitdeck/internal/ports"
	"github.com/splitdeck/splitdeck/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	Long: `Start the dashboard API server.

Examples:
  splitdeck serve              # Start on default port 8080
  splitdeck serve --port 3000  # Start on port 3000`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := turso.NewDB(cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := migrate.RunAll(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	var metrics ports.MetricsExporter
	otelCfg := otel.LoadConfig()
	if otelCfg.Enabled {
		exporter, err := otel.NewExporter(ctx, otelCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize metrics exporter: %w", err)
		}
		defer func() { _ = exporter.Close(context.Background()) }()
		metrics = exporter
	} else {
		metrics = otel.NewNoOpExporter()
	}

	repos := turso.NewRepositories(db)
	service := lifecycle.NewService(repos.Experiments, repos.AuditLogs, repos.Users, metrics)

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	server := web.NewServer(service, servePort, cfg.JWTSecret, cfg.IntegrationAPIKey)
	return server.Start(ctx)
}
