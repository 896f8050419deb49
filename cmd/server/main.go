package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/program-catalog-api/internal/api"
	"github.com/program-catalog-api/internal/cache"
	"github.com/program-catalog-api/internal/config"
	"github.com/program-catalog-api/internal/database"
	"github.com/program-catalog-api/internal/models"
	"github.com/program-catalog-api/internal/provider"
	"github.com/program-catalog-api/internal/repository"
	"github.com/program-catalog-api/internal/service"
	"github.com/program-catalog-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "program-catalog",
	Short:         "Program catalog content acquisition and retrieval API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(cfg *config.Config, db *database.DB, log zerolog.Logger) error {
			return db.RunMigrations(cfg.MigrationsPath)
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(cfg *config.Config, db *database.DB, log zerolog.Logger) error {
			return db.MigrateDown(cfg.MigrationsPath)
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withDatabase loads configuration, opens the database and runs fn
func withDatabase(fn func(cfg *config.Config, db *database.DB, log zerolog.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.New(cfg.Log)

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	return fn(cfg, db, log)
}

func serve() error {
	return withDatabase(func(cfg *config.Config, db *database.DB, log zerolog.Logger) error {
		log.Info().Msg("Starting Program Catalog API server...")

		// Run migrations
		if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}

		// Initialize repositories
		repos := repository.New(db, cfg.Content.DefaultLanguage)

		// Register content providers
		registry := provider.NewRegistry()
		if err := registry.Register(models.ProviderYouTube, provider.NewYouTube(cfg.YouTube, log)); err != nil {
			return fmt.Errorf("failed to register provider: %w", err)
		}

		// Initialize services around one shared cache
		c := cache.New(cfg.Cache.MaxEntries, cfg.Cache.DefaultTTL)
		services := service.NewServices(repos, registry, c, cfg, log)

		// Initialize router
		router := api.NewRouter(services, cfg, log)

		// Create HTTP server
		srv := &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.ReadTimeout,
		}

		// Start server in goroutine
		serverErr := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()

		// Graceful shutdown
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-serverErr:
			return fmt.Errorf("server failed: %w", err)
		case <-quit:
		}
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited gracefully")
		return nil
	})
}
