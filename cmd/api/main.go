// Entrypoint of the campus portal API server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"campus-connect-backend/internal/auth"
	"campus-connect-backend/internal/database"
	"campus-connect-backend/internal/realtime"
	"campus-connect-backend/internal/server"
	"campus-connect-backend/internal/storage"
)

// @title Campus Connect API
// @version 1.0
// @description Backend for the campus admission portal: applications, admissions catalog, fees and profiles.
// @BasePath /api/v1
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialized: %s", err)
	}

	store, err := storage.NewCloudStorageClient(os.Getenv("GCS_BUCKET_NAME"))
	if err != nil {
		log.Fatalf("Cloud storage failed to initialized: %s", err)
	}

	hub := realtime.NewHub(logger.Named("hub"))
	listener := realtime.NewListener(db.Config.DSN(), hub, logger.Named("listener"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Fatal("change feed listener stopped", zap.Error(err))
		}
	}()

	blacklist := auth.NewInMemoryBlacklistStore()
	httpServer := server.New(db, store, hub, blacklist).HTTPServer()

	go func() {
		<-ctx.Done()
		if err := httpServer.Shutdown(context.Background()); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	logger.Info("server starting", zap.String("addr", httpServer.Addr))
	if err := httpServer.ListenAndServe(); err != nil {
		log.Printf("server stopped: %s", err)
	}

	if err := db.Close(); err != nil {
		log.Printf("failed to close database: %s", err)
	}
}
