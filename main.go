package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/egrul-parser/app/controllers"
	"github.com/egrul-parser/internal/bootstrap"
	"github.com/egrul-parser/routes"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	if err := bootstrap.LoadConfig(); err != nil {
		log.Fatal("Cannot load configuration: ", err)
	}

	// 2. Logger
	logger, err := bootstrap.NewLogger(viper.GetString("app.env"))
	if err != nil {
		log.Fatal("Cannot initialize logger: ", err)
	}
	defer logger.Sync()

	logger.Info("Starting EGRUL Registry Loader")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. MongoDB, search index and job store
	rt, err := bootstrap.NewRuntime(ctx, logger)
	if err != nil {
		logger.Fatal("Failed to initialize runtime", zap.Error(err))
	}
	defer rt.Close(context.Background())

	// 4. Controllers
	checks := map[string]controllers.ReadinessCheck{
		"mongodb": rt.PingMongo,
	}
	if rt.Indexer != nil {
		checks["meilisearch"] = rt.Indexer.Ping
	}
	ingestController := controllers.NewIngestController(rt.Ingest, logger)
	adminController := controllers.NewAdminController(rt.Admin, checks, logger)

	// 5. Router
	if viper.GetString("app.env") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, ingestController, adminController, logger)

	// 6. Serve until interrupted
	port := viper.GetString("app.port")
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}
