package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/stwalsh4118/atlas/ingest/internal/handlers"
	"github.com/stwalsh4118/atlas/ingest/internal/middleware"
	"github.com/stwalsh4118/atlas/ingest/internal/repository"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve health, stats, and import-trigger endpoints over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			a.log.Info("Starting ingest API", map[string]interface{}{
				"environment": a.cfg.Server.Env,
				"port":        a.cfg.Server.Port,
			})

			if a.cfg.Server.Env == "production" {
				gin.SetMode(gin.ReleaseMode)
			}
			router := gin.New()

			// Middleware order: RequestID -> Logger -> Recovery -> CORS
			router.Use(middleware.RequestID())
			router.Use(middleware.Logger(a.log))
			router.Use(middleware.Recovery(a.log))
			router.Use(middleware.CORS(a.cfg.CORS.Origins))

			healthHandler := handlers.NewHealthHandler(a.db, a.cfg.Server.Env)
			router.GET("/health", healthHandler.Health)
			router.GET("/health/ready", healthHandler.Ready)
			router.GET("/api/v1/info", healthHandler.Info)

			store := repository.NewParcelStore(a.db, a.cfg.Ingest.Table)
			statsHandler := handlers.NewStatsHandler(store)
			importHandler := handlers.NewImportHandler(buildImporter(a))

			v1 := router.Group("/api/v1")
			{
				v1.GET("/stats", statsHandler.Stats)
				v1.POST("/import", importHandler.Import)
			}

			srv := &http.Server{
				Addr:    fmt.Sprintf(":%s", a.cfg.Server.Port),
				Handler: router,
			}

			go func() {
				a.log.Info("Server listening", map[string]interface{}{
					"addr": srv.Addr,
				})
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					a.log.Fatal("Server failed to start", err, nil)
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			a.log.Info("Shutting down server...", nil)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.log.Error("Server forced to shutdown", err, map[string]interface{}{
					"timeout": shutdownTimeout.String(),
				})
			}

			a.log.Info("Server exited", nil)
			return nil
		},
	}
}
