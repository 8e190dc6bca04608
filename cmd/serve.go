package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stylemanager-backend/config"
	"stylemanager-backend/routes"
	"stylemanager-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API and the daily closing scheduler.

Without DB_URL the server starts in setup mode and answers every request
with 503 until the configuration is provided.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if port != "" {
				cfg.Port = port
			}

			var r *gin.Engine
			if !cfg.DB.Configured() {
				log.Println("DB_URL not set, starting in setup mode")
				r = routes.SetupModeRouter(cfg)
			} else {
				if err := connect(cfg, true); err != nil {
					return err
				}

				closings := services.NewClosingService(config.DB, services.NewNotifier(cfg.Twilio), cfg.Closing.OwnerPhone, cfg.Location)
				if cfg.Closing.Cron != "" {
					scheduler, err := closings.StartScheduler(cfg.Closing.Cron)
					if err != nil {
						return err
					}
					defer scheduler.Stop()
				}

				r = routes.SetupRouter(cfg, closings)
				printRoutes(r)
			}

			return run(r, cfg.Port)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (overrides PORT)")
	return cmd
}

func run(handler http.Handler, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
