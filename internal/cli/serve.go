package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"mongoschema/config"
	"mongoschema/internal/apis/routes"
	"mongoschema/internal/di"
	"mongoschema/pkg/mongodb"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Start the HTTP API exposing the manifest schemas, a sync endpoint, /health and /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(_ *mongodb.MongoDBClient) error {
			schemaHandler, err := di.GetSchemaHandler()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), &http.Server{
				Addr:    ":" + config.Env.Port,
				Handler: routes.NewRouter(schemaHandler, config.Env.CorsAllowedOrigin),
			})
		})
	},
}

func init() {
	serveCmd.Flags().String("port", "", WrapString("port to listen on (default 3000, env PORT)"))
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	errs := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		fmt.Println("✨ mongoschema is running in", config.Env.Environment, "mode on", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("mongoschema failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("🔻 mongoschema is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("mongoschema forced to shutdown: %w", err)
	}

	log.Println("👋 mongoschema has been shut down successfully")
	return nil
}
