package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/lattice/internal/cli"
	httpAdapter "github.com/aretw0/lattice/pkg/adapters/http"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <definition>",
	Short: "Start the HTTP server",
	Long:  `Hosts one grid and exposes it as a JSON API over HTTP, with Prometheus metrics on /metrics.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")

		metrics := observability.NewMetrics()
		logger, grid, err := loadGrid(cmd, args[0], cli.GridOptions{Metrics: metrics})
		if err != nil {
			return err
		}
		defer grid.Destroy()
		cli.FocusFirstCell(grid)

		handler := httpAdapter.NewHandler(grid,
			httpAdapter.WithMetrics(metrics.Handler()),
			httpAdapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Lattice Server on %s\n", srv.Addr)
			fmt.Printf("Serving grid %s from: %s\n", grid.ID(), args[0])
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Lattice Server stopped gracefully")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
