package main

//
//  @title           gastos API
//  @version         1.0
//  @description     Monthly expense analysis over a Google Sheets expense table.
//  @termsOfService  https://github.com/guttosm/gastos
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/gastos
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        expenses
//  @tag.description Monthly listings and grouped totals
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/guttosm/gastos/config"
	_ "github.com/guttosm/gastos/docs" // swagger docs
	"github.com/guttosm/gastos/internal/app"
	"github.com/guttosm/gastos/internal/logger"
	"github.com/guttosm/gastos/internal/report"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// newRootCmd builds the gastos command tree.
//
// Commands:
//   - api:    Starts the REST API over the configured data source.
//   - ingest: Snapshots every configured sheet range into PostgreSQL.
//   - report: Prints a markdown report of one month to stdout.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gastos",
		Short:         "Monthly expense analysis over a spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAPICmd(), newIngestCmd(), newReportCmd())
	return root
}

func newAPICmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				config.Override("SERVER_PORT", port)
			}
			config.LoadConfig()
			logger.Init()

			logger.L().Info().Str("source", config.AppConfig.Source.Kind).Msg("starting API server")
			router, cleanup, err := app.InitializeApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("app init: %w", err)
			}

			server := startServer(router, config.AppConfig.Server.Port)
			gracefulShutdown(context.Background(), server, cleanup)
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Port for the API server (default SERVER_PORT)")
	return cmd
}

func newIngestCmd() *cobra.Command {
	var (
		parallel int
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Snapshot the configured sheet ranges into PostgreSQL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			config.Override("DATA_SOURCE", config.SourceSheets)
			config.LoadConfig()
			logger.Init()

			if missing := config.Missing(config.AppConfig, config.SourceSnapshot); len(missing) > 0 {
				return fmt.Errorf("missing required environment variables: %v", missing)
			}

			logger.L().Info().Strs("ranges", config.AppConfig.Sheets.Ranges).Msg("running ingestion")
			if err := app.RunIngestion(cmd.Context(), config.AppConfig, parallel, force); err != nil {
				return fmt.Errorf("ingestion failed: %w", err)
			}
			logger.L().Info().Msg("ingestion completed successfully")
			return nil
		},
	}
	cmd.Flags().IntVar(&parallel, "parallel", 0, "How many ranges to fetch concurrently (0=auto up to CPU, max 7)")
	cmd.Flags().BoolVar(&force, "force", false, "Replace today's snapshot if it already exists")
	return cmd
}

func newReportCmd() *cobra.Command {
	var month, column, category, file string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a markdown report of one month",
		Example: `  gastos report --month 09
  gastos report --month 09 --column Fonte
  gastos report --month 09 --category Lazer --file export.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file != "" {
				config.Override("DATA_SOURCE", config.SourceFile)
				config.Override("DATA_FILE", file)
			}
			config.LoadConfig()
			// stdout carries the report
			logger.InitTo(os.Stderr)

			comps, err := app.BuildComponents(cmd.Context(), config.AppConfig)
			if err != nil {
				return err
			}
			defer comps.Close()

			return runReport(cmd.Context(), comps, report.NewRenderer(cmd.OutOrStdout()), month, column, category)
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "Two-digit month (01-12)")
	cmd.Flags().StringVar(&column, "column", "", "Group totals by this column (default: category column)")
	cmd.Flags().StringVar(&category, "category", "", "Break one category down by item")
	cmd.Flags().StringVar(&file, "file", "", "Read a JSON or CSV export instead of the configured source")
	_ = cmd.MarkFlagRequired("month")
	cmd.MarkFlagsMutuallyExclusive("column", "category")
	return cmd
}

// runReport computes the requested aggregate and renders it.
func runReport(ctx context.Context, comps *app.Components, r *report.Renderer, month, column, category string) error {
	schema := comps.Service.Schema()
	rep := report.Report{Month: month, Year: schema.ReferenceYear, Category: category}

	var err error
	if category != "" {
		rep.Column = schema.ItemColumn
		rep.Aggregate, err = comps.Service.ItemsForCategory(ctx, month, category)
	} else {
		if column == "" {
			column = schema.CategoryColumn
		}
		rep.Column = column
		rep.Aggregate, err = comps.Service.TotalsByColumn(ctx, month, column)
	}
	if err != nil {
		return err
	}
	return r.Render(rep)
}

// main is the entry point of the gastos application.
func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logger.L().Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
