package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/gastos/config"
	"github.com/guttosm/gastos/internal/analysis"
	"github.com/guttosm/gastos/internal/api"
	"github.com/guttosm/gastos/internal/ingestion"
	"github.com/guttosm/gastos/internal/logger"
	"github.com/guttosm/gastos/internal/service"
	"github.com/guttosm/gastos/internal/sheets"
	"github.com/guttosm/gastos/internal/storage"
)

// sheetReader is what the Google Sheets client offers to the rest of the app.
type sheetReader interface {
	service.TableSource
	ingestion.RangeFetcher
}

// sheetsOpener is an indirection for unit testing; defaults to sheets.New.
var sheetsOpener = func(ctx context.Context, opts sheets.Options) (sheetReader, error) {
	return sheets.New(ctx, opts)
}

// Components groups what the commands share: the expense service and the
// resources behind it.
type Components struct {
	Service service.ExpenseService
	// DB is set only for the snapshot source.
	DB *sql.DB
}

// Close releases the resources held by the components.
func (c *Components) Close() {
	if c.DB != nil {
		_ = c.DB.Close()
	}
}

// SchemaFrom converts configuration into an analysis schema.
func SchemaFrom(cfg config.Config) analysis.Schema {
	return analysis.Schema{
		DateColumn:     cfg.Schema.DateColumn,
		CategoryColumn: cfg.Schema.CategoryColumn,
		ItemColumn:     cfg.Schema.ItemColumn,
		AmountColumn:   cfg.Schema.AmountColumn,
		ReferenceYear:  cfg.Schema.ReferenceYear,
	}
}

func sheetsOptions(cfg config.Config) sheets.Options {
	return sheets.Options{
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		Range:           cfg.Sheets.PrimaryRange(),
		CredentialsJSON: cfg.Sheets.CredentialsJSON,
		CredentialsFile: cfg.Sheets.CredentialsFile,
		Endpoint:        cfg.Sheets.Endpoint,
	}
}

// BuildComponents wires the table source selected by cfg.Source.Kind into an
// ExpenseService. PostgreSQL is opened only for the snapshot source.
func BuildComponents(ctx context.Context, cfg config.Config) (*Components, error) {
	analyzer, err := analysis.NewAnalyzer(SchemaFrom(cfg))
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	comps := &Components{}
	var source service.TableSource

	switch cfg.Source.Kind {
	case config.SourceSheets:
		client, err := sheetsOpener(ctx, sheetsOptions(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
		}
		source = client
	case config.SourceFile:
		source = ingestion.FileSource{Path: cfg.Source.DataFile}
	case config.SourceSnapshot:
		db, err := postgresOpener(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		comps.DB = db
		source = storage.SnapshotSource{Repo: storage.NewSnapshotRepository(db), RangeName: cfg.Sheets.PrimaryRange()}
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Source.Kind)
	}

	logger.L().Info().Str("source", cfg.Source.Kind).Int("reference_year", cfg.Schema.ReferenceYear).Msg("expense source configured")
	comps.Service = service.NewExpenseService(source, analyzer)
	return comps, nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the expense service over the configured data source.
//   - Creates the HTTP handler layer and the Gin router.
//   - Registers health and readiness probes (readiness pings PostgreSQL
//     when the snapshot source is used).
//   - Provides a cleanup function to close resources (e.g., DB connection).
func InitializeApp(ctx context.Context) (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	comps, err := BuildComponents(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	handler := api.NewHandler(comps.Service)
	router := api.NewRouter(handler, api.RouterOptions{
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		RequestTimeout:     cfg.Server.RequestTimeout,
	})

	var ping func(context.Context) error
	if comps.DB != nil {
		ping = comps.DB.PingContext
	}
	api.NewHealthHandler(cfg.Source.Kind, ping).Register(router)

	return router, comps.Close, nil
}

// RunIngestion snapshots every configured range from Google Sheets into PostgreSQL.
func RunIngestion(ctx context.Context, cfg config.Config, parallel int, force bool) error {
	client, err := sheetsOpener(ctx, sheetsOptions(cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize sheets client: %w", err)
	}
	db, err := postgresOpener(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize postgres: %w", err)
	}
	defer func() { _ = db.Close() }()

	return ingestion.ProcessRanges(ctx, client, db, cfg.Sheets.Ranges, parallel, force)
}
