// Package sheets reads expense ranges from the Google Sheets v4 API.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/guttosm/gastos/internal/domain/models"
	"github.com/guttosm/gastos/internal/logger"
)

// Options configures a Client.
//
// Credentials are resolved in order: CredentialsJSON, CredentialsFile, then
// Application Default Credentials. When Endpoint is set and no credentials
// are given, requests are sent unauthenticated (fake servers in tests).
type Options struct {
	SpreadsheetID   string
	Range           string
	CredentialsJSON string
	CredentialsFile string
	Endpoint        string
}

// Client is a read-only view over one spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	rng           string
}

// New builds a Sheets service for opts.
func New(ctx context.Context, opts Options) (*Client, error) {
	id := strings.TrimSpace(opts.SpreadsheetID)
	if id == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	clientOpts := []goption.ClientOption{goption.WithScopes(gsheet.SpreadsheetsReadonlyScope)}
	switch {
	case opts.CredentialsJSON != "":
		clientOpts = append(clientOpts, goption.WithCredentialsJSON([]byte(opts.CredentialsJSON)))
	case opts.CredentialsFile != "":
		clientOpts = append(clientOpts, goption.WithCredentialsFile(opts.CredentialsFile))
	case opts.Endpoint != "":
		clientOpts = append(clientOpts, goption.WithoutAuthentication())
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, goption.WithEndpoint(opts.Endpoint))
	}

	svc, err := gsheet.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: id, rng: strings.TrimSpace(opts.Range)}, nil
}

// FetchRange reads rng as displayed in the sheet. The range string is passed
// through untouched.
func (c *Client) FetchRange(ctx context.Context, rng string) (models.Table, error) {
	start := time.Now()
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get values %s: %w", rng, err)
	}
	table := toTable(resp.Values)
	logger.L().Debug().Str("range", rng).Int("rows", len(table)).Dur("elapsed", time.Since(start)).Msg("sheet range fetched")
	return table, nil
}

// FetchTable reads the configured range.
func (c *Client) FetchTable(ctx context.Context) (models.Table, error) {
	if c.rng == "" {
		return nil, errors.New("no range configured")
	}
	return c.FetchRange(ctx, c.rng)
}

func toTable(values [][]interface{}) models.Table {
	out := make(models.Table, 0, len(values))
	for _, r := range values {
		row := make(models.Row, len(r))
		for i, v := range r {
			if v == nil {
				continue
			}
			row[i] = fmt.Sprint(v)
		}
		out = append(out, row)
	}
	return out
}
