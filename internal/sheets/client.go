package sheets

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// Tables holds the two raw tabular resources of the remote recipe source,
// each a header row followed by data rows.
type Tables struct {
	Recipes     [][]string
	Ingredients [][]string
}

// Client fetches the remote recipe source.
type Client interface {
	FetchTables(ctx context.Context) (*Tables, error)
}

// GoogleClient reads the two tabs of a Google Sheets spreadsheet through the
// Sheets API with key-only read access.
type GoogleClient struct {
	svc            *sheetsapi.Service
	spreadsheetID  string
	recipesTab     string
	ingredientsTab string
}

// NewGoogleClient creates a Sheets API client for the configured spreadsheet.
func NewGoogleClient(ctx context.Context, apiKey, spreadsheetID, recipesTab, ingredientsTab string) (*GoogleClient, error) {
	svc, err := sheetsapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to init sheets service: %w", err)
	}
	return &GoogleClient{
		svc:            svc,
		spreadsheetID:  spreadsheetID,
		recipesTab:     recipesTab,
		ingredientsTab: ingredientsTab,
	}, nil
}

// FetchTables reads both tabs concurrently. Either fetch failing fails the
// whole call; there is no partial catalog.
func (c *GoogleClient) FetchTables(ctx context.Context) (*Tables, error) {
	var recipes, ingredients [][]string

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := c.fetchTab(ctx, c.recipesTab)
		if err != nil {
			return err
		}
		recipes = rows
		return nil
	})
	g.Go(func() error {
		rows, err := c.fetchTab(ctx, c.ingredientsTab)
		if err != nil {
			return err
		}
		ingredients = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Tables{Recipes: recipes, Ingredients: ingredients}, nil
}

func (c *GoogleClient) fetchTab(ctx context.Context, tab string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, tab).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tab %q: %w", tab, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
