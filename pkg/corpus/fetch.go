package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/fmadore/IWAC-spatial-overview/internal/util"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// DefaultDatasetID is the Hugging Face dataset the corpus is published under.
	DefaultDatasetID = "fmadore/islam-west-africa-collection"
	// DefaultRowsURL is the datasets-server endpoint serving paged dataset rows.
	DefaultRowsURL = "https://datasets-server.huggingface.co/rows"

	defaultPageSize    = 100
	defaultMaxTries    = 3
	defaultConcurrency = 4
	defaultRate        = 4
)

// Fetcher downloads corpus subsets from the Hugging Face datasets server and
// normalizes the raw rows into the pipeline's article and index shapes.
type Fetcher struct {
	client      *http.Client
	rowsURL     string
	datasetID   string
	pageSize    int
	maxTries    int
	concurrency int
	limiter     *rate.Limiter
}

// NewFetcherParams configures a Fetcher. Zero values fall back to defaults.
type NewFetcherParams struct {
	// DatasetID is the Hugging Face dataset to download.
	DatasetID string
	// RowsURL overrides the datasets-server rows endpoint, mainly for tests.
	RowsURL string
	// PageSize is the number of rows requested per page. The public API caps
	// pages at 100 rows.
	PageSize int
	// MaxTries bounds retry attempts per page request.
	MaxTries int
	// Concurrency bounds the number of page requests in flight.
	Concurrency int
	// RequestsPerSecond throttles requests against the public API.
	RequestsPerSecond float64
	// HTTPClient overrides the HTTP client, mainly for tests.
	HTTPClient *http.Client
}

// NewFetcher creates a Fetcher for the given dataset.
func NewFetcher(params NewFetcherParams) *Fetcher {
	if params.DatasetID == "" {
		params.DatasetID = DefaultDatasetID
	}
	if params.RowsURL == "" {
		params.RowsURL = DefaultRowsURL
	}
	if params.PageSize <= 0 || params.PageSize > 100 {
		params.PageSize = defaultPageSize
	}
	if params.MaxTries <= 0 {
		params.MaxTries = defaultMaxTries
	}
	if params.Concurrency <= 0 {
		params.Concurrency = defaultConcurrency
	}
	if params.RequestsPerSecond <= 0 {
		params.RequestsPerSecond = defaultRate
	}
	if params.HTTPClient == nil {
		params.HTTPClient = http.DefaultClient
	}

	return &Fetcher{
		client:      params.HTTPClient,
		rowsURL:     params.RowsURL,
		datasetID:   params.DatasetID,
		pageSize:    params.PageSize,
		maxTries:    params.MaxTries,
		concurrency: params.Concurrency,
		limiter:     rate.NewLimiter(rate.Limit(params.RequestsPerSecond), 1),
	}
}

// FetchArticles downloads and normalizes the "articles" subset.
func (f *Fetcher) FetchArticles(ctx context.Context) ([]Article, error) {
	rows, err := f.fetchRows(ctx, "articles")
	if err != nil {
		return nil, err
	}

	articles := make([]Article, 0, len(rows))
	for _, row := range rows {
		articles = append(articles, articleFromRow(row))
	}
	return articles, nil
}

// FetchIndex downloads and normalizes the "index" subset.
func (f *Fetcher) FetchIndex(ctx context.Context) ([]IndexEntry, error) {
	rows, err := f.fetchRows(ctx, "index")
	if err != nil {
		return nil, err
	}

	entries := make([]IndexEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, indexEntryFromRow(row))
	}
	return entries, nil
}

type rowsResponse struct {
	Rows []struct {
		Row map[string]any `json:"row"`
	} `json:"rows"`
	NumRowsTotal int `json:"num_rows_total"`
}

// fetchRows pages through a dataset config and returns all raw rows in
// dataset order. Pages after the first are fetched concurrently but
// reassembled by offset, so the result is deterministic.
func (f *Fetcher) fetchRows(ctx context.Context, config string) ([]map[string]any, error) {
	first, err := f.fetchPage(ctx, config, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch first %s page: %w", config, err)
	}

	total := first.NumRowsTotal
	logger.Info("[Corpus] Fetching dataset subset", "config", config, "rows", total)
	if total <= 0 {
		return nil, nil
	}

	pageCount := (total + f.pageSize - 1) / f.pageSize
	pages := make([][]map[string]any, pageCount)
	pages[0] = rowsOf(first)

	var done atomic.Int32
	done.Store(1)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(f.concurrency)
	for i := 1; i < pageCount; i++ {
		i := i
		group.Go(func() error {
			offset := i * f.pageSize
			page, err := f.fetchPage(groupCtx, config, offset)
			if err != nil {
				return fmt.Errorf("failed to fetch %s page at offset %d: %w", config, offset, err)
			}
			pages[i] = rowsOf(page)
			logger.Debug("[Corpus] Page fetched", "config", config, "offset", offset,
				"progress", util.ProgressPercentage(int(done.Add(1)), pageCount))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, total)
	for _, page := range pages {
		rows = append(rows, page...)
	}
	return rows, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, config string, offset int) (*rowsResponse, error) {
	return util.RetryWithContext(ctx, f.maxTries, func(ctx context.Context) (*rowsResponse, error) {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		query := url.Values{}
		query.Set("dataset", f.datasetID)
		query.Set("config", config)
		query.Set("split", "train")
		query.Set("offset", strconv.Itoa(offset))
		query.Set("length", strconv.Itoa(f.pageSize))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.rowsURL+"?"+query.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch rows: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read rows response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("rows request returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}

		var page rowsResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to parse rows response: %w", err)
		}
		return &page, nil
	})
}

func rowsOf(page *rowsResponse) []map[string]any {
	rows := make([]map[string]any, 0, len(page.Rows))
	for _, row := range page.Rows {
		rows = append(rows, row.Row)
	}
	return rows
}
