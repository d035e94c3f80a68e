package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bolsas/internal/application/models"
	"bolsas/pkg/domain"
	"bolsas/pkg/platform/circuit"
	"bolsas/pkg/platform/sentinel"
)

const (
	defaultDocumentsTimeout = 2 * time.Second
	maxChecklistBody        = 64 << 10
)

// ErrCircuitOpen is returned without calling the documents service while
// the breaker is open.
var ErrCircuitOpen = fmt.Errorf("documents service circuit open: %w", sentinel.ErrUnavailable)

// checklistResponse is the documents service wire shape.
type checklistResponse struct {
	Complete bool           `json:"complete"`
	Counts   map[string]int `json:"counts"`
}

// DocumentsClient reads checklist summaries from the documents service over
// HTTP. Consecutive failures open a circuit breaker so a struggling service
// is not hammered from every read.
type DocumentsClient struct {
	baseURL string
	client  *http.Client
	breaker *circuit.Breaker
	logger  *slog.Logger
}

type DocumentsOption func(*DocumentsClient)

func WithHTTPClient(c *http.Client) DocumentsOption {
	return func(d *DocumentsClient) {
		if c != nil {
			d.client = c
		}
	}
}

func WithBreaker(b *circuit.Breaker) DocumentsOption {
	return func(d *DocumentsClient) {
		if b != nil {
			d.breaker = b
		}
	}
}

func WithDocumentsLogger(logger *slog.Logger) DocumentsOption {
	return func(d *DocumentsClient) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDocumentsClient builds a client for the service rooted at baseURL.
func NewDocumentsClient(baseURL string, opts ...DocumentsOption) *DocumentsClient {
	d := &DocumentsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultDocumentsTimeout},
		breaker: circuit.New("documents"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Status fetches GET {base}/applications/{id}/checklist. A 404 means the
// checklist has not been created yet and yields an empty incomplete summary.
func (d *DocumentsClient) Status(ctx context.Context, id domain.ApplicationID) (*models.ChecklistSummary, error) {
	if !d.breaker.Allow() {
		return nil, ErrCircuitOpen
	}
	summary, err := d.fetch(ctx, id)
	if err != nil {
		if _, change := d.breaker.RecordFailure(); change.Opened {
			d.logger.WarnContext(ctx, "documents circuit opened", "breaker", d.breaker.Name(), "error", err)
		}
		return nil, err
	}
	if _, change := d.breaker.RecordSuccess(); change.Closed {
		d.logger.InfoContext(ctx, "documents circuit closed", "breaker", d.breaker.Name())
	}
	return summary, nil
}

func (d *DocumentsClient) fetch(ctx context.Context, id domain.ApplicationID) (*models.ChecklistSummary, error) {
	endpoint := d.baseURL + "/applications/" + url.PathEscape(id.String()) + "/checklist"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build checklist request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call documents service: %w", errors.Join(err, sentinel.ErrUnavailable))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &models.ChecklistSummary{Counts: map[string]int{}}, nil
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxChecklistBody))
		return nil, fmt.Errorf("documents service returned %d: %w", resp.StatusCode, sentinel.ErrUnavailable)
	}

	var body checklistResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxChecklistBody)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode checklist: %w", err)
	}
	if body.Counts == nil {
		body.Counts = map[string]int{}
	}
	return &models.ChecklistSummary{Complete: body.Complete, Counts: body.Counts}, nil
}
