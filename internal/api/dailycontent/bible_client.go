package dailycontent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/luisbelezaPF-sys/encontroDeus/internal/types"
)

// VerseFetcher looks a verse up by its human reference.
type VerseFetcher interface {
	FetchVerse(ctx context.Context, referencia string) (*types.Verse, error)
}

// Ensure implementation satisfies the interface
var _ VerseFetcher = (*BibleAPIClient)(nil)

// BibleAPIClient fetches verse text from bible-api.com. It is best-effort
// enrichment only; callers fall back to the local list on any error.
type BibleAPIClient struct {
	baseURL string
	client  *http.Client
}

func NewBibleAPIClient(baseURL string, timeout time.Duration) *BibleAPIClient {
	return &BibleAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type bibleAPIResponse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

func (c *BibleAPIClient) FetchVerse(ctx context.Context, referencia string) (*types.Verse, error) {
	ctx, span := otel.Tracer("BibleAPIClient").Start(ctx, "FetchVerse", trace.WithAttributes(
		attribute.String("verse.reference", referencia),
	))
	defer span.End()

	reqURL := c.baseURL + "/" + url.PathEscape(referencia)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verse request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Request failed")
		return nil, fmt.Errorf("verse lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, "Unexpected status")
		return nil, fmt.Errorf("verse lookup returned status %d", resp.StatusCode)
	}

	var payload bibleAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Malformed payload")
		return nil, fmt.Errorf("failed to decode verse payload: %w", err)
	}
	if strings.TrimSpace(payload.Text) == "" {
		span.SetStatus(codes.Error, "Empty verse text")
		return nil, fmt.Errorf("verse payload has no text")
	}

	verse := &types.Verse{
		Referencia: payload.Reference,
		Texto:      strings.TrimSpace(payload.Text),
	}
	if verse.Referencia == "" {
		verse.Referencia = referencia
	}

	span.SetStatus(codes.Ok, "Verse fetched")
	return verse, nil
}
