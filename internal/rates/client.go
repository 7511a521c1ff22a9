package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Fetcher obtains the current market rate from an upstream source.
type Fetcher interface {
	Fetch(ctx context.Context) (decimal.Decimal, time.Time, error)
}

// Client reads the TRM from the datos.gov.co open-data feed. The feed
// returns a JSON array ordered most recent first; only the head element is
// consumed.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

type trmRecord struct {
	Valor         string `json:"valor"`
	VigenciaDesde string `json:"vigenciadesde"`
}

// Fetch returns the rate in COP per USD and the date the source reports it
// effective from. An empty or malformed body counts as a fetch failure.
func (c *Client) Fetch(ctx context.Context) (decimal.Decimal, time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("failed to build TRM request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("TRM request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decimal.Zero, time.Time{}, fmt.Errorf("TRM request returned status %d", resp.StatusCode)
	}

	var records []trmRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("failed to decode TRM response: %w", err)
	}
	if len(records) == 0 {
		return decimal.Zero, time.Time{}, fmt.Errorf("TRM response is empty")
	}

	rate, err := decimal.NewFromString(records[0].Valor)
	if err != nil {
		return decimal.Zero, time.Time{}, fmt.Errorf("invalid TRM value %q: %w", records[0].Valor, err)
	}

	effective, err := parseEffectiveDate(records[0].VigenciaDesde)
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}

	return rate, effective, nil
}

// parseEffectiveDate keeps only the calendar-date portion of the feed's
// ISO-8601 timestamp.
func parseEffectiveDate(value string) (time.Time, error) {
	if len(value) < 10 {
		return time.Time{}, fmt.Errorf("invalid TRM effective date %q", value)
	}
	d, err := time.Parse("2006-01-02", value[:10])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid TRM effective date %q: %w", value, err)
	}
	return d, nil
}
