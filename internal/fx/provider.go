// Package fx implements currency conversion: a live rate provider, a static
// fallback table, and the Resolver that decides which rate an expense gets.
package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"github.com/tripledger/api/internal/domain"
)

// RateProvider fetches a full rate snapshot for a base currency on a date.
// Implementations return rates in API orientation: units of X per 1 base.
type RateProvider interface {
	FetchRates(ctx context.Context, base string, on time.Time) (domain.RateSnapshot, error)
}

// Client is an HTTP RateProvider for exchangerate-api style endpoints.
// Latest rates come from {baseURL}/{key}/latest/{base}; historical rates
// from {baseURL}/{key}/history/{base}/{year}/{month}/{day}.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs a Client. timeout bounds each HTTP attempt; the
// caller's context bounds the whole fetch including retries.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// rateResponse is the provider's JSON payload.
// conversion_rates maps currency code → units of that currency per 1 base.
type rateResponse struct {
	Result             string             `json:"result"`
	BaseCode           string             `json:"base_code"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	ConversionRates    map[string]float64 `json:"conversion_rates"`
	ErrorType          string             `json:"error-type,omitempty"`
}

// FetchRates fetches the rate table for base on the given date.
// A zero or same-day date hits the latest endpoint; earlier dates hit the
// history endpoint. Transient failures are retried twice with constant
// backoff before giving up.
func (c *Client) FetchRates(ctx context.Context, base string, on time.Time) (domain.RateSnapshot, error) {
	url := c.url(base, on)

	var apiResp rateResponse
	backoff := retry.WithMaxRetries(2, retry.NewConstant(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := c.get(ctx, url)
		if err != nil {
			return retry.RetryableError(err)
		}
		apiResp = resp
		return nil
	})
	if err != nil {
		return domain.RateSnapshot{}, fmt.Errorf("fx.Client.FetchRates: %w", err)
	}

	if apiResp.Result != "success" {
		return domain.RateSnapshot{}, fmt.Errorf("fx.Client.FetchRates: provider result %q (%s)", apiResp.Result, apiResp.ErrorType)
	}
	if len(apiResp.ConversionRates) == 0 {
		return domain.RateSnapshot{}, fmt.Errorf("fx.Client.FetchRates: empty rate table for %s", base)
	}

	rates := make(map[string]decimal.Decimal, len(apiResp.ConversionRates))
	for code, r := range apiResp.ConversionRates {
		rates[code] = decimal.NewFromFloat(r)
	}

	updated := time.Now().UTC()
	if apiResp.TimeLastUpdateUnix > 0 {
		updated = time.Unix(apiResp.TimeLastUpdateUnix, 0).UTC()
	}

	return domain.RateSnapshot{
		BaseCurrency: base,
		Rates:        rates,
		UpdatedAt:    updated,
	}, nil
}

func (c *Client) get(ctx context.Context, url string) (rateResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return rateResponse{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return rateResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return rateResponse{}, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var out rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return rateResponse{}, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}

func (c *Client) url(base string, on time.Time) string {
	today := domain.DateOnly(time.Now().UTC())
	if on.IsZero() || !domain.DateOnly(on).Before(today) {
		return fmt.Sprintf("%s/%s/latest/%s", c.baseURL, c.apiKey, base)
	}
	return fmt.Sprintf("%s/%s/history/%s/%d/%d/%d", c.baseURL, c.apiKey, base, on.Year(), int(on.Month()), on.Day())
}
