package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var ErrUnknownCurrency = errors.New("currency not found")

// ExchangeRates caches USD-based conversion rates fetched from an
// exchangerate-api compatible endpoint.
type ExchangeRates struct {
	apiURL       string
	client       *http.Client
	cacheTimeout time.Duration
	retryDelay   time.Duration
	log          zerolog.Logger

	mu        sync.Mutex
	rates     sync.Map
	lastFetch time.Time
}

func NewExchangeRates(apiURL string, log zerolog.Logger) *ExchangeRates {
	return &ExchangeRates{
		apiURL:       apiURL,
		client:       &http.Client{Timeout: 10 * time.Second},
		cacheTimeout: time.Hour,
		retryDelay:   2 * time.Second,
		log:          log,
	}
}

// Rate returns how many units of code one USD buys.
func (e *ExchangeRates) Rate(ctx context.Context, code string) (decimal.Decimal, error) {
	code = strings.ToUpper(code)
	if code == "USD" {
		return decimal.NewFromInt(1), nil
	}

	e.mu.Lock()
	stale := time.Since(e.lastFetch) >= e.cacheTimeout
	if stale {
		if err := e.fetch(ctx); err != nil {
			e.log.Warn().Err(err).Msg("Failed to fetch exchange rates")
			// Use cached data if available
			if rate, ok := e.rates.Load(code); ok {
				e.mu.Unlock()
				return rate.(decimal.Decimal), nil
			}
			e.mu.Unlock()
			return decimal.Zero, err
		}
	}
	e.mu.Unlock()

	if rate, ok := e.rates.Load(code); ok {
		return rate.(decimal.Decimal), nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
}

// Convert converts amount between currencies through USD.
func (e *ExchangeRates) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if strings.EqualFold(from, to) {
		return amount, nil
	}
	fromRate, err := e.Rate(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := e.Rate(ctx, to)
	if err != nil {
		return decimal.Zero, err
	}
	if fromRate.IsZero() {
		return decimal.Zero, errors.New("invalid currency rates")
	}
	return amount.Mul(toRate).Div(fromRate).Round(2), nil
}

func (e *ExchangeRates) fetch(ctx context.Context) error {
	url := e.apiURL + "USD"

	var lastErr error
	for i := 0; i < 3; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.retryDelay):
			}
		}

		lastErr = e.fetchOnce(ctx, url)
		if lastErr == nil {
			e.lastFetch = time.Now()
			e.log.Debug().Msg("Exchange rates cache updated")
			return nil
		}
		e.log.Warn().Err(lastErr).Int("attempt", i+1).Msg("Error fetching rates")
	}
	return lastErr
}

func (e *ExchangeRates) fetchOnce(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rates API returned status %d", resp.StatusCode)
	}

	var response struct {
		ConversionRates map[string]float64 `json:"conversion_rates"`
		Rates           map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return err
	}
	rates := response.ConversionRates
	if len(rates) == 0 {
		rates = response.Rates
	}
	if len(rates) == 0 {
		return errors.New("no valid data to update cache")
	}
	for code, rate := range rates {
		if rate > 0 {
			e.rates.Store(code, decimal.NewFromFloat(rate))
		}
	}
	return nil
}
