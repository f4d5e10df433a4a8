// Package bank forwards account, transaction and balance requests to an
// external banking API.
package bank

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const maxBodySize = 1 << 20

var ErrNotConfigured = errors.New("bank API is not configured")

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Rate is outbound requests per second; burst equals the ceiling of Rate.
	Rate float64
}

type Proxy struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

func NewProxy(cfg Config, log zerolog.Logger) *Proxy {
	burst := int(cfg.Rate)
	if float64(burst) < cfg.Rate || burst < 1 {
		burst++
	}
	limit := rate.Limit(cfg.Rate)
	if cfg.Rate <= 0 {
		limit = rate.Inf
	}
	return &Proxy{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, burst),
		log:     log,
	}
}

// Router serves POST /bank/{accounts,transactions,balance}.
func (p *Proxy) Router() *mux.Router {
	r := mux.NewRouter()
	s := r.PathPrefix("/bank").Subrouter()
	s.HandleFunc("/accounts", p.forward("/accounts")).Methods(http.MethodPost)
	s.HandleFunc("/transactions", p.forward("/transactions")).Methods(http.MethodPost)
	s.HandleFunc("/balance", p.forward("/balance")).Methods(http.MethodPost)
	return r
}

func (p *Proxy) forward(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p.baseURL == "" {
			writeError(w, http.StatusServiceUnavailable, ErrNotConfigured.Error())
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			writeError(w, http.StatusBadRequest, "cannot read request body")
			return
		}
		if !json.Valid(body) {
			writeError(w, http.StatusBadRequest, "request body must be JSON")
			return
		}

		status, header, respBody, err := p.Do(r.Context(), path, body)
		if err != nil {
			p.log.Error().Err(err).Str("path", path).Msg("Bank API request failed")
			code := http.StatusBadGateway
			if errors.Is(err, context.DeadlineExceeded) {
				code = http.StatusGatewayTimeout
			}
			writeError(w, code, "bank API unavailable")
			return
		}

		if ct := header.Get("Content-Type"); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.WriteHeader(status)
		w.Write(respBody)
	}
}

// Do sends body to the bank API, waiting for the rate limiter first.
func (p *Proxy) Do(ctx context.Context, path string, body []byte) (int, http.Header, []byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return 0, nil, nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return 0, nil, nil, err
	}
	p.log.Debug().Str("path", path).Int("status", resp.StatusCode).Dur("took", time.Since(start)).Msg("Bank API response")
	return resp.StatusCode, resp.Header, respBody, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
