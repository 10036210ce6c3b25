// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package external resolves the address the host is seen with from the public internet.
package external

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/siderolabs/ippopper/internal/constants"
	"github.com/siderolabs/ippopper/internal/version"
)

// maxBodySize bounds the response body, a plain text address is far smaller.
const maxBodySize = 1024

var errBodyTooLarge = errors.New("response body too large")

// Result is the outcome of a resolution.
type Result struct {
	// Address is the resolved address, empty if not found.
	Address string

	// Provider is the URL of the provider which answered.
	Provider string
}

// Found returns true if an address was resolved.
func (r Result) Found() bool {
	return r.Address != ""
}

// Option configures the Resolver.
type Option func(*Resolver)

// WithProviders overrides the provider URLs, queried in the given order.
func WithProviders(providers ...string) Option {
	return func(r *Resolver) {
		r.providers = providers
	}
}

// WithRequestTimeout overrides the timeout of a single provider request.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(r *Resolver) {
		r.requestTimeout = timeout
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		r.client = client
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(r *Resolver) {
		r.userAgent = userAgent
	}
}

// Resolver queries the external address providers.
type Resolver struct {
	client         *http.Client
	logger         *zap.Logger
	userAgent      string
	providers      []string
	requestTimeout time.Duration
}

// NewResolver creates a new Resolver.
func NewResolver(logger *zap.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Resolver{
		client:         http.DefaultClient,
		logger:         logger,
		userAgent:      version.UserAgent(),
		providers:      constants.ExternalProviders(),
		requestTimeout: constants.ExternalRequestTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve queries the providers one by one and returns the first valid address.
//
// Provider failures are logged and skipped, an empty Result is returned when all of them fail
// or the context is canceled.
func (r *Resolver) Resolve(ctx context.Context) Result {
	for _, provider := range r.providers {
		if ctx.Err() != nil {
			r.logger.Debug("external address resolution canceled", zap.Error(ctx.Err()))

			return Result{}
		}

		addr, err := r.query(ctx, provider)
		if err != nil {
			r.logger.Debug("external address provider failed", zap.String("provider", provider), zap.Error(err))

			continue
		}

		r.logger.Debug("resolved external address", zap.String("provider", provider), zap.String("address", addr))

		return Result{
			Address:  addr,
			Provider: provider,
		}
	}

	r.logger.Warn("failed to resolve external address", zap.Int("providers", len(r.providers)))

	return Result{}
}

func (r *Resolver) query(ctx context.Context, provider string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/plain")

	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if len(body) > maxBodySize {
		return "", errBodyTooLarge
	}

	return parseAddress(string(body))
}

func parseAddress(body string) (string, error) {
	trimmed := strings.TrimSpace(body)

	if _, err := netip.ParseAddr(trimmed); err != nil {
		return "", fmt.Errorf("invalid address in response: %w", err)
	}

	return trimmed, nil
}
