// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/uplift-hq/uplift/internal/config"
	"github.com/uplift-hq/uplift/internal/logging"
	"github.com/uplift-hq/uplift/internal/metrics"
	"github.com/uplift-hq/uplift/internal/models"
)

// NgosSource fetches the upstream nonprofit listing.
//
// Implemented by ProPublicaClient for production use and by stubs in
// tests. The content pipeline calls FetchNgos whenever the cached NGO
// collection needs repopulating; Ping feeds readiness checks.
type NgosSource interface {
	FetchNgos(ctx context.Context) ([]models.NgoRecord, error)
	Ping(ctx context.Context) error
}

// Ensure ProPublicaClient implements NgosSource
var _ NgosSource = (*ProPublicaClient)(nil)

// propublicaOrg is the subset of a Nonprofit Explorer search hit the
// platform keeps. The search payload carries no narrative fields, so
// description and mission store the shared fallback text.
type propublicaOrg struct {
	EIN   int64  `json:"ein"`
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

// propublicaResponse is the v2 search payload wrapper.
type propublicaResponse struct {
	TotalResults  int             `json:"total_results"`
	Organizations []propublicaOrg `json:"organizations"`
}

// profileURLFormat builds the public organization page from an EIN.
const profileURLFormat = "https://projects.propublica.org/nonprofits/organizations/%d"

// ProPublicaClient searches the ProPublica Nonprofit Explorer API.
//
// The fixed search term comes from configuration and is sent as the q
// query parameter. The API key, when configured, is sent as the
// X-API-Key header. Requests use the shared retrying HTTP layer.
type ProPublicaClient struct {
	retryingClient
	baseURL string
	apiKey  string
	query   string
}

// NewProPublicaClient creates a nonprofit search client from the
// provided configuration.
func NewProPublicaClient(cfg *config.ProPublicaConfig) *ProPublicaClient {
	return &ProPublicaClient{
		retryingClient: newRetryingClient(SourceProPublica, cfg.Timeout),
		baseURL:        cfg.URL,
		apiKey:         cfg.APIKey,
		query:          cfg.Query,
	}
}

// FetchNgos performs one upstream search and maps each organization into
// an NgoRecord, preserving upstream order. Returned records carry a zero
// CreatedAt; the storage layer stamps it on insert. All failures return
// an *UpstreamError.
func (c *ProPublicaClient) FetchNgos(ctx context.Context) ([]models.NgoRecord, error) {
	start := time.Now()
	ngos, err := c.fetchNgos(ctx)
	metrics.RecordUpstreamRequest(SourceProPublica, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	logging.Debug().Int("count", len(ngos)).Msg("Fetched upstream NGOs")
	return ngos, nil
}

func (c *ProPublicaClient) fetchNgos(ctx context.Context) ([]models.NgoRecord, error) {
	params := url.Values{}
	params.Set("q", c.query)
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	var header http.Header
	if c.apiKey != "" {
		header = http.Header{}
		header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.get(ctx, reqURL, header)
	if err != nil {
		return nil, &UpstreamError{Source: SourceProPublica, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, &UpstreamError{
			Source:     SourceProPublica,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", string(body)),
		}
	}

	var payload propublicaResponse
	if err := decodePayload(resp, &payload); err != nil {
		return nil, &UpstreamError{Source: SourceProPublica, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	// A payload without an organizations array is malformed. An empty
	// array is a valid zero-record search result and passes through.
	if payload.Organizations == nil {
		return nil, &UpstreamError{Source: SourceProPublica, Err: errors.New("payload missing organizations array")}
	}

	ngos := make([]models.NgoRecord, 0, len(payload.Organizations))
	for _, org := range payload.Organizations {
		ngos = append(ngos, models.NgoRecord{
			EIN:         strconv.FormatInt(org.EIN, 10),
			Name:        org.Name,
			Type:        models.ContentTypeNGO,
			Description: models.NoDescription,
			Website:     fmt.Sprintf(profileURLFormat, org.EIN),
			Location:    joinLocation(org.City, org.State),
			Mission:     models.NoDescription,
		})
	}
	return ngos, nil
}

// Ping verifies connectivity to the Nonprofit Explorer API with a minimal
// single-letter search and discards the body without decoding it.
func (c *ProPublicaClient) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("q", "a")
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	var header http.Header
	if c.apiKey != "" {
		header = http.Header{}
		header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.get(ctx, reqURL, header)
	if err != nil {
		return fmt.Errorf("failed to ping nonprofit API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nonprofit API ping failed with status: %d", resp.StatusCode)
	}

	return nil
}

// joinLocation assembles the free-text location from city and state.
func joinLocation(city, state string) string {
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	default:
		return state
	}
}
