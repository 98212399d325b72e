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
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/uplift-hq/uplift/internal/config"
	"github.com/uplift-hq/uplift/internal/logging"
	"github.com/uplift-hq/uplift/internal/metrics"
	"github.com/uplift-hq/uplift/internal/models"
)

// TalksSource fetches the upstream talks catalog.
//
// Implemented by TEDClient for production use and by stubs in tests.
// The content pipeline calls FetchTalks whenever the cached talks
// collection needs repopulating; Ping feeds readiness checks.
type TalksSource interface {
	FetchTalks(ctx context.Context) ([]models.Talk, error)
	Ping(ctx context.Context) error
}

// Ensure TEDClient implements TalksSource
var _ TalksSource = (*TEDClient)(nil)

// tedTalk is the subset of the upstream talk object the platform keeps.
type tedTalk struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	Speaker     string      `json:"speaker"`
	Description string      `json:"description"`
	Duration    int         `json:"duration"`
	URL         string      `json:"url"`
	Thumbnail   string      `json:"thumbnail"`
}

// tedResponse is the upstream payload wrapper.
type tedResponse struct {
	Talks []tedTalk `json:"talks"`
}

// TEDClient fetches the talks catalog from the upstream talks API.
//
// The API key, when configured, is sent as the api-key query parameter.
// Requests use the shared retrying HTTP layer.
//
// Example:
//
//	client := fetch.NewTEDClient(&cfg.TED)
//	talks, err := client.FetchTalks(ctx)
type TEDClient struct {
	retryingClient
	baseURL string
	apiKey  string
}

// NewTEDClient creates a talks client from the provided configuration.
func NewTEDClient(cfg *config.TEDConfig) *TEDClient {
	return &TEDClient{
		retryingClient: newRetryingClient(SourceTED, cfg.Timeout),
		baseURL:        cfg.URL,
		apiKey:         cfg.APIKey,
	}
}

// FetchTalks performs one upstream call and maps the payload into Talk
// records, preserving upstream order. Returned records carry a zero
// CreatedAt; the storage layer stamps it on insert. All failures return
// an *UpstreamError.
func (c *TEDClient) FetchTalks(ctx context.Context) ([]models.Talk, error) {
	start := time.Now()
	talks, err := c.fetchTalks(ctx)
	metrics.RecordUpstreamRequest(SourceTED, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	logging.Debug().Int("count", len(talks)).Msg("Fetched upstream talks")
	return talks, nil
}

// redactKey masks the configured API key wherever it appears in an error
// message. Transport errors embed the full request URL, which carries the
// key as a query parameter. The key is matched both raw and query-escaped.
func (c *TEDClient) redactKey(err error) error {
	if err == nil || c.apiKey == "" {
		return err
	}
	msg := err.Error()
	for _, needle := range []string{c.apiKey, url.QueryEscape(c.apiKey)} {
		msg = strings.ReplaceAll(msg, needle, logging.SanitizeToken(c.apiKey))
	}
	if msg == err.Error() {
		return err
	}
	return errors.New(msg)
}

func (c *TEDClient) fetchTalks(ctx context.Context) ([]models.Talk, error) {
	reqURL := c.baseURL
	if c.apiKey != "" {
		params := url.Values{}
		params.Set("api-key", c.apiKey)
		reqURL = fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	}

	resp, err := c.get(ctx, reqURL, nil)
	if err != nil {
		return nil, &UpstreamError{Source: SourceTED, Err: c.redactKey(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, &UpstreamError{
			Source:     SourceTED,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status: %s", string(body)),
		}
	}

	var payload tedResponse
	if err := decodePayload(resp, &payload); err != nil {
		return nil, &UpstreamError{Source: SourceTED, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	// A payload without a talks array is malformed. An empty array is a
	// valid zero-record catalog and passes through.
	if payload.Talks == nil {
		return nil, &UpstreamError{Source: SourceTED, Err: errors.New("payload missing talks array")}
	}

	talks := make([]models.Talk, 0, len(payload.Talks))
	for _, t := range payload.Talks {
		talks = append(talks, models.Talk{
			TalkID:      t.ID.String(),
			Title:       t.Title,
			Speaker:     t.Speaker,
			Description: orFallback(t.Description),
			Duration:    t.Duration,
			URL:         t.URL,
			Thumbnail:   t.Thumbnail,
			Type:        models.ContentTypeVideo,
		})
	}
	return talks, nil
}

// Ping verifies connectivity to the talks API. The catalog endpoint is the
// only endpoint the API exposes, so the probe issues the same GET and
// discards the body without decoding it.
func (c *TEDClient) Ping(ctx context.Context) error {
	reqURL := c.baseURL
	if c.apiKey != "" {
		params := url.Values{}
		params.Set("api-key", c.apiKey)
		reqURL = fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	}

	resp, err := c.get(ctx, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to ping talks API: %w", c.redactKey(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("talks API ping failed with status: %d", resp.StatusCode)
	}

	return nil
}
