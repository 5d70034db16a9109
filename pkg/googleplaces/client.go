// Package googleplaces is a small client for the Google Places web service
// (Text Search, Place Details and Place Photos).
package googleplaces

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"
	DefaultTimeout = 10 * time.Second

	// DetailFields is the field mask sent with every details lookup
	DetailFields = "place_id,name,formatted_address,geometry,rating,user_ratings_total," +
		"formatted_phone_number,international_phone_number,website,business_status,types," +
		"opening_hours,price_level,editorial_summary,photos,address_components"
)

// Config is injected at construction; the client keeps no global state.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// TextSearch runs a single-page text search. location is optional ("lat,lng").
func (c *Client) TextSearch(ctx context.Context, query, location string) (*TextSearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	if location != "" {
		params.Set("location", location)
	}

	var resp TextSearchResponse
	if err := c.get(ctx, "/textsearch/json", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PlaceDetails fetches the detail record for one place id
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (*DetailsResponse, error) {
	if placeID == "" {
		return nil, errors.New("place id is required")
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", DetailFields)

	var resp DetailsResponse
	if err := c.get(ctx, "/details/json", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PhotoURL builds the photo endpoint URL for a reference. The API key is not
// included; callers serving it to browsers append their own restricted key.
func (c *Client) PhotoURL(photoReference string, maxWidth int) string {
	return PhotoURL(c.baseURL, photoReference, maxWidth)
}

func PhotoURL(baseURL, photoReference string, maxWidth int) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	params := url.Values{}
	params.Set("maxwidth", strconv.Itoa(maxWidth))
	params.Set("photo_reference", photoReference)
	return strings.TrimRight(baseURL, "/") + "/photo?" + params.Encode()
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the full URL, which carries the key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("places %s request failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("places %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
