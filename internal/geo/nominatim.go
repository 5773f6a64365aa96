// Package geo looks up place names against the Nominatim (OpenStreetMap)
// geocoding API. Failures never surface to callers: every error path yields
// an empty suggestion list.
package geo

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const userAgent = "AstroNovaApp/1.0" // Nominatim usage policy asks for an identifying agent

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type nominatimAddress struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	State        string `json:"state"`
	Region       string `json:"region"`
	Country      string `json:"country"`
}

type nominatimResult struct {
	Name    string           `json:"name"`
	Address nominatimAddress `json:"address"`
}

// Search returns up to five "Cidade, Estado, País" display strings for the
// query, localized to Brazilian Portuguese.
func (c *Client) Search(ctx context.Context, query string) []string {
	if utf8.RuneCountInString(query) < 3 {
		return []string{}
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", "5")
	params.Set("addressdetails", "1")
	params.Set("accept-language", "pt-BR")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		log.Printf("Location search request build failed: %v", err)
		return []string{}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("Location search failed: %v", err)
		return []string{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Location search returned status %d", resp.StatusCode)
		return []string{}
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		log.Printf("Location search response decode failed: %v", err)
		return []string{}
	}

	display := make([]string, 0, len(results))
	for _, item := range results {
		city := firstNonEmpty(item.Address.City, item.Address.Town, item.Address.Village, item.Address.Municipality, item.Name)
		state := firstNonEmpty(item.Address.State, item.Address.Region)

		var parts []string
		for _, p := range []string{city, state, item.Address.Country} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		display = append(display, strings.Join(parts, ", "))
	}
	return display
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
