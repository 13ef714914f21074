package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GeoLocator resolves an IP address to a city and country.
type GeoLocator interface {
	Locate(ctx context.Context, ip string) (city, country string, err error)
}

// IPInfoClient queries an ipinfo-style HTTP endpoint:
// GET {base}/{ip}/json -> {"ip": ..., "city": ..., "country": ...}.
type IPInfoClient struct {
	baseURL string
	client  *http.Client
}

// NewIPInfoClient creates a geolocation client with its own request timeout.
func NewIPInfoClient(baseURL string, timeout time.Duration) *IPInfoClient {
	return &IPInfoClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *IPInfoClient) Locate(ctx context.Context, ip string) (string, string, error) {
	url := fmt.Sprintf("%s/%s/json", c.baseURL, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("geo lookup returned status %d", resp.StatusCode)
	}

	var body struct {
		City    string `json:"city"`
		Country string `json:"country"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", "", err
	}

	return body.City, body.Country, nil
}
