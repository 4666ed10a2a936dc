package billing

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	xhttp "DivScout/pkg/http"
)

// Client creates checkout sessions against the external billing provider.
// DivScout holds no card or invoice state of its own; this is a thin delegate.
type Client struct {
	apiURL    string
	secretKey string
	http      *xhttp.Client
}

func New(apiURL, secretKey string, timeout time.Duration) *Client {
	return &Client{
		apiURL:    strings.TrimRight(apiURL, "/"),
		secretKey: secretKey,
		http:      xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (c *Client) Configured() bool {
	return c.apiURL != "" && c.secretKey != ""
}

type sessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateSession asks the billing provider for a hosted checkout URL. The
// provider speaks form-encoded requests.
func (c *Client) CreateSession(ctx context.Context, priceID, planName string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("billing provider not configured")
	}

	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("metadata[plan]", planName)

	var resp sessionResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.apiURL + "/v1/checkout/sessions",
		Headers: map[string]string{
			"Authorization": "Bearer " + c.secretKey,
			"Content-Type":  "application/x-www-form-urlencoded",
		},
		Body: form.Encode(),
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	if resp.URL == "" {
		return "", fmt.Errorf("billing provider returned no checkout url")
	}
	return resp.URL, nil
}
