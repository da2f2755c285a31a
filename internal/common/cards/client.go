// Package cards is the client of the health-card lookup service.
package cards

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "onboarding-workers/internal/common/errors"
	httpclient "onboarding-workers/internal/common/http"
)

type Client struct {
	baseURL string
	http    *httpclient.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpclient.NewClient(timeout),
	}
}

// Lookup calls GET <base>/<cardNumber> and returns the raw body of a 200 response.
// Any other status, or a transport error, is a LOOKUP_FAILED error.
func (c *Client) Lookup(ctx context.Context, cardNumber string) (string, error) {
	status, body, err := c.http.GetRaw(ctx, c.baseURL+"/"+url.PathEscape(cardNumber))
	if err != nil {
		return "", apperrors.NewLookupFailedError("cards", err)
	}
	if status != http.StatusOK {
		return "", apperrors.NewLookupFailedError("cards", &httpclient.StatusError{StatusCode: status, Body: string(body)})
	}
	return string(body), nil
}
