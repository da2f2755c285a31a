// Package bravo is the client of the BRAVO customer-record service.
package bravo

import (
	"context"
	"net/url"
	"time"

	apperrors "onboarding-workers/internal/common/errors"
	httpclient "onboarding-workers/internal/common/http"
	"onboarding-workers/internal/models"
)

type Client struct {
	baseURL string
	http    *httpclient.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, http: httpclient.NewClient(timeout)}
}

// GetCustomer calls GET <base>?id=<clientID>.
func (c *Client) GetCustomer(ctx context.Context, clientID string) (*models.CustomerRecord, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, apperrors.NewEnrichmentFailedError(err)
	}
	q := u.Query()
	q.Set("id", clientID)
	u.RawQuery = q.Encode()

	var record models.CustomerRecord
	if err := c.http.GetJSON(ctx, u.String(), &record); err != nil {
		return nil, apperrors.NewEnrichmentFailedError(err)
	}
	return &record, nil
}
