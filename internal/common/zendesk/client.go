// Package zendesk is a minimal client of the Zendesk Support tickets API.
package zendesk

import (
	"context"
	"fmt"
	"strings"
	"time"

	httpclient "onboarding-workers/internal/common/http"
	"onboarding-workers/internal/models"
)

const ticketsPath = "/api/v2/tickets.json"

type Options struct {
	URL     string
	User    string
	Token   string
	Timeout time.Duration
}

// Client owns its own connection pool; Close releases it.
type Client struct {
	baseURL string
	user    string
	token   string
	http    *httpclient.Client
}

func NewClient(opts Options) *Client {
	return &Client{
		baseURL: strings.TrimRight(opts.URL, "/"),
		user:    opts.User,
		token:   opts.Token,
		http:    httpclient.NewClient(opts.Timeout),
	}
}

// CreateTicket posts the ticket and returns the created ticket as echoed by the platform.
func (c *Client) CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	var created models.Ticket
	err := c.http.PostJSON(ctx, c.baseURL+ticketsPath, ticket, &created,
		httpclient.WithBasicAuth(c.user+"/token", c.token))
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return &created, nil
}

func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
