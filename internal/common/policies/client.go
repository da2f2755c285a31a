// Package policies is the client of the policy-detail service.
package policies

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
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
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpclient.NewClient(timeout),
	}
}

// LookupPolicyDetail posts the policy key and decodes the policy detail. The raw body is
// kept on the result.
func (c *Client) LookupPolicyDetail(ctx context.Context, key models.PolicyKey) (*models.PolicyDetail, error) {
	var raw json.RawMessage
	if err := c.http.PostJSON(ctx, c.baseURL, key, &raw); err != nil {
		return nil, apperrors.NewLookupFailedError("policies", err)
	}

	var detail models.PolicyDetail
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &detail); err != nil {
			return nil, apperrors.NewLookupFailedError("policies", fmt.Errorf("failed to unmarshal policy detail: %w", err))
		}
		detail.Raw = raw
	}
	return &detail, nil
}
