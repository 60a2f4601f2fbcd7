// Package client is a Go SDK for the nutriclaude HTTP API.
package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

// Client calls the nutriclaude service. Reads are retried with exponential backoff on
// network errors and 5xx answers; writes are sent once.
type Client struct {
	http        *resty.Client
	maxRetries  uint64
	baseBackoff time.Duration
}

// New constructs a Client for baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("baseURL cannot be empty")
	}
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(90*time.Second).
			SetHeader("Accept", "application/json"),
		maxRetries:  3,
		baseBackoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

type call struct {
	method string
	path   string
	params map[string]string
	query  map[string]string
	body   interface{}
	out    interface{}
}

func (c *Client) send(ctx context.Context, in call) error {
	req := c.http.R().
		SetContext(ctx).
		SetError(&APIError{}).
		SetPathParams(in.params)
	for k, v := range in.query {
		if v != "" {
			req.SetQueryParam(k, v)
		}
	}
	if in.body != nil {
		req.SetBody(in.body)
	}
	if in.out != nil {
		req.SetResult(in.out)
	}
	resp, err := req.Execute(in.method, in.path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		apiErr, _ := resp.Error().(*APIError)
		if apiErr == nil {
			apiErr = &APIError{}
		}
		if apiErr.Status == 0 {
			apiErr.Status = resp.StatusCode()
		}
		return apiErr
	}
	return nil
}

func (c *Client) do(ctx context.Context, in call) error {
	var err error
	if in.method != http.MethodGet || c.maxRetries == 0 {
		err = c.send(ctx, in)
	} else {
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = c.baseBackoff
		exp.Multiplier = 2
		exp.Reset()
		policy := backoff.WithContext(backoff.WithMaxRetries(exp, c.maxRetries), ctx)
		err = backoff.RetryNotify(func() error {
			err := c.send(ctx, in)
			var apiErr *APIError
			if errors.As(err, &apiErr) && !apiErr.retryable() {
				return backoff.Permanent(err)
			}
			return err
		}, policy, func(error, time.Duration) { retriesTotal.Inc() })
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	requestsTotal.WithLabelValues(in.method, outcome).Inc()
	return err
}

func user(userID string) map[string]string { return map[string]string{"userId": userID} }
