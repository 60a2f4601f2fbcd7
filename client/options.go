package client

import (
	"fmt"
	"time"
)

// Option configures a Client.
type Option func(*Client) error

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive")
		}
		c.http.SetTimeout(d)
		return nil
	}
}

// WithMaxRetries bounds how often a failed read is attempted again. Zero disables retries.
func WithMaxRetries(n uint64) Option {
	return func(c *Client) error {
		c.maxRetries = n
		return nil
	}
}

// WithBaseBackoff sets the first wait between read retries.
func WithBaseBackoff(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("backoff must be positive")
		}
		c.baseBackoff = d
		return nil
	}
}

// WithDebug logs every request and response through resty.
func WithDebug(on bool) Option {
	return func(c *Client) error {
		c.http.SetDebug(on)
		return nil
	}
}
