package sssp

import (
	"time"

	"go.uber.org/zap"
)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithLogger sets the logger used for debug traces and protocol warnings.
// The default logger discards everything.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithConnectTimeout overrides the default 5 second connect timeout.
// Non-positive durations are ignored (no-op).
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithInlineData forces inline-data (SCANDATA) requests regardless of the
// connection kind. Use this when the daemon cannot read the filesystem the
// client sees; connecting with kind "remotetcp" enables it implicitly.
func WithInlineData() ClientOption {
	return func(c *Client) {
		c.forceInline = true
	}
}
