// Package rest is a thin synchronous HTTP client for hypervisor REST
// services.
package rest

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/nanovms/hvctl/log"
	"github.com/nanovms/hvctl/vmerr"
)

// Credentials authenticate one request
type Credentials struct {
	Username string
	Password string
}

// Response is the raw outcome of a request. Error statuses are not turned
// into errors here.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Elapsed    time.Duration
}

// Success reports a 2xx status
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Options configure a Client
type Options struct {
	BaseURL string
	// MediaType is sent as Accept, and as Content-Type when there is a body.
	MediaType string
	Timeout   time.Duration
	Insecure  bool
	Logger    *log.Logger
}

// Client sends requests to one base URL. It keeps no session: credentials
// are attached to every request.
type Client struct {
	http      *resty.Client
	mediaType string
	logger    *log.Logger
}

// New returns a Client for opts
func New(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	c := resty.New().
		SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/")).
		SetRetryCount(0).
		SetLogger(logger)
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	if opts.Insecure {
		c.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	if opts.MediaType == "" {
		opts.MediaType = "application/json"
	}
	return &Client{http: c, mediaType: opts.MediaType, logger: logger}
}

// Do sends one request. body may be nil, a string or []byte sent as is, or
// a value encoded as JSON. Transport failures are LaunchFailure or Timeout;
// any HTTP status is returned in the Response.
func (c *Client) Do(ctx context.Context, method, path string, body interface{}, creds Credentials) (*Response, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", c.mediaType)
	if creds.Username != "" || creds.Password != "" {
		req.SetBasicAuth(creds.Username, creds.Password)
	}
	if body != nil {
		req.SetHeader("Content-Type", c.mediaType).SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Debugf("http %s %s failed after %s: %v", method, path, elapsed, err)
		if isTimeout(ctx, err) {
			return nil, vmerr.Wrap(vmerr.Timeout, err, method+" "+path)
		}
		return nil, vmerr.Wrap(vmerr.LaunchFailure, err, method+" "+path)
	}

	c.logger.Debugf("http %s %s -> %d in %s", method, path, resp.StatusCode(), elapsed)
	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
		Elapsed:    elapsed,
	}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
