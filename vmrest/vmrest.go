// Package vmrest drives VMware Workstation through its local REST service
// (vmrest). Credentials are sent with every request.
package vmrest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nanovms/hvctl/driver"
	"github.com/nanovms/hvctl/log"
	"github.com/nanovms/hvctl/rest"
	"github.com/nanovms/hvctl/types"
	"github.com/nanovms/hvctl/vmerr"
)

const (
	backend = string(types.BackendVmRest)

	// DefaultURL is where vmrest listens unless told otherwise
	DefaultURL = "http://127.0.0.1:8697/api"
	// MediaType is the vmrest content type for requests and responses
	MediaType = "application/vnd.vmware.vmw.rest-v1+json"

	routerNotFound = "404 page not found"
)

var _ driver.Driver = (*Driver)(nil)

// messageRules classify the Message of a vmrest error document
var messageRules = vmerr.Rules{
	{Match: "Authentication failed", Kind: vmerr.AuthenticationFailure},
	{Match: "cannot be found", Kind: vmerr.NotFound},
	{Match: "not found", Kind: vmerr.NotFound},
	{Match: "Unable to get the IP address", Kind: vmerr.NotFound},
}

// Options configure a Driver
type Options struct {
	URL      string
	Username string
	Password string
	Insecure bool
	Timeout  time.Duration
	Logger   *log.Logger
}

// Driver talks to one vmrest endpoint
type Driver struct {
	client *rest.Client
	creds  rest.Credentials
}

// New returns a Driver for opts. An empty URL means DefaultURL.
func New(opts Options) *Driver {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	return &Driver{
		client: rest.New(rest.Options{
			BaseURL:   opts.URL,
			MediaType: MediaType,
			Timeout:   opts.Timeout,
			Insecure:  opts.Insecure,
			Logger:    opts.Logger,
		}),
		creds: rest.Credentials{Username: opts.Username, Password: opts.Password},
	}
}

// Backend returns types.BackendVmRest
func (d *Driver) Backend() types.Backend {
	return types.BackendVmRest
}

// Version is not exposed by vmrest
func (d *Driver) Version(ctx context.Context) (string, error) {
	return "", vmerr.Unsupported(backend, "version")
}

func vmPath(id types.VMID, parts ...string) string {
	p := "/vms/" + url.PathEscape(string(id))
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// do sends a request and decodes a successful response into out when out
// is not nil
func (d *Driver) do(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := d.client.Do(ctx, method, path, body, d.creds)
	if err != nil {
		return err
	}
	if !resp.Success() {
		return Classify(resp.StatusCode, resp.Body)
	}
	if out == nil {
		return nil
	}
	return decode(resp.Body, out)
}

// Classify turns a failed response into an error. 401 is always an
// authentication failure; the router's plain-text 404 means the endpoint
// does not exist.
func Classify(status int, body []byte) *vmerr.Error {
	text := strings.TrimSpace(string(body))
	if status == http.StatusUnauthorized {
		return vmerr.New(vmerr.AuthenticationFailure, message(text, status))
	}
	if status == http.StatusNotFound && text == routerNotFound {
		return vmerr.New(vmerr.UnsupportedOperation, "endpoint not provided by this vmrest")
	}

	var doc errorDoc
	if err := json.Unmarshal(body, &doc); err == nil && doc.Message != "" {
		fallback := vmerr.FromStatus(status)
		if status == http.StatusNotFound {
			fallback = vmerr.NotFound
		}
		return vmerr.New(messageRules.Classify(doc.Message, fallback), fmt.Sprintf("%s (code %d, HTTP %d)", doc.Message, doc.Code, status))
	}
	return vmerr.New(vmerr.BackendError, message(text, status))
}

func message(text string, status int) string {
	var doc errorDoc
	if err := json.Unmarshal([]byte(text), &doc); err == nil && doc.Message != "" {
		return fmt.Sprintf("%s (HTTP %d)", doc.Message, status)
	}
	if text == "" {
		return fmt.Sprintf("HTTP %d %s", status, http.StatusText(status))
	}
	return fmt.Sprintf("HTTP %d: %s", status, text)
}
