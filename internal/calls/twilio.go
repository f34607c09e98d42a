package calls

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	twapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/vikasavnish/flowguide/internal/config"
)

const defaultBaseURL = "https://api.twilio.com"

var (
	ErrMissingDestination = errors.New("Missing `to` phone number")
	ErrMissingCredentials = errors.New("Twilio credentials (TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_FROM) are required in environment")
)

// ProviderError is a call the Twilio API refused or could not complete.
type ProviderError struct {
	Status  int
	Details string
}

func (e *ProviderError) Error() string {
	if e.Status == 0 {
		return "twilio request failed: " + e.Details
	}
	return fmt.Sprintf("twilio returned %d: %s", e.Status, e.Details)
}

// Call is the part of the Twilio call resource we report back.
type Call struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	To     string `json:"to"`
}

// Client places outbound voice calls with the Twilio SDK.
type Client struct {
	cfg  config.TwilioConfig
	rest *twilio.RestClient
}

// NewClient builds the SDK client. A BaseURL other than the public API
// host redirects every request there, which is how tests and local mocks
// are reached.
func NewClient(cfg config.TwilioConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL != "" && cfg.BaseURL != defaultBaseURL {
		if base, err := url.Parse(cfg.BaseURL); err == nil && base.Host != "" {
			redirected := *httpClient
			redirected.Transport = &rewriteHost{base: base, next: httpClient.Transport}
			httpClient = &redirected
		}
	}

	c := &twclient.Client{
		Credentials: twclient.NewCredentials(cfg.AccountSID, cfg.AuthToken),
		HTTPClient:  httpClient,
	}
	c.SetAccountSid(cfg.AccountSID)

	return &Client{
		cfg:  cfg,
		rest: twilio.NewRestClientWithParams(twilio.ClientParams{Client: c}),
	}
}

// Configured reports whether all three credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.AccountSID != "" && c.cfg.AuthToken != "" && c.cfg.From != ""
}

// Create dials to and plays the configured TwiML.
func (c *Client) Create(ctx context.Context, to string) (*Call, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return nil, ErrMissingDestination
	}
	if !c.Configured() {
		return nil, ErrMissingCredentials
	}
	if err := ctx.Err(); err != nil {
		return nil, &ProviderError{Details: err.Error()}
	}

	params := &twapi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(c.cfg.From)
	params.SetUrl(c.cfg.TwimlURL)

	resp, err := c.rest.Api.CreateCall(params)
	if err != nil {
		var restErr *twclient.TwilioRestError
		if errors.As(err, &restErr) {
			return nil, &ProviderError{Status: restErr.Status, Details: restErr.Message}
		}
		return nil, &ProviderError{Details: err.Error()}
	}

	// The SDK resource uses pointer fields; round-trip through its JSON form.
	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, &ProviderError{Details: fmt.Sprintf("encode: %v", err)}
	}
	var call Call
	if err := json.Unmarshal(raw, &call); err != nil {
		return nil, &ProviderError{Details: fmt.Sprintf("decode: %v", err)}
	}
	zap.L().Info("Outbound call created", zap.String("sid", call.SID), zap.String("status", call.Status))
	return &call, nil
}

// rewriteHost sends requests to base instead of the host the SDK chose.
type rewriteHost struct {
	base *url.URL
	next http.RoundTripper
}

func (t *rewriteHost) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = t.base.Scheme
	out.URL.Host = t.base.Host
	out.Host = t.base.Host
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}
	return next.RoundTrip(out)
}
