package call2fa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rikkicom/call2fa-go/pkg/httpclient"
)

const (
	// DefaultBaseURI is the production endpoint of the Call2FA API.
	DefaultBaseURI = "https://api-call2fa.rikkicom.io"

	// DefaultVersion is the API version used unless overridden.
	DefaultVersion = "v1"

	defaultTimeout = 15 * time.Second
)

// Client talks to the Call2FA API. It is safe for concurrent use as long as
// SetVersion is not called after construction.
type Client struct {
	http    httpclient.Client
	baseURI string
	version string
	jwt     string
	log     Logger
}

// Option customizes client construction.
type Option func(*Client)

// WithBaseURI overrides the API endpoint, e.g. for a test server.
func WithBaseURI(uri string) Option {
	return func(c *Client) { c.baseURI = strings.TrimRight(uri, "/") }
}

// WithVersion selects a non-default API version.
func WithVersion(version string) Option {
	return func(c *Client) { c.version = version }
}

// WithHTTPClient injects a custom transport.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the request timeout of the default transport. Ignored when
// a custom transport is injected.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if _, ok := c.http.(*httpclient.RestyClient); ok || c.http == nil {
			c.http = httpclient.NewRestyClient(timeout)
		}
	}
}

// WithLogger attaches a logger for debug request/response logging.
func WithLogger(log Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient validates the credentials, authenticates against the API and
// returns a client holding the issued JWT. A single auth request is made;
// failures are returned as-is with no retry.
func NewClient(ctx context.Context, login, password string, opts ...Option) (*Client, error) {
	if login == "" {
		return nil, ErrEmptyLogin
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	c := &Client{
		baseURI: DefaultBaseURI,
		version: DefaultVersion,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(defaultTimeout)
	}
	c.log = ensureLogger(c.log)

	if err := c.authenticate(ctx, login, password); err != nil {
		return nil, err
	}
	return c, nil
}

// authenticate exchanges the credentials for a JWT.
func (c *Client) authenticate(ctx context.Context, login, password string) error {
	uri := c.fullURI("auth")

	resp, err := c.http.Post(ctx, uri, authRequest{Login: login, Password: password}, nil)
	if err != nil {
		return fmt.Errorf("auth request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return newAPIError(resp.StatusCode(), resp.Body())
	}

	var auth authResponse
	if err := json.Unmarshal(resp.Body(), &auth); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}
	if auth.JWT == "" {
		return ErrJWTNotFound
	}

	c.jwt = auth.JWT
	c.log.DebugObj("authenticated against call2fa api", "auth_meta", map[string]any{
		"base_uri": c.baseURI,
		"version":  c.version,
	})
	return nil
}

// Call places a verification call to the given phone number. The callback URL
// may be empty; when set, the API posts call status updates to it.
func (c *Client) Call(ctx context.Context, phoneNumber, callbackURL string) (*CallResult, error) {
	if err := ValidatePhoneNumber(phoneNumber); err != nil {
		return nil, err
	}

	body, err := c.post(ctx, "call", callRequest{PhoneNumber: phoneNumber, CallbackURL: callbackURL})
	if err != nil {
		return nil, err
	}
	return decodeCallResult(body)
}

// CallViaLastDigits places a call from a number pool; the last digits of the
// calling number act as the verification code. With useSixDigits the API
// picks a number whose six last digits form the code.
func (c *Client) CallViaLastDigits(ctx context.Context, phoneNumber, poolID string, useSixDigits bool) (*CallResult, error) {
	if err := ValidatePhoneNumber(phoneNumber); err != nil {
		return nil, err
	}
	if poolID == "" {
		return nil, ErrEmptyPoolID
	}

	method := fmt.Sprintf("pool/%s/call", poolID)
	if useSixDigits {
		method += "/six-digits"
	}

	body, err := c.post(ctx, method, poolCallRequest{PhoneNumber: phoneNumber})
	if err != nil {
		return nil, err
	}
	return decodeCallResult(body)
}

// CallWithCode places a call that speaks the given verification code in the
// requested language.
func (c *Client) CallWithCode(ctx context.Context, phoneNumber, code, lang string) (*CallResult, error) {
	if err := ValidatePhoneNumber(phoneNumber); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, ErrEmptyCode
	}
	if lang == "" {
		return nil, ErrEmptyLang
	}

	body, err := c.post(ctx, "code/call", codeCallRequest{PhoneNumber: phoneNumber, Code: code, Lang: lang})
	if err != nil {
		return nil, err
	}
	return decodeCallResult(body)
}

// Info fetches the state of a call by its identifier.
func (c *Client) Info(ctx context.Context, id string) (*CallInfo, error) {
	if id == "" {
		return nil, ErrEmptyCallID
	}

	uri := c.fullURI("call/" + id)
	c.log.DebugObj("call2fa request", "request_meta", map[string]any{"method": "GET", "uri": uri})

	resp, err := c.http.Get(ctx, uri, c.authHeaders())
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", uri, err)
	}
	c.logResponse(uri, resp)
	if resp.StatusCode() != http.StatusOK {
		return nil, newAPIError(resp.StatusCode(), resp.Body())
	}

	var info CallInfo
	if err := json.Unmarshal(resp.Body(), &info); err != nil {
		return nil, fmt.Errorf("decode call info: %w", err)
	}
	info.Raw = append(info.Raw[:0], resp.Body()...)
	return &info, nil
}

// Version returns the API version the client is using.
func (c *Client) Version() string { return c.version }

// SetVersion switches the client to a different API version.
func (c *Client) SetVersion(version string) { c.version = version }

// post sends an authenticated JSON POST to the given API method and returns
// the body on the expected 201 status.
func (c *Client) post(ctx context.Context, method string, body any) ([]byte, error) {
	uri := c.fullURI(method)
	c.log.DebugObj("call2fa request", "request_meta", map[string]any{"method": "POST", "uri": uri})

	resp, err := c.http.Post(ctx, uri, body, c.authHeaders())
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", uri, err)
	}
	c.logResponse(uri, resp)
	if resp.StatusCode() != http.StatusCreated {
		return nil, newAPIError(resp.StatusCode(), resp.Body())
	}
	return resp.Body(), nil
}

func (c *Client) authHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.jwt}
}

// fullURI builds the full URI to the given API method, with trailing slash as
// the API requires.
func (c *Client) fullURI(method string) string {
	return fmt.Sprintf("%s/%s/%s/", c.baseURI, c.version, method)
}

func (c *Client) logResponse(uri string, resp httpclient.Response) {
	c.log.DebugObj("call2fa response", "response_meta", map[string]any{
		"uri":    uri,
		"status": resp.StatusCode(),
		"bytes":  len(resp.Body()),
	})
}

func decodeCallResult(body []byte) (*CallResult, error) {
	var result CallResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode call response: %w", err)
	}
	result.Raw = append(result.Raw[:0], body...)
	return &result, nil
}
