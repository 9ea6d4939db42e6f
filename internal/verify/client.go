package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultVerifyBaseURL = "https://api.nexmo.com"
	defaultSMSBaseURL    = "https://rest.nexmo.com"
)

// successStatus is the provider's success sentinel: the JSON string "0".
// The comparison is byte-exact on the raw token so a numeric 0 (or any other
// status) counts as failure.
var successStatus = []byte(`"0"`)

// Config holds the provider credentials and fixed call parameters. Workflow
// selects the delivery channel for verification starts and is deliberately not
// a per-call parameter: the product always wants SMS delivery, never voice.
type Config struct {
	APIKey        string
	APISecret     string
	Brand         string
	Workflow      string
	VerifyBaseURL string
	SMSBaseURL    string
	HTTPClient    *http.Client
}

// Client implements Gateway against the provider's HTTP API.
type Client struct {
	apiKey        string
	apiSecret     string
	brand         string
	workflow      string
	verifyBaseURL string
	smsBaseURL    string
	httpClient    *http.Client
}

// NewClient creates a provider client. Base URLs and the HTTP client default
// when unset; credentials are validated by config loading, not here.
func NewClient(cfg Config) *Client {
	c := &Client{
		apiKey:        cfg.APIKey,
		apiSecret:     cfg.APISecret,
		brand:         cfg.Brand,
		workflow:      cfg.Workflow,
		verifyBaseURL: cfg.VerifyBaseURL,
		smsBaseURL:    cfg.SMSBaseURL,
		httpClient:    cfg.HTTPClient,
	}
	if c.verifyBaseURL == "" {
		c.verifyBaseURL = defaultVerifyBaseURL
	}
	if c.smsBaseURL == "" {
		c.smsBaseURL = defaultSMSBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	return c
}

// verifyResponse is the provider's reply to verify start/check/control calls.
// Status stays raw so the sentinel check can distinguish "0" from 0.
type verifyResponse struct {
	Status    json.RawMessage `json:"status"`
	RequestID string          `json:"request_id"`
	ErrorText string          `json:"error_text"`
}

// smsResponse is the provider's reply to an SMS send. Per-message status uses
// the same string sentinel as the verify endpoints.
type smsResponse struct {
	Messages []struct {
		Status    json.RawMessage `json:"status"`
		MessageID string          `json:"message_id"`
		ErrorText string          `json:"error_text"`
	} `json:"messages"`
}

// Start begins a verification for a bare-digit number. The configured
// workflow pins delivery to SMS.
func (c *Client) Start(ctx context.Context, number string) Result {
	params := c.authParams()
	params.Set("number", number)
	params.Set("brand", c.brand)
	params.Set("workflow_id", c.workflow)

	var resp verifyResponse
	raw, err := c.getJSON(ctx, c.verifyBaseURL+"/verify/json", params, &resp)
	if err != nil {
		return transportFailure(err)
	}
	if !statusOK(resp.Status) {
		return rejection(resp.Status, resp.ErrorText, raw)
	}
	return Result{Success: true, RequestID: resp.RequestID, Raw: raw}
}

// Check validates a code against an open verification.
func (c *Client) Check(ctx context.Context, requestID, code string) Result {
	params := c.authParams()
	params.Set("request_id", requestID)
	params.Set("code", code)

	var resp verifyResponse
	raw, err := c.getJSON(ctx, c.verifyBaseURL+"/verify/check/json", params, &resp)
	if err != nil {
		return transportFailure(err)
	}
	if !statusOK(resp.Status) {
		return rejection(resp.Status, resp.ErrorText, raw)
	}
	return Result{Success: true, Raw: raw}
}

// Cancel aborts an open verification.
func (c *Client) Cancel(ctx context.Context, requestID string) Result {
	params := c.authParams()
	params.Set("request_id", requestID)
	params.Set("cmd", "cancel")

	var resp verifyResponse
	raw, err := c.getJSON(ctx, c.verifyBaseURL+"/verify/control/json", params, &resp)
	if err != nil {
		return transportFailure(err)
	}
	if !statusOK(resp.Status) {
		return rejection(resp.Status, resp.ErrorText, raw)
	}
	return Result{Success: true, Raw: raw}
}

// SendSMS delivers a text message. The provider reports per-recipient results
// in a messages array; a single recipient means the first entry decides.
func (c *Client) SendSMS(ctx context.Context, to, text string) Result {
	form := c.authParams()
	form.Set("from", c.brand)
	form.Set("to", to)
	form.Set("text", text)

	var resp smsResponse
	raw, err := c.postForm(ctx, c.smsBaseURL+"/sms/json", form, &resp)
	if err != nil {
		return transportFailure(err)
	}
	if len(resp.Messages) == 0 {
		return Result{Error: "provider returned no message status", Raw: raw}
	}
	msg := resp.Messages[0]
	if !statusOK(msg.Status) {
		return rejection(msg.Status, msg.ErrorText, raw)
	}
	return Result{Success: true, MessageID: msg.MessageID, Raw: raw}
}

func (c *Client) authParams() url.Values {
	return url.Values{
		"api_key":    {c.apiKey},
		"api_secret": {c.apiSecret},
	}
}

// getJSON performs a GET with query-string auth and decodes the JSON body.
// The raw body is returned alongside so results can retain it.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	return c.do(req, out)
}

// postForm performs a form-encoded POST (the SMS endpoint's wire format) and
// decodes the JSON body.
func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, out any) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	return body, nil
}

// statusOK reports whether the provider's status field is exactly the JSON
// string "0". Anything else, including the number 0, is a failure.
func statusOK(status json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(status), successStatus)
}

// rejection builds a failure Result from a provider reply that carried a
// non-success status.
func rejection(status json.RawMessage, errorText string, raw json.RawMessage) Result {
	msg := errorText
	if msg == "" {
		msg = fmt.Sprintf("provider rejected request (status %s)", statusText(status))
	}
	return Result{Error: msg, Raw: raw}
}

// transportFailure builds a failure Result from a failed upstream call
// (network error, non-JSON body).
func transportFailure(err error) Result {
	return Result{Error: err.Error()}
}

// statusText renders the raw status token for error messages.
func statusText(status json.RawMessage) string {
	s := strings.Trim(string(bytes.TrimSpace(status)), `"`)
	if s == "" {
		return "unknown"
	}
	return s
}
