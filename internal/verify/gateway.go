// Package verify wraps the third-party phone-verification provider behind a
// small capability interface. Every provider outcome, including transport
// failures, is folded into a Result value at this boundary; callers never see
// a raw provider payload or an unformatted error.
package verify

import (
	"context"
	"encoding/json"
)

// Result is the uniform outcome of a single provider call. Exactly one of the
// optional fields is populated depending on the operation; Raw retains the
// provider's unmodified response body for diagnostics and is never sent to
// clients.
type Result struct {
	Success   bool            `json:"success"`
	RequestID string          `json:"request_id,omitempty"`
	MessageID string          `json:"message_id,omitempty"`
	Error     string          `json:"error,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// Gateway defines the four provider operations. Implementations must not
// retain request identifiers or codes between calls; the provider owns the
// verification session.
type Gateway interface {
	// Start begins a verification for a bare-digit phone number and returns
	// the provider's request ID on success.
	Start(ctx context.Context, number string) Result
	// Check validates a code the user received against an open verification.
	Check(ctx context.Context, requestID, code string) Result
	// Cancel aborts an open verification.
	Cancel(ctx context.Context, requestID string) Result
	// SendSMS delivers a plain text message to a bare-digit phone number and
	// returns the provider's message ID on success.
	SendSMS(ctx context.Context, to, text string) Result
}
