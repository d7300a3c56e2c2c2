package call2fa

import "encoding/json"

// authRequest is the body of the authentication request.
type authRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// authResponse carries the JWT issued for the credentials.
type authResponse struct {
	JWT string `json:"jwt"`
}

// callRequest is the body of a plain call request. The callback URL is
// omitted when empty, matching the API contract.
type callRequest struct {
	PhoneNumber string `json:"phone_number"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// poolCallRequest is the body of a last-digits pool call request.
type poolCallRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// codeCallRequest is the body of a call-with-code request.
type codeCallRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
	Lang        string `json:"lang"`
}

// CallResult is the outcome of a successfully placed call.
type CallResult struct {
	CallID string `json:"call_id"`

	// Raw is the unmodified response body for callers needing fields
	// beyond the identifier.
	Raw json.RawMessage `json:"-"`
}

// CallInfo describes the state of a previously placed call.
type CallInfo struct {
	CallID      string `json:"call_id"`
	PhoneNumber string `json:"phone_number"`
	Status      string `json:"status"`

	Raw json.RawMessage `json:"-"`
}
