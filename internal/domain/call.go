package domain

// Domain contains core models shared by the callback listener and sinks.

// Call statuses reported by the Call2FA API on the callback URL.
const (
	CallStatusAnswered = "answered"
	CallStatusNoAnswer = "no-answer"
	CallStatusBusy     = "busy"
	CallStatusFailed   = "failed"
)

// CallStatus is the payload the API posts to the callback URL after a
// verification call finishes.
type CallStatus struct {
	CallID      string `json:"call_id"`
	PhoneNumber string `json:"phone_number"`
	Status      string `json:"status"`
	DurationSec int    `json:"duration_sec"`
}
