package sinks

import (
	"time"

	"github.com/rikkicom/call2fa-go/internal/domain"
)

// Event is the payload delivered to sinks for every accepted callback.
type Event struct {
	ReceiptID  string            `json:"receipt_id"`
	Call       domain.CallStatus `json:"call"`
	ReceivedAt time.Time         `json:"received_at"`
}

// NewEvent constructs an Event for the given callback payload.
func NewEvent(receiptID string, call domain.CallStatus) Event {
	return Event{
		ReceiptID:  receiptID,
		Call:       call,
		ReceivedAt: time.Now().UTC(),
	}
}
