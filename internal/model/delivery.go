package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/kurotych/fluckybackup/pkg/utils"
)

// MaxStoredBodyBytes bounds the response body kept in a Delivery.
const MaxStoredBodyBytes = 512

// Delivery records the outcome of one webhook POST.
type Delivery struct {
	// ID is the unique identifier for this record.
	ID string `json:"id" yaml:"id"`
	// RequestID ties the record to the dispatched request.
	RequestID string `json:"request_id" yaml:"request_id"`
	// Target is the redacted webhook URL (scheme and host only).
	Target string `json:"target" yaml:"target"`
	// Message is the text that was posted.
	Message string `json:"message" yaml:"message"`
	// Kind is the outcome classification.
	Kind OutcomeKind `json:"kind" yaml:"kind"`
	// StatusCode is the HTTP status, zero when no response arrived.
	StatusCode int `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	// Body is the (truncated) response body.
	Body string `json:"body,omitempty" yaml:"body,omitempty"`
	// Error describes a transport failure.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	// SubmittedAt is the Unix timestamp when the request was submitted.
	SubmittedAt int64 `json:"submitted_at" yaml:"submitted_at"`
	// CompletedAt is the Unix timestamp when the outcome arrived.
	CompletedAt int64 `json:"completed_at" yaml:"completed_at"`
}

// NewDelivery creates a record with a generated UUID.
func NewDelivery(requestID, target, message string, kind OutcomeKind) *Delivery {
	now := time.Now().Unix()
	return &Delivery{
		ID:          uuid.New().String(),
		RequestID:   requestID,
		Target:      target,
		Message:     message,
		Kind:        kind,
		SubmittedAt: now,
		CompletedAt: now,
	}
}

// SetBody stores body, truncated to MaxStoredBodyBytes.
func (d *Delivery) SetBody(body []byte) {
	if cut, ok := utils.TruncateBytes(string(body), MaxStoredBodyBytes); ok {
		d.Body = cut + "..."
		return
	}
	d.Body = string(body)
}

// Succeeded reports whether the delivery was accepted by the endpoint.
func (d *Delivery) Succeeded() bool {
	return d.Kind == OutcomeSent
}
