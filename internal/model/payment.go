package model

import "time"

// Payment statuses. New records start as "recorded" (set by the database
// default); the verifier promotes them to "verified".
const (
	PaymentStatusRecorded = "recorded"
	PaymentStatusVerified = "verified"
	PaymentStatusFailed   = "failed"
)

// GatewayEvent identifies the terminal outcome reported by the payment
// gateway's checkout widget.
type GatewayEvent string

const (
	GatewayEventSuccess   GatewayEvent = "success"
	GatewayEventDismissed GatewayEvent = "dismissed"
	GatewayEventFailed    GatewayEvent = "failed"
)

// PaymentRecord represents a row in the payments table. PaymentID is the
// provider-assigned identifier and the natural key; Amount is the post-fee,
// post-discount total in whole rupees.
type PaymentRecord struct {
	PaymentID    string    `json:"payment_id"`
	OrderID      string    `json:"order_id"`
	Signature    string    `json:"signature"`
	ProgramTitle string    `json:"program_title"`
	Amount       int       `json:"amount"`
	UserName     string    `json:"user_name"`
	UserEmail    string    `json:"user_email"`
	UserPhone    string    `json:"user_phone"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"-"` // Not exposed in API
}

// CaptureRequest is the DTO for POST /api/payments/capture. Identifiers and
// enrollee details are only meaningful for the success event.
type CaptureRequest struct {
	Event        string `json:"event" validate:"required,oneof=success dismissed failed"`
	PaymentID    string `json:"payment_id" validate:"required_if=Event success,max=255"`
	OrderID      string `json:"order_id" validate:"required_if=Event success,max=255"`
	Signature    string `json:"signature" validate:"max=512"`
	ProgramTitle string `json:"program_title" validate:"required_if=Event success,max=255"`
	Amount       int    `json:"amount" validate:"gte=0"`
	UserName     string `json:"user_name" validate:"required_if=Event success,max=255"`
	UserEmail    string `json:"user_email" validate:"required_if=Event success,omitempty,email"`
	UserPhone    string `json:"user_phone" validate:"max=32"`
}

// GatewayResult is the tagged outcome the capture handler passes to the
// payment service. Success carries the full record fields; dismissal and
// failure carry nothing worth persisting.
type GatewayResult struct {
	Event        GatewayEvent
	PaymentID    string
	OrderID      string
	Signature    string
	ProgramTitle string
	Amount       int
	UserName     string
	UserEmail    string
	UserPhone    string
}

// Capture outcome statuses reported back to the UI.
const (
	CaptureStatusSuccess   = "success"
	CaptureStatusCancelled = "cancelled"
	CaptureStatusFailed    = "failed"
)

// CaptureOutcome is the result of handling a gateway callback. Warnings carry
// the soft failures (persistence, email) that must not fail the enrollment.
type CaptureOutcome struct {
	Status   string   `json:"status"`
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
}

// VerifyPaymentRequest is the DTO for POST /functions/v1/verify-dodo-payment.
type VerifyPaymentRequest struct {
	PaymentID string `json:"paymentId" validate:"required,notblank,max=255"`
	OrderID   string `json:"orderId" validate:"required,notblank,max=255"`
	Signature string `json:"signature" validate:"required,notblank,max=512"`
	Amount    int    `json:"amount" validate:"required,gte=1"`
}

// VerifyPaymentResponse mirrors the original edge-function contract.
type VerifyPaymentResponse struct {
	Success  bool   `json:"success"`
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}
