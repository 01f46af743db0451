package model

// EnrollmentForm is the transient enrollment submission. It is validated and
// folded into gateway options and, eventually, a PaymentRecord; it is never
// persisted on its own.
type EnrollmentForm struct {
	Name         string `json:"name" validate:"required,notblank,max=255"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Phone        string `json:"phone" validate:"required,min=10,max=32"`
	Address      string `json:"address" validate:"required,notblank,max=512"`
	ReferralCode string `json:"referral_code" validate:"max=64"`
}

// CheckoutOptionsRequest is the DTO for POST /api/checkout/options.
type CheckoutOptionsRequest struct {
	EnrollmentForm
	BaseAmount   int    `json:"base_amount" validate:"required,gte=1"`
	ProgramTitle string `json:"program_title" validate:"required,notblank,max=255"`
}

// Prefill carries the enrollee details shown pre-filled in the gateway widget.
type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// GatewayOptions is the configuration object consumed by the payment gateway
// SDK on the client. Amount is in the gateway's smallest unit (paise).
type GatewayOptions struct {
	Key         string            `json:"key"`
	Amount      int               `json:"amount"`
	Currency    string            `json:"currency"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Receipt     string            `json:"receipt"`
	Prefill     Prefill           `json:"prefill"`
	Notes       map[string]string `json:"notes"`
}

// CheckoutOptionsResponse wraps the gateway options with the referral outcome
// so the UI can show the applied discount.
type CheckoutOptionsResponse struct {
	Options            *GatewayOptions `json:"options"`
	ReferralApplied    bool            `json:"referral_applied"`
	DiscountPercentage float64         `json:"discount_percentage"`
}

// ValidateReferralRequest is the DTO for POST /api/referrals/validate.
type ValidateReferralRequest struct {
	Code string `json:"code"`
}
