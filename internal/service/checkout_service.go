package service

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/devsphere/enrollment-api/internal/config"
	"github.com/devsphere/enrollment-api/internal/model"
)

// CheckoutService builds the configuration object the payment gateway SDK
// consumes on the client. It performs no network I/O.
type CheckoutService struct {
	cfg config.GatewayConfig
}

// NewCheckoutService creates a new CheckoutService with the given gateway
// configuration.
func NewCheckoutService(cfg config.GatewayConfig) *CheckoutService {
	return &CheckoutService{cfg: cfg}
}

// BuildOptions computes the final charge for an enrollment and assembles the
// gateway options. baseAmount is the (already discounted) program price in
// whole rupees; the platform fee is added on top and the gateway amount is
// converted to paise.
// Returns ErrGatewayNotConfigured if the publishable key is absent.
func (s *CheckoutService) BuildOptions(form *model.EnrollmentForm, baseAmount int, programTitle string) (*model.GatewayOptions, error) {
	if form == nil || baseAmount <= 0 {
		return nil, ErrInvalidRequest
	}
	if s.cfg.KeyID == "" {
		return nil, ErrGatewayNotConfigured
	}

	fee := int(math.Round(float64(baseAmount) * float64(s.cfg.PlatformFeePercent) / 100))
	total := baseAmount + fee

	return &model.GatewayOptions{
		Key:         s.cfg.KeyID,
		Amount:      total * 100, // paise
		Currency:    "INR",
		Name:        s.cfg.BusinessName,
		Description: programTitle + " Enrollment",
		Receipt:     "rcpt_" + uuid.NewString(),
		Prefill: model.Prefill{
			Name:    form.Name,
			Email:   form.Email,
			Contact: form.Phone,
		},
		// Notes show up on the provider dashboard; the amount breakdown is
		// kept as display strings for the finance team.
		Notes: map[string]string{
			"address":     form.Address,
			"baseAmount":  fmt.Sprintf("₹%d", baseAmount),
			"platformFee": fmt.Sprintf("₹%d", fee),
			"totalAmount": fmt.Sprintf("₹%d", total),
		},
	}, nil
}
