package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/devsphere/enrollment-api/internal/model"
	"github.com/devsphere/enrollment-api/internal/referral"
	"github.com/devsphere/enrollment-api/internal/service"
)

// CheckoutServiceInterface defines the interface for gateway option building.
type CheckoutServiceInterface interface {
	BuildOptions(form *model.EnrollmentForm, baseAmount int, programTitle string) (*model.GatewayOptions, error)
}

// EnrollmentHandler handles referral validation and checkout option requests.
type EnrollmentHandler struct {
	checkout  CheckoutServiceInterface
	validator *validator.Validate
}

// NewEnrollmentHandler creates a new EnrollmentHandler with the given service and validator.
func NewEnrollmentHandler(checkout CheckoutServiceInterface, v *validator.Validate) *EnrollmentHandler {
	return &EnrollmentHandler{checkout: checkout, validator: v}
}

// ValidateReferral handles POST /api/referrals/validate. The lookup is pure
// and always answers 200; unknown codes are a valid "no discount" result, not
// an error.
func (h *EnrollmentHandler) ValidateReferral(c *fiber.Ctx) error {
	var req model.ValidateReferralRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	return c.JSON(referral.Validate(req.Code))
}

// CheckoutOptions handles POST /api/checkout/options: validates the
// enrollment form, applies an optional referral code once, and builds the
// gateway options for the final amount.
func (h *EnrollmentHandler) CheckoutOptions(c *fiber.Ctx) error {
	var req model.CheckoutOptionsRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	var session referral.Session
	amount := session.Apply(req.BaseAmount, req.ReferralCode)

	options, err := h.checkout.BuildOptions(&req.EnrollmentForm, amount, req.ProgramTitle)
	if err != nil {
		if errors.Is(err, service.ErrGatewayNotConfigured) {
			log.Error().
				Str("request_id", c.GetRespHeader("X-Request-ID")).
				Msg("checkout requested but gateway key is not configured")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "payment gateway is not configured",
			})
		}
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("program_title", req.ProgramTitle).Msg("failed to build checkout options")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("program_title", req.ProgramTitle).
		Int("base_amount", req.BaseAmount).
		Int("charged_amount", amount).
		Bool("referral_applied", session.Applied()).
		Msg("checkout options built")

	return c.JSON(model.CheckoutOptionsResponse{
		Options:            options,
		ReferralApplied:    session.Applied(),
		DiscountPercentage: session.DiscountPercentage(),
	})
}
