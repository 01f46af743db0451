package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/devsphere/enrollment-api/internal/model"
	"github.com/devsphere/enrollment-api/internal/service"
)

// PaymentServiceInterface defines the interface for payment business logic.
type PaymentServiceInterface interface {
	HandleGatewayResult(ctx context.Context, res *model.GatewayResult) (*model.CaptureOutcome, error)
	VerifyPayment(ctx context.Context, req *model.VerifyPaymentRequest) (bool, string, error)
}

// PaymentHandler handles HTTP requests for payment capture and verification.
type PaymentHandler struct {
	service   PaymentServiceInterface
	validator *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler with the given service and validator.
func NewPaymentHandler(svc PaymentServiceInterface, v *validator.Validate) *PaymentHandler {
	return &PaymentHandler{service: svc, validator: v}
}

// Capture handles POST /api/payments/capture: the gateway widget's terminal
// outcome reported by the SPA. Success persists a payment record and triggers
// the confirmation email; dismissal and failure persist nothing.
func (h *PaymentHandler) Capture(c *fiber.Ctx) error {
	var req model.CaptureRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	res := &model.GatewayResult{
		Event:        model.GatewayEvent(req.Event),
		PaymentID:    req.PaymentID,
		OrderID:      req.OrderID,
		Signature:    req.Signature,
		ProgramTitle: req.ProgramTitle,
		Amount:       req.Amount,
		UserName:     req.UserName,
		UserEmail:    req.UserEmail,
		UserPhone:    req.UserPhone,
	}

	outcome, err := h.service.HandleGatewayResult(c.Context(), res)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("payment_id", req.PaymentID).
			Msg("failed to handle gateway result")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("event", req.Event).
		Str("payment_id", req.PaymentID).
		Str("status", outcome.Status).
		Msg("gateway result handled")

	return c.JSON(outcome)
}

// Verify handles POST /functions/v1/verify-dodo-payment.
//
// Response contract (kept compatible with the deployed edge function):
//   - 200 {"success":true,"verified":bool,"message":string}
//   - 400 {"error":"..."} for malformed input
//   - 500 {"error","details","verified":false}
func (h *PaymentHandler) Verify(c *fiber.Ctx) error {
	var req model.VerifyPaymentRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	verified, message, err := h.service.VerifyPayment(c.Context(), &req)
	if err != nil {
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("payment_id", req.PaymentID).
			Msg("payment verification errored")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    "payment verification failed",
			"details":  err.Error(),
			"verified": false,
		})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("payment_id", req.PaymentID).
		Bool("verified", verified).
		Msg("payment verification completed")

	return c.JSON(model.VerifyPaymentResponse{
		Success:  true,
		Verified: verified,
		Message:  message,
	})
}
