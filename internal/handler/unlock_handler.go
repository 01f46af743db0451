package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/devsphere/enrollment-api/internal/model"
	"github.com/devsphere/enrollment-api/internal/service"
)

// UnlockServiceInterface defines the interface for unlock-code business logic.
type UnlockServiceInterface interface {
	Verify(ctx context.Context, code string) (*model.UnlockGrant, error)
}

// UnlockHandler handles HTTP requests for unlock-code verification.
type UnlockHandler struct {
	service UnlockServiceInterface
}

// NewUnlockHandler creates a new UnlockHandler with the given service.
func NewUnlockHandler(svc UnlockServiceInterface) *UnlockHandler {
	return &UnlockHandler{service: svc}
}

// VerifyUnlockCode handles POST /functions/v1/verify-unlock-code.
//
// Response contract (kept byte-compatible with the deployed edge function):
//   - 200 {"success":true,"projectAccess":...,"message":"Access granted"}
//   - 400 {"success":false,"error":"Invalid unlock code format"}
//   - 403 {"success":false,"error":"Invalid or expired unlock code"}
//   - 403 {"success":false,"error":"Unlock code has expired"}
//   - 500 {"success":false,"error":"Internal server error"}
func (h *UnlockHandler) VerifyUnlockCode(c *fiber.Ctx) error {
	var req model.VerifyUnlockCodeRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid unlock code format",
		})
	}

	// Blank input is rejected without a lookup; beyond that the code is
	// matched exactly as stored.
	if strings.TrimSpace(req.Code) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid unlock code format",
		})
	}

	grant, err := h.service.Verify(c.Context(), req.Code)
	if err != nil {
		if errors.Is(err, service.ErrUnlockCodeInvalid) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid or expired unlock code",
			})
		}
		if errors.Is(err, service.ErrUnlockCodeExpired) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Unlock code has expired",
			})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("failed to verify unlock code")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Internal server error",
		})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("path", c.Path()).
		Msg("unlock code verified")

	return c.JSON(fiber.Map{
		"success":       true,
		"projectAccess": grant.ProjectAccess,
		"message":       "Access granted",
	})
}
