package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/devsphere/enrollment-api/internal/gateway"
	"github.com/devsphere/enrollment-api/internal/model"
)

// PaymentRepositoryInterface defines the interface for payment data access.
type PaymentRepositoryInterface interface {
	Insert(ctx context.Context, rec *model.PaymentRecord) error
	GetByID(ctx context.Context, paymentID string) (*model.PaymentRecord, error)
	SetStatus(ctx context.Context, paymentID, status string) error
}

// Notifier sends the enrollment confirmation after a successful payment.
type Notifier interface {
	SendEnrollmentConfirmation(ctx context.Context, email, name, programTitle string) error
}

// Warnings surfaced to the UI when a soft failure occurs after the gateway
// already collected the money.
const (
	warnDetailsDelayed = "payment succeeded but details may be delayed; our team will reconcile shortly"
	warnEmailFailed    = "confirmation email could not be sent; please check your spam folder"
)

// PaymentService provides business logic for gateway result capture and
// independent payment verification.
type PaymentService struct {
	repo     PaymentRepositoryInterface
	notifier Notifier
	secret   string
}

// NewPaymentService creates a new PaymentService. secret is the gateway
// signing secret used to verify callback signatures.
func NewPaymentService(repo PaymentRepositoryInterface, notifier Notifier, secret string) *PaymentService {
	return &PaymentService{repo: repo, notifier: notifier, secret: secret}
}

// HandleGatewayResult processes a terminal gateway outcome.
//
// The money moved (or didn't) before this call, so the outcome reported to
// the user follows the gateway, not our persistence: a failed insert or a
// failed confirmation email downgrades to a warning on a success outcome.
// Dismissal and failure perform no persistence at all.
func (s *PaymentService) HandleGatewayResult(ctx context.Context, res *model.GatewayResult) (*model.CaptureOutcome, error) {
	if res == nil {
		return nil, ErrInvalidRequest
	}

	switch res.Event {
	case model.GatewayEventDismissed:
		return &model.CaptureOutcome{
			Status:  model.CaptureStatusCancelled,
			Message: "Payment cancelled by user",
		}, nil
	case model.GatewayEventFailed:
		return &model.CaptureOutcome{
			Status:  model.CaptureStatusFailed,
			Message: "Payment failed at the gateway",
		}, nil
	case model.GatewayEventSuccess:
		return s.captureSuccess(ctx, res), nil
	default:
		return nil, ErrInvalidRequest
	}
}

func (s *PaymentService) captureSuccess(ctx context.Context, res *model.GatewayResult) *model.CaptureOutcome {
	outcome := &model.CaptureOutcome{
		Status:  model.CaptureStatusSuccess,
		Message: "Payment recorded",
	}

	rec := &model.PaymentRecord{
		PaymentID:    res.PaymentID,
		OrderID:      res.OrderID,
		Signature:    res.Signature,
		ProgramTitle: res.ProgramTitle,
		Amount:       res.Amount,
		UserName:     res.UserName,
		UserEmail:    res.UserEmail,
		UserPhone:    res.UserPhone,
	}

	if err := s.repo.Insert(ctx, rec); err != nil {
		if errors.Is(err, ErrPaymentExists) {
			// Replayed gateway callback: the record and its confirmation
			// email already happened, nothing more to do.
			log.Info().Str("payment_id", res.PaymentID).Msg("gateway callback replayed for recorded payment")
			return outcome
		}
		log.Error().Err(err).Str("payment_id", res.PaymentID).Msg("failed to persist payment record")
		outcome.Warnings = append(outcome.Warnings, warnDetailsDelayed)
		return outcome
	}

	if err := s.notifier.SendEnrollmentConfirmation(ctx, res.UserEmail, res.UserName, res.ProgramTitle); err != nil {
		log.Warn().Err(err).Str("payment_id", res.PaymentID).Str("email", res.UserEmail).
			Msg("enrollment confirmation email failed")
		outcome.Warnings = append(outcome.Warnings, warnEmailFailed)
	}

	return outcome
}

// VerifyPayment independently confirms a client-reported payment by
// recomputing the gateway signature and cross-checking the recorded amount.
// On success the record's status is promoted to "verified"; re-verifying an
// already-verified payment applies the same update and is safe.
//
// A signature mismatch, missing record, or amount mismatch yields
// verified=false with a reason; only infrastructure failures return an error.
func (s *PaymentService) VerifyPayment(ctx context.Context, req *model.VerifyPaymentRequest) (bool, string, error) {
	if req == nil {
		return false, "", ErrInvalidRequest
	}

	if !gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature, s.secret) {
		log.Warn().Str("payment_id", req.PaymentID).Msg("payment signature mismatch")
		return false, "signature mismatch", nil
	}

	rec, err := s.repo.GetByID(ctx, req.PaymentID)
	if err != nil {
		return false, "", fmt.Errorf("lookup payment: %w", err)
	}
	if rec == nil {
		return false, "payment record not found", nil
	}
	if rec.Amount != req.Amount {
		log.Warn().Str("payment_id", req.PaymentID).
			Int("recorded_amount", rec.Amount).
			Int("reported_amount", req.Amount).
			Msg("payment amount mismatch")
		return false, "amount mismatch", nil
	}

	if err := s.repo.SetStatus(ctx, req.PaymentID, model.PaymentStatusVerified); err != nil {
		return false, "", fmt.Errorf("mark payment verified: %w", err)
	}

	log.Info().Str("payment_id", req.PaymentID).Msg("payment verified")
	return true, "payment verified", nil
}
