package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devsphere/enrollment-api/internal/model"
	"github.com/devsphere/enrollment-api/internal/validator"
)

// mockPaymentService is a mock implementation of PaymentServiceInterface.
type mockPaymentService struct {
	handleFn func(ctx context.Context, res *model.GatewayResult) (*model.CaptureOutcome, error)
	verifyFn func(ctx context.Context, req *model.VerifyPaymentRequest) (bool, string, error)
	captured []*model.GatewayResult
}

func (m *mockPaymentService) HandleGatewayResult(ctx context.Context, res *model.GatewayResult) (*model.CaptureOutcome, error) {
	m.captured = append(m.captured, res)
	if m.handleFn != nil {
		return m.handleFn(ctx, res)
	}
	return &model.CaptureOutcome{Status: model.CaptureStatusSuccess, Message: "Payment recorded"}, nil
}

func (m *mockPaymentService) VerifyPayment(ctx context.Context, req *model.VerifyPaymentRequest) (bool, string, error) {
	if m.verifyFn != nil {
		return m.verifyFn(ctx, req)
	}
	return true, "payment verified", nil
}

func setupPaymentTestApp(mockSvc *mockPaymentService) *fiber.App {
	app := fiber.New()
	h := NewPaymentHandler(mockSvc, validator.New())
	app.Post("/api/payments/capture", h.Capture)
	app.Post("/functions/v1/verify-dodo-payment", h.Verify)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestCapture_Success(t *testing.T) {
	mockSvc := &mockPaymentService{}
	app := setupPaymentTestApp(mockSvc)

	body := `{
		"event": "success",
		"payment_id": "pay_abc",
		"order_id": "order_xyz",
		"signature": "sig",
		"program_title": "Frontend Development",
		"amount": 1200,
		"user_name": "Asha Rao",
		"user_email": "asha@example.com",
		"user_phone": "9876543210"
	}`
	resp := postJSON(t, app, "/api/payments/capture", body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var outcome model.CaptureOutcome
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&outcome))
	assert.Equal(t, model.CaptureStatusSuccess, outcome.Status)

	require.Len(t, mockSvc.captured, 1)
	assert.Equal(t, model.GatewayEventSuccess, mockSvc.captured[0].Event)
	assert.Equal(t, "pay_abc", mockSvc.captured[0].PaymentID)
	assert.Equal(t, 1200, mockSvc.captured[0].Amount)
}

func TestCapture_SuccessWithWarnings(t *testing.T) {
	mockSvc := &mockPaymentService{
		handleFn: func(ctx context.Context, res *model.GatewayResult) (*model.CaptureOutcome, error) {
			return &model.CaptureOutcome{
				Status:   model.CaptureStatusSuccess,
				Message:  "Payment recorded",
				Warnings: []string{"confirmation email could not be sent; please check your spam folder"},
			}, nil
		},
	}
	app := setupPaymentTestApp(mockSvc)

	body := `{
		"event": "success",
		"payment_id": "pay_abc",
		"order_id": "order_xyz",
		"program_title": "Frontend Development",
		"amount": 1200,
		"user_name": "Asha Rao",
		"user_email": "asha@example.com"
	}`
	resp := postJSON(t, app, "/api/payments/capture", body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "soft failures still report 200")

	var outcome model.CaptureOutcome
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&outcome))
	require.Len(t, outcome.Warnings, 1)
	assert.Contains(t, outcome.Warnings[0], "spam folder")
}

func TestCapture_Dismissed(t *testing.T) {
	mockSvc := &mockPaymentService{
		handleFn: func(ctx context.Context, res *model.GatewayResult) (*model.CaptureOutcome, error) {
			return &model.CaptureOutcome{Status: model.CaptureStatusCancelled, Message: "Payment cancelled by user"}, nil
		},
	}
	app := setupPaymentTestApp(mockSvc)

	// Dismissal carries no payment identifiers.
	resp := postJSON(t, app, "/api/payments/capture", `{"event": "dismissed"}`)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var outcome model.CaptureOutcome
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&outcome))
	assert.Equal(t, model.CaptureStatusCancelled, outcome.Status)
	assert.Equal(t, "Payment cancelled by user", outcome.Message)
}

func TestCapture_UnknownEvent(t *testing.T) {
	mockSvc := &mockPaymentService{}
	app := setupPaymentTestApp(mockSvc)

	resp := postJSON(t, app, "/api/payments/capture", `{"event": "refunded"}`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "invalid request: event is invalid", result["error"])
	assert.Empty(t, mockSvc.captured)
}

func TestCapture_SuccessMissingPaymentID(t *testing.T) {
	mockSvc := &mockPaymentService{}
	app := setupPaymentTestApp(mockSvc)

	body := `{
		"event": "success",
		"order_id": "order_xyz",
		"program_title": "Frontend Development",
		"amount": 1200,
		"user_name": "Asha Rao",
		"user_email": "asha@example.com"
	}`
	resp := postJSON(t, app, "/api/payments/capture", body)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "invalid request: paymentId is required", result["error"])
}

func TestCapture_MalformedJSON(t *testing.T) {
	app := setupPaymentTestApp(&mockPaymentService{})

	resp := postJSON(t, app, "/api/payments/capture", `{not valid json}`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "invalid request body", result["error"])
}

func TestVerify_Verified(t *testing.T) {
	mockSvc := &mockPaymentService{}
	app := setupPaymentTestApp(mockSvc)

	body := `{"paymentId": "pay_abc", "orderId": "order_xyz", "signature": "aabbcc", "amount": 1200}`
	resp := postJSON(t, app, "/functions/v1/verify-dodo-payment", body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result model.VerifyPaymentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.True(t, result.Verified)
	assert.Equal(t, "payment verified", result.Message)
}

func TestVerify_NotVerified(t *testing.T) {
	mockSvc := &mockPaymentService{
		verifyFn: func(ctx context.Context, req *model.VerifyPaymentRequest) (bool, string, error) {
			return false, "signature mismatch", nil
		},
	}
	app := setupPaymentTestApp(mockSvc)

	body := `{"paymentId": "pay_abc", "orderId": "order_xyz", "signature": "forged", "amount": 1200}`
	resp := postJSON(t, app, "/functions/v1/verify-dodo-payment", body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "an unverified payment is still a handled request")

	var result model.VerifyPaymentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.False(t, result.Verified)
	assert.Equal(t, "signature mismatch", result.Message)
}

func TestVerify_InternalError(t *testing.T) {
	mockSvc := &mockPaymentService{
		verifyFn: func(ctx context.Context, req *model.VerifyPaymentRequest) (bool, string, error) {
			return false, "", errors.New("database connection failed")
		},
	}
	app := setupPaymentTestApp(mockSvc)

	body := `{"paymentId": "pay_abc", "orderId": "order_xyz", "signature": "aabbcc", "amount": 1200}`
	resp := postJSON(t, app, "/functions/v1/verify-dodo-payment", body)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "payment verification failed", result["error"])
	assert.Equal(t, false, result["verified"])
	assert.NotEmpty(t, result["details"])
}

func TestVerify_MissingFields(t *testing.T) {
	app := setupPaymentTestApp(&mockPaymentService{})

	resp := postJSON(t, app, "/functions/v1/verify-dodo-payment", `{"paymentId": "pay_abc"}`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Contains(t, result["error"], "invalid request:")
}
