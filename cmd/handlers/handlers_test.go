package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"github.com/diogomassis/ngenius-bridge/internal/dto"
	"github.com/diogomassis/ngenius-bridge/internal/models"
	"github.com/diogomassis/ngenius-bridge/internal/services/orchestrator"
)

type fakeController struct {
	PayFunc   func(req orchestrator.PayRequest) orchestrator.Result
	card      *models.SavedCardRecord
	saveCard  bool
	forgotten int
}

func (f *fakeController) Pay(ctx context.Context, req orchestrator.PayRequest) orchestrator.Result {
	return f.PayFunc(req)
}

func (f *fakeController) SavedCard(ctx context.Context) *models.SavedCardRecord { return f.card }

func (f *fakeController) ForgetSavedCard(ctx context.Context) {
	f.forgotten++
	f.card = nil
}

func (f *fakeController) SaveCardEnabled() bool { return f.saveCard }

func (f *fakeController) SetSaveCardEnabled(enabled bool) { f.saveCard = enabled }

func (f *fakeController) Wallets(ctx context.Context) models.WalletAvailability {
	return models.WalletAvailability{Platform: models.PlatformAndroid, GooglePay: true}
}

func (f *fakeController) InFlight() bool { return false }

func (f *fakeController) Phase() string { return orchestrator.PhaseIdle }

func newApp(t *testing.T, c *fakeController) *fiber.App {
	t.Helper()
	Controller = c
	t.Cleanup(func() { Controller = nil })
	return NewApp()
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHandlePostPayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var got orchestrator.PayRequest
		app := newApp(t, &fakeController{PayFunc: func(req orchestrator.PayRequest) orchestrator.Result {
			got = req
			return orchestrator.Result{
				Message: orchestrator.MessageSuccess,
				Success: true,
				Order:   "ORD1",
				Outcome: models.PaymentOutcome{DisplayAmount: "0.30"},
			}
		}})

		resp, body := do(t, app, http.MethodPost, "/payments/google_pay", `{"amount":30}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, models.InstrumentGooglePay, got.Instrument)
		require.Equal(t, int64(30), got.Amount)

		var out dto.PaymentResponse
		require.NoError(t, json.Unmarshal(body, &out))
		require.Equal(t, dto.PaymentResponse{Message: orchestrator.MessageSuccess, Success: true, Order: "ORD1", Amount: "0.30"}, out)
	})

	t.Run("FailureShowsGenericMessage", func(t *testing.T) {
		app := newApp(t, &fakeController{PayFunc: func(orchestrator.PayRequest) orchestrator.Result {
			return orchestrator.Result{
				Message: orchestrator.MessageFailure,
				Outcome: models.PaymentOutcome{Status: models.OutcomeFailed, Detail: "settlement: 502"},
			}
		}})

		resp, body := do(t, app, http.MethodPost, "/payments/card", `{"amount":30}`)
		require.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
		require.NotContains(t, string(body), "502")
		require.Contains(t, string(body), orchestrator.MessageFailure)
	})

	t.Run("InFlight", func(t *testing.T) {
		app := newApp(t, &fakeController{PayFunc: func(orchestrator.PayRequest) orchestrator.Result {
			return orchestrator.Result{Message: orchestrator.MessageFailure, Err: orchestrator.ErrPaymentInFlight}
		}})

		resp, _ := do(t, app, http.MethodPost, "/payments/card", `{"amount":30}`)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("UnknownInstrument", func(t *testing.T) {
		app := newApp(t, &fakeController{})
		resp, _ := do(t, app, http.MethodPost, "/payments/bitcoin", `{"amount":30}`)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		app := newApp(t, &fakeController{})
		resp, _ := do(t, app, http.MethodPost, "/payments/card", `{"amount":-1}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSavedCardRoutes(t *testing.T) {
	c := &fakeController{card: &models.SavedCardRecord{
		CardholderName: "Jane Doe",
		MaskedPan:      "411111******1111",
		Expiry:         "2030-01",
		Scheme:         "VISA",
		CardToken:      "secret-token",
	}}
	app := newApp(t, c)

	resp, body := do(t, app, http.MethodGet, "/saved-card", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var card dto.SavedCardResponse
	require.NoError(t, json.Unmarshal(body, &card))
	require.Equal(t, "Visa", card.Scheme)
	require.Equal(t, "Valid upto: 2030-01", card.ValidUpto)
	require.NotContains(t, string(body), "secret-token")

	resp, _ = do(t, app, http.MethodDelete, "/saved-card", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, 1, c.forgotten)

	resp, _ = do(t, app, http.MethodGet, "/saved-card", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = do(t, app, http.MethodPut, "/saved-card/mode", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"enabled":true}`, string(body))

	resp, _ = do(t, app, http.MethodPut, "/saved-card/mode", `{}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleGetWallets(t *testing.T) {
	app := newApp(t, &fakeController{})
	resp, body := do(t, app, http.MethodGet, "/wallets", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var w models.WalletAvailability
	require.NoError(t, json.Unmarshal(body, &w))
	require.True(t, w.GooglePay)
	require.False(t, w.ApplePay)
}
