package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/json-iterator/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/diogomassis/ngenius-bridge/internal/models"
	"github.com/diogomassis/ngenius-bridge/internal/services/bridge"
	"github.com/diogomassis/ngenius-bridge/internal/services/bridge/bridgetest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{
		APIKey:        "api-key",
		Realm:         "ni",
		OutletID:      "outlet-1",
		IdentityURL:   srv.URL + "/identity/auth/access-token",
		GatewayURL:    srv.URL + "/transactions",
		PayPageAPIURL: srv.URL + "/api",
		Currency:      "AED",
		MerchantName:  "Demo Merchant",
		Timeout:       2 * time.Second,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	return NewClient(cfg, zerolog.Nop())
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestClient_CreateToken(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "Basic api-key", r.Header.Get("Authorization"))
			require.Equal(t, identityMediaType, r.Header.Get("Content-Type"))
			body := decodeBody(t, r)
			require.Equal(t, "client_credentials", body["grant_type"])
			require.Equal(t, "ni", body["realm"])
			_, _ = w.Write([]byte(`{"access_token":"tok1","expires_in":300}`))
		})

		token, err := c.CreateToken(context.Background())
		require.NoError(t, err)
		require.Equal(t, "tok1", token.Value)
		require.False(t, token.ExpiresAt.IsZero())
	})

	t.Run("Unauthorized", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := c.CreateToken(context.Background())
		require.ErrorIs(t, err, ErrAuth)
		require.ErrorIs(t, err, ErrGateway)
	})

	t.Run("MissingToken", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})

		_, err := c.CreateToken(context.Background())
		require.ErrorIs(t, err, ErrAuth)
	})

	t.Run("MissingAPIKey", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("identity endpoint must not be called")
		}, func(cfg *Config) { cfg.APIKey = "" })

		_, err := c.CreateToken(context.Background())
		require.ErrorIs(t, err, ErrAuth)
	})

	t.Run("TransportFailure", func(t *testing.T) {
		c := NewClient(Config{APIKey: "k", IdentityURL: "http://127.0.0.1:1/identity"}, zerolog.Nop())

		_, err := c.CreateToken(context.Background())
		require.ErrorIs(t, err, ErrTransport)
	})
}

func TestClient_CreateOrder(t *testing.T) {
	for _, amount := range []int64{0, 1, 30, 99, 100, 123456} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/transactions/outlets/outlet-1/orders", r.URL.Path)
			require.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
			require.Equal(t, paymentMediaType, r.Header.Get("Accept"))

			body := decodeBody(t, r)
			require.Equal(t, "SALE", body["action"])
			amt := body["amount"].(map[string]any)
			require.Equal(t, "AED", amt["currencyCode"])
			require.EqualValues(t, amount, amt["value"])
			require.NotContains(t, body, "savedCard")

			_, _ = w.Write([]byte(`{"reference":"ORD1","amount":{"currencyCode":"AED","value":30}}`))
		})

		order, err := c.CreateOrder(context.Background(), models.AccessToken{Value: "tok1"}, amount, nil)
		require.NoError(t, err)
		require.Equal(t, "ORD1", order.Reference)
		require.Equal(t, "outlet-1", order.OutletID)
	}

	t.Run("EmbedsSavedCard", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			body := decodeBody(t, r)
			card := body["savedCard"].(map[string]any)
			require.Equal(t, "card-token", card["cardToken"])
			_, _ = w.Write([]byte(`{"reference":"ORD2","_embedded":{"payment":[{"_links":{"payment:saved-card":{"href":"https://gw/saved/2"}}}]}}`))
		})

		order, err := c.CreateOrder(context.Background(), models.AccessToken{Value: "tok1"}, 30,
			&models.SavedCardRecord{CardToken: "card-token", MaskedPan: "411111******1111"})
		require.NoError(t, err)
		link, ok := order.PaymentLink(models.RelSavedCard)
		require.True(t, ok)
		require.Equal(t, "https://gw/saved/2", link)
	})

	t.Run("GatewayError", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		})

		_, err := c.CreateOrder(context.Background(), models.AccessToken{Value: "tok1"}, 30, nil)
		require.ErrorIs(t, err, ErrGateway)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		require.Equal(t, http.StatusBadGateway, se.StatusCode)
		require.Equal(t, "upstream down", se.Body)
	})

	t.Run("NegativeAmount", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("gateway must not be called")
		})

		_, err := c.CreateOrder(context.Background(), models.AccessToken{Value: "tok1"}, -1, nil)
		require.Error(t, err)
	})
}

func TestClient_GetOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/transactions/orders/ORD1", r.URL.Path)
		_, _ = w.Write([]byte(`{"reference":"ORD1","_embedded":{"payment":[{"state":"CAPTURED","savedCard":{"cardToken":"ct","maskedPan":"4111","expiry":"2030-01","scheme":"VISA","cardholderName":"Jane"}}]}}`))
	})

	order, err := c.GetOrder(context.Background(), models.AccessToken{Value: "tok1"}, "ORD1")
	require.NoError(t, err)
	card, ok := order.SavedCardFromPayments()
	require.True(t, ok)
	require.Equal(t, "ct", card.CardToken)
}

func TestClient_SettlePayment(t *testing.T) {
	t.Run("SavedCardUsesPut", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			require.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
			body := decodeBody(t, r)
			require.Equal(t, "ct", body["cardToken"])
			require.Equal(t, "123", body["cvv"])
			_, _ = w.Write([]byte(`{"reference":"PAY1","state":"AWAIT_3DS"}`))
		})

		link := c.cfg.GatewayURL + "/saved-card"
		res, err := c.SettlePayment(context.Background(), models.AccessToken{Value: "tok1"}, link,
			SavedCardPayload{CardholderName: "Jane", CardToken: "ct", Expiry: "2030-01", CVV: "123"})
		require.NoError(t, err)
		require.Equal(t, "PAY1", res.Reference)
	})

	t.Run("WalletTokenStandard", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "true", r.URL.Query().Get("isWebPayment"))
			require.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
			require.Empty(t, r.Header.Get("Payment-Token"))
			require.Equal(t, "{wallet}", decodeBody(t, r)["token"])
			_, _ = w.Write([]byte(`{"state":"CAPTURED"}`))
		})

		res, err := c.SettlePayment(context.Background(), models.AccessToken{Value: "tok1"}, c.cfg.GatewayURL+"/settle/1",
			WalletTokenPayload{Token: "{wallet}", PaymentToken: "code"})
		require.NoError(t, err)
		require.Equal(t, models.PaymentStateCaptured, res.State)
	})

	t.Run("WalletTokenPayPage", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			require.Empty(t, r.Header.Get("Authorization"))
			require.Equal(t, "tok1", r.Header.Get("Access-Token"))
			require.Equal(t, "code", r.Header.Get("Payment-Token"))
			_, _ = w.Write([]byte(`{"state":"PURCHASED"}`))
		}, func(cfg *Config) { cfg.Variant = VariantPayPage })

		_, err := c.SettlePayment(context.Background(), models.AccessToken{Value: "tok1"}, c.cfg.GatewayURL+"/settle/1",
			WalletTokenPayload{Token: "{wallet}", PaymentToken: "code"})
		require.NoError(t, err)
	})

	t.Run("Declined", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"state":"FAILED"}`))
		})

		_, err := c.SettlePayment(context.Background(), models.AccessToken{Value: "tok1"}, c.cfg.GatewayURL+"/settle/1",
			WalletTokenPayload{Token: "t"})
		require.ErrorIs(t, err, ErrSettlement)
	})

	t.Run("ServerError", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := c.SettlePayment(context.Background(), models.AccessToken{Value: "tok1"}, c.cfg.GatewayURL+"/settle/1",
			WalletTokenPayload{Token: "t"})
		require.ErrorIs(t, err, ErrSettlement)
		require.ErrorIs(t, err, ErrGateway)
	})

	t.Run("EmptyLink", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("gateway must not be called")
		})

		_, err := c.SettlePayment(context.Background(), models.AccessToken{Value: "tok1"}, "", WalletTokenPayload{Token: "t"})
		require.ErrorIs(t, err, ErrSettlement)
	})
}

func TestClient_GetWalletConfig(t *testing.T) {
	order := &models.Order{Links: models.Links{models.RelPayment: {Href: "https://paypage/?code=abc"}}}

	t.Run("Remote", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/outlets/outlet-1/google-pay/config", r.URL.Path)
			require.Equal(t, "tok1", r.Header.Get("Access-Token"))
			require.Equal(t, "abc", r.Header.Get("Payment-Token"))
			require.Equal(t, "ref-1", r.Header.Get("hierarchyRef"))
			_, _ = w.Write([]byte(`{"gatewayName":"networkintl","environment":"PRODUCTION","merchantGatewayId":"gw-42","merchantInfo":{"merchantName":"Shop"}}`))
		}, func(cfg *Config) { cfg.HierarchyRef = "ref-1" })

		cfg := c.GetWalletConfig(context.Background(), models.AccessToken{Value: "tok1"}, order)
		require.False(t, cfg.Fallback)
		require.Equal(t, "gw-42", cfg.MerchantGatewayID)
		require.Equal(t, "PRODUCTION", cfg.Environment)
	})

	t.Run("FallsBackOnFailure", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		cfg := c.GetWalletConfig(context.Background(), models.AccessToken{Value: "tok1"}, order)
		require.True(t, cfg.Fallback)
		require.Equal(t, "networkintl", cfg.GatewayName)
		require.Equal(t, "outlet-1", cfg.MerchantGatewayID)
		require.Equal(t, "Demo Merchant", cfg.MerchantInfo.MerchantName)
		require.NotEmpty(t, cfg.AllowedPaymentMethods)
	})
}

func TestClient_DeviceMetadata(t *testing.T) {
	native := &bridgetest.FakeNative{GetDeviceInfoFunc: func() (models.DeviceInfo, error) {
		return models.DeviceInfo{
			Platform:   models.PlatformAndroid,
			Model:      "SM-G991B",
			SDKVersion: "4.0.0",
			DeviceID:   "dev-1",
		}, nil
	}}

	var seen []http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Clone())
		if strings.HasSuffix(r.URL.Path, "/access-token") {
			_, _ = w.Write([]byte(`{"access_token":"tok1"}`))
			return
		}
		_, _ = w.Write([]byte(`{"reference":"ORD1","amount":{"currencyCode":"AED","value":30}}`))
	}).WithDeviceInfo(bridge.New(native, zerolog.Nop()))

	token, err := c.CreateToken(context.Background())
	require.NoError(t, err)
	_, err = c.CreateOrder(context.Background(), token, 30, nil)
	require.NoError(t, err)

	require.Len(t, seen, 2)
	for _, h := range seen {
		require.Equal(t, "dev-1", h.Get("X-Device-Id"))
		require.Equal(t, "android", h.Get("X-Device-Platform"))
		require.Equal(t, "4.0.0", h.Get("X-Sdk-Version"))
		require.Empty(t, h.Get("X-Os-Version"))
	}
	require.Equal(t, 1, native.Calls("getDeviceInfo"))
}

func TestClient_DeviceMetadataUnavailable(t *testing.T) {
	native := &bridgetest.FakeNative{GetDeviceInfoFunc: func() (models.DeviceInfo, error) {
		return models.DeviceInfo{}, errors.New("native module not linked")
	}}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("X-Device-Id"))
		_, _ = w.Write([]byte(`{"access_token":"tok1"}`))
	}).WithDeviceInfo(bridge.New(native, zerolog.Nop()))

	_, err := c.CreateToken(context.Background())
	require.NoError(t, err)
	_, err = c.CreateToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, native.Calls("getDeviceInfo"))
}
