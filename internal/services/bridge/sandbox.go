package bridge

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diogomassis/ngenius-bridge/internal/models"
)

type SandboxConfig struct {
	Platform   models.Platform
	Status     string
	Detail     string
	Delay      time.Duration
	SamsungPay bool
	ApplePay   bool
	GooglePay  bool
	SDKVersion string
}

// Sandbox stands in for the platform payment modules in the demo service.
// Every sheet completes after Delay with the configured status.
type Sandbox struct {
	cfg    SandboxConfig
	logger zerolog.Logger

	mutex    sync.Mutex
	sdk      SDKConfig
	deviceID string
}

func NewSandbox(cfg SandboxConfig, logger zerolog.Logger) *Sandbox {
	if cfg.Status == "" {
		cfg.Status = StatusSuccess
	}
	if cfg.SDKVersion == "" {
		cfg.SDKVersion = "sandbox"
	}
	return &Sandbox{cfg: cfg, logger: logger, deviceID: uuid.NewString()}
}

func (s *Sandbox) ConfigureSDK(cfg SDKConfig) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sdk = cfg
	s.logger.Info().Str("language", cfg.Language).Msg("sdk configured")
}

func (s *Sandbox) SDKConfig() SDKConfig {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.sdk
}

func (s *Sandbox) GetDeviceInfo() (models.DeviceInfo, error) {
	return models.DeviceInfo{
		Platform:   s.cfg.Platform,
		OSVersion:  "sandbox",
		Model:      "sandbox-device",
		SDKVersion: s.cfg.SDKVersion,
		DeviceID:   s.deviceID,
	}, nil
}

func (s *Sandbox) InitiateCardPaymentUI(order *models.Order, done ResultFunc) {
	s.complete(OpCardPayment, order, "", done)
}

func (s *Sandbox) InitiateSamsungPay(order *models.Order, merchantName, serviceID string, done ResultFunc) {
	s.complete(OpSamsungPay, order, "", done)
}

func (s *Sandbox) InitiateApplePay(order *models.Order, sheet ApplePaySheet, done ResultFunc) {
	s.complete(OpApplePay, order, "", done)
}

func (s *Sandbox) InitiateGooglePay(order *models.Order, sheet GooglePaySheet, done ResultFunc) {
	token := fmt.Sprintf(`{"protocolVersion":"ECv2","signedMessage":"%s"}`, uuid.NewString())
	s.complete(OpGooglePay, order, token, done)
}

func (s *Sandbox) ExecuteThreeDSTwo(payment *models.PaymentResult, done ResultFunc) {
	s.complete(OpThreeDSTwo, nil, "", done)
}

func (s *Sandbox) IsSamsungPayEnabled(serviceID string, done CapabilityFunc) {
	done(s.cfg.Platform == models.PlatformAndroid && s.cfg.SamsungPay && serviceID != "", nil)
}

func (s *Sandbox) IsApplePaySupported(done CapabilityFunc) {
	done(s.cfg.Platform == models.PlatformIOS && s.cfg.ApplePay, nil)
}

func (s *Sandbox) IsGooglePaySupported(done CapabilityFunc) {
	done(s.cfg.Platform == models.PlatformAndroid && s.cfg.GooglePay, nil)
}

func (s *Sandbox) complete(op string, order *models.Order, token string, done ResultFunc) {
	result := NativeResult{Status: s.cfg.Status, Error: s.cfg.Detail}
	if result.Status == StatusSuccess {
		result.Token = token
	}
	event := s.logger.Debug().Str("op", op).Str("status", result.Status)
	if order != nil {
		event = event.Str("order", order.Reference)
	}
	event.Msg("sandbox native call")

	go func() {
		time.Sleep(s.cfg.Delay)
		done(result)
	}()
}
