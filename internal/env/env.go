package env

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	GatewayVariantStandard = "standard"
	GatewayVariantPayPage  = "paypage"
)

type EnvironmentVariables struct {
	Environment string
	LogLevel    string
	Platform    string

	APIKey         string
	OutletID       string
	Realm          string
	IdentityURL    string
	GatewayURL     string
	PayPageAPIURL  string
	GatewayVariant string
	Currency       string
	HierarchyRef   string
	HTTPTimeout    time.Duration
	NativeTimeout  time.Duration

	RedisURL      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int

	BackendPort string
	GrpcAddr    string

	MerchantName        string
	SamsungPayServiceID string
	ApplePayMerchantID  string
	CountryCode         string
	GooglePayEnv        string

	SDKLanguage        string
	SDKShowOrderAmount bool
	SandboxStatus      string
}

// Load reads a .env file when present and then the process environment.
func Load() (*EnvironmentVariables, error) {
	_ = godotenv.Load()

	var missing []string
	required := func(key string) string {
		value := os.Getenv(key)
		if value == "" {
			missing = append(missing, key)
		}
		return value
	}

	e := &EnvironmentVariables{
		Environment: getOptionalEnv("ENVIRONMENT", "development"),
		LogLevel:    getOptionalEnv("LOG_LEVEL", "info"),
		Platform:    strings.ToLower(getOptionalEnv("PLATFORM", "android")),

		APIKey:         required("NGENIUS_API_KEY"),
		OutletID:       required("NGENIUS_OUTLET_ID"),
		Realm:          getOptionalEnv("NGENIUS_REALM", "ni"),
		IdentityURL:    getOptionalEnv("NGENIUS_IDENTITY_URL", "https://api-gateway.sandbox.ngenius-payments.com/identity/auth/access-token"),
		GatewayURL:     strings.TrimRight(getOptionalEnv("NGENIUS_GATEWAY_URL", "https://api-gateway.sandbox.ngenius-payments.com/transactions"), "/"),
		PayPageAPIURL:  strings.TrimRight(getOptionalEnv("NGENIUS_PAYPAGE_API_URL", "https://paypage.sandbox.ngenius-payments.com/api"), "/"),
		GatewayVariant: strings.ToLower(getOptionalEnv("NGENIUS_GATEWAY_VARIANT", GatewayVariantStandard)),
		Currency:       getOptionalEnv("NGENIUS_CURRENCY", "AED"),
		HierarchyRef:   getOptionalEnv("NGENIUS_HIERARCHY_REF", ""),
		HTTPTimeout:    getDurationEnv("HTTP_TIMEOUT", 15*time.Second),
		NativeTimeout:  getDurationEnv("NATIVE_TIMEOUT", 2*time.Minute),

		RedisURL:      getOptionalEnv("REDIS_URL", ""),
		RedisAddr:     getOptionalEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getOptionalEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		RedisPoolSize: getIntEnv("REDIS_POOL_SIZE", 4),

		BackendPort: getOptionalEnv("BACKEND_PORT", "8080"),
		GrpcAddr:    getOptionalEnv("GRPC_ADDR", ":9090"),

		MerchantName:        getOptionalEnv("MERCHANT_NAME", "Merchant Name"),
		SamsungPayServiceID: getOptionalEnv("SAMSUNG_PAY_SERVICE_ID", ""),
		ApplePayMerchantID:  getOptionalEnv("APPLE_PAY_MERCHANT_ID", ""),
		CountryCode:         getOptionalEnv("COUNTRY_CODE", "AE"),
		GooglePayEnv:        getOptionalEnv("GOOGLE_PAY_ENVIRONMENT", "TEST"),

		SDKLanguage:        getOptionalEnv("SDK_LANGUAGE", ""),
		SDKShowOrderAmount: getOptionalEnv("SDK_SHOW_ORDER_AMOUNT", "true") == "true",
		SandboxStatus:      getOptionalEnv("SANDBOX_NATIVE_STATUS", "Success"),
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("[env] required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *EnvironmentVariables) validate() error {
	switch e.GatewayVariant {
	case GatewayVariantStandard, GatewayVariantPayPage:
	default:
		return fmt.Errorf("[env] unknown NGENIUS_GATEWAY_VARIANT %q", e.GatewayVariant)
	}
	if e.HTTPTimeout <= 0 || e.NativeTimeout <= 0 {
		return errors.New("[env] timeouts must be positive")
	}
	return nil
}

func getOptionalEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getDurationEnv accepts Go duration strings or a plain number of seconds.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func (e *EnvironmentVariables) IsProduction() bool {
	return e.Environment == "production"
}

func (e *EnvironmentVariables) IsDevelopment() bool {
	return !e.IsProduction()
}
