package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("MissingRequired", func(t *testing.T) {
		t.Setenv("NGENIUS_API_KEY", "")
		t.Setenv("NGENIUS_OUTLET_ID", "")

		_, err := Load()
		require.ErrorContains(t, err, "NGENIUS_API_KEY")
		require.ErrorContains(t, err, "NGENIUS_OUTLET_ID")
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("NGENIUS_API_KEY", "key")
		t.Setenv("NGENIUS_OUTLET_ID", "outlet")
		t.Setenv("NGENIUS_GATEWAY_VARIANT", "")
		t.Setenv("HTTP_TIMEOUT", "")

		e, err := Load()
		require.NoError(t, err)
		require.Equal(t, GatewayVariantStandard, e.GatewayVariant)
		require.Equal(t, "AED", e.Currency)
		require.Equal(t, 15*time.Second, e.HTTPTimeout)
		require.True(t, e.IsDevelopment())
	})

	t.Run("TimeoutInSeconds", func(t *testing.T) {
		t.Setenv("NGENIUS_API_KEY", "key")
		t.Setenv("NGENIUS_OUTLET_ID", "outlet")
		t.Setenv("HTTP_TIMEOUT", "3")

		e, err := Load()
		require.NoError(t, err)
		require.Equal(t, 3*time.Second, e.HTTPTimeout)
	})

	t.Run("UnknownVariant", func(t *testing.T) {
		t.Setenv("NGENIUS_API_KEY", "key")
		t.Setenv("NGENIUS_OUTLET_ID", "outlet")
		t.Setenv("NGENIUS_GATEWAY_VARIANT", "sniffed")

		_, err := Load()
		require.ErrorContains(t, err, "sniffed")
	})

	t.Run("RedisOptions", func(t *testing.T) {
		t.Setenv("NGENIUS_API_KEY", "key")
		t.Setenv("NGENIUS_OUTLET_ID", "outlet")
		t.Setenv("REDIS_URL", "redis://cache:6379/2")
		t.Setenv("REDIS_DB", "5")
		t.Setenv("REDIS_POOL_SIZE", "not-a-number")

		e, err := Load()
		require.NoError(t, err)
		require.Equal(t, "redis://cache:6379/2", e.RedisURL)
		require.Equal(t, 5, e.RedisDB)
		require.Equal(t, 4, e.RedisPoolSize)
	})
}
