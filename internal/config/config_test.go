package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		// t.Setenv sets the environment variable for the duration of the test
		// and automatically restores it afterwards.
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("DB_SSLMODE", "require")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("APP_ENV", "test")
		t.Setenv("APP_DOMAIN", "shop.example.com")
		t.Setenv("SUCCESS_FALLBACK_URL", "https://shop.example.com/payments/{pk}/success")
		t.Setenv("SERVICE_JWT_SECRET", "jwt-secret")
		t.Setenv("P24_BACKEND_NAME", "")
		t.Setenv("P24_MERCHANT_ID", "12345")
		t.Setenv("P24_POS_ID", "")
		t.Setenv("P24_CRC", "crc-secret")
		t.Setenv("P24_SANDBOX", "true")
		t.Setenv("P24_LANG", "EN")
		t.Setenv("P24_SSL_RETURN", "1")
		t.Setenv("P24_HTTP_TIMEOUT", "5s")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "require", cfg.DBSSLMode)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "shop.example.com", cfg.Domain)
		assert.Equal(t, "jwt-secret", cfg.ServiceJWTSecret)

		p := cfg.Przelewy24
		assert.Equal(t, "przelewy24", p.BackendName)
		assert.Equal(t, "12345", p.MerchantID)
		assert.Equal(t, "12345", p.EffectivePosID())
		assert.Equal(t, "crc-secret", p.CRC)
		assert.True(t, p.Sandbox)
		assert.True(t, p.SSLReturn)
		assert.Equal(t, "EN", p.Lang)
		assert.Equal(t, 5*time.Second, p.HTTPTimeout)
		assert.NoError(t, p.Validate())
	})

	t.Run("Defaults for invalid values", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("P24_SANDBOX", "maybe")
		t.Setenv("P24_HTTP_TIMEOUT", "soon")

		cfg := LoadConfig()

		assert.False(t, cfg.Przelewy24.Sandbox)
		assert.Equal(t, defaultHTTPTimeout, cfg.Przelewy24.HTTPTimeout)
	})
}

func TestPrzelewy24_Validate(t *testing.T) {
	err := Przelewy24{}.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "P24_MERCHANT_ID")
	assert.Contains(t, err.Error(), "P24_CRC")

	err = Przelewy24{MerchantID: "1"}.Validate()
	assert.Error(t, err)
	assert.NotContains(t, err.Error(), "P24_MERCHANT_ID")
}

func TestPrzelewy24_EffectivePosID(t *testing.T) {
	assert.Equal(t, "1", Przelewy24{MerchantID: "1"}.EffectivePosID())
	assert.Equal(t, "2", Przelewy24{MerchantID: "1", PosID: "2"}.EffectivePosID())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Domain:             "shop.example.com",
			SuccessFallbackURL: "https://shop.example.com/payments/{pk}/success",
			Przelewy24:         Przelewy24{BackendName: "przelewy24", MerchantID: "1", CRC: "crc"},
		}
	}

	t.Run("Complete", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("Missing domain", func(t *testing.T) {
		cfg := valid()
		cfg.Domain = "  "
		assert.ErrorContains(t, cfg.Validate(), "APP_DOMAIN")
	})

	t.Run("Missing fallback URL", func(t *testing.T) {
		cfg := valid()
		cfg.SuccessFallbackURL = ""
		assert.ErrorContains(t, cfg.Validate(), "SUCCESS_FALLBACK_URL")
	})

	t.Run("Backend errors are included", func(t *testing.T) {
		cfg := valid()
		cfg.Przelewy24.CRC = ""
		err := cfg.Validate()
		assert.ErrorContains(t, err, `przelewy24 backend "przelewy24"`)
		assert.ErrorContains(t, err, "P24_CRC")
	})
}
