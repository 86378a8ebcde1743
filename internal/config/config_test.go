package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5432")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("APP_ENV", "test")
		t.Setenv("ALIPAY_APP_ID", "2021000000000001")
		t.Setenv("ALIPAY_PRIVATE_KEY", "private-pem-body")
		t.Setenv("ALIPAY_PUBLIC_KEY", "public-pem-body")
		t.Setenv("ALIPAY_PRODUCTION", "true")
		t.Setenv("COMPANY_NAME", "Acme Retail")
		t.Setenv("QR_IMAGE_SIZE", "256")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5432", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "2021000000000001", cfg.AlipayAppID)
		assert.Equal(t, "private-pem-body", cfg.AlipayPrivateKey)
		assert.Equal(t, "public-pem-body", cfg.AlipayPublicKey)
		assert.True(t, cfg.AlipayProduction)
		assert.Equal(t, "Acme Retail", cfg.CompanyName)
		assert.Equal(t, 256, cfg.QRImageSize)
	})

	t.Run("QR size defaults when unset or invalid", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("QR_IMAGE_SIZE", "not-a-number")

		cfg := LoadConfig()
		assert.Equal(t, 512, cfg.QRImageSize)
	})
}
