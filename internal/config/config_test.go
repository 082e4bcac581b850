package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "orders")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "ordersdb")
	t.Setenv("DB_PORT", "5432")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "")
	t.Setenv("PRODUCT_SERVICE_URL", "")
	t.Setenv("USER_SERVICE_URL", "")

	cfg := LoadConfig()

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "8083", cfg.AppPort)
	assert.Equal(t, "http://localhost:8081", cfg.ProductSvcURL)
	assert.Equal(t, "http://localhost:8082", cfg.UserSvcURL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PRODUCT_SERVICE_URL", "http://products.internal:8081")
	t.Setenv("USER_SERVICE_URL", "http://users.internal:8082")
	t.Setenv("SECRET_KEY", "jwt-secret")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.AppPort)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "http://products.internal:8081", cfg.ProductSvcURL)
	assert.Equal(t, "http://users.internal:8082", cfg.UserSvcURL)
	assert.Equal(t, "jwt-secret", cfg.JWTSecret)
}
