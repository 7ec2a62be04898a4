package config

import (
	"net/netip"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"SERVER_HOST", "SERVER_PORT", "DATABASE_PATH",
	"JWT_SECRET", "JWT_ACCESS_EXPIRY_MINUTES", "JWT_REFRESH_EXPIRY_DAYS",
	"API_ENABLED", "WEB_ENABLED", "CORS_ALLOWED_ORIGINS",
	"WEB_API_URL", "WEB_COOKIE_SECURE", "WEB_PRETTY_HTML", "TRUSTED_PROXIES",
}

// clearEnv, test süresince config değişkenlerini tanımsız yapar.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, defaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, 15, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 7, cfg.JWT.RefreshTokenExpiry)
	assert.True(t, cfg.API.Enabled)
	assert.Empty(t, cfg.API.AllowedOrigins)
	assert.True(t, cfg.Web.Enabled)
	assert.Equal(t, "http://127.0.0.1:9090", cfg.Web.APIURL)
	assert.False(t, cfg.Web.CookieSecure)
	assert.False(t, cfg.Web.PrettyHTML)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("127.0.0.0/8"),
		netip.MustParsePrefix("::1/128"),
	}, cfg.Server.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("WEB_API_URL", "http://api.internal:9090/")
	t.Setenv("WEB_COOKIE_SECURE", "1")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.API.AllowedOrigins)
	assert.Equal(t, "http://api.internal:9090", cfg.Web.APIURL)
	assert.True(t, cfg.Web.CookieSecure)
	assert.Empty(t, cfg.Server.TrustedProxies, "empty list trusts no proxy")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"bad port", map[string]string{"JWT_SECRET": "s", "SERVER_PORT": "http"}},
		{"bad bool", map[string]string{"JWT_SECRET": "s", "WEB_ENABLED": "maybe"}},
		{"nothing enabled", map[string]string{"API_ENABLED": "false", "WEB_ENABLED": "false"}},
		{"web only without api url", map[string]string{"API_ENABLED": "false"}},
		{"bad trusted proxy", map[string]string{"JWT_SECRET": "s", "TRUSTED_PROXIES": "10.0.0.0/8,proxy.internal"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_WebOnlyNeedsNoSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_ENABLED", "false")
	t.Setenv("WEB_API_URL", "http://api.internal:9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.API.Enabled)
	assert.Empty(t, cfg.JWT.Secret)
}

func TestLoadDatabase(t *testing.T) {
	clearEnv(t)

	db, err := LoadDatabase()
	require.NoError(t, err)
	assert.Equal(t, defaultDatabasePath, db.Path)

	t.Setenv("DATABASE_PATH", "  ")
	_, err = LoadDatabase()
	assert.Error(t, err)
}

func TestParseTrustedProxies(t *testing.T) {
	got, err := ParseTrustedProxies("10.1.2.3, 192.168.0.0/16 ,::ffff:10.9.9.9, 10.0.0.7/8")
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.1.2.3/32"),
		netip.MustParsePrefix("192.168.0.0/16"),
		netip.MustParsePrefix("10.9.9.9/32"),
		netip.MustParsePrefix("10.0.0.0/8"),
	}, got)

	_, err = ParseTrustedProxies("10.0.0.0/40")
	assert.Error(t, err)
}
