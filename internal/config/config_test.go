package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"PORT",
		"REQUEST_TIMEOUT_SEC",
		"MAX_SYMBOLS",
		"API_KEY",
		"PROVIDER",
		"HISTORY_DAYS",
		"PROVIDER_MAX_CONCURRENCY",
		"PROVIDER_MAX_RPM",
		"PROVIDER_MIN_INTERVAL_SEC",
		"PROVIDER_BURST",
		"YAHOO_BASE_URL",
		"POLYGON_API_KEY",
		"POLYGON_TIMEZONE",
		"FINANCEGO_TIMEZONE",
		"LOG_LEVEL",
		"LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_DefaultsUseInsecureKey(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	require.Equal(t, InsecureDefaultAPIKey, cfg.Auth.APIKey)
	require.True(t, cfg.UsingDefaultAPIKey)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "yahoo", cfg.Provider.Name)
	require.Equal(t, 7, cfg.Provider.HistoryDays)
}

func TestLoad_FileThenEnvOverrides(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server": {"port": "9000", "max_symbols": 10},
		"auth": {"api_key": "from-file"},
		"provider": {"name": "financego", "history_days": 10}
	}`), 0o600))
	t.Setenv("API_KEY", "from-env")
	t.Setenv("PROVIDER_MAX_RPM", "30")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Server.Port)
	require.Equal(t, 10, cfg.Server.MaxSymbols)
	require.Equal(t, "from-env", cfg.Auth.APIKey)
	require.False(t, cfg.UsingDefaultAPIKey)
	require.Equal(t, "financego", cfg.Provider.Name)
	require.Equal(t, 10, cfg.Provider.HistoryDays)
	require.Equal(t, 30, cfg.Provider.MaxRequestsPerMinute)
	require.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_InvalidJSON(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))

	_, err := Load(path)
	require.ErrorContains(t, err, "parse config")
}

func TestLoad_PolygonRequiresKey(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PROVIDER", "polygon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	t.Setenv("POLYGON_API_KEY", "pk")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	require.Equal(t, "pk", cfg.Polygon.APIKey)
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := Default()
	cfg.Provider.Name = "bloomberg"
	require.ErrorContains(t, cfg.Validate(), "unknown provider")
}
