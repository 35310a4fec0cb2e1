package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reoring/billing-go/config"
	"github.com/reoring/billing-go/option"
)

func env(m map[string]string) config.LoadOption {
	return config.WithGetenv(func(k string) string { return m[k] })
}

func noDotenv(t *testing.T) config.LoadOption {
	return config.WithEnvFiles(filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(env(nil), noDotenv(t))
	require.NoError(t, err)
	require.Equal(t, option.DefaultBaseURL, cfg.BaseURL)
	require.Empty(t, cfg.APIKey)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "billing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: http://localhost:9000/v1
api_key: from-file
timeout: 5s
headers:
  X-Team: billing
`), 0o600))

	cfg, err := config.Load(config.WithFile(path), env(map[string]string{config.EnvAPIKey: "from-env"}), noDotenv(t))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9000/v1", cfg.BaseURL)
	require.Equal(t, "from-env", cfg.APIKey)
	require.Equal(t, 5*time.Second, cfg.Timeout)
	require.Equal(t, map[string]string{"X-Team": "billing"}, cfg.Headers)

	rc, err := option.NewRequestConfig(cfg.Options()...)
	require.NoError(t, err)
	require.Equal(t, "Bearer from-env", rc.DefaultHeaders().Get("Authorization"))
	require.Equal(t, "billing", rc.DefaultHeaders().Get("X-Team"))
}

func TestLoad_ConfigPathFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "billing.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: k\n"), 0o600))

	cfg, err := config.Load(env(map[string]string{config.EnvConfig: path, config.EnvTimeout: "250ms"}), noDotenv(t))
	require.NoError(t, err)
	require.Equal(t, "k", cfg.APIKey)
	require.Equal(t, 250*time.Millisecond, cfg.Timeout)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("base_urll: x\n"), 0o600))

	_, err := config.Load(config.WithFile(bad), env(nil), noDotenv(t))
	require.Error(t, err, "unknown keys must be rejected")

	_, err = config.Load(config.WithFile(filepath.Join(dir, "nope.yaml")), env(nil), noDotenv(t))
	require.Error(t, err)

	_, err = config.Load(env(map[string]string{config.EnvTimeout: "soon"}), noDotenv(t))
	require.Error(t, err)
}

func TestLoad_DotenvFile(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("BILLING_TEST_DOTENV_KEY=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("BILLING_TEST_DOTENV_KEY") })

	_, err := config.Load(config.WithEnvFiles(dotenv), env(nil))
	require.NoError(t, err)
	require.Equal(t, "from-dotenv", os.Getenv("BILLING_TEST_DOTENV_KEY"))
}
