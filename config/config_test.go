package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
logLevel: debug
api:
  baseUrl: https://api.maxloyalty.mx
  timeout: 5s
report:
  bucket: reportes-max
  mailTo:
    - gerencia@maxloyalty.mx
  groupBy: [canal, tipo_combustible]
`

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "https://api.maxloyalty.mx", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, []string{"gerencia@maxloyalty.mx"}, cfg.Report.MailTo)
	assert.Equal(t, []string{"canal", "tipo_combustible"}, cfg.Report.GroupBy)
	assert.Equal(t, "Max Loyalty", cfg.Report.Company)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 12*time.Hour, cfg.Auth.TokenTTL)
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("api: ["))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MAXLOYALTY_API_URL":         "http://devapi:8080",
		"MAXLOYALTY_TOKEN":           "tok",
		"DSN":                        "root:pw@tcp(localhost:3306)/maxloyalty?parseTime=true",
		"MAXLOYALTY_TIMEOUT_SECONDS": "7",
		"SLACK_BOT_TOKEN":            "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	cfg.Slack.Token = "keep"
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, "http://devapi:8080", cfg.API.BaseURL)
	assert.Equal(t, "tok", cfg.API.Token)
	assert.Equal(t, 7*time.Second, cfg.API.Timeout)
	assert.Contains(t, cfg.Database.DSN, "maxloyalty")
	assert.Equal(t, "keep", cfg.Slack.Token)

	env["MAXLOYALTY_TIMEOUT_SECONDS"] = "soon"
	assert.Error(t, cfg.ApplyEnv(lookup))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	t.Setenv("MAXLOYALTY_API_URL", "http://override")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override", cfg.API.BaseURL)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
