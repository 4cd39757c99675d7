package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Default()
	assert.Equal(t, "8080", c.Server.HttpPort)
	assert.Equal(t, ":8080", c.Addr())
	assert.Equal(t, "@daily", c.Retention.Schedule)
	assert.Equal(t, 12, c.Retention.Months)
	assert.False(t, c.Mail.Configured())
	assert.False(t, c.Content.Watch)
}

func TestLoadMissingFileKeepsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, c.File)
	assert.Equal(t, 8, c.Server.PageCacheSize)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  http-port: ":9000"
log:
  level: debug
mail:
  user: me@example.com
  password: secret
retention:
  months: 0
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.File)
	assert.Equal(t, ":9000", c.Addr())
	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.Mail.Configured())
	assert.Equal(t, 12, c.Retention.Months, "empty values fall back to defaults")
	assert.Equal(t, "smtp.gmail.com", c.Mail.Host)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [1,"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config file failed")
}

func TestEnvOverrides(t *testing.T) {
	env := map[string]string{
		"PORT":           "3000",
		"SMTP_PORT":      "2525",
		"SMTP_USER":      "u",
		"SMTP_PASS":      "p",
		"TO_EMAIL":       "inbox@example.com",
		"ADMIN_PASSWORD": "hunter2",
	}
	c := Default()
	c.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, ":3000", c.Addr())
	assert.Equal(t, 2525, c.Mail.Port)
	assert.True(t, c.Mail.Configured())
	assert.Equal(t, "inbox@example.com", c.Mail.To)
	assert.Equal(t, "admin", c.Admin.Username)
	assert.Equal(t, "hunter2", c.Admin.Password)

	c.applyEnv(func(k string) string {
		if k == "SMTP_PORT" {
			return "abc"
		}
		return ""
	})
	assert.Equal(t, 2525, c.Mail.Port, "unparsable port is ignored")
}
