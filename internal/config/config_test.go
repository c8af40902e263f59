package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/mentorlink/internal/security/secretbox"
)

const secret = "0123456789abcdef0123456789abcdef"

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	p := writeYAML(t, `
storage:
  driver: memory
jwt:
  secret: `+secret+`
auth:
  admin:
    domain: university.edu
`)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, 48*time.Hour, c.Auth.Verify.TTL)
	assert.Equal(t, 15*time.Minute, c.Auth.Reset.TTL)
	assert.Equal(t, time.Hour, c.JWT.AccessTTL)
	assert.Equal(t, 8, c.Security.PasswordPolicy.MinLength)
	assert.True(t, c.Security.PasswordPolicy.RequireUpper)
	assert.True(t, c.Security.PasswordPolicy.RequireSymbol)
	assert.Equal(t, "@university.edu", c.AdminDomainSuffix())
}

func TestLoadDurationsAndEnv(t *testing.T) {
	p := writeYAML(t, `
storage:
  driver: memory
jwt:
  secret: `+secret+`
  access_ttl: 30m
auth:
  admin:
    domain: "@University.edu"
security:
  password_blacklist_path: bl.txt
`)
	t.Setenv("AUTH_RESET_TTL", "20m")
	t.Setenv("RATE_LOGIN_LIMIT", "3")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, c.JWT.AccessTTL)
	assert.Equal(t, 20*time.Minute, c.Auth.Reset.TTL)
	assert.Equal(t, 3, c.Rate.Login.Limit)
	assert.Equal(t, "@university.edu", c.AdminDomainSuffix())
	assert.Equal(t, filepath.Join(filepath.Dir(p), "bl.txt"), c.Security.PasswordBlacklistPath)
}

func TestValidateJWTSecret(t *testing.T) {
	c := Default()
	c.Storage.Driver = "memory"
	c.Auth.Admin.Domain = "university.edu"

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret is required")

	c.JWT.Secret = "short"
	err = c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 bytes")

	c.JWT.Secret = secret
	require.NoError(t, c.Validate())
}

func TestValidateStorageAndDomain(t *testing.T) {
	c := Default()
	c.JWT.Secret = secret

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.dsn is required")
	assert.Contains(t, err.Error(), "auth.admin.domain")

	c.Storage.Driver = "memory"
	c.App.Env = "prod"
	c.Auth.Admin.Domain = "a@b.edu"
	err = c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed in prod")
	assert.Contains(t, err.Error(), "auth.admin.domain")
}

func TestLoadOpensSealedSecrets(t *testing.T) {
	key := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	box, err := secretbox.New(key)
	require.NoError(t, err)
	sealed, err := box.Encrypt(secret)
	require.NoError(t, err)

	p := writeYAML(t, `
storage:
  driver: memory
jwt:
  secret: "`+secretbox.Prefix+sealed+`"
auth:
  admin:
    domain: university.edu
`)

	t.Setenv(secretbox.EnvKey, "")
	_, err = Load(p)
	assert.ErrorIs(t, err, secretbox.ErrNoKey)

	t.Setenv(secretbox.EnvKey, key)
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, secret, c.JWT.Secret)
}
