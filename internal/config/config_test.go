package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
mongo:
  uri: mongodb://localhost:27017
jwt:
  private_key_path: keys/priv.pem
  public_key_path: keys/pub.pem
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "access_token", cfg.JWT.CookieName)
	assert.Equal(t, "learnhub", cfg.Mongo.Database)
	assert.Equal(t, "LearnHub", cfg.Certificate.Issuer)
	assert.Equal(t, 60*time.Second, cfg.DedupWindow)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10, cfg.Security.PasswordHashCost)
}

func TestLoadRequiresMongoURI(t *testing.T) {
	path := writeConfig(t, `
jwt:
  private_key_path: keys/priv.pem
  public_key_path: keys/pub.pem
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRequiresJWTKeys(t *testing.T) {
	path := writeConfig(t, `
mongo:
  uri: mongodb://localhost:27017
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
app:
  env: production
  port: 9000
mongo:
  uri: mongodb://db:27017
  database: learnhub_prod
jwt:
  private_key_path: keys/priv.pem
  public_key_path: keys/pub.pem
notification:
  dedup_window_seconds: 120
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Equal(t, "learnhub_prod", cfg.Mongo.Database)
	assert.Equal(t, 2*time.Minute, cfg.DedupWindow)
}
