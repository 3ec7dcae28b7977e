package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 20, cfg.Dispatch.BatchSize)
	assert.Equal(t, "log", cfg.Email.Provider)
	assert.Equal(t, "local", cfg.Image.Storage)
	assert.Equal(t, 30*time.Minute, cfg.Redis.LockTTL)
	assert.Equal(t, 120*time.Second, cfg.Image.OpenAI.Timeout)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_LegacyEnvironment(t *testing.T) {
	t.Setenv("CURRENT_ENV", "production")
	t.Setenv("SITE_URL", "https://polyphrases.com")
	t.Setenv("ADMIN_EMAIL", "admin@polyphrases.com")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_PASS", "hunter2")
	t.Setenv("OPENAI_API_KEY", "sk-live")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "https://polyphrases.com", cfg.Site.URL)
	assert.Equal(t, "admin@polyphrases.com", cfg.Site.AdminEmail)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "hunter2", cfg.Database.Password)
	assert.Equal(t, "sk-live", cfg.Image.OpenAI.APIKey)
}

func TestLoad_PrefixedEnvironmentWins(t *testing.T) {
	t.Setenv("DB_PASS", "old")
	t.Setenv("POLYPHRASES_DATABASE_PASSWORD", "new")
	t.Setenv("POLYPHRASES_DISPATCH_BATCH_SIZE", "5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "new", cfg.Database.Password)
	assert.Equal(t, 5, cfg.Dispatch.BatchSize)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
site:
  url: https://staging.polyphrases.com
redis:
  host: cache
  lock_ttl: 5m
schedule:
  dispatch: "0 7 * * *"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.polyphrases.com", cfg.Site.URL)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
	assert.Equal(t, 5*time.Minute, cfg.Redis.LockTTL)
	assert.Equal(t, "0 7 * * *", cfg.Schedule.Dispatch)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func validDispatchConfig() *Config {
	return &Config{
		Environment: EnvDevelopment,
		Site:        SiteConfig{URL: "https://polyphrases.com", AdminEmail: "admin@polyphrases.com"},
		Token:       TokenConfig{Secret: "s3cret"},
		Dispatch:    DispatchConfig{BatchSize: 20, Timezone: "UTC"},
		Email:       EmailConfig{Provider: "log"},
	}
}

func TestValidateDispatch(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing site url", mutate: func(c *Config) { c.Site.URL = "" }, wantErr: true},
		{name: "missing token secret", mutate: func(c *Config) { c.Token.Secret = "" }, wantErr: true},
		{name: "zero batch", mutate: func(c *Config) { c.Dispatch.BatchSize = 0 }, wantErr: true},
		{name: "no admin outside production", mutate: func(c *Config) { c.Site.AdminEmail = "" }, wantErr: true},
		{name: "no admin in production", mutate: func(c *Config) {
			c.Environment = EnvProduction
			c.Site.AdminEmail = ""
			c.Email.Provider = "ses"
			c.Email.SenderAddress = "hello@polyphrases.com"
		}},
		{name: "log provider in production", mutate: func(c *Config) {
			c.Environment = EnvProduction
			c.Email.Provider = "log"
		}, wantErr: true},
		{name: "empty provider in production", mutate: func(c *Config) {
			c.Environment = EnvProduction
			c.Email.Provider = ""
		}, wantErr: true},
		{name: "empty provider outside production", mutate: func(c *Config) { c.Email.Provider = "" }},
		{name: "ses without sender", mutate: func(c *Config) { c.Email.Provider = "ses" }, wantErr: true},
		{name: "unknown provider", mutate: func(c *Config) { c.Email.Provider = "fax" }, wantErr: true},
		{name: "bad timezone", mutate: func(c *Config) { c.Dispatch.Timezone = "Mars/Olympus" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDispatchConfig()
			tt.mutate(cfg)
			err := cfg.ValidateDispatch()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateIllustrate(t *testing.T) {
	cfg := &Config{Image: ImageConfig{
		Provider: "openai",
		Storage:  "local",
		OpenAI:   OpenAIConfig{APIKey: "sk"},
		Local:    LocalConfig{Dir: "./public/images"},
	}}
	assert.NoError(t, cfg.ValidateIllustrate())

	cfg.Image.OpenAI.APIKey = ""
	assert.Error(t, cfg.ValidateIllustrate())

	cfg.Image.Provider = "bedrock"
	assert.NoError(t, cfg.ValidateIllustrate())

	cfg.Image.Storage = "s3"
	assert.Error(t, cfg.ValidateIllustrate())

	cfg.Image.S3.Bucket = "pp-assets"
	assert.NoError(t, cfg.ValidateIllustrate())
}

func TestDispatchLocation(t *testing.T) {
	loc, err := DispatchConfig{Timezone: "local"}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = DispatchConfig{Timezone: "Europe/Oslo"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Oslo", loc.String())
}
