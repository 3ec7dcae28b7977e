package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment tags
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Site        SiteConfig     `mapstructure:"site"`
	Database    DatabaseConfig `mapstructure:"database"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Log         LogConfig      `mapstructure:"log"`
	Token       TokenConfig    `mapstructure:"token"`
	Dispatch    DispatchConfig `mapstructure:"dispatch"`
	Email       EmailConfig    `mapstructure:"email"`
	Image       ImageConfig    `mapstructure:"image"`
	AWS         AWSConfig      `mapstructure:"aws"`
	Schedule    ScheduleConfig `mapstructure:"schedule"`
}

// IsProduction reports whether the environment tag is production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// SiteConfig holds public site settings used in email links
type SiteConfig struct {
	URL            string `mapstructure:"url"`
	AdminEmail     string `mapstructure:"admin_email"`
	Name           string `mapstructure:"name"`
	MailingAddress string `mapstructure:"mailing_address"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// DSN returns the PostgreSQL connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration. An empty host disables the
// dispatch run lock.
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

// Enabled reports whether Redis is configured
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Addr returns the Redis address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TokenConfig holds subscriber link token configuration
type TokenConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// DispatchConfig holds newsletter dispatch settings
type DispatchConfig struct {
	BatchSize int    `mapstructure:"batch_size"`
	Timezone  string `mapstructure:"timezone"`
}

// Location resolves the dispatch timezone used to compute "today"
func (c DispatchConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// EmailConfig holds email sending configuration
type EmailConfig struct {
	// Provider is the email transport to use: "gmail", "ses" or "log"
	Provider string `mapstructure:"provider"`
	// SenderAddress is the "From" email address
	SenderAddress string `mapstructure:"sender_address"`
	// SenderName is the display name for the sender
	SenderName string           `mapstructure:"sender_name"`
	Gmail      GmailEmailConfig `mapstructure:"gmail"`
}

// GmailEmailConfig holds Gmail API configuration
type GmailEmailConfig struct {
	// CredentialsJSON is the service account credentials JSON content
	CredentialsJSON string `mapstructure:"credentials_json"`
	// ClientID for OAuth2 token-based auth (alternative to service account)
	ClientID string `mapstructure:"client_id"`
	// ClientSecret for OAuth2 token-based auth
	ClientSecret string `mapstructure:"client_secret"`
	// RefreshToken for OAuth2 token-based auth
	RefreshToken string `mapstructure:"refresh_token"`
}

// ImageConfig holds illustration generation and storage settings
type ImageConfig struct {
	// Provider is the generative image API: "openai" or "bedrock"
	Provider string `mapstructure:"provider"`
	// Storage is where illustrations are kept: "local" or "s3"
	Storage  string `mapstructure:"storage"`
	MaxWidth int    `mapstructure:"max_width"`

	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	Bedrock BedrockConfig `mapstructure:"bedrock"`
	Local   LocalConfig   `mapstructure:"local"`
	S3      S3Config      `mapstructure:"s3"`
}

// OpenAIConfig holds OpenAI images API settings
type OpenAIConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Size    string        `mapstructure:"size"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// BedrockConfig holds AWS Bedrock image model settings
type BedrockConfig struct {
	ModelID string `mapstructure:"model_id"`
	Width   int    `mapstructure:"width"`
	Height  int    `mapstructure:"height"`
}

// LocalConfig holds filesystem image storage settings
type LocalConfig struct {
	// Dir is the public images directory served at {site.url}/images
	Dir string `mapstructure:"dir"`
}

// S3Config holds S3 image storage settings
type S3Config struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
	// PublicURL is the base URL images are served from (bucket website or CDN)
	PublicURL string `mapstructure:"public_url"`
}

// AWSConfig holds shared AWS SDK settings
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// ScheduleConfig holds settings for the schedule command
type ScheduleConfig struct {
	Dispatch   string `mapstructure:"dispatch"`
	Illustrate string `mapstructure:"illustrate"`
	// HealthAddr is the listen address for /health, /ready and /status.
	// Empty disables the endpoint.
	HealthAddr string `mapstructure:"health_addr"`
}

// legacyEnv maps config keys to the plain environment variable names used by
// existing deployments
var legacyEnv = map[string]string{
	"environment":           "CURRENT_ENV",
	"site.url":              "SITE_URL",
	"site.admin_email":      "ADMIN_EMAIL",
	"database.host":         "DB_HOST",
	"database.port":         "DB_PORT",
	"database.name":         "DB_NAME",
	"database.user":         "DB_USER",
	"database.password":     "DB_PASS",
	"image.openai.api_key":  "OPENAI_API_KEY",
	"token.secret":          "TOKEN_SECRET",
	"aws.region":            "AWS_REGION",
	"aws.access_key_id":     "AWS_ACCESS_KEY_ID",
	"aws.secret_access_key": "AWS_SECRET_ACCESS_KEY",
}

// Load reads configuration from a .env file, an optional config file and
// environment variables. An empty path searches the default locations.
func Load(path string) (*Config, error) {
	// A missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/polyphrases")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("POLYPHRASES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range legacyEnv {
		// prefixed variables still win through AutomaticEnv
		if err := v.BindEnv(key, "POLYPHRASES_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", EnvDevelopment)

	// Site defaults
	v.SetDefault("site.url", "http://localhost:8080")
	v.SetDefault("site.name", "Poly Phrases")
	v.SetDefault("site.mailing_address", "30 N Gould St Ste N, Sheridan, WY 82801")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "polyphrases")
	v.SetDefault("database.user", "polyphrases")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 4)

	// Redis defaults (disabled unless a host is set)
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_ttl", "30m")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Token defaults
	v.SetDefault("token.issuer", "polyphrases")

	// Dispatch defaults
	v.SetDefault("dispatch.batch_size", 20)
	v.SetDefault("dispatch.timezone", "local")

	// Email defaults
	v.SetDefault("email.provider", "log")
	v.SetDefault("email.sender_address", "")
	v.SetDefault("email.sender_name", "Poly Phrases")

	// Image defaults
	v.SetDefault("image.provider", "openai")
	v.SetDefault("image.storage", "local")
	v.SetDefault("image.max_width", 1024)
	v.SetDefault("image.openai.model", "dall-e-3")
	v.SetDefault("image.openai.size", "1024x1024")
	v.SetDefault("image.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("image.openai.timeout", "120s")
	v.SetDefault("image.bedrock.model_id", "amazon.titan-image-generator-v1")
	v.SetDefault("image.bedrock.width", 1024)
	v.SetDefault("image.bedrock.height", 1024)
	v.SetDefault("image.local.dir", "./public/images")
	v.SetDefault("image.s3.prefix", "images")

	// AWS defaults
	v.SetDefault("aws.region", "us-east-1")

	// Schedule defaults
	v.SetDefault("schedule.dispatch", "*/10 6-9 * * *")
	v.SetDefault("schedule.illustrate", "0 2 * * *")
	v.SetDefault("schedule.health_addr", "")
}

// ValidateDispatch checks the settings the dispatch job cannot run without
func (c *Config) ValidateDispatch() error {
	if c.Site.URL == "" {
		return errors.New("site.url (SITE_URL) is required")
	}
	if c.Token.Secret == "" {
		return errors.New("token.secret (TOKEN_SECRET) is required")
	}
	if c.Dispatch.BatchSize <= 0 {
		return fmt.Errorf("dispatch.batch_size must be positive, got %d", c.Dispatch.BatchSize)
	}
	if !c.IsProduction() && c.Site.AdminEmail == "" {
		return errors.New("site.admin_email (ADMIN_EMAIL) is required outside production")
	}
	switch c.Email.Provider {
	case "gmail", "ses":
		if c.Email.SenderAddress == "" {
			return errors.New("email.sender_address is required")
		}
	case "log", "":
		if c.IsProduction() {
			return fmt.Errorf("email.provider %q does not deliver mail and is not allowed in production", c.Email.Provider)
		}
	default:
		return fmt.Errorf("unknown email provider %q", c.Email.Provider)
	}
	if _, err := c.Dispatch.Location(); err != nil {
		return fmt.Errorf("invalid dispatch.timezone: %w", err)
	}
	return nil
}

// ValidateIllustrate checks the settings the image job cannot run without
func (c *Config) ValidateIllustrate() error {
	switch c.Image.Provider {
	case "openai":
		if c.Image.OpenAI.APIKey == "" {
			return errors.New("image.openai.api_key (OPENAI_API_KEY) is required")
		}
	case "bedrock":
	default:
		return fmt.Errorf("unknown image provider %q", c.Image.Provider)
	}
	switch c.Image.Storage {
	case "local":
		if c.Image.Local.Dir == "" {
			return errors.New("image.local.dir is required")
		}
	case "s3":
		if c.Image.S3.Bucket == "" {
			return errors.New("image.s3.bucket is required")
		}
	default:
		return fmt.Errorf("unknown image storage %q", c.Image.Storage)
	}
	return nil
}
