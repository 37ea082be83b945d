package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Shared token guarding the moderation routes. Real admin identity is
	// handled outside this service.
	AdminAPIToken string

	// Appreciation message gateway (OpenAI-compatible)
	AIGatewayURL string
	AIAPIKey     string
	AIModel      string
	AITimeout    time.Duration

	// Email delivery (Resend)
	ResendAPIKey string
	EmailFrom    string
	EmailTimeout time.Duration

	// Blob store (MinIO/S3 compatible)
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// Optional branding asset for the poster renderer
	PosterLogoPath string

	// Rate limit for the public submission routes, limiter format (e.g. "10-M")
	SubmitRateLimit string

	// Allowed CORS origins, comma separated
	CORSAllowOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ADMIN_API_TOKEN", "")
	viper.SetDefault("AI_GATEWAY_URL", "")
	viper.SetDefault("AI_API_KEY", "")
	viper.SetDefault("AI_MODEL", "google/gemini-3-flash-preview")
	viper.SetDefault("AI_TIMEOUT", "20s")
	viper.SetDefault("RESEND_API_KEY", "")
	viper.SetDefault("EMAIL_FROM", "Street Cause VIIT <noreply@send.streetcauseviit.org>")
	viper.SetDefault("EMAIL_TIMEOUT", "15s")
	viper.SetDefault("MINIO_ENDPOINT", "")
	viper.SetDefault("MINIO_ACCESS_KEY", "")
	viper.SetDefault("MINIO_SECRET_KEY", "")
	viper.SetDefault("MINIO_BUCKET", "donation-posters")
	viper.SetDefault("MINIO_USE_SSL", true)
	viper.SetDefault("POSTER_LOGO_PATH", "")
	viper.SetDefault("SUBMIT_RATE_LIMIT", "10-M")
	viper.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.AdminAPIToken = viper.GetString("ADMIN_API_TOKEN")
	if cfg.AdminAPIToken == "" {
		log.Println("Warning: ADMIN_API_TOKEN not set. Moderation routes will reject all requests.")
	}

	cfg.AIGatewayURL = viper.GetString("AI_GATEWAY_URL")
	cfg.AIAPIKey = viper.GetString("AI_API_KEY")
	cfg.AIModel = viper.GetString("AI_MODEL")
	cfg.AITimeout = parseDurationOr("AI_TIMEOUT", 20*time.Second)
	if cfg.AIGatewayURL == "" {
		log.Println("Warning: AI_GATEWAY_URL not set. Posters will carry the fallback appreciation message.")
	}

	cfg.ResendAPIKey = viper.GetString("RESEND_API_KEY")
	cfg.EmailFrom = viper.GetString("EMAIL_FROM")
	cfg.EmailTimeout = parseDurationOr("EMAIL_TIMEOUT", 15*time.Second)
	if cfg.ResendAPIKey == "" {
		log.Println("Warning: RESEND_API_KEY not set. Poster emails will fail and issuance will proceed without delivery.")
	}

	cfg.MinioEndpoint = viper.GetString("MINIO_ENDPOINT")
	cfg.MinioAccessKey = viper.GetString("MINIO_ACCESS_KEY")
	cfg.MinioSecretKey = viper.GetString("MINIO_SECRET_KEY")
	cfg.MinioBucket = viper.GetString("MINIO_BUCKET")
	cfg.MinioUseSSL = viper.GetBool("MINIO_USE_SSL")

	cfg.PosterLogoPath = viper.GetString("POSTER_LOGO_PATH")
	cfg.SubmitRateLimit = viper.GetString("SUBMIT_RATE_LIMIT")
	for _, origin := range strings.Split(viper.GetString("CORS_ALLOW_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowOrigins = append(cfg.CORSAllowOrigins, origin)
		}
	}

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
