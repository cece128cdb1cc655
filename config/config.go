package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all startup configuration. It is built once in LoadConfig and
// injected into services; nothing reads the environment after startup.
type Config struct {
	Env  string
	Port string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string

	PayOSClientID    string
	PayOSAPIKey      string
	PayOSChecksumKey string
	PayOSBaseURL     string
	PayOSReturnURL   string
	PayOSCancelURL   string
	PayOSTimeout     time.Duration

	FrontendResultURL string

	// Upload storage: "local" or "s3".
	StorageBackend string
	UploadDir      string
	UploadBaseURL  string
	S3Bucket       string
	S3Region       string
	S3PublicURL    string

	SeedingEnabled bool
	SkipProducts   bool

	// MockPaymentEnabled gates the test-only payment confirmation path.
	// Must stay false in production.
	MockPaymentEnabled bool
	MockPaymentDelay   time.Duration
}

func LoadConfig() (*Config, error) {
	// .env is a development convenience; real deployments set the environment.
	_ = godotenv.Load()

	cfg := &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8080"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret: os.Getenv("JWT_SECRET"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: getEnv("MAIL_FROM", "noreply@sonmaiheritage.com"),

		PayOSClientID:    os.Getenv("PAYOS_CLIENT_ID"),
		PayOSAPIKey:      os.Getenv("PAYOS_API_KEY"),
		PayOSChecksumKey: os.Getenv("PAYOS_CHECKSUM_KEY"),
		PayOSBaseURL:     getEnv("PAYOS_BASE_URL", "https://api-merchant.payos.vn"),
		PayOSReturnURL:   getEnv("PAYOS_RETURN_URL", "http://localhost:8080/api/checkout/payos/return"),
		PayOSCancelURL:   getEnv("PAYOS_CANCEL_URL", "http://localhost:8080/api/checkout/payos/cancel"),
		PayOSTimeout:     getEnvDuration("PAYOS_TIMEOUT", 10*time.Second),

		FrontendResultURL: getEnv("FRONTEND_RESULT_URL", "http://localhost:4200/payment-result"),

		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		UploadBaseURL:  getEnv("UPLOAD_BASE_URL", "/uploads"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       getEnv("S3_REGION", "ap-southeast-1"),
		S3PublicURL:    os.Getenv("S3_PUBLIC_URL"),

		SeedingEnabled: getEnvBool("SEEDING_ENABLED", true),
		SkipProducts:   getEnvBool("SEEDING_SKIP_PRODUCTS", false),

		MockPaymentEnabled: getEnvBool("MOCK_PAYMENT_ENABLED", false),
		MockPaymentDelay:   getEnvDuration("MOCK_PAYMENT_DELAY", time.Second),
	}

	if cfg.PostgresUser == "" || cfg.PostgresDB == "" {
		return nil, fmt.Errorf("database config incomplete: POSTGRES_USER and POSTGRES_DB are required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.IsProduction() && cfg.MockPaymentEnabled {
		return nil, fmt.Errorf("MOCK_PAYMENT_ENABLED must not be set in production")
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresSSLMode)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
