package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// It is built once in main and injected; business logic never reads the
// environment directly.
type Config struct {
	AppPort string
	AppEnv  string

	// APIKey gates the public auth endpoints (x-api-key header).
	APIKey string

	JWTSecret        string
	JWTExpiry        time.Duration
	ResetTokenExpiry time.Duration

	// OTPDebugExpose returns plaintext OTP codes in API responses.
	// Refused when AppEnv is "production" regardless of the flag.
	OTPDebugExpose bool

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables
	S3BucketName string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	Accounts      string
	Cards         string
	Movements     string
	Transfers     string
	OtpChallenges string
	Audit         string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	appEnv := getEnv("APP_ENV", "development")
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  appEnv,

		APIKey: getEnv("API_KEY", ""),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTExpiry:        time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		ResetTokenExpiry: 15 * time.Minute,

		OTPDebugExpose: getEnvBool("OTP_DEBUG_EXPOSE", false) && appEnv != "production",

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			Accounts:      getEnv("DYNAMO_TABLE_ACCOUNTS", "accounts"),
			Cards:         getEnv("DYNAMO_TABLE_CARDS", "cards"),
			Movements:     getEnv("DYNAMO_TABLE_MOVEMENTS", "movements"),
			Transfers:     getEnv("DYNAMO_TABLE_TRANSFERS", "transfers"),
			OtpChallenges: getEnv("DYNAMO_TABLE_OTP_CHALLENGES", "otp_challenges"),
			Audit:         getEnv("DYNAMO_TABLE_AUDIT", "audit"),
		},
		S3BucketName: getEnv("S3_BUCKET_NAME", "banking-audit-exports"),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
