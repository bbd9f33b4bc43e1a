package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// OCRConfig holds settings for the external text-extraction service.
type OCRConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// ReviewerConfig holds settings for the external AI compliance reviewer.
// The reviewer speaks an OpenAI-compatible chat completions API.
type ReviewerConfig struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// ComplianceConfig exposes the scoring constants as a configuration surface
// so jurisdictions can tune them without a rebuild.
type ComplianceConfig struct {
	// AIWeight and RuleWeight form the convex combination applied when the
	// external reviewer succeeds. They should sum to 1.
	AIWeight   float64
	RuleWeight float64
	// Threshold is the minimum final percentage considered compliant.
	Threshold float64
	// AssumedAIChecks is the fixed check count the reviewer's issue total is
	// scored against.
	AssumedAIChecks int
	// MinTextLength and MaxTextLength bound the extracted text accepted by
	// the full scoring pipeline.
	MinTextLength int
	MaxTextLength int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost    string
	Port       string
	Database   DatabaseConfig
	MinIO      MinIOConfig
	OCR        OCRConfig
	Reviewer   ReviewerConfig
	Compliance ComplianceConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		OCR: OCRConfig{
			Endpoint: getEnv("OCR_ENDPOINT", ""),
			Timeout:  time.Duration(getEnvInt("OCR_TIMEOUT_SEC", 30)) * time.Second,
		},
		Reviewer: ReviewerConfig{
			Endpoint: getEnv("REVIEWER_ENDPOINT", ""),
			APIKey:   getEnv("REVIEWER_API_KEY", ""),
			Model:    getEnv("REVIEWER_MODEL", "gpt-4o"),
			Timeout:  time.Duration(getEnvInt("REVIEWER_TIMEOUT_SEC", 20)) * time.Second,
		},
		Compliance: ComplianceConfig{
			AIWeight:        getEnvFloat("COMPLIANCE_AI_WEIGHT", 0.6),
			RuleWeight:      getEnvFloat("COMPLIANCE_RULE_WEIGHT", 0.4),
			Threshold:       getEnvFloat("COMPLIANCE_THRESHOLD", 80),
			AssumedAIChecks: getEnvInt("COMPLIANCE_AI_CHECKS", 10),
			MinTextLength:   getEnvInt("COMPLIANCE_MIN_TEXT_LEN", 50),
			MaxTextLength:   getEnvInt("COMPLIANCE_MAX_TEXT_LEN", 50000),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
