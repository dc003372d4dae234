package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the pibridge server.
type Config struct {
	Port        int
	MetricsAddr string // Standalone /metrics listener; empty disables it
	APIKey      string // Empty disables API auth (development mode)
	JWTSecret   string // Secret for progress-subscription tokens

	// Remote host (the three opaque connection values)
	SSHHost     string
	SSHUser     string
	SSHPassword string

	// Local filesystem
	DownloadDir string // Where downloads and archives land
	DataDir     string // Local data directory for the history database

	// NATS progress mirror (optional)
	NATSURL string

	// AWS Secrets Manager — if set, secrets are fetched at startup using IAM
	// credentials. The secret is a JSON object with keys matching env var
	// names (e.g. PIBRIDGE_SSH_PASSWORD). Env vars take precedence.
	SecretsARN string
}

// Load reads configuration from the environment with sensible defaults. A
// .env file in the working directory is applied first (never overriding
// explicit env vars), then AWS Secrets Manager if PIBRIDGE_SECRETS_ARN is
// set.
func Load() (*Config, error) {
	// .env is how the desktop-era deployments shipped credentials; keep
	// honoring it. Absence is not an error.
	_ = godotenv.Load()

	if arn := os.Getenv("PIBRIDGE_SECRETS_ARN"); arn != "" {
		if err := loadSecretsManager(arn); err != nil {
			return nil, fmt.Errorf("failed to load secrets from %s: %w", arn, err)
		}
	}

	cfg := &Config{
		Port:        8080,
		MetricsAddr: envOrDefault("PIBRIDGE_METRICS_ADDR", ""),
		APIKey:      os.Getenv("PIBRIDGE_API_KEY"),
		JWTSecret:   os.Getenv("PIBRIDGE_JWT_SECRET"),

		SSHHost:     os.Getenv("PIBRIDGE_SSH_HOST"),
		SSHUser:     os.Getenv("PIBRIDGE_SSH_USER"),
		SSHPassword: os.Getenv("PIBRIDGE_SSH_PASSWORD"),

		DownloadDir: os.Getenv("PIBRIDGE_DOWNLOAD_DIR"),
		DataDir:     envOrDefault("PIBRIDGE_DATA_DIR", "/var/lib/pibridge"),

		NATSURL: os.Getenv("PIBRIDGE_NATS_URL"),

		SecretsARN: os.Getenv("PIBRIDGE_SECRETS_ARN"),
	}

	if cfg.DownloadDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("no PIBRIDGE_DOWNLOAD_DIR and no home directory: %w", err)
		}
		cfg.DownloadDir = filepath.Join(home, "Downloads")
	}

	if portStr := os.Getenv("PIBRIDGE_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PIBRIDGE_PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadSecretsManager fetches a JSON secret from AWS Secrets Manager and sets
// any values as environment variables (only if not already set, so explicit
// env vars always win). Uses the default AWS credential chain.
func loadSecretsManager(arn string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Extract region from ARN: arn:aws:secretsmanager:REGION:ACCOUNT:secret:NAME
	var opts []func(*awsconfig.LoadOptions) error
	if parts := strings.Split(arn, ":"); len(parts) >= 4 && parts[3] != "" {
		opts = append(opts, awsconfig.WithRegion(parts[3]))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg)
	result, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &arn,
	})
	if err != nil {
		return fmt.Errorf("GetSecretValue: %w", err)
	}

	if result.SecretString == nil {
		return fmt.Errorf("secret %s has no string value", arn)
	}

	var secrets map[string]string
	if err := json.Unmarshal([]byte(*result.SecretString), &secrets); err != nil {
		return fmt.Errorf("parse secret JSON: %w", err)
	}

	applied := 0
	for key, value := range secrets {
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
			applied++
		}
	}

	log.Printf("config: loaded %d secrets from Secrets Manager (%d keys in secret, env overrides take precedence)", applied, len(secrets))
	return nil
}
