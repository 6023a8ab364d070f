package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/reklub/kumitsu-app/storage"
)

type Config struct {
	DatabaseURL string
	ServerPort  int
	LogLevel    slog.Level

	CourtCount    int
	MatchInterval time.Duration
	// BracketSeed makes draws reproducible when set.
	BracketSeed *uint64

	CORSAllowedOrigins []string
	// ResultRateLimit is requests per second per client IP on match mutations.
	ResultRateLimit float64
	ResultRateBurst int
	// TrustProxyHeaders takes the client IP from X-Forwarded-For / X-Real-IP.
	// Enable it only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool

	R2 storage.CloudflareR2UploaderConfig
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(envOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	courts, err := intEnv("COURT_COUNT", 4)
	if err != nil {
		return nil, err
	}
	if courts <= 0 {
		return nil, fmt.Errorf("COURT_COUNT must be positive, got %d", courts)
	}

	interval, err := intEnv("MATCH_INTERVAL_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		return nil, fmt.Errorf("MATCH_INTERVAL_MINUTES must be positive, got %d", interval)
	}

	var seed *uint64
	if s := os.Getenv("BRACKET_SEED"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid BRACKET_SEED environment variable: %w", err)
		}
		seed = &v
	}

	rps, err := strconv.ParseFloat(envOrDefault("RESULT_RATE_LIMIT", "5"), 64)
	if err != nil || rps <= 0 {
		return nil, fmt.Errorf("RESULT_RATE_LIMIT must be a positive number, got %q", os.Getenv("RESULT_RATE_LIMIT"))
	}
	burst, err := intEnv("RESULT_RATE_BURST", 10)
	if err != nil {
		return nil, err
	}
	if burst <= 0 {
		return nil, fmt.Errorf("RESULT_RATE_BURST must be positive, got %d", burst)
	}

	trustProxy, err := strconv.ParseBool(envOrDefault("TRUST_PROXY_HEADERS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRUST_PROXY_HEADERS environment variable: %w", err)
	}

	r2 := storage.CloudflareR2UploaderConfig{
		AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("R2_BUCKET_NAME"),
		PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
		Endpoint:        os.Getenv("R2_ENDPOINT"),
	}
	if err := validateR2(r2); err != nil {
		return nil, err
	}

	return &Config{
		DatabaseURL:        dbURL,
		ServerPort:         port,
		LogLevel:           level,
		CourtCount:         courts,
		MatchInterval:      time.Duration(interval) * time.Minute,
		BracketSeed:        seed,
		CORSAllowedOrigins: splitList(envOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		ResultRateLimit:    rps,
		ResultRateBurst:    burst,
		TrustProxyHeaders:  trustProxy,
		R2:                 r2,
	}, nil
}

// validateR2 accepts either no object storage settings or a complete set.
func validateR2(c storage.CloudflareR2UploaderConfig) error {
	values := map[string]string{
		"R2_ACCESS_KEY_ID":     c.AccessKeyID,
		"R2_SECRET_ACCESS_KEY": c.SecretAccessKey,
		"R2_BUCKET_NAME":       c.BucketName,
		"R2_PUBLIC_BASE_URL":   c.PublicBaseURL,
	}
	anySet := c.AccountID != "" || c.Endpoint != ""
	for _, v := range values {
		anySet = anySet || v != ""
	}
	if !anySet {
		return nil
	}

	var missing []string
	if c.AccountID == "" && c.Endpoint == "" {
		missing = append(missing, "R2_ACCOUNT_ID")
	}
	for _, key := range []string{"R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME", "R2_PUBLIC_BASE_URL"} {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("incomplete object storage settings, missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
