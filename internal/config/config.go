package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/policy"
	"github.com/cmlabs-hris/hris-timesheet-go/internal/pkg/clock"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Engine   EngineConfig
	Cron     CronConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration. Tokens are issued elsewhere; the secret
// verifies them.
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string

	// RateLimitPerMinute caps requests per client IP; 0 disables the limit.
	RateLimitPerMinute int
}

// EngineConfig tunes the timesheet engine.
type EngineConfig struct {
	MergeEndAfter            string
	MergeStartBefore         string
	AnnualLeaveDays          int
	SupervisorRoles          []string
	SupervisorMonthlyAccrual decimal.Decimal
	SaturdayAbsenceRoles     []string
}

type CronConfig struct {
	Enabled       bool
	ReconcileSpec string
	SweepBatch    int
}

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		slog.Debug("no .env file found, using environment only")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "cmlabs-hris"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "200"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}

	config.App = AppConfig{
		Name:               getEnv("APP_NAME", "hris-timesheet"),
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:     getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		RateLimitPerMinute: rateLimit,
	}

	// JWT configuration
	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	// Engine configuration
	annualDays, err := strconv.Atoi(getEnv("ANNUAL_LEAVE_DAYS", strconv.Itoa(policy.StandardAnnualLeaveDays)))
	if err != nil {
		return nil, fmt.Errorf("invalid ANNUAL_LEAVE_DAYS: %w", err)
	}
	supervisorAccrual, err := decimal.NewFromString(getEnv("SUPERVISOR_MONTHLY_ACCRUAL", "2.1667"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUPERVISOR_MONTHLY_ACCRUAL: %w", err)
	}

	config.Engine = EngineConfig{
		MergeEndAfter:            getEnv("SHIFT_MERGE_END_AFTER", "23:50"),
		MergeStartBefore:         getEnv("SHIFT_MERGE_START_BEFORE", "10:00"),
		AnnualLeaveDays:          annualDays,
		SupervisorRoles:          policy.SplitRoles(getEnv("SUPERVISOR_ROLES", "")),
		SupervisorMonthlyAccrual: supervisorAccrual,
		SaturdayAbsenceRoles:     policy.SplitRoles(getEnv("SATURDAY_ABSENCE_ROLES", "")),
	}

	// Cron configuration
	cronEnabled, err := strconv.ParseBool(getEnv("CRON_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_ENABLED: %w", err)
	}
	sweepBatch, err := strconv.Atoi(getEnv("CRON_SWEEP_BATCH", "200"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_SWEEP_BATCH: %w", err)
	}

	config.Cron = CronConfig{
		Enabled:       cronEnabled,
		ReconcileSpec: getEnv("CRON_RECONCILE_SPEC", "15 0 * * *"),
		SweepBatch:    sweepBatch,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if !clock.IsValid(c.Engine.MergeEndAfter) {
		return fmt.Errorf("SHIFT_MERGE_END_AFTER must be HH:MM, got %q", c.Engine.MergeEndAfter)
	}
	if !clock.IsValid(c.Engine.MergeStartBefore) {
		return fmt.Errorf("SHIFT_MERGE_START_BEFORE must be HH:MM, got %q", c.Engine.MergeStartBefore)
	}
	if c.Engine.AnnualLeaveDays <= 0 {
		return fmt.Errorf("ANNUAL_LEAVE_DAYS must be positive")
	}
	if !c.Engine.SupervisorMonthlyAccrual.IsPositive() {
		return fmt.Errorf("SUPERVISOR_MONTHLY_ACCRUAL must be positive")
	}
	return nil
}

// Policies builds the role policy table from the engine settings.
func (c *Config) Policies() *policy.Table {
	return policy.FromOptions(policy.Options{
		AnnualLeaveDays:          c.Engine.AnnualLeaveDays,
		SupervisorRoles:          c.Engine.SupervisorRoles,
		SupervisorMonthlyAccrual: c.Engine.SupervisorMonthlyAccrual,
		SaturdayAbsenceRoles:     c.Engine.SaturdayAbsenceRoles,
	})
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
