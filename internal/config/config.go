package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/harentsoaR/clinic-api/internal/schedule"
)

const (
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	APIPort      string `mapstructure:"API_PORT"`
	Env          string `mapstructure:"ENV"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	StoreBackend string `mapstructure:"STORE_BACKEND"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`

	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	JWTTTL      time.Duration `mapstructure:"JWT_TTL"`
	CORSOrigins []string      `mapstructure:"CORS_ORIGINS"`

	ClinicUTCOffsetHours int    `mapstructure:"CLINIC_UTC_OFFSET_HOURS"`
	SlotOpen             string `mapstructure:"SLOT_OPEN"`
	SlotClose            string `mapstructure:"SLOT_CLOSE"`
	SlotStepMinutes      int    `mapstructure:"SLOT_STEP_MINUTES"`

	TextbeltAPIKey    string `mapstructure:"TEXTBELT_API_KEY"`
	TextbeltURL       string `mapstructure:"TEXTBELT_URL"`
	SendGridAPIKey    string `mapstructure:"SENDGRID_API_KEY"`
	SendGridFromEmail string `mapstructure:"SENDGRID_FROM_EMAIL"`
	SendGridFromName  string `mapstructure:"SENDGRID_FROM_NAME"`

	SeedAdminName     string `mapstructure:"SEED_ADMIN_NAME"`
	SeedAdminEmail    string `mapstructure:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `mapstructure:"SEED_ADMIN_PASSWORD"`

	PresenceWindow        time.Duration `mapstructure:"PRESENCE_WINDOW"`
	PresenceSweepInterval time.Duration `mapstructure:"PRESENCE_SWEEP_INTERVAL"`
}

var keys = []string{
	"API_PORT", "ENV", "LOG_LEVEL", "STORE_BACKEND",
	"MONGO_URI", "MONGO_DATABASE", "REDIS_ADDR", "REDIS_PASSWORD", "DATABASE_URL",
	"JWT_SECRET", "JWT_TTL", "CORS_ORIGINS",
	"CLINIC_UTC_OFFSET_HOURS", "SLOT_OPEN", "SLOT_CLOSE", "SLOT_STEP_MINUTES",
	"TEXTBELT_API_KEY", "TEXTBELT_URL", "SENDGRID_API_KEY", "SENDGRID_FROM_EMAIL", "SENDGRID_FROM_NAME",
	"SEED_ADMIN_NAME", "SEED_ADMIN_EMAIL", "SEED_ADMIN_PASSWORD",
	"PRESENCE_WINDOW", "PRESENCE_SWEEP_INTERVAL",
}

// Load reads .env files when present, then the process environment.
// A missing .env is not an error.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("API_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_BACKEND", BackendMemory)
	v.SetDefault("MONGO_DATABASE", "clinic")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("CLINIC_UTC_OFFSET_HOURS", 3)
	v.SetDefault("SLOT_OPEN", "13:30")
	v.SetDefault("SLOT_CLOSE", "23:30")
	v.SetDefault("SLOT_STEP_MINUTES", schedule.DefaultStep)
	v.SetDefault("SENDGRID_FROM_NAME", "Clinic")
	v.SetDefault("SEED_ADMIN_NAME", "Clinic Owner")
	v.SetDefault("PRESENCE_WINDOW", "45s")
	v.SetDefault("PRESENCE_SWEEP_INTERVAL", "15s")

	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.CORSOrigins = splitOrigins(cfg.CORSOrigins)
	return cfg, nil
}

// splitOrigins accepts either a decoded list or a single comma-joined value.
func splitOrigins(in []string) []string {
	var out []string
	for _, item := range in {
		for _, o := range strings.Split(item, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SlotPolicy is the bookable grid described by SLOT_OPEN, SLOT_CLOSE and
// SLOT_STEP_MINUTES.
func (c *Config) SlotPolicy() (schedule.Policy, error) {
	return schedule.ParsePolicy(c.SlotOpen, c.SlotClose, c.SlotStepMinutes)
}

// Validate checks that the configuration is safe to run.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case BackendMemory:
	case BackendMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required when STORE_BACKEND is mongo"))
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required when STORE_BACKEND is redis"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE_BACKEND is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be memory, mongo, redis or postgres, got %q", c.StoreBackend))
	}

	if c.JWTSecret == "" && !c.IsDev() {
		errs = append(errs, errors.New("JWT_SECRET is required outside development"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.ClinicUTCOffsetHours < -12 || c.ClinicUTCOffsetHours > 14 {
		errs = append(errs, fmt.Errorf("CLINIC_UTC_OFFSET_HOURS out of range: %d", c.ClinicUTCOffsetHours))
	}
	if _, err := c.SlotPolicy(); err != nil {
		errs = append(errs, fmt.Errorf("slot policy: %w", err))
	}
	if c.PresenceWindow <= 0 {
		errs = append(errs, errors.New("PRESENCE_WINDOW must be positive"))
	}
	return errors.Join(errs...)
}
