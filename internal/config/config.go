package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the reservation backend. Values are
// read from the environment (a .env file is loaded first if present).
type Config struct {
	DatabaseURL string
	Port        string

	LotName     string
	LotCapacity int

	// Pricing, in cents per billable hour.
	RateCentsPerHour           int
	RateCentsPerHourCar        int
	RateCentsPerHourMotorcycle int
	RateCentsPerHourTruck      int
	MinChargeMinutes           int

	// Conversation tuning.
	SessionIdleTimeout time.Duration
	MaxClarifyRetries  int

	JWTSecret string
}

// Load reads the environment into a Config. DATABASE_URL is the only
// required setting; everything else has a default matching the demo lot.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		DatabaseURL:                os.Getenv("DATABASE_URL"),
		Port:                       envOr("PORT", "8080"),
		LotName:                    envOr("LOT_NAME", "RapidPark-A"),
		LotCapacity:                envInt("LOT_CAPACITY", 50),
		RateCentsPerHour:           envInt("RATE_CENTS_PER_HOUR", 400),
		RateCentsPerHourMotorcycle: envInt("RATE_CENTS_PER_HOUR_MOTORCYCLE", 300),
		RateCentsPerHourTruck:      envInt("RATE_CENTS_PER_HOUR_TRUCK", 600),
		MinChargeMinutes:           envInt("MIN_CHARGE_MINUTES", 60),
		SessionIdleTimeout:         time.Duration(envInt("SESSION_IDLE_MINUTES", 30)) * time.Minute,
		MaxClarifyRetries:          envInt("MAX_CLARIFY_RETRIES", 3),
		JWTSecret:                  os.Getenv("JWT_SECRET"),
	}
	// The car rate defaults to the base rate unless overridden.
	cfg.RateCentsPerHourCar = envInt("RATE_CENTS_PER_HOUR_CAR", cfg.RateCentsPerHour)

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config: DATABASE_URL not set")
	}
	if cfg.LotCapacity <= 0 {
		return nil, fmt.Errorf("config: LOT_CAPACITY must be positive, got %d", cfg.LotCapacity)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
