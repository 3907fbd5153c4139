package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server         ServerConfig
	JWT            JWTConfig
	Postgres       PostgresConfig
	Redis          RedisConfig
	RateLimiter    RateLimiterConfig
	CircuitBreaker CircuitBreakerConfig
	Bulkhead       BulkheadConfig
	Plan           PlanConfig
	Sim            SimConfig
	Services       ServicesConfig
	Cache          CacheConfig
}

type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

type JWTConfig struct {
	Secret string
}

type PostgresConfig struct {
	URL      string // DATABASE_URL takes precedence if set
	Host     string
	Port     int
	User     string
	Password string
	DB       string
	SSLMode  string
}

type RedisConfig struct {
	URL      string // REDIS_URL takes precedence if set
	Host     string
	Port     int
	Password string
	DB       int
}

type RateLimiterConfig struct {
	MaxRequests   int
	WindowSeconds int
}

type CircuitBreakerConfig struct {
	FailureThreshold int
	CooldownSeconds  int
}

type BulkheadConfig struct {
	TelemetryPool int
	MutationPool  int
	AdminPool     int
}

// PlanConfig controls waypoint generation for new tracking sessions.
type PlanConfig struct {
	NumPoints   int
	TripSeconds int
}

// SimConfig controls the movement simulator.
type SimConfig struct {
	StepInterval     time.Duration
	BatteryStart     float64
	BatteryStepDrain float64
	BatteryFloor     float64
}

// ServicesConfig holds base URLs of the external collaborators.
type ServicesConfig struct {
	UserServiceURL  string
	OrderServiceURL string
	RequestTimeout  time.Duration
}

type CacheConfig struct {
	PositionTTLSec    int
	TokenTTLSec       int
	IdempotencyTTLSec int
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func getenvFloat(key string, fallback float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getenvInt("PORT", getenvInt("SERVER_PORT", 8080)),
			ShutdownTimeout: time.Duration(getenvInt("SHUTDOWN_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		JWT: JWTConfig{
			Secret: getenv("JWT_SECRET", "default-secret-change-me"),
		},
		Postgres: PostgresConfig{
			URL:      getenv("DATABASE_URL", ""),
			Host:     getenv("POSTGRES_HOST", "localhost"),
			Port:     getenvInt("POSTGRES_PORT", 5432),
			User:     getenv("POSTGRES_USER", "tracking_admin"),
			Password: getenv("POSTGRES_PASSWORD", "secure_password"),
			DB:       getenv("POSTGRES_DB", "delivery_tracking"),
			SSLMode:  getenv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getenv("REDIS_URL", ""),
			Host:     getenv("REDIS_HOST", "localhost"),
			Port:     getenvInt("REDIS_PORT", 6379),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       getenvInt("REDIS_DB", 0),
		},
		RateLimiter: RateLimiterConfig{
			MaxRequests:   getenvInt("RATE_LIMIT_MAX_REQUESTS", 100),
			WindowSeconds: getenvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		},
		CircuitBreaker: CircuitBreakerConfig{
			FailureThreshold: getenvInt("CB_FAILURE_THRESHOLD", 5),
			CooldownSeconds:  getenvInt("CB_COOLDOWN_SECONDS", 30),
		},
		Bulkhead: BulkheadConfig{
			TelemetryPool: getenvInt("BULKHEAD_TELEMETRY_POOL", 100),
			MutationPool:  getenvInt("BULKHEAD_MUTATION_POOL", 50),
			AdminPool:     getenvInt("BULKHEAD_ADMIN_POOL", 20),
		},
		Plan: PlanConfig{
			NumPoints:   getenvInt("PLAN_NUM_POINTS", 15),
			TripSeconds: getenvInt("PLAN_TRIP_SECONDS", 60),
		},
		Sim: SimConfig{
			StepInterval:     time.Duration(getenvInt("SIM_STEP_INTERVAL_MS", 2000)) * time.Millisecond,
			BatteryStart:     getenvFloat("SIM_BATTERY_START", 100),
			BatteryStepDrain: getenvFloat("SIM_BATTERY_STEP_DRAIN", 0.5),
			BatteryFloor:     getenvFloat("SIM_BATTERY_FLOOR", 0),
		},
		Services: ServicesConfig{
			UserServiceURL:  getenv("USER_SERVICE_URL", "http://user_service:8000"),
			OrderServiceURL: getenv("ORDER_SERVICE_URL", "http://order_service:8000"),
			RequestTimeout:  time.Duration(getenvInt("SERVICE_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		Cache: CacheConfig{
			PositionTTLSec:    getenvInt("POSITION_CACHE_TTL_SECONDS", 60),
			TokenTTLSec:       getenvInt("TOKEN_CACHE_TTL_SECONDS", 30),
			IdempotencyTTLSec: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),
		},
	}

	return cfg, nil
}

func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DB, p.SSLMode)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
