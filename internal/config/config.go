package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	ServiceName string
	Version     string
	Environment string
	LogLevel    string
	LogFormat   string
	APIKey      string // API key for authentication

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Capture engine tunables
	DefaultCaptureRadius float64       // meters, used when a prize has no radius configured
	RedemptionTTL        time.Duration // pending redemptions expire after this
	PrizeCacheSize       int
	PrizeCacheTTL        time.Duration

	// Anti-cheat tunables (served to the engine through its ConfigProvider)
	AntiCheatMaxPerMinute    int
	AntiCheatMaxSpeedMS      float64
	AntiCheatScoreFloor      float64
	AntiCheatFailOpen        bool
	AntiCheatDegradedScore   float64
	AntiCheatAccuracyCeiling float64 // meters; GPS accuracy above this is penalized
	AntiCheatConfigRefresh   time.Duration

	// Side-effect dispatcher
	WorkerCount    int
	WorkerQueueLen int
	DeadLetterPath string

	// Background sweeps
	SweepInterval      time.Duration // how often stale redemptions and holds are swept
	ReservationHoldTTL time.Duration // held stock older than this is released
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "prizehunt"),
		Version:     getEnv("VERSION", "dev"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		APIKey:      getEnv("API_KEY", ""),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "prizehunt"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		DeadLetterPath: getEnv("DEAD_LETTER_PATH", "logs/deadletter.jsonl"),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.DefaultCaptureRadius, err = getEnvFloat("CAPTURE_RADIUS_M", 50); err != nil {
		return nil, err
	}
	if cfg.RedemptionTTL, err = getEnvDuration("REDEMPTION_TTL", 72*time.Hour); err != nil {
		return nil, err
	}
	if cfg.PrizeCacheSize, err = getEnvInt("PRIZE_CACHE_SIZE", 1024); err != nil {
		return nil, err
	}
	if cfg.PrizeCacheTTL, err = getEnvDuration("PRIZE_CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}

	if cfg.AntiCheatMaxPerMinute, err = getEnvInt("ANTICHEAT_MAX_PER_MINUTE", 10); err != nil {
		return nil, err
	}
	if cfg.AntiCheatMaxSpeedMS, err = getEnvFloat("ANTICHEAT_MAX_SPEED_MS", 50); err != nil {
		return nil, err
	}
	if cfg.AntiCheatScoreFloor, err = getEnvFloat("ANTICHEAT_SCORE_FLOOR", 0.3); err != nil {
		return nil, err
	}
	if cfg.AntiCheatDegradedScore, err = getEnvFloat("ANTICHEAT_DEGRADED_SCORE", 0.5); err != nil {
		return nil, err
	}
	if cfg.AntiCheatAccuracyCeiling, err = getEnvFloat("ANTICHEAT_ACCURACY_CEILING_M", 50); err != nil {
		return nil, err
	}
	if cfg.AntiCheatConfigRefresh, err = getEnvDuration("ANTICHEAT_CONFIG_REFRESH", 60*time.Second); err != nil {
		return nil, err
	}
	cfg.AntiCheatFailOpen = getEnvBool("ANTICHEAT_FAIL_OPEN", true)

	if cfg.WorkerCount, err = getEnvInt("WORKER_COUNT", 4); err != nil {
		return nil, err
	}
	if cfg.WorkerQueueLen, err = getEnvInt("WORKER_QUEUE_LEN", 256); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getEnvDuration("SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.ReservationHoldTTL, err = getEnvDuration("RESERVATION_HOLD_TTL", 10*time.Minute); err != nil {
		return nil, err
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
