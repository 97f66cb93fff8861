package config

import (
	"os"
	"strconv"
)

type QuoteServiceConfig struct {
	Port        string
	APIKey      string
	PostgresCfg PostgresConfig
	RedisCfg    RedisConfig
	RabbitMQCfg RabbitMQConfig
	RainfallCfg RainfallConfig
	EngineCfg   EngineConfig
	GeminiCfg   GeminiAPIConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

// RainfallConfig configures the upstream CHIRPS aggregation API client.
type RainfallConfig struct {
	BaseURL        string
	APIKey         string
	TimeoutSeconds int
	MaxRetries     int
	CacheTTLHours  int
}

// EngineConfig carries the actuarial and agronomic tunables of the quote engine.
// Defaults follow the documented methodology; every threshold is overridable so
// underwriters can recalibrate without a redeploy.
type EngineConfig struct {
	// Planting detection. Canonical trigger: >=20mm over 7 days with >=2 days of >=5mm.
	PlantingTriggerMM  float64
	PlantingMinRainDay int
	PlantingDailyMM    float64
	PlantingWindowDays int

	// Stress model: "simple" or "multi_signal".
	StressModel string

	// Multi-signal thresholds.
	RollingWindowDays      int
	RollingTriggerMM       float64
	DryDayThresholdMM      float64
	ConsecutiveDryTrigger  int
	ConsecutiveDrySaturate int

	// Rate derivation.
	BaseLoadingMultiplier float64
	MinimumRate           float64
	MaximumRate           float64
	DefaultDeductible     float64

	// Default loadings applied to burning cost when the request carries none.
	DefaultAdminLoading       float64
	DefaultMarginLoading      float64
	DefaultReinsuranceLoading float64

	// Historical window governance.
	RegulatoryMinYears     int
	ActuarialStandardYears int
	OptimalWindowYears     int

	// Earliest year the upstream archive covers.
	EarliestDataYear int

	QuoteWorkers  int
	QuoteQueueLen int
}

type GeminiAPIConfig struct {
	APIKey    string
	FlashName string
	ProName   string
}

func New() *QuoteServiceConfig {
	return &QuoteServiceConfig{
		Port:   getEnvOrDefault("PORT", "8086"),
		APIKey: getEnvOrDefault("API_KEY", ""),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "yieldera"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		RainfallCfg: RainfallConfig{
			BaseURL:        getEnvOrDefault("RAINFALL_API_URL", "http://localhost:8090/chirps/v1"),
			APIKey:         getEnvOrDefault("RAINFALL_API_KEY", ""),
			TimeoutSeconds: getEnvIntOrDefault("RAINFALL_TIMEOUT_SECONDS", 60),
			MaxRetries:     getEnvIntOrDefault("RAINFALL_MAX_RETRIES", 3),
			CacheTTLHours:  getEnvIntOrDefault("RAINFALL_CACHE_TTL_HOURS", 24),
		},
		EngineCfg: EngineConfig{
			PlantingTriggerMM:  getEnvFloatOrDefault("PLANTING_TRIGGER_MM", 20),
			PlantingMinRainDay: getEnvIntOrDefault("PLANTING_MIN_RAIN_DAYS", 2),
			PlantingDailyMM:    getEnvFloatOrDefault("PLANTING_DAILY_MM", 5),
			PlantingWindowDays: getEnvIntOrDefault("PLANTING_WINDOW_DAYS", 7),

			StressModel: getEnvOrDefault("STRESS_MODEL", "multi_signal"),

			RollingWindowDays:      getEnvIntOrDefault("ROLLING_WINDOW_DAYS", 10),
			RollingTriggerMM:       getEnvFloatOrDefault("ROLLING_TRIGGER_MM", 15),
			DryDayThresholdMM:      getEnvFloatOrDefault("DRY_DAY_THRESHOLD_MM", 1),
			ConsecutiveDryTrigger:  getEnvIntOrDefault("CONSECUTIVE_DRY_TRIGGER_DAYS", 10),
			ConsecutiveDrySaturate: getEnvIntOrDefault("CONSECUTIVE_DRY_SATURATE_DAYS", 30),

			BaseLoadingMultiplier: getEnvFloatOrDefault("BASE_LOADING_MULTIPLIER", 1.5),
			MinimumRate:           getEnvFloatOrDefault("MINIMUM_RATE", 0.015),
			MaximumRate:           getEnvFloatOrDefault("MAXIMUM_RATE", 0.25),
			DefaultDeductible:     getEnvFloatOrDefault("DEFAULT_DEDUCTIBLE", 0.05),

			DefaultAdminLoading:       getEnvFloatOrDefault("LOADING_ADMIN", 0.10),
			DefaultMarginLoading:      getEnvFloatOrDefault("LOADING_MARGIN", 0.05),
			DefaultReinsuranceLoading: getEnvFloatOrDefault("LOADING_REINSURANCE", 0.075),

			RegulatoryMinYears:     getEnvIntOrDefault("REGULATORY_MIN_YEARS", 15),
			ActuarialStandardYears: getEnvIntOrDefault("ACTUARIAL_STANDARD_YEARS", 20),
			OptimalWindowYears:     getEnvIntOrDefault("OPTIMAL_WINDOW_YEARS", 25),

			EarliestDataYear: getEnvIntOrDefault("EARLIEST_DATA_YEAR", 1981),

			QuoteWorkers:  getEnvIntOrDefault("QUOTE_WORKERS", 4),
			QuoteQueueLen: getEnvIntOrDefault("QUOTE_QUEUE_LEN", 64),
		},
		GeminiCfg: GeminiAPIConfig{
			APIKey:    getEnvOrDefault("GEMINI_KEY", ""),
			FlashName: getEnvOrDefault("GEMINI_FLASH_MODEL", "gemini-2.5-flash"),
			ProName:   getEnvOrDefault("GEMINI_PRO_MODEL", "gemini-2.5-pro"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
