package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Catalog   CatalogConfig
	Planner   PlannerConfig
	Overclock OverclockConfig
	Firebase  FirebaseConfig
	Admin     AdminConfig
	App       AppConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CatalogConfig selects where the recipe snapshot comes from and how often it
// is refreshed. Source is one of "file", "postgres", "s3".
type CatalogConfig struct {
	Source         string
	RecipesJSON    string
	DefaultVersion string
	S3Bucket       string
	S3Prefix       string
	S3Region       string
	RefreshCron    string // empty disables the refresher
}

type PlannerConfig struct {
	DefaultMaxDepth     int
	ByproductChainDepth int
	RateLimitPerSecond  float64
	RateLimitBurst      int
	CacheTTLSeconds     int
}

// OverclockConfig holds the balance constants for the overclock model. These
// are data, not algorithm: they must track the target simulation's numbers.
type OverclockConfig struct {
	DurationScalePerTier float64
	EUTScalePerTier      float64
}

type FirebaseConfig struct {
	CredentialsPath string
}

type AdminConfig struct {
	APIKey string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "planner"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Catalog: CatalogConfig{
			Source:         getEnv("CATALOG_SOURCE", "file"),
			RecipesJSON:    getEnv("RECIPES_JSON", "in/recipes.json"),
			DefaultVersion: getEnv("DEFAULT_VERSION", "local"),
			S3Bucket:       getEnv("CATALOG_S3_BUCKET", ""),
			S3Prefix:       getEnv("CATALOG_S3_PREFIX", "snapshots"),
			S3Region:       getEnv("CATALOG_S3_REGION", "us-east-1"),
			RefreshCron:    getEnv("CATALOG_REFRESH_CRON", ""),
		},
		Planner: PlannerConfig{
			DefaultMaxDepth:     getEnvAsInt("PLANNER_DEFAULT_MAX_DEPTH", 8),
			ByproductChainDepth: getEnvAsInt("PLANNER_BYPRODUCT_CHAIN_DEPTH", 4),
			RateLimitPerSecond:  getEnvAsFloat("PLANNER_RATE_LIMIT_PER_SECOND", 10),
			RateLimitBurst:      getEnvAsInt("PLANNER_RATE_LIMIT_BURST", 20),
			CacheTTLSeconds:     getEnvAsInt("PLANNER_CACHE_TTL_SECONDS", 600),
		},
		Overclock: OverclockConfig{
			DurationScalePerTier: getEnvAsFloat("OC_DURATION_SCALE_PER_TIER", 0.5),
			EUTScalePerTier:      getEnvAsFloat("OC_EUT_SCALE_PER_TIER", 4.0),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Admin: AdminConfig{
			APIKey: getEnv("ADMIN_API_KEY", ""),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Catalog.Source {
	case "file", "postgres", "s3":
	default:
		return fmt.Errorf("CATALOG_SOURCE must be file, postgres or s3, got %q", c.Catalog.Source)
	}

	if c.Catalog.Source == "s3" && c.Catalog.S3Bucket == "" {
		return fmt.Errorf("CATALOG_S3_BUCKET is required when CATALOG_SOURCE=s3")
	}

	if c.Overclock.DurationScalePerTier <= 0 || c.Overclock.DurationScalePerTier > 1 {
		return fmt.Errorf("OC_DURATION_SCALE_PER_TIER must be in (0,1], got %v", c.Overclock.DurationScalePerTier)
	}
	if c.Overclock.EUTScalePerTier < 1 {
		return fmt.Errorf("OC_EUT_SCALE_PER_TIER must be >= 1, got %v", c.Overclock.EUTScalePerTier)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid float for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
