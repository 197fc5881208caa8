package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "SHOP_CONFIG_FILE"

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Catalog   CatalogConfig
	Rates     RatesConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// AuthConfig verifies tokens minted by the hosted auth backend
type AuthConfig struct {
	JWTSecret string
	AdminRole string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type CatalogConfig struct {
	CacheTTL time.Duration
}

type RatesConfig struct {
	BaseURL  string
	CacheTTL time.Duration
	Timeout  time.Duration
	Retries  uint64
}

// IsDevelopment reports whether the server runs outside production
func (c *Config) IsDevelopment() bool {
	return c.Server.Env != "production"
}

// Load reads configuration from an optional .env file, an optional YAML file
// named by --config or SHOP_CONFIG_FILE, and the environment, in increasing priority.
func Load() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_DATABASE", "sharpshop")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("AUTH_ADMIN_ROLE", "admin")
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	v.SetDefault("RATE_LIMIT_REQUESTS", 60)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
	v.SetDefault("CATALOG_CACHE_TTL", 5*time.Minute)
	v.SetDefault("RATES_BASE_URL", "https://api.monobank.ua")
	v.SetDefault("RATES_CACHE_TTL", 10*time.Minute)
	v.SetDefault("RATES_TIMEOUT", 5*time.Second)
	v.SetDefault("RATES_RETRIES", 3)

	if path := configFilePath(args); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("Warning: Could not read config file %s: %v", path, err)
		}
	}

	return &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
			Env:  v.GetString("SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_DATABASE"),
			Schema:   v.GetString("DB_SCHEMA"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("AUTH_JWT_SECRET"),
			AdminRole: v.GetString("AUTH_ADMIN_ROLE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   v.GetDuration("RATE_LIMIT_WINDOW"),
		},
		Catalog: CatalogConfig{
			CacheTTL: v.GetDuration("CATALOG_CACHE_TTL"),
		},
		Rates: RatesConfig{
			BaseURL:  v.GetString("RATES_BASE_URL"),
			CacheTTL: v.GetDuration("RATES_CACHE_TTL"),
			Timeout:  v.GetDuration("RATES_TIMEOUT"),
			Retries:  v.GetUint64("RATES_RETRIES"),
		},
	}
}

func configFilePath(args []string) string {
	flags := pflag.NewFlagSet("sharpshop", pflag.ContinueOnError)
	path := flags.String("config", "", "path to a YAML config file")
	_ = flags.Parse(args)

	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env
	}
	return *path
}
