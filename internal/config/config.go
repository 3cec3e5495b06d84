package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Finnhub  FinnhubConfig
	Auth     AuthConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration for the session store
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds Kafka configuration for watchlist events. Publishing is
// optional: with Enabled false the service runs without a broker.
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// FinnhubConfig holds market data provider configuration. An empty APIKey is
// a recognized degraded mode, not a startup failure: the watchlist still
// renders, just without live prices.
type FinnhubConfig struct {
	BaseURL           string
	APIKey            string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// AuthConfig holds session and guest mode settings
type AuthConfig struct {
	SessionTTL    time.Duration
	GuestTTL      time.Duration
	SecureCookies bool
}

// Load reads configuration from environment variables and an optional
// config.yaml. Environment variables take precedence.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("server_port", "8080")
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "stocksapp")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("kafka_enabled", false)
	v.SetDefault("kafka_brokers", []string{"localhost:9092"})
	v.SetDefault("kafka_topic", "watchlist-events")
	v.SetDefault("finnhub_base_url", "https://finnhub.io/api/v1")
	v.SetDefault("finnhub_api_key", "")
	v.SetDefault("finnhub_requests_per_second", 10.0)
	v.SetDefault("finnhub_timeout", 10*time.Second)
	v.SetDefault("session_ttl", 7*24*time.Hour)
	v.SetDefault("guest_ttl", time.Hour)
	v.SetDefault("secure_cookies", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{
		Server: ServerConfig{
			Port: v.GetString("server_port"),
			Host: v.GetString("server_host"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetString("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			DBName:   v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		Kafka: KafkaConfig{
			Enabled: v.GetBool("kafka_enabled"),
			Brokers: v.GetStringSlice("kafka_brokers"),
			Topic:   v.GetString("kafka_topic"),
		},
		Finnhub: FinnhubConfig{
			BaseURL:           v.GetString("finnhub_base_url"),
			APIKey:            v.GetString("finnhub_api_key"),
			RequestsPerSecond: v.GetFloat64("finnhub_requests_per_second"),
			Timeout:           v.GetDuration("finnhub_timeout"),
		},
		Auth: AuthConfig{
			SessionTTL:    v.GetDuration("session_ttl"),
			GuestTTL:      v.GetDuration("guest_ttl"),
			SecureCookies: v.GetBool("secure_cookies"),
		},
	}, nil
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}
