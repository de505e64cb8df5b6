package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete configuration for both services.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	ServiceBus   ServiceBusConfig   `mapstructure:"service_bus"`
	Registration RegistrationConfig `mapstructure:"registration"`
	Statistics   StatisticsConfig   `mapstructure:"statistics"`
}

// ServerConfig holds HTTP server settings shared by both services.
type ServerConfig struct {
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN builds the PostgreSQL connection string for the configured database.
func (c DatabaseConfig) DSN() string {
	return c.DSNFor(c.Name)
}

// DSNFor builds a connection string against an arbitrary database name.
// Used during initialization, before the service database exists.
func (c DatabaseConfig) DSNFor(name string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, name, c.SSLMode)
}

// RedisConfig holds the Redis connection settings for the statistics cache.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
}

// ServiceBusConfig holds the Azure Service Bus settings for event publication.
// An empty connection string disables publication entirely.
type ServiceBusConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
	QueueName        string `mapstructure:"queue_name"`
}

// RegistrationConfig holds settings for the registration service.
type RegistrationConfig struct {
	Port    int    `mapstructure:"port"`
	UserKey string `mapstructure:"user_key"`
}

// StatisticsConfig holds settings for the statistics service, including how
// it reaches the registration service.
type StatisticsConfig struct {
	Port               int           `mapstructure:"port"`
	UserKey            string        `mapstructure:"user_key"`
	RegistrationURL    string        `mapstructure:"registration_url"`
	RegisterEndpoint   string        `mapstructure:"register_endpoint"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	MaxRetries         int           `mapstructure:"max_retries"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
}

// Load reads configuration from a file and environment variables.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("DEVICEAPI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Secrets are expected from the environment and usually absent from the
	// config file. AutomaticEnv only resolves keys viper already knows, so
	// each credential key is bound explicitly.
	for _, key := range []string{
		"database.user",
		"database.password",
		"registration.user_key",
		"statistics.user_key",
		"service_bus.connection_string",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	// Set defaults
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "devicesdb")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.conn_max_lifetime", "5m")

	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.min_idle_conns", 5)
	viper.SetDefault("redis.dial_timeout", "5s")

	viper.SetDefault("service_bus.queue_name", "device-login-events")

	viper.SetDefault("registration.port", 8080)

	viper.SetDefault("statistics.port", 8081)
	viper.SetDefault("statistics.registration_url", "http://localhost:8080")
	viper.SetDefault("statistics.register_endpoint", "/Device/register")
	viper.SetDefault("statistics.request_timeout", "10s")
	viper.SetDefault("statistics.max_retries", 5)
	viper.SetDefault("statistics.insecure_skip_verify", false)
	viper.SetDefault("statistics.cache_ttl", "30s")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error if using env vars
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
