package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	GRPC         GRPCConfig         `yaml:"grpc"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Kafka        KafkaConfig        `yaml:"kafka"`
	Booking      BookingConfig      `yaml:"booking"`
	Worker       WorkerConfig       `yaml:"worker"`
	Integrations IntegrationsConfig `yaml:"integrations"`
	Log          LogConfig          `yaml:"log"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// RateLimit is the per-client request rate in requests per second. Zero disables limiting.
	RateLimit float64 `yaml:"rate_limit_rps"`
	RateBurst int     `yaml:"rate_burst"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	// Driver selects the storage backend: postgres or memory.
	Driver         string `yaml:"driver"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	User           string `yaml:"user"`
	Password       string `yaml:"password"`
	Name           string `yaml:"name"`
	SSLMode        string `yaml:"ssl_mode"`
	MaxConns       int32  `yaml:"max_conns"`
	MigrateOnStart bool   `yaml:"migrate_on_start"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// URL is the connection string in the form golang-migrate expects for the pgx/v5 driver.
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + strconv.Itoa(d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type BookingConfig struct {
	CartTTLMinutes      int `yaml:"cart_ttl_minutes"`
	PackagesCacheTTL    int `yaml:"packages_cache_ttl_seconds"`
	CheckoutLockSeconds int `yaml:"checkout_lock_seconds"`
}

func (b BookingConfig) CartTTL() time.Duration {
	return time.Duration(b.CartTTLMinutes) * time.Minute
}

func (b BookingConfig) PackagesTTL() time.Duration {
	return time.Duration(b.PackagesCacheTTL) * time.Second
}

func (b BookingConfig) CheckoutLockTTL() time.Duration {
	return time.Duration(b.CheckoutLockSeconds) * time.Second
}

type WorkerConfig struct {
	ReconcileIntervalMinutes int `yaml:"reconcile_interval_minutes"`
}

func (w WorkerConfig) ReconcileInterval() time.Duration {
	return time.Duration(w.ReconcileIntervalMinutes) * time.Minute
}

type IntegrationsConfig struct {
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
	FrankfurterURL   string `yaml:"frankfurter_url"`
	OpenMeteoURL     string `yaml:"open_meteo_url"`
	NagerDateURL     string `yaml:"nager_date_url"`
	RestCountriesURL string `yaml:"rest_countries_url"`
	// ImportLimit caps how many new destinations one country import creates.
	ImportLimit int `yaml:"import_limit"`
}

func (i IntegrationsConfig) Timeout() time.Duration {
	return time.Duration(i.TimeoutSeconds) * time.Second
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Env is "production" for JSON output, anything else for console output.
	Env string `yaml:"env"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.RateLimit > 0 && c.HTTP.RateBurst <= 0 {
		c.HTTP.RateBurst = int(c.HTTP.RateLimit) + 1
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":9090"
	}

	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}

	if c.Kafka.BookingTopic == "" {
		c.Kafka.BookingTopic = "bookings"
	}
	if c.Kafka.NotificationsTopic == "" {
		c.Kafka.NotificationsTopic = "notifications"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "travelagency-worker"
	}

	if c.Booking.CartTTLMinutes <= 0 {
		c.Booking.CartTTLMinutes = 120
	}
	if c.Booking.PackagesCacheTTL <= 0 {
		c.Booking.PackagesCacheTTL = 30
	}
	if c.Booking.CheckoutLockSeconds <= 0 {
		c.Booking.CheckoutLockSeconds = 30
	}

	if c.Worker.ReconcileIntervalMinutes <= 0 {
		c.Worker.ReconcileIntervalMinutes = 10
	}

	if c.Integrations.TimeoutSeconds <= 0 {
		c.Integrations.TimeoutSeconds = 8
	}
	if c.Integrations.FrankfurterURL == "" {
		c.Integrations.FrankfurterURL = "https://api.frankfurter.app"
	}
	if c.Integrations.OpenMeteoURL == "" {
		c.Integrations.OpenMeteoURL = "https://api.open-meteo.com"
	}
	if c.Integrations.NagerDateURL == "" {
		c.Integrations.NagerDateURL = "https://date.nager.at"
	}
	if c.Integrations.RestCountriesURL == "" {
		c.Integrations.RestCountriesURL = "https://restcountries.com"
	}
	if c.Integrations.ImportLimit <= 0 {
		c.Integrations.ImportLimit = 5
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
