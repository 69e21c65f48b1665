// Package config loads server settings from an optional YAML file, a .env
// file and the process environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"farm-market/internal/domain"
)

const DefaultConfigFile = "config.yaml"

type DatabaseConfig struct {
	// Driver is "mysql" or "postgres".
	Driver   string `yaml:"driver"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	DB       int           `yaml:"db"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type RabbitMQConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type OrdersConfig struct {
	IDPrefix    string `yaml:"id_prefix"`
	DeliveryFee string `yaml:"delivery_fee"`
}

type Config struct {
	Port        string         `yaml:"port"`
	CatalogURL  string         `yaml:"catalog_url"`
	CORSOrigins []string       `yaml:"cors_allow_origins"`
	Database    DatabaseConfig `yaml:"database"`
	Redis       RedisConfig    `yaml:"redis"`
	RabbitMQ    RabbitMQConfig `yaml:"rabbitmq"`
	Mongo       MongoConfig    `yaml:"mongo"`
	Orders      OrdersConfig   `yaml:"orders"`
}

func Default() Config {
	return Config{
		Port:        "8080",
		CORSOrigins: []string{"*"},
		Database:    DatabaseConfig{Driver: "mysql", Port: "3306"},
		Redis:       RedisConfig{CacheTTL: 10 * time.Second},
		RabbitMQ:    RabbitMQConfig{Exchange: "order.exchange"},
		Mongo:       MongoConfig{Database: "farm_market", Collection: "order_status_history"},
		Orders:      OrdersConfig{IDPrefix: domain.DefaultOrderIDPrefix, DeliveryFee: domain.DefaultDeliveryFee.String()},
	}
}

// Load builds the configuration. A missing YAML file or .env file is not an
// error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	_ = godotenv.Load()
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.CatalogURL, "CATALOG_SERVICE_URL")
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	setString(&cfg.Database.URL, "DATABASE_URL")
	if cfg.Database.URL != "" && os.Getenv("DB_DRIVER") == "" && strings.HasPrefix(cfg.Database.URL, "postgres") {
		cfg.Database.Driver = "postgres"
	}
	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "MYSQL_HOST")
	setString(&cfg.Database.Port, "MYSQL_PORT")
	setString(&cfg.Database.User, "MYSQL_USER")
	setString(&cfg.Database.Password, "MYSQL_PASSWORD")
	setString(&cfg.Database.Name, "MYSQL_DATABASE")

	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Redis.Addr = host + ":6379"
	}
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Redis.CacheTTL = d
		}
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}

	setString(&cfg.RabbitMQ.URL, "RABBITMQ_URL")
	setString(&cfg.RabbitMQ.Exchange, "RABBITMQ_EXCHANGE")
	setString(&cfg.Mongo.URI, "MONGO_URI")
	setString(&cfg.Mongo.Database, "MONGO_DATABASE")
	setString(&cfg.Orders.IDPrefix, "ORDER_ID_PREFIX")
	setString(&cfg.Orders.DeliveryFee, "DELIVERY_FEE")
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if _, err := c.DeliveryFee(); err != nil {
		return err
	}
	if c.Orders.IDPrefix == "" || strings.IndexFunc(c.Orders.IDPrefix, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z')
	}) >= 0 {
		return fmt.Errorf("config: order id prefix %q must be letters only", c.Orders.IDPrefix)
	}
	return nil
}

func (c Config) DeliveryFee() (decimal.Decimal, error) {
	fee, err := decimal.NewFromString(strings.TrimSpace(c.Orders.DeliveryFee))
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: delivery fee %q: %w", c.Orders.DeliveryFee, err)
	}
	if fee.IsNegative() {
		return decimal.Zero, fmt.Errorf("config: delivery fee %q must not be negative", c.Orders.DeliveryFee)
	}
	return fee, nil
}

// MySQLDSN renders the connection string used by the mysql driver.
func (d DatabaseConfig) MySQLDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local", d.User, d.Password, d.Host, d.Port, d.Name)
}

func (d DatabaseConfig) PostgresDSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", d.Host, d.User, d.Password, d.Name, d.Port)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
