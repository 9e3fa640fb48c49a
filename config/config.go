package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisCatalogDB int    `mapstructure:"REDIS_CATALOG_DB"`
	RedisPaymentDB int    `mapstructure:"REDIS_PAYMENT_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	// Pricing policy. Hard-coded in the old front end; kept configurable
	// so regional deployments can override without a rebuild.
	TaxRate     float64 `mapstructure:"TAX_RATE"`
	ChildWeight float64 `mapstructure:"CHILD_WEIGHT"`
	Currency    string  `mapstructure:"CURRENCY"`

	// Payment gateway.
	StripeKey        string `mapstructure:"STRIPE_KEY"`
	PaymentReturnURL string `mapstructure:"PAYMENT_RETURN_URL"`

	// Availability collaborator endpoint.
	AvailabilityURL string `mapstructure:"AVAILABILITY_URL"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_CATALOG_DB", 1)
	viper.SetDefault("REDIS_PAYMENT_DB", 2)
	viper.SetDefault("REDIS_QUEUE_DB", 3)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("TAX_RATE", 0.19)
	viper.SetDefault("CHILD_WEIGHT", 0.5)
	viper.SetDefault("CURRENCY", "COP")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("PAYMENT_RETURN_URL", "http://localhost:8080/api/payment/return")
	viper.SetDefault("AVAILABILITY_URL", "http://localhost:9090/api/availability")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
