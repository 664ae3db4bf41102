package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Session  SessionConfig
	Otp      OtpConfig
	SMS      SMSConfig
	JWT      JWTConfig
	Sweeper  SweeperConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// SessionConfig holds marketplace session configuration
type SessionConfig struct {
	TTLHours int
}

// OtpConfig holds one-time code configuration
type OtpConfig struct {
	ExpiryMinutes int
	MaxAttempts   int
}

// SMSConfig holds SMS gateway-specific configuration
type SMSConfig struct {
	Provider string
	Twilio   TwilioConfig
}

// TwilioConfig holds Twilio-specific configuration
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// JWTConfig holds back-office token configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// SweeperConfig holds listing-expiry sweeper configuration
type SweeperConfig struct {
	IntervalMinutes int
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedOrigins", []string{"http://localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "selotroca")
	viper.SetDefault("Session.TTLHours", 24)
	viper.SetDefault("Otp.ExpiryMinutes", 10)
	viper.SetDefault("Otp.MaxAttempts", 5)
	viper.SetDefault("SMS.Provider", "mock")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Sweeper.IntervalMinutes", 60)
	viper.SetDefault("LogLevel", "info")
}
