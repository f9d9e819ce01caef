/**
 * @description
 * This package handles the configuration management for the remit-service.
 * It uses the Viper library to read configuration from environment
 * variables (plus an optional .env file), providing a centralized way to
 * manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: Application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the remit-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort            string `mapstructure:"SERVER_PORT"`
	DatabaseURL           string `mapstructure:"DATABASE_URL"`
	RedisURL              string `mapstructure:"REDIS_URL"`
	RedisPrefsPrefix      string `mapstructure:"REDIS_PREFS_PREFIX"`
	RabbitMQURL           string `mapstructure:"RABBITMQ_URL"`
	AuthJWTSecret         string `mapstructure:"AUTH_JWT_SECRET"`
	AIEndpointURL         string `mapstructure:"AI_ENDPOINT_URL"`
	ProcessingDelayMS     int    `mapstructure:"TRANSFER_PROCESSING_DELAY_MS"`
	CompletionDelayMS     int    `mapstructure:"TRANSFER_COMPLETION_DELAY_MS"`
	ScheduledTransferCron string `mapstructure:"SCHEDULED_TRANSFER_CRON"`
}

// ProcessingDelay is the wait before a pending transfer moves to processing.
func (c Config) ProcessingDelay() time.Duration {
	return time.Duration(c.ProcessingDelayMS) * time.Millisecond
}

// CompletionDelay is the further wait before a processing transfer completes.
func (c Config) CompletionDelay() time.Duration {
	return time.Duration(c.CompletionDelayMS) * time.Millisecond
}

// LoadConfig reads configuration from environment variables from the given
// path. It uses Viper to automatically bind environment variables to the
// Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REDIS_PREFS_PREFIX", "diaremit:prefs")
	viper.SetDefault("AI_ENDPOINT_URL", "https://toolkit.rork.com/text/llm/")
	viper.SetDefault("TRANSFER_PROCESSING_DELAY_MS", 2000)
	viper.SetDefault("TRANSFER_COMPLETION_DELAY_MS", 3000)
	viper.SetDefault("SCHEDULED_TRANSFER_CRON", "@every 1m")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_PREFS_PREFIX")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("AUTH_JWT_SECRET")
	_ = viper.BindEnv("AI_ENDPOINT_URL")
	_ = viper.BindEnv("TRANSFER_PROCESSING_DELAY_MS")
	_ = viper.BindEnv("TRANSFER_COMPLETION_DELAY_MS")
	_ = viper.BindEnv("SCHEDULED_TRANSFER_CRON")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	config.DatabaseURL = strings.TrimSpace(config.DatabaseURL)
	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RabbitMQURL = strings.TrimSpace(config.RabbitMQURL)
	config.AuthJWTSecret = strings.TrimSpace(config.AuthJWTSecret)
	if config.RedisPrefsPrefix = strings.TrimSpace(config.RedisPrefsPrefix); config.RedisPrefsPrefix == "" {
		config.RedisPrefsPrefix = "diaremit:prefs"
	}

	if config.ProcessingDelayMS <= 0 {
		log.Printf("level=warn component=config msg=\"non-positive processing delay configured; using default\" delay_ms=%d", config.ProcessingDelayMS)
		config.ProcessingDelayMS = 2000
	}
	if config.CompletionDelayMS <= 0 {
		log.Printf("level=warn component=config msg=\"non-positive completion delay configured; using default\" delay_ms=%d", config.CompletionDelayMS)
		config.CompletionDelayMS = 3000
	}
	if strings.TrimSpace(config.ScheduledTransferCron) == "" {
		config.ScheduledTransferCron = "@every 1m"
	}

	return
}
