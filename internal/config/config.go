package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Platform PlatformConfig `mapstructure:"platform"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Bundle   BundleConfig   `mapstructure:"bundle"`
	Display  DisplayConfig  `mapstructure:"display"`
	Demo     DemoConfig     `mapstructure:"demo"`
}

// PlatformConfig holds the commerce platform endpoint and storefront scope
type PlatformConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	SalesChannel int    `mapstructure:"sales_channel"`
	Country      string `mapstructure:"country"`
}

// HTTPConfig holds outbound HTTP client tuning
type HTTPConfig struct {
	Timeout              int `mapstructure:"timeout"`
	MaxRetries           int `mapstructure:"max_retries"`
	MaxRequestsPerSecond int `mapstructure:"max_requests_per_second"`
}

// BundleConfig holds the bundle composition policy
type BundleConfig struct {
	MinFixedSlots   int `mapstructure:"min_fixed_slots"`
	MaxFixedSlots   int `mapstructure:"max_fixed_slots"`
	CardImageWidth  int `mapstructure:"card_image_width"`
	ThumbImageWidth int `mapstructure:"thumb_image_width"`
	ModalImageWidth int `mapstructure:"modal_image_width"`
}

// DisplayConfig holds price presentation settings
type DisplayConfig struct {
	Locale   string `mapstructure:"locale"`
	Currency string `mapstructure:"currency"`
}

// DemoConfig holds the sample bundle rendered by the demo entrypoint
type DemoConfig struct {
	FixedTokens []string `mapstructure:"fixed_tokens"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config.yaml means defaults plus environment overrides
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("platform.base_url", "https://oneillco.vtexcommercestable.com.br")
	viper.SetDefault("platform.sales_channel", 1)
	viper.SetDefault("platform.country", "COL")

	viper.SetDefault("http.timeout", 30)
	viper.SetDefault("http.max_retries", 3)
	viper.SetDefault("http.max_requests_per_second", 10)

	viper.SetDefault("bundle.min_fixed_slots", 3)
	viper.SetDefault("bundle.max_fixed_slots", 4)
	viper.SetDefault("bundle.card_image_width", 800)
	viper.SetDefault("bundle.thumb_image_width", 100)
	viper.SetDefault("bundle.modal_image_width", 400)

	viper.SetDefault("display.locale", "es-CO")
	viper.SetDefault("display.currency", "COP")
}
