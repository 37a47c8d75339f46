package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Reminder strategy values.
const (
	StrategyLatest         = "latest"
	StrategyMostExpensive  = "most-expensive"
	StrategyLeastExpensive = "least-expensive"
)

// Reminder destination values.
const (
	DestinationProduct  = "product"
	DestinationCart     = "cart"
	DestinationHomepage = "homepage"
	DestinationCheckout = "checkout"
)

// Config holds the runtime configuration for the signals agent.
type Config struct {
	BaseURL     string
	Interval    time.Duration
	Timeout     time.Duration
	UserAgent   string
	MetricsAddr string
	Locale      string
	Verbose     bool
	Reminder    ReminderConfig
}

// ReminderConfig holds the cart reminder options.
type ReminderConfig struct {
	Disabled     bool
	Strategy     string // latest, most-expensive, or least-expensive
	Destination  string // product, cart, homepage, or checkout
	Message      string
	DisableImage bool
	DiscountCode string
	UTMSource    string
	UTMMedium    string
	UTMCampaign  string
	UTMContent   string // "product-name" or empty
}

// DefaultConfig returns the defaults the host platform documents.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   "https://shop.example.com",
		Interval:  3 * time.Second,
		Timeout:   10 * time.Second,
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		Reminder: ReminderConfig{
			Strategy:    StrategyLatest,
			Destination: DestinationCart,
		},
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	switch c.Reminder.Strategy {
	case StrategyLatest, StrategyMostExpensive, StrategyLeastExpensive:
	default:
		return fmt.Errorf("strategy must be latest, most-expensive, or least-expensive")
	}
	switch c.Reminder.Destination {
	case DestinationProduct, DestinationCart, DestinationHomepage, DestinationCheckout:
	default:
		return fmt.Errorf("destination must be product, cart, homepage, or checkout")
	}
	if c.Reminder.UTMContent != "" && c.Reminder.UTMContent != "product-name" {
		return fmt.Errorf("utm content must be product-name or unset")
	}

	return nil
}

// EnvString reads a string environment override.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// EnvInt reads an integer environment override.
func EnvInt(key string) (int, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, true, nil
}

// EnvBool reads a boolean environment override.
func EnvBool(key string) (bool, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return false, false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, false, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, true, nil
}
