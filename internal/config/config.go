package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/dotcs/kmt2es/internal/komoot"
)

// Config holds application configuration. Values come from CLI flags with
// environment fallbacks (prefix KMT2ES_, e.g. KMT2ES_COOKIE).
type Config struct {
	UserID     string
	Cookie     string
	ESHost     string
	ESHTTPAuth string
	Index      string
	KomootHost string
	Full       bool
	PageSize   int
	Workers    int
	Timeout    time.Duration
	LogLevel   string
}

// Load reads configuration from viper. Flag bindings are registered by the
// commands; this only merges env fallbacks and defaults.
func Load() *Config {
	setDefaults()

	return &Config{
		UserID:     viper.GetString("user_id"),
		Cookie:     viper.GetString("cookie"),
		ESHost:     viper.GetString("elasticsearch_host"),
		ESHTTPAuth: viper.GetString("elasticsearch_http_auth"),
		Index:      viper.GetString("index"),
		KomootHost: viper.GetString("komoot_host"),
		Full:       viper.GetBool("full"),
		PageSize:   viper.GetInt("page_size"),
		Workers:    viper.GetInt("workers"),
		Timeout:    viper.GetDuration("timeout"),
		LogLevel:   viper.GetString("log_level"),
	}
}

func setDefaults() {
	viper.SetEnvPrefix("KMT2ES")
	viper.AutomaticEnv()

	viper.SetDefault("index", "komoot-tours")
	viper.SetDefault("komoot_host", komoot.DefaultBaseURL)
	viper.SetDefault("workers", 1)
	viper.SetDefault("timeout", 30*time.Second)
	viper.SetDefault("log_level", "info")
}

// ValidateFetch checks the parameters every komoot request needs.
func (c *Config) ValidateFetch() error {
	if c.UserID == "" {
		return fmt.Errorf("user id is required (--user-id or KMT2ES_USER_ID)")
	}
	if c.Cookie == "" {
		return fmt.Errorf("session cookie is required (--cookie or KMT2ES_COOKIE)")
	}
	return nil
}

// ValidateImport checks everything a full import run needs.
func (c *Config) ValidateImport() error {
	if err := c.ValidateFetch(); err != nil {
		return err
	}
	if c.ESHost == "" {
		return fmt.Errorf("elasticsearch host is required (--elasticsearch-host or KMT2ES_ELASTICSEARCH_HOST)")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	return nil
}

// EffectivePageSize returns the listing page size: an explicit value wins,
// otherwise 100 for full-history walks and 10 for the latest-tours default.
func (c *Config) EffectivePageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	if c.Full {
		return 100
	}
	return 10
}
