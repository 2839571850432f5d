package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// CMSConfig holds node resolution defaults and the embed settings.
type CMSConfig struct {
	DefaultScheme     string   `toml:"default_scheme"`
	DefaultLanguage   string   `toml:"default_language"`
	FallbackLanguages []string `toml:"fallback_languages"`
	DefaultPlugin     string   `toml:"default_plugin"`
	CacheTTL          string   `toml:"cache_ttl"`
	CacheCapacity     int      `toml:"cache_capacity"`
	MaxConcurrency    int      `toml:"max_concurrency"`
	AdminURL          string   `toml:"admin_url"`
	Theme             string   `toml:"theme"`
}

func (c *CMSConfig) CacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.CacheTTL)
	return d
}

func (c *CMSConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

func (c *CMSConfig) Merge(overlay *CMSConfig) {
	if overlay.DefaultScheme != "" {
		c.DefaultScheme = overlay.DefaultScheme
	}
	if overlay.DefaultLanguage != "" {
		c.DefaultLanguage = overlay.DefaultLanguage
	}
	if overlay.FallbackLanguages != nil {
		c.FallbackLanguages = overlay.FallbackLanguages
	}
	if overlay.DefaultPlugin != "" {
		c.DefaultPlugin = overlay.DefaultPlugin
	}
	if overlay.CacheTTL != "" {
		c.CacheTTL = overlay.CacheTTL
	}
	if overlay.CacheCapacity != 0 {
		c.CacheCapacity = overlay.CacheCapacity
	}
	if overlay.MaxConcurrency != 0 {
		c.MaxConcurrency = overlay.MaxConcurrency
	}
	if overlay.AdminURL != "" {
		c.AdminURL = overlay.AdminURL
	}
	if overlay.Theme != "" {
		c.Theme = overlay.Theme
	}
}

func (c *CMSConfig) loadDefaults() {
	if c.DefaultScheme == "" {
		c.DefaultScheme = "i18n"
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = "en-us"
	}
	if c.DefaultPlugin == "" {
		c.DefaultPlugin = "txt"
	}
	if c.CacheTTL == "" {
		c.CacheTTL = "5m"
	}
	if c.CacheCapacity == 0 {
		c.CacheCapacity = 10000
	}
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = 8
	}
	if c.AdminURL == "" {
		c.AdminURL = "/djedi/cms/"
	}
	if c.Theme == "" {
		c.Theme = "darth"
	}
}

func (c *CMSConfig) loadEnv() error {
	if v := os.Getenv("CMS_DEFAULT_SCHEME"); v != "" {
		c.DefaultScheme = v
	}
	if v := os.Getenv("CMS_DEFAULT_LANGUAGE"); v != "" {
		c.DefaultLanguage = v
	}
	if v := os.Getenv("CMS_FALLBACK_LANGUAGES"); v != "" {
		var langs []string
		for _, l := range strings.Split(v, ",") {
			if l = strings.TrimSpace(l); l != "" {
				langs = append(langs, l)
			}
		}
		c.FallbackLanguages = langs
	}
	if v := os.Getenv("CMS_DEFAULT_PLUGIN"); v != "" {
		c.DefaultPlugin = v
	}
	if v := os.Getenv("CMS_CACHE_TTL"); v != "" {
		c.CacheTTL = v
	}
	if v := os.Getenv("CMS_CACHE_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CMS_CACHE_CAPACITY: %w", err)
		}
		c.CacheCapacity = n
	}
	if v := os.Getenv("CMS_MAX_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CMS_MAX_CONCURRENCY: %w", err)
		}
		c.MaxConcurrency = n
	}
	if v := os.Getenv("CMS_ADMIN_URL"); v != "" {
		c.AdminURL = v
	}
	if v := os.Getenv("CMS_THEME"); v != "" {
		c.Theme = v
	}
	return nil
}

func (c *CMSConfig) validate() error {
	if _, err := time.ParseDuration(c.CacheTTL); err != nil {
		return fmt.Errorf("invalid cache_ttl: %w", err)
	}
	if c.CacheCapacity < 0 {
		return fmt.Errorf("invalid cache_capacity: %d", c.CacheCapacity)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("invalid max_concurrency: %d", c.MaxConcurrency)
	}
	return nil
}
