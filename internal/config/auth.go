package config

import (
	"fmt"
	"os"
)

// AuthConfig configures CMS permission tokens. An empty secret disables
// permission checks, so no request is granted CMS access.
type AuthConfig struct {
	Secret string `toml:"secret"`
	Issuer string `toml:"issuer"`
	Group  string `toml:"group"`
	Cookie string `toml:"cookie"`
}

func (c *AuthConfig) Enabled() bool {
	return c.Secret != ""
}

func (c *AuthConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

func (c *AuthConfig) Merge(overlay *AuthConfig) {
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.Group != "" {
		c.Group = overlay.Group
	}
	if overlay.Cookie != "" {
		c.Cookie = overlay.Cookie
	}
}

func (c *AuthConfig) loadDefaults() {
	if c.Issuer == "" {
		c.Issuer = "djedi"
	}
	if c.Group == "" {
		c.Group = "Djedi"
	}
	if c.Cookie == "" {
		c.Cookie = "djedi_session"
	}
}

func (c *AuthConfig) loadEnv() {
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		c.Secret = v
	}
	if v := os.Getenv("AUTH_ISSUER"); v != "" {
		c.Issuer = v
	}
	if v := os.Getenv("AUTH_GROUP"); v != "" {
		c.Group = v
	}
	if v := os.Getenv("AUTH_COOKIE"); v != "" {
		c.Cookie = v
	}
}

func (c *AuthConfig) validate() error {
	if c.Secret != "" && len(c.Secret) < 32 {
		return fmt.Errorf("secret must be at least 32 bytes")
	}
	return nil
}
