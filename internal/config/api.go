package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/docker/go-units"

	"github.com/JaimeStill/djedi/pkg/middleware"
	"github.com/JaimeStill/djedi/pkg/openapi"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "API_CORS_ENABLED",
	Origins:          "API_CORS_ORIGINS",
	AllowedMethods:   "API_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "API_CORS_ALLOWED_HEADERS",
	AllowCredentials: "API_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "API_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "API_OPENAPI_TITLE",
	Description: "API_OPENAPI_DESCRIPTION",
}

// APIConfig controls where and how the REST routes are mounted.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	Namespace   string                `toml:"namespace"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	OpenAPI     openapi.Config        `toml:"openapi"`
}

// MaxBodySizeBytes returns MaxBodySize parsed as a human readable size.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	n, _ := units.RAMInBytes(c.MaxBodySize)
	return n
}

func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.Namespace != "" {
		c.Namespace = overlay.Namespace
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}
	c.CORS.Merge(&overlay.CORS)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/djedi"
	}
	if c.Namespace == "" {
		c.Namespace = "djedi"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("API_NAMESPACE"); v != "" {
		c.Namespace = v
	}
	if v := os.Getenv("API_MAX_BODY_SIZE"); v != "" {
		c.MaxBodySize = v
	}
}

func (c *APIConfig) validate() error {
	seg := strings.TrimPrefix(c.BasePath, "/")
	if !strings.HasPrefix(c.BasePath, "/") || seg == "" || strings.Contains(seg, "/") {
		return fmt.Errorf("invalid base_path %q: must be a single segment like /djedi", c.BasePath)
	}
	if strings.Contains(c.Namespace, ":") {
		return fmt.Errorf("invalid namespace %q: must not contain ':'", c.Namespace)
	}
	n, err := units.RAMInBytes(c.MaxBodySize)
	if err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if n <= 0 {
		return fmt.Errorf("invalid max_body_size %q: must be positive", c.MaxBodySize)
	}
	return nil
}
