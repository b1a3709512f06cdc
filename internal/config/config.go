package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ory-session-page/internal/utils"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required (use -config or -c)")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig builds a validated Config from raw YAML, applying environment overrides before validation.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := applyEnvironmentOverrides(&config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

const EnvPrefix = "SESSION_PAGE_"

// environmentOverrides holds the values that may be supplied through the environment. Zero values mean "not set".
type environmentOverrides struct {
	ServerPort           int           `env:"SERVER_PORT"`
	IdentityPublicURL    string        `env:"IDENTITY_PUBLIC_URL"`
	IdentityProxyEnabled string        `env:"IDENTITY_PROXY_ENABLED"`
	IdentityTimeout      time.Duration `env:"IDENTITY_TIMEOUT"`
	LogLevel             string        `env:"LOG_LEVEL"`
	LogFormat            string        `env:"LOG_FORMAT"`
	TracingEndpoint      string        `env:"TRACING_ENDPOINT"`
	CORSAllowedOrigins   []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

func applyEnvironmentOverrides(config *Config) error {
	var overrides environmentOverrides
	if err := env.ParseWithOptions(&overrides, env.Options{Prefix: EnvPrefix}); err != nil {
		return err
	}

	if overrides.ServerPort != 0 {
		config.Server.Port = overrides.ServerPort
	}

	if overrides.IdentityPublicURL != "" {
		config.Identity.PublicURL = overrides.IdentityPublicURL
	}

	if overrides.IdentityProxyEnabled != "" {
		enabled, err := strconv.ParseBool(overrides.IdentityProxyEnabled)
		if err != nil {
			return fmt.Errorf("invalid %sIDENTITY_PROXY_ENABLED: %w", EnvPrefix, err)
		}
		config.Identity.ProxyEnabled = &enabled
	}

	if overrides.IdentityTimeout != 0 {
		config.Identity.Timeout = overrides.IdentityTimeout
	}

	if overrides.LogLevel != "" {
		config.Log.Level = overrides.LogLevel
	}

	if overrides.LogFormat != "" {
		config.Log.Format = overrides.LogFormat
	}

	if overrides.TracingEndpoint != "" {
		config.Tracing.Endpoint = overrides.TracingEndpoint
		config.Tracing.Enabled = true
	}

	if len(overrides.CORSAllowedOrigins) > 0 {
		config.CORS.AllowedOrigins = overrides.CORSAllowedOrigins
	}

	return nil
}

var (
	logLevels   = []string{"debug", "info", "warn", "error"}
	logFormats  = []string{"text", "json"}
	httpMethods = []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
)

func validateConfig(config *Config) error {
	err := config.validateServerConfig()
	if err != nil {
		return err
	}

	err = config.validateIdentityConfig()
	if err != nil {
		return err
	}

	err = config.validateLogConfig()
	if err != nil {
		return err
	}

	err = config.validateCORSConfig()
	if err != nil {
		return err
	}

	err = config.validateTracingConfig()
	if err != nil {
		return err
	}

	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerConfig.Port
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.Debug != nil && c.Server.Debug.Enabled {
		if c.Server.Debug.Host == "" {
			c.Server.Debug.Host = DefaultDebugConfig.Host
		}
		if c.Server.Debug.Port <= 0 || c.Server.Debug.Port >= 65535 {
			c.Server.Debug.Port = DefaultDebugConfig.Port
		}
	}

	return nil
}

func (c *Config) validateIdentityConfig() error {
	if err := validateURL(c.Identity.PublicURL, "identity.public_url"); err != nil {
		return err
	}
	c.Identity.PublicURL = strings.TrimSuffix(c.Identity.PublicURL, "/")

	if c.Identity.ProxyPath == "" {
		c.Identity.ProxyPath = DefaultIdentityConfig.ProxyPath
	}

	if !strings.HasPrefix(c.Identity.ProxyPath, "/") {
		return fmt.Errorf("identity.proxy_path must start with '/', got %q", c.Identity.ProxyPath)
	}
	c.Identity.ProxyPath = strings.TrimSuffix(c.Identity.ProxyPath, "/")

	if c.Identity.ProxyPath == "" {
		return fmt.Errorf("identity.proxy_path cannot be the site root")
	}

	if c.Identity.SettingsPath == "" {
		c.Identity.SettingsPath = DefaultIdentityConfig.SettingsPath
	}

	if c.Identity.LoginPath == "" {
		c.Identity.LoginPath = DefaultIdentityConfig.LoginPath
	}

	if c.Identity.RegistrationPath == "" {
		c.Identity.RegistrationPath = DefaultIdentityConfig.RegistrationPath
	}

	if c.Identity.Timeout < 0 {
		return fmt.Errorf("identity.timeout cannot be negative")
	} else if c.Identity.Timeout == 0 {
		c.Identity.Timeout = DefaultIdentityConfig.Timeout
	}

	return nil
}

func (c *Config) validateLogConfig() error {
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogConfig.Format
	} else if !utils.IsStringInSlice(c.Log.Format, logFormats) {
		return fmt.Errorf("invalid log format: %s, options are %s", c.Log.Format, strings.Join(logFormats, ", "))
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogConfig.Level
	} else if !utils.IsStringInSlice(c.Log.Level, logLevels) {
		return fmt.Errorf("invalid log level: %s, options are %s", c.Log.Level, strings.Join(logLevels, ", "))
	}

	return nil
}

func (c *Config) validateCORSConfig() error {
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = append([]string(nil), DefaultCORSConfig.AllowedOrigins...)
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = append([]string(nil), DefaultCORSConfig.AllowedMethods...)
	}
	for i, method := range c.CORS.AllowedMethods {
		if !utils.IsStringInSliceFold(method, httpMethods) {
			return fmt.Errorf("cors.allowed_methods: unknown method %q", method)
		}
		c.CORS.AllowedMethods[i] = strings.ToUpper(method)
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = append([]string(nil), DefaultCORSConfig.AllowedHeaders...)
	}
	if c.CORS.MaxAgeSeconds == 0 {
		c.CORS.MaxAgeSeconds = DefaultCORSConfig.MaxAgeSeconds
	}

	return nil
}

func (c *Config) validateTracingConfig() error {
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = DefaultTracingConfig.ServiceName
	}

	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = DefaultTracingConfig.SampleRatio
	} else if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be between 0 and 1, got %v", c.Tracing.SampleRatio)
	}

	if !c.Tracing.Enabled {
		return nil
	}

	if err := validateURL(c.Tracing.Endpoint, "tracing.endpoint"); err != nil {
		return err
	}

	return nil
}
