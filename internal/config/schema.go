package config

import (
	"time"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Identity IdentityConfig `yaml:"identity"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

type ServerConfig struct {
	Port  int                `yaml:"port"`
	Debug *ServerDebugConfig `yaml:"debug"`
}

var DefaultServerConfig = ServerConfig{
	Port: 3000,
}

type ServerDebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

var DefaultDebugConfig = ServerDebugConfig{
	Enabled: false,
	Host:    "localhost",
	Port:    5123,
}

// IdentityConfig points at the identity provider's public API.
type IdentityConfig struct {
	PublicURL        string        `yaml:"public_url"`
	ProxyEnabled     *bool         `yaml:"proxy_enabled"`
	ProxyPath        string        `yaml:"proxy_path"`
	SettingsPath     string        `yaml:"settings_path"`
	LoginPath        string        `yaml:"login_path"`
	RegistrationPath string        `yaml:"registration_path"`
	Timeout          time.Duration `yaml:"timeout"`
}

var DefaultIdentityConfig = IdentityConfig{
	ProxyPath:        "/api/.ory",
	SettingsPath:     "/self-service/settings/browser",
	LoginPath:        "/self-service/login/browser",
	RegistrationPath: "/self-service/registration/browser",
	Timeout:          10 * time.Second,
}

// IsProxyEnabled reports whether provider links are served through the local proxy. Defaults to true.
func (c IdentityConfig) IsProxyEnabled() bool {
	return c.ProxyEnabled == nil || *c.ProxyEnabled
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

var DefaultLogConfig = LogConfig{
	Level:  "info",
	Format: "text",
}

type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
	MaxAgeSeconds    int      `yaml:"max_age_seconds"`
}

var DefaultCORSConfig = CORSConfig{
	AllowedOrigins: []string{"http://localhost:3000"},
	AllowedMethods: []string{"GET", "OPTIONS"},
	AllowedHeaders: []string{"*"},
	MaxAgeSeconds:  300,
}

type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

var DefaultTracingConfig = TracingConfig{
	ServiceName: "ory-session-page",
	SampleRatio: 1.0,
}
