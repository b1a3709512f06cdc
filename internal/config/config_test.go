package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const minimalConfig = `
identity:
  public_url: https://idp.example.com/
`

func TestParseConfig_AppliesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(minimalConfig))
	if err != nil {
		t.Fatalf("ParseConfig() unexpected error = %v", err)
	}

	if cfg.Server.Port != DefaultServerConfig.Port {
		t.Errorf("expected default port %d, got %d", DefaultServerConfig.Port, cfg.Server.Port)
	}

	if cfg.Identity.PublicURL != "https://idp.example.com" {
		t.Errorf("expected trailing slash to be trimmed, got %q", cfg.Identity.PublicURL)
	}

	if !cfg.Identity.IsProxyEnabled() {
		t.Errorf("expected proxy to be enabled by default")
	}

	if cfg.Identity.ProxyPath != "/api/.ory" {
		t.Errorf("expected default proxy path, got %q", cfg.Identity.ProxyPath)
	}

	if cfg.Identity.SettingsPath != DefaultIdentityConfig.SettingsPath {
		t.Errorf("expected default settings path, got %q", cfg.Identity.SettingsPath)
	}

	if cfg.Identity.Timeout != 10*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.Identity.Timeout)
	}

	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("expected default log config, got %+v", cfg.Log)
	}

	if cfg.Tracing.ServiceName != DefaultTracingConfig.ServiceName {
		t.Errorf("expected default service name, got %q", cfg.Tracing.ServiceName)
	}
}

func TestParseConfig_Validation(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		wantError bool
		errMsg    string
	}{
		{
			name:      "missing public url",
			yaml:      "server:\n  port: 8080\n",
			wantError: true,
			errMsg:    "identity.public_url is required",
		},
		{
			name:      "public url without scheme",
			yaml:      "identity:\n  public_url: idp.example.com\n",
			wantError: true,
			errMsg:    "http or https scheme",
		},
		{
			name:      "proxy path without leading slash",
			yaml:      "identity:\n  public_url: http://idp:4433\n  proxy_path: api/.ory\n",
			wantError: true,
			errMsg:    "must start with '/'",
		},
		{
			name:      "proxy path at root",
			yaml:      "identity:\n  public_url: http://idp:4433\n  proxy_path: /\n",
			wantError: true,
			errMsg:    "cannot be the site root",
		},
		{
			name:      "negative timeout",
			yaml:      "identity:\n  public_url: http://idp:4433\n  timeout: -1s\n",
			wantError: true,
			errMsg:    "cannot be negative",
		},
		{
			name:      "invalid log level",
			yaml:      "identity:\n  public_url: http://idp:4433\nlog:\n  level: verbose\n",
			wantError: true,
			errMsg:    "invalid log level",
		},
		{
			name:      "invalid log format",
			yaml:      "identity:\n  public_url: http://idp:4433\nlog:\n  format: xml\n",
			wantError: true,
			errMsg:    "invalid log format",
		},
		{
			name:      "tracing enabled without endpoint",
			yaml:      "identity:\n  public_url: http://idp:4433\ntracing:\n  enabled: true\n",
			wantError: true,
			errMsg:    "tracing.endpoint is required",
		},
		{
			name:      "tracing sample ratio out of range",
			yaml:      "identity:\n  public_url: http://idp:4433\ntracing:\n  sample_ratio: 2\n",
			wantError: true,
			errMsg:    "sample_ratio",
		},
		{
			name:      "port out of range",
			yaml:      "identity:\n  public_url: http://idp:4433\nserver:\n  port: 70000\n",
			wantError: true,
			errMsg:    "server.port",
		},
		{
			name:      "unknown cors method",
			yaml:      "identity:\n  public_url: http://idp:4433\ncors:\n  allowed_methods: [GET, FETCH]\n",
			wantError: true,
			errMsg:    "unknown method",
		},
		{
			name:      "debug server defaults",
			yaml:      "identity:\n  public_url: http://idp:4433\nserver:\n  debug:\n    enabled: true\n",
			wantError: false,
		},
		{
			name:      "proxy disabled",
			yaml:      "identity:\n  public_url: http://idp:4433\n  proxy_enabled: false\n",
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			if tt.wantError {
				if err == nil {
					t.Errorf("ParseConfig() expected error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ParseConfig() error = %v, want error containing %v", err, tt.errMsg)
				}
			} else {
				if err != nil {
					t.Errorf("ParseConfig() unexpected error = %v", err)
				}
			}
		})
	}
}

func TestParseConfig_DebugDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("identity:\n  public_url: http://idp:4433\nserver:\n  debug:\n    enabled: true\n"))
	if err != nil {
		t.Fatalf("ParseConfig() unexpected error = %v", err)
	}

	if cfg.Server.Debug.Host != DefaultDebugConfig.Host || cfg.Server.Debug.Port != DefaultDebugConfig.Port {
		t.Errorf("expected debug defaults, got %+v", cfg.Server.Debug)
	}
}

func TestParseConfig_NormalizesCORSMethods(t *testing.T) {
	cfg, err := ParseConfig([]byte("identity:\n  public_url: http://idp:4433\ncors:\n  allowed_methods: [get, options]\n"))
	if err != nil {
		t.Fatalf("ParseConfig() unexpected error = %v", err)
	}

	if cfg.CORS.AllowedMethods[0] != "GET" || cfg.CORS.AllowedMethods[1] != "OPTIONS" {
		t.Errorf("expected upper-cased methods, got %v", cfg.CORS.AllowedMethods)
	}
}

func TestParseConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"IDENTITY_PUBLIC_URL", "https://override.example.com")
	t.Setenv(EnvPrefix+"IDENTITY_PROXY_ENABLED", "false")
	t.Setenv(EnvPrefix+"IDENTITY_TIMEOUT", "3s")
	t.Setenv(EnvPrefix+"SERVER_PORT", "9090")
	t.Setenv(EnvPrefix+"LOG_LEVEL", "debug")
	t.Setenv(EnvPrefix+"CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv(EnvPrefix+"TRACING_ENDPOINT", "http://collector:4318")

	cfg, err := ParseConfig([]byte(minimalConfig))
	if err != nil {
		t.Fatalf("ParseConfig() unexpected error = %v", err)
	}

	if cfg.Identity.PublicURL != "https://override.example.com" {
		t.Errorf("expected public url override, got %q", cfg.Identity.PublicURL)
	}

	if cfg.Identity.IsProxyEnabled() {
		t.Errorf("expected proxy to be disabled by environment")
	}

	if cfg.Identity.Timeout != 3*time.Second {
		t.Errorf("expected timeout override, got %v", cfg.Identity.Timeout)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port override, got %d", cfg.Server.Port)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level override, got %q", cfg.Log.Level)
	}

	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("expected cors origins override, got %v", cfg.CORS.AllowedOrigins)
	}

	if !cfg.Tracing.Enabled || cfg.Tracing.Endpoint != "http://collector:4318" {
		t.Errorf("expected tracing to be enabled by endpoint override, got %+v", cfg.Tracing)
	}
}

func TestParseConfig_InvalidProxyEnabledEnvironment(t *testing.T) {
	t.Setenv(EnvPrefix+"IDENTITY_PROXY_ENABLED", "sometimes")

	_, err := ParseConfig([]byte(minimalConfig))
	if err == nil {
		t.Fatal("ParseConfig() expected error but got none")
	}

	if !strings.Contains(err.Error(), "IDENTITY_PROXY_ENABLED") {
		t.Errorf("ParseConfig() error = %v, want error naming the variable", err)
	}
}

func TestLoadConfig(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Errorf("LoadConfig() expected error for empty path")
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("LoadConfig() expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(minimalConfig), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error = %v", err)
	}

	if cfg.Identity.PublicURL != "https://idp.example.com" {
		t.Errorf("unexpected public url %q", cfg.Identity.PublicURL)
	}
}
