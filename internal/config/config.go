package config

import (
	"time"

	"github.com/vovakirdan/wirechat-client/internal/proto"
)

// Config holds client and server configuration values.
type Config struct {
	LogLevel string       `mapstructure:"log_level" yaml:"log_level"`
	Client   ClientConfig `mapstructure:"client" yaml:"client"`
	Server   ServerConfig `mapstructure:"server" yaml:"server"`
}

// ClientConfig describes where the chat client connects and logs.
type ClientConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Path    string `mapstructure:"path" yaml:"path"`
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}

// ServerConfig holds broadcast server values.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	// AllowedOrigin restricts browser upgrades; empty accepts any origin.
	AllowedOrigin  string `mapstructure:"allowed_origin" yaml:"allowed_origin"`
	MaxMessageSize int64  `mapstructure:"max_message_size" yaml:"max_message_size"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Client: ClientConfig{
			BaseURL: "ws://localhost:8080",
			Path:    "/ws",
			LogFile: "wirechat.log",
		},
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   5 * time.Second,
			MaxMessageSize:    proto.MaxMessageSize,
		},
	}
}

// URL joins base address and path into the dial target.
func (c ClientConfig) URL() string {
	return c.BaseURL + c.Path
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.Client.BaseURL != "" {
		c.Client.BaseURL = other.Client.BaseURL
	}
	if other.Client.Path != "" {
		c.Client.Path = other.Client.Path
	}
	if other.Client.LogFile != "" {
		c.Client.LogFile = other.Client.LogFile
	}
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.ReadHeaderTimeout != 0 {
		c.Server.ReadHeaderTimeout = other.Server.ReadHeaderTimeout
	}
	if other.Server.ShutdownTimeout != 0 {
		c.Server.ShutdownTimeout = other.Server.ShutdownTimeout
	}
	if other.Server.AllowedOrigin != "" {
		c.Server.AllowedOrigin = other.Server.AllowedOrigin
	}
	if other.Server.MaxMessageSize != 0 {
		c.Server.MaxMessageSize = other.Server.MaxMessageSize
	}
}
