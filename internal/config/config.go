// Package config loads the YAML configuration for the formdata command.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shapestone/shape-formdata/pkg/formdata"
)

// Config is the file-level configuration.
type Config struct {
	// Charset is the form charset for header values and field text.
	Charset string `yaml:"charset" validate:"required"`

	// TempDir holds spool files. Empty means os.TempDir().
	TempDir string `yaml:"temp_dir"`

	// BufferSize is the read window in bytes.
	BufferSize int `yaml:"buffer_size" validate:"gte=0,lte=67108864"`

	// MaxBodyBytes rejects larger bodies. Zero means no limit.
	MaxBodyBytes int64 `yaml:"max_body_bytes" validate:"gte=0"`

	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// ServerConfig configures the HTTP decode service.
type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required,hostname_port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
}

var validate = validator.New()

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Charset: "utf-8",
		Log:     LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Options returns the decoder options the configuration selects.
func (c *Config) Options() []formdata.Option {
	opts := []formdata.Option{formdata.WithCharset(c.Charset)}
	if c.TempDir != "" {
		opts = append(opts, formdata.WithTempDir(c.TempDir))
	}
	if c.BufferSize > 0 {
		opts = append(opts, formdata.WithBufferSize(c.BufferSize))
	}
	if c.MaxBodyBytes > 0 {
		opts = append(opts, formdata.WithMaxLength(c.MaxBodyBytes))
	}
	return opts
}
