package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost         = "CASCADE_SERVER_HOST"
	EnvServerPort         = "CASCADE_SERVER_PORT"
	EnvServerReadTimeout  = "CASCADE_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout = "CASCADE_SERVER_WRITE_TIMEOUT"
)

// ServerConfig holds HTTP listener parameters.
type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration  { return duration(c.ReadTimeout) }
func (c *ServerConfig) WriteTimeoutDuration() time.Duration { return duration(c.WriteTimeout) }

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	setDefault(&c.Host, "0.0.0.0")
	setDefault(&c.ReadTimeout, "1m")
	// automation runs are synchronous on POST, so writes get a long budget
	setDefault(&c.WriteTimeout, "15m")
	if c.Port == 0 {
		c.Port = 8080
	}

	envOverride(EnvServerHost, &c.Host)
	envOverride(EnvServerReadTimeout, &c.ReadTimeout)
	envOverride(EnvServerWriteTimeout, &c.WriteTimeout)
	if v := os.Getenv(EnvServerPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvServerPort, err)
		}
		c.Port = port
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if err := checkDuration("read_timeout", c.ReadTimeout); err != nil {
		return err
	}
	return checkDuration("write_timeout", c.WriteTimeout)
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	mergeString(&c.Host, overlay.Host)
	mergeString(&c.ReadTimeout, overlay.ReadTimeout)
	mergeString(&c.WriteTimeout, overlay.WriteTimeout)
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

func checkDuration(field, s string) error {
	if _, err := time.ParseDuration(s); err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	return nil
}

func setDefault(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

func envOverride(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func mergeString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
