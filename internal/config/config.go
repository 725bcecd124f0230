package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/wirechat-inbox/internal/attachment"
)

// Config holds inbox configuration values.
type Config struct {
	Addr               string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout  time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel           string        `mapstructure:"log_level" yaml:"log_level"`
	SnapshotDriver     string        `mapstructure:"snapshot_driver" yaml:"snapshot_driver"`
	SnapshotSource     string        `mapstructure:"snapshot_source" yaml:"snapshot_source"`
	UserID             string        `mapstructure:"user_id" yaml:"user_id"`
	UserName           string        `mapstructure:"user_name" yaml:"user_name"`
	MaxAttachmentBytes string        `mapstructure:"max_attachment_bytes" yaml:"max_attachment_bytes"`
	MediaPrefix        string        `mapstructure:"media_prefix" yaml:"media_prefix"`
}

// Snapshot drivers.
const (
	DriverFile   = "file"
	DriverHTTP   = "http"
	DriverSQLite = "sqlite"
)

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:               ":8080",
		ReadHeaderTimeout:  5 * time.Second,
		ShutdownTimeout:    5 * time.Second,
		LogLevel:           "info",
		SnapshotDriver:     DriverFile,
		SnapshotSource:     "chat_data.json",
		UserID:             "customer@mail.com",
		UserName:           "Thomas",
		MaxAttachmentBytes: "25MiB",
		MediaPrefix:        "/media/",
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.SnapshotDriver != "" {
		c.SnapshotDriver = other.SnapshotDriver
	}
	if other.SnapshotSource != "" {
		c.SnapshotSource = other.SnapshotSource
	}
	if other.UserID != "" {
		c.UserID = other.UserID
	}
	if other.UserName != "" {
		c.UserName = other.UserName
	}
	if other.MaxAttachmentBytes != "" {
		c.MaxAttachmentBytes = other.MaxAttachmentBytes
	}
	if other.MediaPrefix != "" {
		c.MediaPrefix = other.MediaPrefix
	}
}

// AttachmentLimit parses MaxAttachmentBytes. Zero disables the limit.
func (c Config) AttachmentLimit() (int64, error) {
	if c.MaxAttachmentBytes == "" || c.MaxAttachmentBytes == "0" {
		return 0, nil
	}
	n, err := attachment.ParseSize(c.MaxAttachmentBytes)
	if err != nil {
		return 0, fmt.Errorf("max_attachment_bytes: %w", err)
	}
	return n, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.SnapshotDriver {
	case DriverFile, DriverHTTP, DriverSQLite:
	default:
		return fmt.Errorf("snapshot_driver: unknown driver %q", c.SnapshotDriver)
	}
	if c.SnapshotSource == "" {
		return errors.New("snapshot_source is required")
	}
	if c.UserID == "" {
		return errors.New("user_id is required")
	}
	if _, err := c.AttachmentLimit(); err != nil {
		return err
	}
	return nil
}
