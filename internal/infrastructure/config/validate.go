package config

import (
	"errors"
	"fmt"
	"slices"
)

// validate reports every invalid setting at once
func (c *Config) validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Database.MaxOpenConns <= 0 {
		fail("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		fail("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		fail("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Event.BatchSize <= 0 {
		fail("event.batch_size must be positive")
	}
	if c.Event.BacklogLimit < 0 {
		fail("event.backlog_limit cannot be negative")
	}
	if c.Telemetry.SamplingRatio < 0 || c.Telemetry.SamplingRatio > 1 {
		fail("telemetry.sampling_ratio must be between 0.0 and 1.0, got %g", c.Telemetry.SamplingRatio)
	}

	if c.Storage.Enabled {
		if c.Storage.Bucket == "" {
			fail("storage.bucket is required when storage is enabled")
		}
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			fail("storage.access_key and storage.secret_key are required when storage is enabled")
		}
	}

	if c.IsProduction() {
		switch {
		case c.JWT.Secret == "":
			fail("jwt.secret is required in production")
		case len(c.JWT.Secret) < 32:
			fail("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			fail("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			fail("database.sslmode cannot be 'disable' in production")
		}
		if slices.Contains(c.HTTP.CORSAllowOrigins, "*") {
			fail("http.cors_allow_origins cannot be '*' in production")
		}
		if c.Swagger.Enabled && len(c.Swagger.AllowedIPs) == 0 {
			fail("swagger must be disabled or restricted by swagger.allowed_ips in production")
		}
		if c.Telemetry.DBLogFullSQL {
			fail("telemetry.db_log_full_sql must be false in production")
		}
	}

	return errors.Join(errs...)
}
