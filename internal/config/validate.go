package config

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // timezone names resolve on hosts without zoneinfo
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0 (got %d)", c.Database.MaxOpenConns)
	}

	if err := c.Duplicate.validate(); err != nil {
		return fmt.Errorf("duplicate: %w", err)
	}

	if c.Outbox.BaseDelay <= 0 || c.Outbox.MaxDelay < c.Outbox.BaseDelay {
		return fmt.Errorf("outbox: need 0 < base_delay <= max_delay (got %s, %s)", c.Outbox.BaseDelay, c.Outbox.MaxDelay)
	}
	if c.Outbox.PollInterval <= 0 || c.Outbox.BatchSize <= 0 {
		return fmt.Errorf("outbox: poll_interval and batch_size must be positive")
	}

	if c.Gender.Timeout <= 0 {
		return fmt.Errorf("gender.timeout must be positive (got %s)", c.Gender.Timeout)
	}

	if _, err := c.Security.CSRFKeyBytes(); err != nil {
		return fmt.Errorf("security: %w", err)
	}
	if c.Security.RateLimit <= 0 {
		return fmt.Errorf("security.rate_limit must be > 0 (got %d)", c.Security.RateLimit)
	}

	return nil
}

func (d *DuplicateConfig) validate() error {
	if d.WindowMonths < 0 {
		return fmt.Errorf("window_months must be >= 0 (got %d)", d.WindowMonths)
	}
	if d.CandidateLimit <= 0 {
		return fmt.Errorf("candidate_limit must be > 0 (got %d)", d.CandidateLimit)
	}
	tz := d.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("timezone %q: %w", d.Timezone, err)
	}
	d.Location = loc
	return nil
}

// CSRFKeyBytes decodes the configured CSRF key. A nil key with nil error means none is configured.
func (s SecurityConfig) CSRFKeyBytes() ([]byte, error) {
	if s.CSRFKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(s.CSRFKey)
	if err != nil {
		return nil, fmt.Errorf("csrf_key must be hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("csrf_key must decode to 32 bytes (got %d)", len(key))
	}
	return key, nil
}

// TrustedOriginList splits TrustedOrigins on commas.
func (s SecurityConfig) TrustedOriginList() []string {
	var out []string
	for _, o := range strings.Split(s.TrustedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
