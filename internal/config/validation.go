package config

import (
	"fmt"
	"time"

	derrors "git.home.luguber.info/inful/dumpsite/internal/foundation/errors"
)

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if len(c.Sites) == 0 {
		return derrors.ValidationError("at least one site must be configured").Build()
	}
	seen := make(map[string]bool, len(c.Sites))
	for i, s := range c.Sites {
		if s.Name == "" {
			return derrors.ValidationError(fmt.Sprintf("site %d has no name", i)).Build()
		}
		if seen[s.Name] {
			return derrors.ValidationError("duplicate site name").WithContext("site", s.Name).Build()
		}
		seen[s.Name] = true
		if s.Dump == "" {
			return derrors.ValidationError("site has no dump path").WithContext("site", s.Name).Build()
		}
	}
	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		return derrors.ValidationError("invalid logging level").WithCause(err).Build()
	}
	if _, err := ParseLogFormat(c.Logging.Format); err != nil {
		return derrors.ValidationError("invalid logging format").WithCause(err).Build()
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return derrors.ValidationError("invalid watch debounce").
			WithContext("value", c.Watch.Debounce).WithCause(err).Build()
	}
	if c.Watch.Interval != "" {
		d, err := time.ParseDuration(c.Watch.Interval)
		if err != nil || d <= 0 {
			return derrors.ValidationError("invalid watch interval").
				WithContext("value", c.Watch.Interval).Build()
		}
	}
	if c.Retry.Backoff != "" {
		if _, err := retryBackoffNormalizer.Parse(c.Retry.Backoff); err != nil {
			return derrors.ValidationError("invalid retry backoff").WithCause(err).Build()
		}
	}
	for _, d := range []string{c.Retry.Initial, c.Retry.Max} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return derrors.ValidationError("invalid retry delay").WithContext("value", d).WithCause(err).Build()
		}
	}
	return nil
}
