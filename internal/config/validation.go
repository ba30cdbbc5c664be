package config

import (
	"fmt"

	urlutil "github.com/law-makers/wom/internal/utils/url"
)

func validate(c *Config) error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.IndexTimeout <= 0 {
		return fmt.Errorf("index timeout must be > 0")
	}
	if c.MaxRetries < 0 || c.MaxRetries > DefaultMaxMaxRetries {
		return fmt.Errorf("max retries must be between 0 and %d", DefaultMaxMaxRetries)
	}
	if c.BackoffStep < 0 {
		return fmt.Errorf("backoff step must be >= 0")
	}
	if c.Limit <= 0 {
		return fmt.Errorf("limit must be > 0")
	}
	if c.YearsBack < 0 {
		return fmt.Errorf("years back must be >= 0")
	}
	if c.CollapseDigits < 4 || c.CollapseDigits > 14 {
		return fmt.Errorf("collapse digits must be between 4 and 14")
	}
	for name, u := range map[string]string{
		"target url":   c.TargetURL,
		"archive base": c.ArchiveBase,
		"cdx endpoint": c.CDXEndpoint,
	} {
		if err := urlutil.ValidateURL(u); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Proxy != "" {
		if err := urlutil.ValidateURL(c.Proxy); err != nil {
			return fmt.Errorf("proxy: %w", err)
		}
	}
	return nil
}
