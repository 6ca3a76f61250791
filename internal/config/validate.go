package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if strings.TrimSpace(c.Auth.IntakeSharedSecret) == "" {
		return fmt.Errorf("auth.intake_shared_secret must not be empty")
	}

	if u, err := url.Parse(c.Analysis.WebhookURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("analysis.webhook_url must be an absolute URL (got %q)", c.Analysis.WebhookURL)
	}
	if c.Analysis.Timeout <= 0 {
		return fmt.Errorf("analysis.timeout must be positive (got %v)", c.Analysis.Timeout)
	}

	if strings.TrimSpace(c.Protocol.Prefix) == "" {
		return fmt.Errorf("protocol.prefix must not be empty")
	}

	switch c.Document.Driver {
	case "fs", "memory":
	case "s3":
		if c.Document.S3.Bucket == "" {
			return fmt.Errorf("document.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("document.driver must be one of fs, s3, memory (got %q)", c.Document.Driver)
	}

	return nil
}
