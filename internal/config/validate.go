package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// minJWTSecretLength is the shortest HS256 secret accepted when auth is on.
const minJWTSecretLength = 32

var validate = validator.New()

// Validate checks field ranges and the settings each selected backend needs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' validation", fieldPath(fe.Namespace()), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("config error: 'database.url' is required for the postgres driver")
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("config error: 'database.sqlite-path' is required for the sqlite driver")
		}
	}

	switch c.Reports.Backend {
	case "file":
		if c.Reports.Dir == "" {
			return fmt.Errorf("config error: 'reports.dir' is required for the file backend")
		}
	case "s3":
		if c.Reports.Bucket == "" {
			return fmt.Errorf("config error: 'reports.bucket' is required for the s3 backend")
		}
		if (c.Reports.AccessKeyID == "") != (c.Reports.SecretAccessKey == "") {
			return fmt.Errorf("config error: 'reports.access-key-id' and 'reports.secret-access-key' must be set together")
		}
	}

	if c.Similarity.Provider == "gemini" && c.Similarity.APIKey == "" {
		return fmt.Errorf("config error: 'similarity.api-key' is required for the gemini provider")
	}
	if c.Coaching.Enabled && c.Similarity.APIKey == "" {
		return fmt.Errorf("config error: coaching requires 'similarity.api-key'")
	}

	if c.Auth.Enabled && len(c.Auth.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("config error: 'auth.jwt-secret' must be at least %d characters when auth is enabled", minJWTSecretLength)
	}

	return nil
}

// fieldPath turns a validator namespace such as Config.Server.Port into the
// lowercase key path server.port.
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.ToLower(strings.Join(parts, "."))
}
