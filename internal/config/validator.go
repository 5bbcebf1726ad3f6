// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch or validation error aborts startup, so the binary never serves
// traffic with a half-valid platform domain or an unknown human mode.
//
// Besides the built-in tags, one custom rule is registered:
//
//   • `dsn_template` – a MySQL DSN must carry exactly one `%s` verb, which
//     receives the (possibly Vault-resolved) password at boot.
//
// Cross-field checks that tags cannot express live in `crossCheck`.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = func() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("dsn_template", func(fl validator.FieldLevel) bool {
		return strings.Count(fl.Field().String(), "%s") == 1
	})
	return val
}()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	return crossCheck(c)
}

func crossCheck(c *Config) error {
	if c.Database.Driver == "mysql" {
		if err := v.Var(c.Database.DSN, "dsn_template"); err != nil {
			return fmt.Errorf("database.dsn must contain exactly one %%s verb")
		}
	}
	switch c.SEO.HumanMode {
	case "redirect", "proxy":
		if c.SEO.AppOrigin == "" {
			return fmt.Errorf("seo.app_origin is required for human_mode %q", c.SEO.HumanMode)
		}
	}
	for _, label := range c.Platform.ReservedSubdomains {
		if strings.Contains(label, ".") {
			return fmt.Errorf("platform.reserved_subdomains: %q is not a single label", label)
		}
	}
	if c.Cache.MaxEntries == 0 && c.Cache.TTL > 0 {
		return fmt.Errorf("cache.max_entries must be positive when cache.ttl is set")
	}
	return nil
}
