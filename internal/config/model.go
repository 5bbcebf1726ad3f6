// internal/config/model.go
//
// Typed configuration model for the SEO edge service.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                        – dotenv values,
//   • `conf/global.yaml`                     – primary static file,
//   • `SEO_`-prefixed environment overrides  – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is a secret
// reference (`vault:<mount>/<path>#<key>`).  The loader leaves it intact;
// cmd/web resolves it through internal/vault before the value is used.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Durations accept Go syntax ("3s", "5m").
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"`
	SecurityHeaders bool          `koanf:"security_headers"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

//
// Database section
//

// Database selects the content store.  With driver "mysql" the DSN and
// password are required; with driver "memory" the fixtures file is.
//
// The DSN is a template with one `%s` verb for the password, so the secret
// can live in Vault while host and flags stay in YAML.
type Database struct {
	Driver       string `koanf:"driver"        validate:"required,oneof=mysql memory"`
	DSN          string `koanf:"dsn"           validate:"required_if=Driver mysql"`
	Password     string `koanf:"password"`
	FixturesPath string `koanf:"fixtures_path" validate:"required_if=Driver memory"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
}

//
// Platform section
//

// Platform describes the hosting platform's own domain family.
type Platform struct {
	Domain             string   `koanf:"domain"              validate:"required,fqdn"`
	ReservedSubdomains []string `koanf:"reserved_subdomains"`
	ExtraHosts         []string `koanf:"extra_hosts"`
}

//
// SEO section
//

// SEO tunes the resolution pipeline and renderer.  AppOrigin is required
// when HumanMode is "redirect" or "proxy"; see crossCheck.
type SEO struct {
	CacheMaxAge      time.Duration `koanf:"cache_max_age"`
	ResolveTimeout   time.Duration `koanf:"resolve_timeout"   validate:"required"`
	ProbeConcurrency int           `koanf:"probe_concurrency" validate:"min=0"`
	ForceParam       string        `koanf:"force_param"`
	ForceHeader      string        `koanf:"force_header"`
	HumanMode        string        `koanf:"human_mode"        validate:"required,oneof=pass redirect proxy static"`
	AppOrigin        string        `koanf:"app_origin"        validate:"omitempty,url"`
	StaticDir        string        `koanf:"static_dir"        validate:"required_if=HumanMode static"`
}

//
// Cache section
//

// Cache configures the optional resolution cache.  TTL 0 disables it.
type Cache struct {
	TTL           time.Duration `koanf:"ttl"`
	MaxEntries    int           `koanf:"max_entries" validate:"min=0"`
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
}

//
// Log, Geo, Components
//

type Log struct {
	Dir   string `koanf:"dir"`
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

type Geo struct {
	DBPath string `koanf:"db_path"`
}

// Components lists the HTTP entry points to mount, by component name.  An
// empty list mounts every registered component.
type Components struct {
	Enabled []string `koanf:"enabled"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // SEO_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP       HTTP       `koanf:"http"`
	Database   Database   `koanf:"database"`
	Platform   Platform   `koanf:"platform"`
	SEO        SEO        `koanf:"seo"`
	Cache      Cache      `koanf:"cache"`
	Log        Log        `koanf:"log"`
	Geo        Geo        `koanf:"geo"`
	Components Components `koanf:"components"`
	Paths      Paths      `koanf:"-"`
}
