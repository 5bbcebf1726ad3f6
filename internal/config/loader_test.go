package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConf(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "conf"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

const minimal = `
platform:
  domain: platform.test
database:
  driver: memory
  fixtures_path: conf/fixtures.yaml
`

func TestLoadFromAppliesDefaults(t *testing.T) {
	root := writeConf(t, minimal)

	cfg, err := LoadFrom(root)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.HTTP.ListenAddr != ":8080" {
		t.Errorf("listen_addr = %q", cfg.HTTP.ListenAddr)
	}
	if cfg.SEO.ResolveTimeout != 3*time.Second {
		t.Errorf("resolve_timeout = %v", cfg.SEO.ResolveTimeout)
	}
	if cfg.SEO.CacheMaxAge != 5*time.Minute {
		t.Errorf("cache_max_age = %v", cfg.SEO.CacheMaxAge)
	}
	if cfg.SEO.HumanMode != "pass" {
		t.Errorf("human_mode = %q", cfg.SEO.HumanMode)
	}
	if len(cfg.Platform.ReservedSubdomains) != 2 {
		t.Errorf("reserved = %v", cfg.Platform.ReservedSubdomains)
	}
	if cfg.Paths.Root != root {
		t.Errorf("root = %q", cfg.Paths.Root)
	}
	if cfg.Log.Dir != filepath.Join(root, "logs") {
		t.Errorf("log dir = %q", cfg.Log.Dir)
	}
	if Get() != cfg {
		t.Error("Get() did not return the cached config")
	}
}

func TestLoadFromEnvOverride(t *testing.T) {
	root := writeConf(t, minimal)
	t.Setenv("SEO_HTTP__LISTEN_ADDR", ":9090")
	t.Setenv("SEO_SEO__RESOLVE_TIMEOUT", "750ms")

	cfg, err := LoadFrom(root)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.HTTP.ListenAddr != ":9090" {
		t.Errorf("listen_addr = %q, want :9090", cfg.HTTP.ListenAddr)
	}
	if cfg.SEO.ResolveTimeout != 750*time.Millisecond {
		t.Errorf("resolve_timeout = %v", cfg.SEO.ResolveTimeout)
	}
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown human mode": minimal + `
seo:
  human_mode: teleport
`,
		"redirect without origin": minimal + `
seo:
  human_mode: redirect
`,
		"mysql dsn without verb": `
platform:
  domain: platform.test
database:
  driver: mysql
  dsn: "seo@tcp(db:3306)/content"
`,
		"dotted reserved label": `
platform:
  domain: platform.test
  reserved_subdomains: ["www", "a.b"]
database:
  driver: memory
  fixtures_path: x.yaml
`,
		"missing platform": `
database:
  driver: memory
  fixtures_path: x.yaml
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(writeConf(t, body))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
		})
	}
}
