package vault

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	vault "github.com/hashicorp/vault/api"
)

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("vault:secret/seoedge/db#password")
	if err != nil {
		t.Fatalf("ParseRef: %v", err)
	}
	if ref.Path != "secret/seoedge/db" || ref.Key != "password" {
		t.Fatalf("ref = %+v", ref)
	}

	for _, bad := range []string{
		"secret/seoedge/db#password",
		"vault:secret/seoedge/db",
		"vault:secret#password",
		"vault:secret/db#",
	} {
		if _, err := ParseRef(bad); !errors.Is(err, ErrBadRef) {
			t.Errorf("ParseRef(%q) err = %v, want ErrBadRef", bad, err)
		}
	}
}

func TestResolve(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/secret/data/seoedge/db" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"data":{"password":"s3cret"},"metadata":{"created_time":"2024-03-22T02:24:06.945319214Z","deletion_time":"","destroyed":false,"version":1}}}`))
	}))
	defer srv.Close()

	cfg := vault.DefaultConfig()
	cfg.Address = srv.URL
	cli, err := NewWithConfig(cfg, "test-token")
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	plain, err := cli.Resolve(ctx, "not-a-ref")
	if err != nil || plain != "not-a-ref" {
		t.Fatalf("plain value = %q, %v", plain, err)
	}

	for i := 0; i < 2; i++ {
		got, err := cli.Resolve(ctx, "vault:secret/seoedge/db#password")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if got != "s3cret" {
			t.Fatalf("Resolve = %q", got)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("vault hit %d times, want 1 (cached)", hits.Load())
	}

	if _, err := cli.Resolve(ctx, "vault:secret/seoedge/db#missing"); err == nil {
		t.Error("missing key resolved without error")
	}
}
