package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/graphpad/pkg/graph"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load of a missing explicit path should fail")
	}
}

func TestLoadPartial(t *testing.T) {
	path := writeConfig(t, `
[pen]
default = "Red"

[recovery]
backend = "redis"
url = "redis://cache:6379/2"
ttl = "36h"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PenColor() != graph.Red {
		t.Errorf("PenColor = %v, want red", cfg.PenColor())
	}
	if cfg.Recovery.TTL.Duration != 36*time.Hour {
		t.Errorf("TTL = %v, want 36h", cfg.Recovery.TTL)
	}
	sc := cfg.StoreConfig()
	if sc.Backend != "redis" || sc.URL != "redis://cache:6379/2" {
		t.Errorf("StoreConfig = %+v", sc)
	}
	if cfg.Canvas != Default().Canvas || cfg.Server != Default().Server {
		t.Error("unset sections should keep their defaults")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[canvas\n"},
		{"negative slack", "[canvas]\nhit_slack = -1.0\n"},
		{"zero cell", "[canvas]\ncell_width = 0.0\n"},
		{"pen color", "[pen]\ndefault = \"mauve\"\n"},
		{"backend", "[recovery]\nbackend = \"etcd\"\n"},
		{"ttl", "[recovery]\nttl = \"soon\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Errorf("Load(%q) should fail", tt.body)
			}
		})
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg")
	if got, want := Path(), filepath.Join("/etc/xdg", "graphpad", "config.toml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), `ttl = "168h0m0s"`) {
		t.Errorf("encoded config:\n%s", buf.String())
	}

	cfg, err := Load(writeConfig(t, buf.String()))
	if err != nil {
		t.Fatalf("Load(encoded): %v", err)
	}
	if cfg != Default() {
		t.Errorf("round trip = %+v, want defaults", cfg)
	}
}
