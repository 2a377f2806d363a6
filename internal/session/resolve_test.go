package session

import (
	"path/filepath"
	"testing"

	"github.com/matheus3301/svyazukha/internal/config"
)

func TestResolvePrecedence(t *testing.T) {
	dir := t.TempDir()
	withDefault := filepath.Join(dir, "with.toml")
	cfg := config.Default()
	cfg.DefaultSession = "work"
	if err := config.Save(withDefault, cfg); err != nil {
		t.Fatal(err)
	}
	withoutDefault := filepath.Join(dir, "without.toml")
	if err := config.Save(withoutDefault, config.Default()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		flag   string
		config string
		want   string
	}{
		{"flag wins", "cli", withDefault, "cli"},
		{"config default", "", withDefault, "work"},
		{"empty config default", "", withoutDefault, DefaultSessionName},
		{"missing config", "", filepath.Join(dir, "missing.toml"), DefaultSessionName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveFrom(tt.flag, tt.config); got != tt.want {
				t.Errorf("resolveFrom(%q) = %q, want %q", tt.flag, got, tt.want)
			}
		})
	}
}
