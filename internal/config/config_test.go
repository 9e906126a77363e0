package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pinochle.json")
	if err := os.WriteFile(path, []byte(`{"variant":"double","trials":50,"log_level":"debug"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PINOCHLE_TRIALS", "75")
	t.Setenv("PINOCHLE_SEED", "99")
	t.Setenv("PINOCHLE_PARTNER_SCORING", "true")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Variant != "double" || c.Trials != 75 || c.Seed != 99 || !c.PartnerScoring || c.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", c)
	}
	if c.GameVariant().Name != "double" || len(c.GameOptions(zap.NewNop())) != 4 {
		t.Fatalf("unexpected derived values")
	}
	if _, err := c.Logger(); err != nil {
		t.Fatalf("Logger: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected missing file error")
	}
	bad := filepath.Join(t.TempDir(), "bad.json")
	_ = os.WriteFile(bad, []byte(`{`), 0o644)
	if _, err := Load(bad); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	type tc struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(Config) bool
	}
	cases := []tc{
		{"numbers", map[string]string{"PINOCHLE_WORKERS": " 8 ", "PINOCHLE_GAMES": "3"}, false, func(c Config) bool { return c.Workers == 8 && c.Games == 3 }},
		{"strings", map[string]string{"PINOCHLE_VARIANT": "firehouse", "PINOCHLE_BOTS": "random"}, false, func(c Config) bool {
			return c.Variant == "firehouse" && c.Bots == "random"
		}},
		{"empty values ignored", map[string]string{"PINOCHLE_TRIALS": ""}, false, func(c Config) bool { return c.Trials == Default().Trials }},
		{"bad number", map[string]string{"PINOCHLE_MAX_HANDS": "many"}, true, nil},
		{"bad seed", map[string]string{"PINOCHLE_SEED": "-1"}, true, nil},
		{"bad bool", map[string]string{"PINOCHLE_PARTNER_SCORING": "maybe"}, true, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			err := cfg.applyEnv(func(k string) (string, bool) { v, ok := c.env[k]; return v, ok })
			if (err != nil) != c.wantErr {
				t.Fatalf("err = %v", err)
			}
			if c.check != nil && !c.check(cfg) {
				t.Fatalf("unexpected config %+v", cfg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	type tc struct {
		name   string
		mutate func(*Config)
	}
	cases := []tc{
		{"unknown variant", func(c *Config) { c.Variant = "bezique" }},
		{"firehouse partner scoring", func(c *Config) { c.Variant = "firehouse"; c.PartnerScoring = true }},
		{"unknown bots", func(c *Config) { c.Bots = "human" }},
		{"no end", func(c *Config) { c.WinningScore = 0; c.MaxHands = 0 }},
		{"no trials", func(c *Config) { c.Trials = 0 }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatalf("expected error for %+v", c)
			}
		})
	}
}
