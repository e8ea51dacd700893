// internal/config/config_test.go
package config

import (
	"testing"
	"time"
)

func getenvFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefaultsWhenUnset(t *testing.T) {
	cfg, err := FromEnv(getenvFrom(nil))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Defaults() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestOverrides(t *testing.T) {
	cfg, err := FromEnv(getenvFrom(map[string]string{
		"PSYFIELD_ADDR":        ":9999",
		"PSYFIELD_RUN_TIMEOUT": "30s",
		"PSYFIELD_MAX_RUNS":    "2",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9999" || cfg.RunTimeout != 30*time.Second || cfg.MaxConcurrentRuns != 2 {
		t.Errorf("bad overrides %+v", cfg)
	}
	// Untouched keys keep defaults.
	if cfg.IdleTimeout != Defaults().IdleTimeout {
		t.Errorf("idle timeout = %v", cfg.IdleTimeout)
	}
}

func TestRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"bad duration": {"PSYFIELD_RUN_TIMEOUT": "soon"},
		"bad max runs": {"PSYFIELD_MAX_RUNS": "-1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := FromEnv(getenvFrom(env)); err == nil {
				t.Error("bad value accepted")
			}
		})
	}
}
