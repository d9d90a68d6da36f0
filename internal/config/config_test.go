package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfig_ValidMinimal(t *testing.T) {
	cfg, err := ParseConfig([]byte("verbose: true\n"), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Verbose {
		t.Error("expected verbose to be true")
	}
	if cfg.SynthesizedAssembly != SynthesizedAssemblyName {
		t.Errorf("synthesized_assembly = %q, want %q", cfg.SynthesizedAssembly, SynthesizedAssemblyName)
	}
	if !cfg.CacheEnabled() {
		t.Error("cache should be enabled by default")
	}
}

func TestParseConfig_ValidFull(t *testing.T) {
	yaml := `
stable_assemblies:
  - shared.models
  - shared.contracts
synthesized_assembly: app.Delegates
cache:
  enabled: false
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.StableAssemblies) != 2 || cfg.StableAssemblies[1] != "shared.contracts" {
		t.Errorf("stable_assemblies = %v", cfg.StableAssemblies)
	}
	if cfg.SynthesizedAssembly != "app.Delegates" {
		t.Errorf("synthesized_assembly = %q, want app.Delegates", cfg.SynthesizedAssembly)
	}
	if cfg.CacheEnabled() {
		t.Error("cache should be disabled")
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty stable name", "stable_assemblies: [\"\"]\n", "name is empty"},
		{"duplicate stable name", "stable_assemblies: [a, b, a]\n", "already listed at index 0"},
		{"synthesized collides with corelib", "synthesized_assembly: corelib\n", "collides with a built-in assembly"},
		{"synthesized listed as stable", "stable_assemblies: [gen]\nsynthesized_assembly: gen\n", "cannot be listed as stable"},
		{"malformed", "stable_assemblies: {a: 1}\n", "parsing test.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml), "test.yaml")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.SynthesizedAssembly != SynthesizedAssemblyName || !cfg.CacheEnabled() || cfg.Verbose {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	var nilCfg *Config
	if !nilCfg.CacheEnabled() {
		t.Error("nil config should use the cache")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte("synthesized_assembly: from.file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.SynthesizedAssembly != "from.file" {
		t.Errorf("synthesized_assembly = %q", cfg.SynthesizedAssembly)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, "a", ConfigFileName)
	if err := os.WriteFile(path, []byte("verbose: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if found != path {
		t.Errorf("found = %q, want %q", found, path)
	}

	found, err = FindConfig(filepath.Join(root, "elsewhere"))
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if found != "" && strings.HasPrefix(found, root) {
		t.Errorf("should not find a config outside the search path, got %q", found)
	}
}
