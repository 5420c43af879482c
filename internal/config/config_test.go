package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.OutputPath() != os.TempDir() {
		t.Fatalf("OutputPath() = %q, want %q", cfg.OutputPath(), os.TempDir())
	}
	if !cfg.RaiseOnError() {
		t.Fatalf("RaiseOnError() = false, want true")
	}
}

func TestSetters(t *testing.T) {
	cfg := Default()
	cfg.SetOutputPath("/tmp/out")
	cfg.SetRaiseOnError(false)
	if cfg.OutputPath() != "/tmp/out" {
		t.Fatalf("OutputPath() = %q", cfg.OutputPath())
	}
	if cfg.RaiseOnError() {
		t.Fatalf("RaiseOnError() = true after SetRaiseOnError(false)")
	}

	cfg.SetOutputPath("")
	if cfg.OutputPath() != "" {
		t.Fatalf("cleared OutputPath() = %q, want empty", cfg.OutputPath())
	}
}

func TestSharedIsSingleton(t *testing.T) {
	if Shared() != Shared() {
		t.Fatalf("Shared() returned different instances")
	}
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	out := filepath.Join(t.TempDir(), "out")
	t.Setenv(EnvOutputPath, out)
	t.Setenv(EnvRaiseOnError, "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.OutputPath() != out {
		t.Fatalf("OutputPath() = %q, want %q", cfg.OutputPath(), out)
	}
	if cfg.RaiseOnError() {
		t.Fatalf("RaiseOnError() = true, want false")
	}
}

func TestLoadEmptyOutputPathClearsDefault(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(EnvOutputPath, "")
	t.Setenv(EnvRaiseOnError, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.OutputPath() != "" {
		t.Fatalf("OutputPath() = %q, want empty", cfg.OutputPath())
	}
	if !cfg.RaiseOnError() {
		t.Fatalf("RaiseOnError() = false, want default true")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv(EnvRaiseOnError, "")
	os.Unsetenv(EnvRaiseOnError)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvRaiseOnError+"=0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RaiseOnError() {
		t.Fatalf("RaiseOnError() = true, want false from .env")
	}
}

func TestLoadInvalidRaiseOnError(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(EnvRaiseOnError, "sometimes")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid %s", EnvRaiseOnError)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores it when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q): %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore Chdir(%q): %v", prev, err)
		}
	})
}
