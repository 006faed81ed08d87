package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(missing) returned error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(missing) = %+v, want defaults %+v", cfg, Default())
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	want := Default()
	want.Window.Width = 1024
	want.Window.Title = "work"
	want.Font.Size = 18
	want.Shell.Program = "/bin/zsh"
	want.TUI = true

	if err := Save(path, want); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoadKeepsDefaultsForAbsentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	partial := "[shell]\nprogram = \"/bin/dash\"\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Shell.Program != "/bin/dash" {
		t.Errorf("Shell.Program = %q, want %q", cfg.Shell.Program, "/bin/dash")
	}
	def := Default()
	if cfg.Window != def.Window || cfg.Font != def.Font {
		t.Errorf("absent sections = %+v/%+v, want defaults %+v/%+v",
			cfg.Window, cfg.Font, def.Window, def.Font)
	}
}

func TestLoadNormalizesBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	bad := "[window]\nwidth = -1\nheight = 0\n\n[font]\nsize = 0.0\n"
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	def := Default()
	if cfg.Window.Width != def.Window.Width || cfg.Window.Height != def.Window.Height {
		t.Errorf("window = %+v, want defaults %+v", cfg.Window, def.Window)
	}
	if cfg.Font.Size != def.Font.Size {
		t.Errorf("font size = %v, want %v", cfg.Font.Size, def.Font.Size)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("window = {"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load(malformed) returned nil error")
	}
}
