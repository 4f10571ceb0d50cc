package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 43007 {
		t.Errorf("server default = %s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Recording.MaxDurationS != 60 {
		t.Errorf("max duration default = %d, want 60", cfg.Recording.MaxDurationS)
	}
	if cfg.Hotkey.MicOnly == "" || cfg.Hotkey.MicAndOutput == "" {
		t.Error("hotkey defaults must be set")
	}
}

func TestAddr(t *testing.T) {
	s := Server{Host: "192.168.0.197", Port: 43007}
	if got := s.Addr(); got != "192.168.0.197:43007" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 43007 {
		t.Errorf("port = %d, want default", cfg.Server.Port)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config file not written: %v", err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Server.Host = "whisper.lan"
	cfg.Recording.MaxDurationS = 120
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Server.Host != "whisper.lan" {
		t.Errorf("host = %q", got.Server.Host)
	}
	if got.Recording.MaxDurationS != 120 {
		t.Errorf("max duration = %d", got.Recording.MaxDurationS)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\nhost = \"other\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "other" {
		t.Errorf("host = %q", cfg.Server.Host)
	}
	if cfg.Server.Port != 43007 {
		t.Errorf("port = %d, want default kept", cfg.Server.Port)
	}
}

func TestWatchDeliversRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := Save(path, Default()); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	defer close(done)
	updates, err := Watch(path, done)
	if err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.Recording.MaxDurationS = 90
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	// The watcher may fire for intermediate write states; wait for the
	// final value rather than the first event.
	deadline := time.After(3 * time.Second)
	for {
		select {
		case got := <-updates:
			if got.Recording.MaxDurationS == 90 {
				return
			}
		case <-deadline:
			t.Fatal("no config update with the new value observed")
		}
	}
}
