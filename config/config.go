// Package config loads and watches the client configuration.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"

	"whisperkey/log"
)

type Server struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type Hotkey struct {
	MicOnly      string `toml:"mic_only"`
	MicAndOutput string `toml:"mic_and_output"`
}

type Recording struct {
	// MaxDurationS is a hard ceiling: a transcription session is force-
	// stopped when it is reached. Changes apply to the next session.
	MaxDurationS int    `toml:"max_duration_s"`
	Directory    string `toml:"directory"`
}

type Config struct {
	Server    Server    `toml:"server"`
	Hotkey    Hotkey    `toml:"hotkey"`
	Recording Recording `toml:"recording"`
}

func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Server: Server{Host: "localhost", Port: 43007},
		Hotkey: Hotkey{
			MicOnly:      "<Ctrl><Alt>R",
			MicAndOutput: "<Ctrl><Alt>E",
		},
		Recording: Recording{
			MaxDurationS: 60,
			Directory:    filepath.Join(home, "whisper-recordings"),
		},
	}
}

// Addr returns the transcription server's dial address. The relay and
// the reachability probe both target it.
func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Path returns the config file location, ~/.config/whisperkey/config.toml.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "whisperkey", "config.toml"), nil
}

// Load reads the config file, creating it with defaults on first run.
// Values missing from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return cfg, fmt.Errorf("writing default config: %w", err)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Watch reloads the config whenever the file is rewritten and delivers
// the new value on the returned channel. The engine only applies it
// between sessions; mid-session values never change. Editors replace
// files rather than writing in place, so the parent directory is
// watched and re-armed after renames.
func Watch(path string, done <-chan struct{}) (<-chan Config, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	updates := make(chan Config, 1)
	go func() {
		defer watcher.Close()
		defer close(updates)
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != path || !ev.Op.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				cfg, err := Load(path)
				if err != nil {
					log.Warnf("reloading config: %v", err)
					continue
				}
				// Drop a stale pending update; only the latest matters.
				select {
				case <-updates:
				default:
				}
				updates <- cfg
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("config watcher: %v", err)
			case <-done:
				return
			}
		}
	}()
	return updates, nil
}
