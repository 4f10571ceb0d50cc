// Package log owns the process-wide diagnostics log.
//
// Log lines go to a rotating file under the log directory. Everything
// here is best-effort: the engine must keep running even if logging is
// broken, so calls before Init or after Close are silently dropped.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	diagLog  zerolog.Logger
	rotator  *lumberjack.Logger
	logMu    sync.Mutex
	logReady bool
	pid      int
	dir      string
)

// ResolveDir picks the log directory: the -logpath flag wins, then the
// WHISPERKEY_LOG_PATH environment variable, then ~/.config/whisperkey/logs.
func ResolveDir(flagPath string) (string, error) {
	for _, p := range []string{flagPath, os.Getenv("WHISPERKEY_LOG_PATH")} {
		if p == "" {
			continue
		}
		if filepath.IsAbs(p) {
			return p, nil
		}
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(wd, p), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "whisperkey", "logs"), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	pid = os.Getpid()

	rotator = &lumberjack.Logger{
		Filename:   filepath.Join(dir, "whisperkey.log"),
		MaxSize:    20, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        rotator,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if rotator != nil {
		rotator.Close()
		rotator = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Infof(format string, args ...any) {
	if logReady {
		diagLog.Info().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

// Session logs one closed transcription session with its key metrics.
func Session(start string, chunks int, elapsedS int) {
	if logReady {
		diagLog.Info().
			Str("session", start).
			Int("chunks", chunks).
			Int("elapsed_s", elapsedS).
			Msg("session closed")
	}
}
