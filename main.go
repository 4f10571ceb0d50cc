package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/atotto/clipboard"

	"whisperkey/audio"
	"whisperkey/beep"
	"whisperkey/config"
	"whisperkey/engine"
	"whisperkey/hotkey"
	"whisperkey/log"
	"whisperkey/proc"
	"whisperkey/transcript"
	"whisperkey/tray"
	"whisperkey/typer"
)

var version = "dev"

// supervisor adapts the proc package to the engine's seam.
type supervisor struct{}

func (supervisor) StartPipeline(captureArgs, relayArgs []string) (engine.Pipeline, error) {
	p, err := proc.StartPipeline(captureArgs, relayArgs)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (supervisor) StartCapture(args []string) (engine.Pipeline, error) {
	p, err := proc.StartCapture(args)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func labels(cfg config.Config) engine.Labels {
	return engine.Labels{
		Ready:         "🎙️ Ready",
		Transcribing:  fmt.Sprintf("🔴 Transcribing Mic (Press %s to stop)", cfg.Hotkey.MicOnly),
		RecordingDual: fmt.Sprintf("🔴 Recording Mic and Output (Press %s to stop)", cfg.Hotkey.MicAndOutput),
		Error:         "🚫 Recording Error",
		ServerError:   "❌ Server Unavailable",
	}
}

func bindHotkey(combo string, onPress func()) {
	hk, err := hotkey.New(combo)
	if err != nil {
		log.Errorf("parsing hotkey %q: %v", combo, err)
		return
	}
	if err := hk.Register(); err != nil {
		log.Errorf("binding hotkey %q: %v", combo, err)
		return
	}
	go func() {
		for range hk.Presses() {
			onPress()
		}
	}()
}

func main() {
	logPath := flag.String("logpath", "", "log directory (default: ~/.config/whisperkey/logs)")
	cfgPath := flag.String("config", "", "config file (default: ~/.config/whisperkey/config.toml)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("whisperkey", version)
		return
	}

	setupDisplay()

	dir, err := log.ResolveDir(*logPath)
	if err == nil {
		log.SetDir(dir)
		err = log.Init()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging disabled:", err)
	}
	defer log.Close()

	path := *cfgPath
	if path == "" {
		if path, err = config.Path(); err != nil {
			fmt.Fprintln(os.Stderr, "cannot locate config:", err)
			os.Exit(1)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Errorf("loading config: %v", err)
		fmt.Fprintln(os.Stderr, "cannot load config:", err)
		os.Exit(1)
	}
	log.Infof("whisperkey %s starting, server %s", version, cfg.Server.Addr())

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	store := transcript.NewStore(
		filepath.Join(home, "whisper-transcript.json"),
		filepath.Join(home, "whisper-transcript.txt"),
	)

	eng := engine.New(engine.Config{
		ServerHost:    cfg.Server.Host,
		ServerPort:    cfg.Server.Port,
		MaxDuration:   time.Duration(cfg.Recording.MaxDurationS) * time.Second,
		RecordingsDir: cfg.Recording.Directory,
		Labels:        labels(cfg),
	}, engine.Deps{
		Supervisor:    supervisor{},
		Typer:         typer.Xdotool{},
		Store:         store,
		Sink:          tray.Sink{},
		Cue:           beep.Cue{},
		MonitorSource: audio.DefaultSinkMonitor,
		Mixdown:       audio.Mixdown,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go eng.Run(ctx)

	watchConfig(ctx, path, eng)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		tray.Quit()
	}()

	tray.SetMenuTitles(
		fmt.Sprintf("Toggle Mic Transcribe+Type (%s)", cfg.Hotkey.MicOnly),
		fmt.Sprintf("Toggle Mic and Output Recording (%s)", cfg.Hotkey.MicAndOutput),
	)
	tray.OnToggleMic(eng.ToggleTranscribe)
	tray.OnToggleDual(eng.ToggleDualTrack)
	tray.OnCopyLast(func() { copyLastSession(store) })

	tray.Run(func() {
		bindHotkey(cfg.Hotkey.MicOnly, eng.ToggleTranscribe)
		bindHotkey(cfg.Hotkey.MicAndOutput, eng.ToggleDualTrack)
	}, func() {
		cancel()
		log.Info("whisperkey stopped")
	})
}

// watchConfig applies config rewrites that are safe to take at
// runtime. Only the session ceiling is; hotkey and server changes
// need a restart.
func watchConfig(ctx context.Context, path string, eng *engine.Engine) {
	updates, err := config.Watch(path, ctx.Done())
	if err != nil {
		log.Warnf("config watching disabled: %v", err)
		return
	}
	go func() {
		for cfg := range updates {
			log.Info("config file changed")
			eng.SetMaxDuration(time.Duration(cfg.Recording.MaxDurationS) * time.Second)
		}
	}()
}

func copyLastSession(store *transcript.Store) {
	start, text, ok := store.LastSession()
	if !ok {
		log.Warn("no archived session to copy")
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		log.Errorf("copying session %s to clipboard: %v", start, err)
		return
	}
	log.Infof("session %s copied to clipboard", start)
}
