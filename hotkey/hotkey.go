// Package hotkey binds global key combinations written in the config
// file's GTK-style notation, e.g. "<Ctrl><Alt>R".
package hotkey

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

// Hotkey is one registered global binding.
type Hotkey struct {
	hk      *hotkey.Hotkey
	presses chan struct{}
}

// New parses combo and prepares a binding. Register must be called
// before Presses delivers anything.
func New(combo string) (*Hotkey, error) {
	mods, key, err := parseCombo(combo)
	if err != nil {
		return nil, err
	}
	return &Hotkey{
		hk:      hotkey.New(mods, key),
		presses: make(chan struct{}, 1),
	}, nil
}

func (h *Hotkey) Register() error {
	if err := h.hk.Register(); err != nil {
		return fmt.Errorf("registering hotkey: %w", err)
	}
	go func() {
		for range h.hk.Keydown() {
			select {
			case h.presses <- struct{}{}:
			default:
			}
		}
	}()
	return nil
}

func (h *Hotkey) Unregister() {
	h.hk.Unregister()
}

// Presses delivers one value per keydown. Presses while the consumer
// is busy coalesce.
func (h *Hotkey) Presses() <-chan struct{} {
	return h.presses
}

var modNames = map[string]hotkey.Modifier{
	"ctrl":    hotkey.ModCtrl,
	"control": hotkey.ModCtrl,
	"shift":   hotkey.ModShift,
	"alt":     hotkey.Mod1,
	"super":   hotkey.Mod4,
}

var keyNames = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
	"space":  hotkey.KeySpace,
	"return": hotkey.KeyReturn,
}

// parseCombo splits "<Ctrl><Alt>R" into modifiers and the final key.
func parseCombo(combo string) ([]hotkey.Modifier, hotkey.Key, error) {
	rest := strings.TrimSpace(combo)
	if rest == "" {
		return nil, 0, fmt.Errorf("empty hotkey combination")
	}

	var mods []hotkey.Modifier
	for strings.HasPrefix(rest, "<") {
		end := strings.Index(rest, ">")
		if end < 0 {
			return nil, 0, fmt.Errorf("unclosed modifier in %q", combo)
		}
		name := strings.ToLower(rest[1:end])
		mod, ok := modNames[name]
		if !ok {
			return nil, 0, fmt.Errorf("unknown modifier %q in %q", name, combo)
		}
		mods = append(mods, mod)
		rest = rest[end+1:]
	}

	key, ok := keyNames[strings.ToLower(rest)]
	if !ok {
		return nil, 0, fmt.Errorf("unknown key %q in %q", rest, combo)
	}
	return mods, key, nil
}
