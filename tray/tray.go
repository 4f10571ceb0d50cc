// Package tray is the indicator UI: an icon, a timer label and a
// small menu. It never touches session state itself; menu clicks call
// back into whatever the app wired in.
package tray

import (
	"sync"

	"fyne.io/systray"
)

var (
	mu         sync.Mutex
	mStatus    *systray.MenuItem
	mToggleMic *systray.MenuItem
	mToggleOut *systray.MenuItem
	mCopyLast  *systray.MenuItem

	pendingStatus string

	toggleMicFn  func()
	toggleDualFn func()
	copyLastFn   func()

	micTitle  string
	dualTitle string
)

func OnToggleMic(fn func())  { toggleMicFn = fn }
func OnToggleDual(fn func()) { toggleDualFn = fn }
func OnCopyLast(fn func())   { copyLastFn = fn }

// SetMenuTitles names the toggle entries, hotkey hints included. Must
// be called before Run.
func SetMenuTitles(mic, dual string) {
	micTitle = mic
	dualTitle = dual
}

// Run blocks on the systray event loop. onReady runs once the tray is
// up; Quit unblocks it.
func Run(onReady func(), onExit func()) {
	systray.Run(func() {
		systray.SetIcon(iconIdle)
		systray.SetTooltip("whisperkey")

		mu.Lock()
		mStatus = systray.AddMenuItem(pendingStatus, "")
		mStatus.Disable()
		systray.AddSeparator()
		mToggleMic = systray.AddMenuItem(micTitle, "")
		mToggleOut = systray.AddMenuItem(dualTitle, "")
		mCopyLast = systray.AddMenuItem("Copy Last Transcript", "")
		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit", "")
		mu.Unlock()

		go clickLoop(mToggleMic, func() { call(toggleMicFn) })
		go clickLoop(mToggleOut, func() { call(toggleDualFn) })
		go clickLoop(mCopyLast, func() { call(copyLastFn) })
		go clickLoop(mQuit, systray.Quit)

		if onReady != nil {
			onReady()
		}
	}, onExit)
}

func clickLoop(item *systray.MenuItem, fn func()) {
	for range item.ClickedCh {
		fn()
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

// SetStatus updates the status line at the top of the menu.
func SetStatus(text string) {
	mu.Lock()
	defer mu.Unlock()
	if mStatus == nil {
		pendingStatus = text
		return
	}
	mStatus.SetTitle(text)
}

// SetTimer shows the running duration next to the icon; empty clears it.
func SetTimer(label string) {
	systray.SetTitle(label)
}

// SetRecording swaps the indicator icon.
func SetRecording(on bool) {
	if on {
		systray.SetIcon(iconRec)
	} else {
		systray.SetIcon(iconIdle)
	}
}

func Quit() {
	systray.Quit()
}

// Sink adapts the tray to the engine's status seam.
type Sink struct{}

func (Sink) Status(text string) { SetStatus(text) }
func (Sink) Timer(label string) { SetTimer(label) }
func (Sink) Recording(on bool)  { SetRecording(on) }
