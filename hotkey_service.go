package main

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.design/x/hotkey"
)

// ErrChordConflict is returned when a chord is already registered by another app.
var ErrChordConflict = errors.New("chord: key combination already registered by another application")

// osHotkey is the part of *hotkey.Hotkey the source uses; tests replace it.
type osHotkey interface {
	Register() error
	Unregister() error
	Keydown() <-chan hotkey.Event
	Keyup() <-chan hotkey.Event
}

// hotkeySource is a KeySource backed by OS-level global hotkeys, one per
// chord. The OS delivers a registered combination only to us, which is what
// keeps the host from ever seeing it.
type hotkeySource struct {
	chords  []Chord
	newKey  func(Chord) (osHotkey, error)
	logger  *slog.Logger
	mu      sync.Mutex
	active  []osHotkey
	done    chan struct{}
	pumps   sync.WaitGroup
	removed sync.Once
}

func newHotkeySource(chords []Chord, logger *slog.Logger) *hotkeySource {
	return &hotkeySource{chords: chords, newKey: newOSHotkey, logger: logger}
}

func newOSHotkey(c Chord) (osHotkey, error) {
	key, ok := hotkeyKeys[c.Key]
	if !ok {
		return nil, fmt.Errorf("%w: no OS key for %q", ErrChordInvalid, c.Key)
	}
	var mods []hotkey.Modifier
	for _, m := range modOrder {
		if c.Required&m.mod == 0 {
			continue
		}
		mod, ok := hotkeyMods[m.mod]
		if !ok {
			return nil, fmt.Errorf("%w: modifier %s not supported on this platform", ErrChordInvalid, m.name)
		}
		mods = append(mods, mod)
	}
	return hotkey.New(mods, key), nil
}

// Install registers every chord. If any registration fails the ones
// already made are undone so nothing is left half-installed.
func (s *hotkeySource) Install(observer func(*KeyEvent)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.done = make(chan struct{})
	s.removed = sync.Once{}
	for _, c := range s.chords {
		hk, err := s.newKey(c)
		if err == nil {
			if err = hk.Register(); err != nil {
				err = fmt.Errorf("%w: %s", ErrChordConflict, c)
			}
		}
		if err != nil {
			s.unregisterLocked()
			return err
		}
		s.active = append(s.active, hk)
		s.pumps.Add(1)
		go s.pump(c, hk, s.done, observer)
	}
	return nil
}

// pump relays OS notifications for one chord until Remove is called. The
// OS only reports the exact combination, so the modifiers are the chord's.
func (s *hotkeySource) pump(c Chord, hk osHotkey, done <-chan struct{}, observer func(*KeyEvent)) {
	defer s.pumps.Done()
	down, up := hk.Keydown(), hk.Keyup()
	for {
		select {
		case <-done:
			return
		case _, ok := <-down:
			if !ok {
				return
			}
			observer(&KeyEvent{Kind: KeyPress, Key: c.Key, Mods: c.Required})
		case _, ok := <-up:
			if !ok {
				return
			}
			observer(&KeyEvent{Kind: KeyRelease, Key: c.Key, Mods: c.Required})
		}
	}
}

// Remove unregisters every chord and waits for the relays to exit.
func (s *hotkeySource) Remove() error {
	s.mu.Lock()
	err := s.unregisterLocked()
	s.mu.Unlock()
	s.pumps.Wait()
	return err
}

func (s *hotkeySource) unregisterLocked() error {
	if s.done != nil {
		s.removed.Do(func() { close(s.done) })
	}
	var errs []error
	for _, hk := range s.active {
		if err := hk.Unregister(); err != nil {
			errs = append(errs, err)
		}
	}
	s.active = nil
	return errors.Join(errs...)
}

var hotkeyKeys = map[Key]hotkey.Key{
	"space":  hotkey.KeySpace,
	"tab":    hotkey.KeyTab,
	"return": hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"a":      hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
}
