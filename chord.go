package main

import (
	"errors"
	"fmt"
	"strings"
)

// ErrChordInvalid is returned when a chord string cannot be parsed.
var ErrChordInvalid = errors.New("chord: invalid key combination")

// Modifier is a set of modifier keys.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModShift
	ModAlt
	ModMeta

	allModifiers = ModCtrl | ModShift | ModAlt | ModMeta
)

// Key names a non-modifier key in lower case, e.g. "m", "f5", "space".
type Key string

// Chord is a key plus the modifiers that must be down and the ones that
// must not be.
type Chord struct {
	Key       Key
	Required  Modifier
	Forbidden Modifier
}

// Matches reports whether a press of key with mods down fires the chord.
func (c Chord) Matches(key Key, mods Modifier) bool {
	return key == c.Key && mods&c.Required == c.Required && mods&c.Forbidden == 0
}

func (c Chord) String() string {
	var parts []string
	for _, m := range modOrder {
		if c.Required&m.mod != 0 {
			parts = append(parts, m.name)
		}
	}
	return strings.Join(append(parts, string(c.Key)), "+")
}

var modOrder = []struct {
	name string
	mod  Modifier
}{
	{"ctrl", ModCtrl},
	{"alt", ModAlt},
	{"shift", ModShift},
	{"cmd", ModMeta},
}

var modMap = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"option":  ModAlt,
	"alt":     ModAlt,
	"shift":   ModShift,
	"cmd":     ModMeta,
	"command": ModMeta,
	"meta":    ModMeta,
}

var keyNames = func() map[string]bool {
	names := map[string]bool{"space": true, "tab": true, "return": true, "escape": true}
	for c := 'a'; c <= 'z'; c++ {
		names[string(c)] = true
	}
	for c := '0'; c <= '9'; c++ {
		names[string(c)] = true
	}
	for i := 1; i <= 12; i++ {
		names[fmt.Sprintf("f%d", i)] = true
	}
	return names
}()

// parseChord parses "ctrl+shift+m" style strings. The modifier set is
// exact: any modifier not named is forbidden, so "ctrl+m" never fires for
// ctrl+shift+m.
func parseChord(combo string) (Chord, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(combo)), "+")
	if len(parts) < 2 {
		return Chord{}, fmt.Errorf("%w: %q (need at least one modifier)", ErrChordInvalid, combo)
	}
	keyPart := parts[len(parts)-1]
	if keyPart == "enter" {
		keyPart = "return"
	}
	if !keyNames[keyPart] {
		return Chord{}, fmt.Errorf("%w: unknown key %q", ErrChordInvalid, keyPart)
	}

	var required Modifier
	for _, m := range parts[:len(parts)-1] {
		mod, ok := modMap[m]
		if !ok {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrChordInvalid, m)
		}
		required |= mod
	}
	return Chord{Key: Key(keyPart), Required: required, Forbidden: allModifiers &^ required}, nil
}

// FormatChord converts a combo string to a display string.
// e.g. "ctrl+m" → "⌃M", "ctrl+shift+m" → "⌃⇧M"
func FormatChord(combo string) string {
	c, err := parseChord(combo)
	if err != nil {
		return combo
	}
	modSymbols := map[Modifier]string{ModCtrl: "⌃", ModAlt: "⌥", ModShift: "⇧", ModMeta: "⌘"}
	keyDisplay := map[Key]string{"space": "Space", "tab": "Tab", "return": "Return", "escape": "Esc"}

	var out strings.Builder
	for _, m := range modOrder {
		if c.Required&m.mod != 0 {
			out.WriteString(modSymbols[m.mod])
		}
	}
	if d, ok := keyDisplay[c.Key]; ok {
		out.WriteString(d)
	} else {
		out.WriteString(strings.ToUpper(string(c.Key)))
	}
	return out.String()
}
