package main

import "golang.design/x/hotkey"

// X11 maps Alt to Mod1 and Super to Mod4 on practically every keymap.
var hotkeyMods = map[Modifier]hotkey.Modifier{
	ModCtrl:  hotkey.ModCtrl,
	ModShift: hotkey.ModShift,
	ModAlt:   hotkey.Mod1,
	ModMeta:  hotkey.Mod4,
}
