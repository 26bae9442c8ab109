package main

import "golang.design/x/hotkey"

var hotkeyMods = map[Modifier]hotkey.Modifier{
	ModCtrl:  hotkey.ModCtrl,
	ModShift: hotkey.ModShift,
	ModAlt:   hotkey.ModOption,
	ModMeta:  hotkey.ModCmd,
}
