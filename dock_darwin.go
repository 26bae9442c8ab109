package main

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework AppKit
#import <AppKit/AppKit.h>

// hideFromDock switches the process to an accessory app: tray icon only,
// no Dock icon and no Cmd-Tab entry. It does nothing before NSApp runs.
void hideFromDock() {
    if ([NSApp isRunning]) {
        [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
    }
}
*/
import "C"

// hideFromDock keeps the listener out of the Dock. Call it from the tray's
// ready callback, which runs on the Cocoa thread.
func hideFromDock() {
	C.hideFromDock()
}
