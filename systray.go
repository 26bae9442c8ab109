package main

import (
	"github.com/getlantern/systray"
)

// runWithTray runs the tray event loop on the calling goroutine, which must
// be the main one. onReady runs once the loop is up; Quit in the menu is one
// of the app's shutdown paths.
func runWithTray(onReady func() (*App, error), onExit func()) {
	systray.Run(func() {
		hideFromDock()
		systray.SetTitle("RC")
		systray.SetTooltip("repeater-capture")

		mStatus := systray.AddMenuItem("Starting…", "Chord listener status")
		mStatus.Disable()
		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit repeater-capture", "Remove the chords and exit")

		app, err := onReady()
		if err != nil {
			mStatus.SetTitle("Failed: " + err.Error())
			<-mQuit.ClickedCh
			systray.Quit()
			return
		}
		mStatus.SetTitle(app.Status())

		go func() {
			select {
			case <-mQuit.ClickedCh:
				app.Shutdown()
			case <-app.Done():
			}
			systray.Quit()
		}()
	}, onExit)
}
