package view

import (
	"fyne.io/fyne/v2"

	"github.com/alexballas/xgrid/grid"
)

const (
	zoomLevelKey        = "xgrid:zoomLevel"
	lazyLoadKey         = "xgrid:lazyLoad"
	bufferRowsKey       = "xgrid:bufferRows"
	unmountOffScreenKey = "xgrid:unmountOffScreen"
)

// LoadOptions overlays the persisted user settings on base. Settings that
// were never saved keep the value from base.
func LoadOptions(prefs fyne.Preferences, base grid.Options) grid.Options {
	if prefs == nil {
		return base
	}
	level := prefs.IntWithFallback(zoomLevelKey, int(scaleFor(base.Zoom)))
	base.Zoom = scaleAt(level).factor()
	base.LazyLoad = prefs.BoolWithFallback(lazyLoadKey, base.LazyLoad)
	base.UnmountOffScreen = prefs.BoolWithFallback(unmountOffScreenKey, base.UnmountOffScreen)
	if rows := prefs.IntWithFallback(bufferRowsKey, base.BufferRows); rows >= 0 {
		base.BufferRows = rows
	}
	return base
}

// SaveOptions persists the user adjustable part of opts.
func SaveOptions(prefs fyne.Preferences, opts grid.Options) {
	if prefs == nil {
		return
	}
	prefs.SetInt(zoomLevelKey, int(scaleFor(opts.Zoom)))
	prefs.SetBool(lazyLoadKey, opts.LazyLoad)
	prefs.SetBool(unmountOffScreenKey, opts.UnmountOffScreen)
	prefs.SetInt(bufferRowsKey, opts.BufferRows)
}
