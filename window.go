package gpuhub

import "strings"

// NativeWindow is an opaque description of a platform window that a surface
// can be bound to. The implementations below cover the supported window
// system ABIs; the set is closed.
type NativeWindow interface {
	// Kind names the window system (e.g. "xlib").
	Kind() string

	// platforms lists the GOOS values with a surface path for this kind;
	// nil means any platform.
	platforms() []string
	valid() bool
}

// DisplayWindow is a window from a desktop window system given as a raw
// display/window handle pair, as produced by windowing libraries.
type DisplayWindow struct {
	Display uintptr
	Window  uintptr
}

// Kind implements NativeWindow.
func (DisplayWindow) Kind() string { return "display" }

func (DisplayWindow) platforms() []string { return nil }

func (w DisplayWindow) valid() bool { return w.Window != 0 }

// XlibWindow is an X11 window on a connected display.
type XlibWindow struct {
	// Display is the Display* connection.
	Display uintptr
	// Window is the X11 window XID.
	Window uint64
}

// Kind implements NativeWindow.
func (XlibWindow) Kind() string { return "xlib" }

func (XlibWindow) platforms() []string {
	return []string{"linux", "freebsd", "netbsd", "openbsd", "dragonfly", "solaris", "illumos"}
}

func (w XlibWindow) valid() bool { return w.Display != 0 && w.Window != 0 }

// MetalLayer is a CAMetalLayer backing a Cocoa or UIKit view.
type MetalLayer struct {
	Layer uintptr
}

// Kind implements NativeWindow.
func (MetalLayer) Kind() string { return "metal-layer" }

func (MetalLayer) platforms() []string { return []string{"darwin", "ios"} }

func (w MetalLayer) valid() bool { return w.Layer != 0 }

// WindowsHWND is a Win32 window and the module instance that owns it.
type WindowsHWND struct {
	HInstance uintptr
	HWND      uintptr
}

// Kind implements NativeWindow.
func (WindowsHWND) Kind() string { return "hwnd" }

func (WindowsHWND) platforms() []string { return []string{"windows"} }

func (w WindowsHWND) valid() bool { return w.HWND != 0 }

// supportedOn reports whether w has a surface path on goos.
func supportedOn(w NativeWindow, goos string) bool {
	ps := w.platforms()
	if ps == nil {
		return true
	}
	for _, p := range ps {
		if strings.EqualFold(p, goos) {
			return true
		}
	}
	return false
}
