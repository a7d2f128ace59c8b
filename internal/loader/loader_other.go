//go:build !windows && !((linux || freebsd || darwin) && (amd64 || arm64) && !cgo)

package loader

// Builds without goffi, including cgo builds on unix, cannot open libraries.
func open(string) error { return errNoDynamicLoading }
