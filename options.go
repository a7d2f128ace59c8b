package gpuhub

import (
	"log/slog"
	"runtime"
)

// Option configures a Hub during creation.
//
// Example:
//
//	hub, err := gpuhub.New(backend,
//	    gpuhub.WithApplication("viewer", 3),
//	    gpuhub.WithLogger(slog.Default()),
//	)
type Option func(*options)

// options holds optional configuration for Hub creation.
type options struct {
	logger      *slog.Logger
	application string
	version     uint32
	platform    string
}

// defaultOptions returns the default hub options.
func defaultOptions() options {
	return options{
		logger:      nil, // falls back to Logger() at log time
		application: "gpuhub",
		version:     1,
		platform:    runtime.GOOS,
	}
}

// WithLogger sets the logger used by the hub. Without it the hub logs
// through the package logger configured by SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithApplication sets the application name and version passed to the
// backend when instances are created.
func WithApplication(name string, version uint32) Option {
	return func(o *options) {
		if name != "" {
			o.application = name
		}
		o.version = version
	}
}

// WithPlatform overrides the platform (a GOOS value) used to decide which
// window kinds can back a surface. Useful for tests.
func WithPlatform(goos string) Option {
	return func(o *options) {
		if goos != "" {
			o.platform = goos
		}
	}
}
