// Package backend is a registry of named gpuhub backends.
//
// Backend packages register factories from init(). Importing
// github.com/gogpu/gpuhub/backend/wgpu registers "vulkan" and "noop":
//
//	import _ "github.com/gogpu/gpuhub/backend/wgpu"
//
// # Backend Selection
//
// Use Default() to create the best available backend, or Get() to request
// a specific backend by name:
//
//	b, err := backend.Default()
//
//	// Or request a specific backend
//	b, err := backend.Get(backend.Noop)
//
// Each call creates a new backend value; pass it to gpuhub.New.
package backend
