//go:build pprof

package profile

import (
	"maps"
	"slices"
	"sync"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

// Modes returns the supported profiling modes in sorted order.
var Modes = sync.OnceValue(
	func() []string {
		return slices.Sorted(maps.Keys(mode))
	},
)

var mode = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// option appends pkg/profile settings to a session.
type option func([]func(*profile.Profile)) []func(*profile.Profile)

func options(opts ...option) []func(*profile.Profile) {
	var list []func(*profile.Profile)

	for _, opt := range opts {
		list = opt(list)
	}

	return list
}

func start(p Profiler) Stopper {
	fn, ok := mode[p.Mode]
	if !ok {
		return ignore{}
	}

	return profile.Start(options(
		withMode(fn),
		withPath(p.Path),
		withQuiet(p.Quiet),
		withoutShutdownHook(),
	)...)
}

func withMode(fn func(*profile.Profile)) option {
	return func(list []func(*profile.Profile)) []func(*profile.Profile) {
		return append(list, fn)
	}
}

func withPath(path string) option {
	return func(list []func(*profile.Profile)) []func(*profile.Profile) {
		if path == "" {
			return list
		}

		return append(list, profile.ProfilePath(path))
	}
}

func withQuiet(quiet bool) option {
	return func(list []func(*profile.Profile)) []func(*profile.Profile) {
		if !quiet {
			return list
		}

		return append(list, profile.Quiet)
	}
}

// withoutShutdownHook leaves SIGINT to the CLI, which cancels its context
// and stops the profiler through the deferred Stop.
func withoutShutdownHook() option {
	return func(list []func(*profile.Profile)) []func(*profile.Profile) {
		return append(list, profile.NoShutdownHook)
	}
}
