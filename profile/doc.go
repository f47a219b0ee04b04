// Package profile provides optional runtime profiling for the maw command.
//
// Profiling wraps [github.com/pkg/profile] and is compiled in only with the
// pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag every [Profiler] is a no-op and [Modes] is empty.
//
// # Modes
//
// The supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread and trace. Use [Modes] to list them at run time.
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: dir, Quiet: true}
//	defer p.Start().Stop()
//
// Profile data is written to Path with a file name matching the mode, for
// example cpu.pprof. Inspect it with go tool pprof:
//
//	go tool pprof -http=: $XDG_CACHE_HOME/maw/pprof/cpu.pprof
//
// With the tag enabled the package also imports [net/http/pprof], so any
// HTTP server using the default mux exposes /debug/pprof/.
package profile
