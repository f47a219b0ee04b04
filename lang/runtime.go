package lang

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/findof1/maw/log"
)

// DefaultMaxDepth bounds the number of nested user function calls.
const DefaultMaxDepth = 4096

// Library installs bindings into a freshly created global environment.
type Library func(env *Environment) error

// Runtime is the host context shared by an evaluation and every native
// function it calls. It owns the I/O streams, the logger and the set of
// libraries installed into new global environments.
//
// A Runtime evaluates one program at a time. Natives may re-enter it
// through [Runtime.Run] and [Runtime.RunIn].
type Runtime struct {
	stdout    io.Writer
	stderr    io.Writer
	stdin     *bufio.Reader
	logger    log.Logger
	rand      *rand.Rand
	now       func() time.Time
	libraries []Library
	parseOpts []Option
	maxDepth  int
	depth     int
}

// RuntimeOption configures a [Runtime].
type RuntimeOption func(*Runtime)

// WithStdout sets the writer used by output natives.
func WithStdout(w io.Writer) RuntimeOption {
	return func(rt *Runtime) { rt.stdout = w }
}

// WithStderr sets the writer used for diagnostics.
func WithStderr(w io.Writer) RuntimeOption {
	return func(rt *Runtime) { rt.stderr = w }
}

// WithStdin sets the reader used by input natives.
func WithStdin(r io.Reader) RuntimeOption {
	return func(rt *Runtime) { rt.stdin = bufio.NewReader(r) }
}

// WithRuntimeLogger sets the logger for trace-level evaluation logs and
// native warnings. It is also passed to the parser.
func WithRuntimeLogger(logger log.Logger) RuntimeOption {
	return func(rt *Runtime) {
		rt.logger = logger
		rt.parseOpts = append(rt.parseOpts, WithLogger(logger))
	}
}

// WithParseOptions appends options used whenever the runtime parses source.
func WithParseOptions(opts ...Option) RuntimeOption {
	return func(rt *Runtime) { rt.parseOpts = append(rt.parseOpts, opts...) }
}

// WithLibrary appends libraries run by [Runtime.NewGlobalEnv], in order.
func WithLibrary(libs ...Library) RuntimeOption {
	return func(rt *Runtime) { rt.libraries = append(rt.libraries, libs...) }
}

// WithSeed makes the random source deterministic.
func WithSeed(seed uint64) RuntimeOption {
	return func(rt *Runtime) {
		rt.rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithClock overrides the wall clock used by time natives.
func WithClock(now func() time.Time) RuntimeOption {
	return func(rt *Runtime) { rt.now = now }
}

// WithMaxDepth sets the maximum nesting of user function calls.
func WithMaxDepth(depth int) RuntimeOption {
	return func(rt *Runtime) { rt.maxDepth = depth }
}

// NewRuntime returns a runtime connected to the process's standard streams
// unless overridden by opts.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	rt := &Runtime{
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		stdin:    bufio.NewReader(os.Stdin),
		rand:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:      time.Now,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(rt)
	}

	return rt
}

// Stdout returns the output writer.
func (rt *Runtime) Stdout() io.Writer { return rt.stdout }

// Stderr returns the diagnostic writer.
func (rt *Runtime) Stderr() io.Writer { return rt.stderr }

// Stdin returns the buffered input reader.
func (rt *Runtime) Stdin() *bufio.Reader { return rt.stdin }

// Logger returns the runtime logger. The zero logger discards everything.
func (rt *Runtime) Logger() log.Logger { return rt.logger }

// Rand returns the runtime's random source.
func (rt *Runtime) Rand() *rand.Rand { return rt.rand }

// Now returns the current time according to the runtime clock.
func (rt *Runtime) Now() time.Time { return rt.now() }

// NewGlobalEnv creates a root environment holding the constants true, false
// and null, then installs every configured library.
func (rt *Runtime) NewGlobalEnv() (*Environment, error) {
	env := NewEnvironment(nil)

	for name, v := range map[string]Value{
		"true":  Boolean(true),
		"false": Boolean(false),
		"null":  Null{},
	} {
		if _, err := env.Declare(name, v, true); err != nil {
			return nil, err
		}
	}

	for _, lib := range rt.libraries {
		if err := lib(env); err != nil {
			return nil, err
		}
	}

	return env, nil
}

// Run parses src and evaluates it in a brand-new global environment.
func (rt *Runtime) Run(ctx context.Context, src string) (Value, error) {
	env, err := rt.NewGlobalEnv()
	if err != nil {
		return nil, err
	}

	return rt.RunIn(ctx, src, env)
}

// RunIn parses src and evaluates it in env.
func (rt *Runtime) RunIn(ctx context.Context, src string, env *Environment) (Value, error) {
	prog, err := ParseString(ctx, src, rt.parseOpts...)
	if err != nil {
		return nil, err
	}

	v, err := rt.Eval(ctx, prog, env)
	if err != nil {
		return nil, attachSource(err, src)
	}

	return v, nil
}

// Eval evaluates node in env and returns its value. A return at the top
// level of node stops evaluation and yields the returned value.
func (rt *Runtime) Eval(ctx context.Context, node Node, env *Environment) (Value, error) {
	rt.logger.TraceContext(ctx, "eval start",
		slog.String("node", kindOf(node)))

	v, err := rt.eval(ctx, node, env)
	if err != nil {
		return nil, err
	}

	if rs, ok := v.(returnSignal); ok {
		return rs.Value, nil
	}

	return v, nil
}

// Call invokes fn with args as if called from env.
func (rt *Runtime) Call(
	ctx context.Context,
	fn Value,
	args []Value,
	env *Environment,
) (Value, error) {
	return rt.call(ctx, fn, args, env)
}

// attachSource lets a positioned error render its source line.
func attachSource(err error, src string) error {
	e, ok := err.(*Error)
	if !ok || e.pos == nil || e.src != "" {
		return err
	}

	return e.WithSource(src)
}

func kindOf(node Node) string {
	if node == nil {
		return "nil"
	}

	return node.Kind().String()
}
