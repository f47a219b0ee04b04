package builtin

// Host natives expose facts about the machine running the script. Platform
// names follow Go conventions, target names follow GNU GCC/LLVM
// conventions.

import (
	"bufio"
	"context"
	"os"
	"os/user"
	"runtime"
	"strings"

	"github.com/ardnew/mung"

	"github.com/findof1/maw/lang"
)

var hostNatives = []native{
	{name: "env", params: []string{"name"}, fn: envFn},
	{name: "platform", fn: targetFn(getPlatform)},
	{name: "target", fn: targetFn(getTarget)},
	{name: "hostname", fn: stringer(getHostname)},
	{name: "shell", fn: stringer(getShell)},
	{name: "cwd", fn: stringer(getCwd)},
	{name: "pathPrefix", params: []string{"name", "items..."}, fn: pathPrefixFn},
	{name: "expr", params: []string{"src"}, fn: exprFn},
	{name: "toJSON", params: []string{"v", "indent?"}, fn: toJSONFn},
	{name: "fromJSON", params: []string{"s"}, fn: fromJSONFn},
	{name: "toYAML", params: []string{"v"}, fn: toYAMLFn},
	{name: "fromYAML", params: []string{"s"}, fn: fromYAMLFn},
}

// envFn returns the value of a process environment variable, or null if it
// is unset.
func envFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	name, err := argsOf("env", vals).str(0)
	if err != nil {
		return nil, err
	}

	value, ok := os.LookupEnv(name)
	if !ok {
		return lang.Null{}, nil
	}

	return lang.String(value), nil
}

// pathPrefixFn returns the PATH-like list held by the named environment
// variable with items moved to (or inserted at) the front, without
// duplicates. The environment itself is not modified.
func pathPrefixFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	args := argsOf("pathPrefix", vals)

	name, err := args.str(0)
	if err != nil {
		return nil, err
	}

	items, err := args.strings(1)
	if err != nil {
		return nil, err
	}

	return lang.String(mungPrefix(os.Getenv(name), items...)), nil
}

func mungPrefix(list string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

// target identifies an operating system and instruction set architecture.
type target struct {
	OS   string
	Arch string
}

func (t target) object() *lang.Object {
	obj := lang.NewObject()
	obj.Properties["os"] = lang.String(t.OS)
	obj.Properties["arch"] = lang.String(t.Arch)

	return obj
}

func targetFn(get func() target) lang.NativeFunc {
	return func(context.Context, *lang.Runtime, []lang.Value, *lang.Environment) (lang.Value, error) {
		return get().object(), nil
	}
}

func stringer(get func() string) lang.NativeFunc {
	return func(context.Context, *lang.Runtime, []lang.Value, *lang.Environment) (lang.Value, error) {
		return lang.String(get()), nil
	}
}

// getTarget returns the host target using GNU GCC/LLVM naming conventions.
func getTarget() target {
	t := getPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm":
		if arm, ok := os.LookupEnv("GOARM"); ok {
			arm, _, _ = strings.Cut(arm, ",")
			switch arm = strings.TrimSpace(arm); arm {
			case "5", "6", "7":
				t.Arch = "armv" + arm
			}
		}
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

// getPlatform returns the host target using Go conventions, honoring the
// GOHOSTOS/GOOS and GOHOSTARCH/GOARCH overrides.
func getPlatform() target {
	return target{
		OS:   firstEnv(runtime.GOOS, "GOHOSTOS", "GOOS"),
		Arch: firstEnv(runtime.GOARCH, "GOHOSTARCH", "GOARCH"),
	}
}

func firstEnv(fallback string, names ...string) string {
	for _, name := range names {
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
	}

	return fallback
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

// getShell returns $SHELL, falling back to the login shell recorded for the
// current user in /etc/passwd.
func getShell() string {
	if shell, ok := os.LookupEnv("SHELL"); ok {
		return shell
	}

	u, err := user.Current()
	if err != nil || u.Username == "" {
		return ""
	}

	f, err := os.Open("/etc/passwd")
	if err != nil {
		return ""
	}

	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		e := strings.Split(s.Text(), ":")
		if len(e) > 6 && e[0] == u.Username {
			return e[6]
		}
	}

	return ""
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return cwd
}
