package repl

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/findof1/maw/lang"
	"github.com/findof1/maw/lang/builtin"
	"github.com/findof1/maw/log"
)

const testScript = `
var greeting = "hello"
funct add(x, y) { return x + y }
const nested = { multiply: add, depth: { level: 1 } }
`

func testSession(src string) Session {
	return func(ctx context.Context, out io.Writer) (*lang.Runtime, *lang.Environment, error) {
		rt := lang.NewRuntime(
			lang.WithStdout(out),
			lang.WithLibrary(builtin.Install),
		)

		env, err := rt.NewGlobalEnv()
		if err != nil {
			return nil, nil, err
		}

		if _, err := rt.RunIn(ctx, src, env); err != nil {
			return nil, nil, err
		}

		return rt, env, nil
	}
}

func testEnv(t testing.TB) *lang.Environment {
	t.Helper()

	_, env, err := testSession(testScript)(context.Background(), io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return env
}

func testModel(t *testing.T) model {
	t.Helper()

	out := new(bytes.Buffer)
	session := testSession(testScript)

	rt, env, err := session(t.Context(), out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return newModel(t.Context(), session, rt, env, out, NewHistory(""), log.Logger{})
}
