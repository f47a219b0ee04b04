package builtin

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/findof1/maw/lang"
)

var fileNatives = []native{
	{name: "readFile", params: []string{"path"}, fn: readFileFn},
	{name: "writeFile", params: []string{"path", "text"}, fn: writeFileFn(0)},
	{name: "appendFile", params: []string{"path", "text"}, fn: writeFileFn(os.O_APPEND)},
	{name: "fileExists", params: []string{"path"}, fn: statFn("fileExists", fileExists)},
	{name: "isDir", params: []string{"path"}, fn: statFn("isDir", fileIsDir)},
	{name: "absPath", params: []string{"path"}, fn: absPathFn},
	{name: "joinPath", params: []string{"elems..."}, fn: joinPathFn},
}

// readFileFn returns the file's contents, or the error text if it cannot be
// read.
func readFileFn(
	ctx context.Context,
	rt *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	path, err := argsOf("readFile", vals).str(0)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		rt.Logger().DebugContext(ctx, "read file failed",
			slog.String("path", path), slog.Any("error", err))

		return lang.String(err.Error()), nil
	}

	return lang.String(data), nil
}

// writeFileFn returns a native that writes (or, with os.O_APPEND, appends)
// text to a file. It yields the empty string on success and the error text
// otherwise.
func writeFileFn(mode int) lang.NativeFunc {
	name := "writeFile"
	if mode&os.O_APPEND != 0 {
		name = "appendFile"
	} else {
		mode = os.O_TRUNC
	}

	return func(
		ctx context.Context,
		rt *lang.Runtime,
		vals []lang.Value,
		_ *lang.Environment,
	) (lang.Value, error) {
		args := argsOf(name, vals)

		path, err := args.str(0)
		if err != nil {
			return nil, err
		}

		text, err := args.str(1)
		if err != nil {
			return nil, err
		}

		if err := writeFile(path, text, mode); err != nil {
			rt.Logger().DebugContext(ctx, "write file failed",
				slog.String("path", path), slog.Any("error", err))

			return lang.String(err.Error()), nil
		}

		return lang.String(""), nil
	}
}

func writeFile(path, text string, mode int) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|mode, 0o644)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = f.WriteString(text)

	return err
}

func statFn(name string, pred func(string) bool) lang.NativeFunc {
	return func(
		_ context.Context,
		_ *lang.Runtime,
		vals []lang.Value,
		_ *lang.Environment,
	) (lang.Value, error) {
		path, err := argsOf(name, vals).str(0)
		if err != nil {
			return nil, err
		}

		return lang.Boolean(pred(path)), nil
	}
}

func absPathFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	path, err := argsOf("absPath", vals).str(0)
	if err != nil {
		return nil, err
	}

	return lang.String(pathAbs(path)), nil
}

func joinPathFn(
	_ context.Context,
	_ *lang.Runtime,
	vals []lang.Value,
	_ *lang.Environment,
) (lang.Value, error) {
	elems, err := argsOf("joinPath", vals).strings(0)
	if err != nil {
		return nil, err
	}

	return lang.String(filepath.Join(elems...)), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}
