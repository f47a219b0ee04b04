package cmd

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
)

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// script is the text of one source file.
type script struct {
	name string
	src  string
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// readScript reads the script at path, or stdin when path is "-".
func readScript(path string, stdin io.Reader) (script, error) {
	var (
		data []byte
		err  error
	)

	if path == stdinSource {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return script{}, ErrReadScript.
			With(slog.String("file", path)).
			Wrap(err)
	}

	return script{name: path, src: string(data)}, nil
}

// readScripts reads every script in paths, in order.
//
// Paths naming the same file, whether through symlinks or relative and
// absolute spellings, are read once. All occurrences of "-" are collapsed
// into a single read of stdin placed last, after all regular files.
func readScripts(paths []string, stdin io.Reader) ([]script, error) {
	scripts := make([]script, 0, len(paths))
	seen := make(map[fileKey]struct{})
	hasStdin := false

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		key, ok := uniqueKey(path)
		if ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		s, err := readScript(path, stdin)
		if err != nil {
			return nil, err
		}

		scripts = append(scripts, s)
	}

	if hasStdin {
		s, err := readScript(stdinSource, stdin)
		if err != nil {
			return nil, err
		}

		scripts = append(scripts, s)
	}

	return scripts, nil
}

// uniqueKey resolves path to its device and inode. It reports false when
// the file cannot be resolved, leaving the error to the subsequent read.
func uniqueKey(path string) (fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
