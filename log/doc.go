// Package log provides leveled structured logging on top of [log/slog].
//
// A [Logger] is configured once with functional options and is then
// immutable, so copies may be shared freely between goroutines:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Info("script loaded", slog.String("path", path))
//
// Every level has a context-aware variant. The others use
// [DefaultContextProvider], which returns [context.TODO] by default.
//
// # Levels
//
// In addition to the slog levels, [LevelTrace] sits below debug. The Maw
// interpreter logs its evaluation steps at trace level only.
//
// # Formats
//
// [FormatText] and [FormatJSON] are written by the standard slog handlers,
// or by a colorized handler when [WithPretty] is enabled. Colors are chosen
// with lipgloss and disabled automatically when the output is not a
// terminal.
//
// # Package-level logger
//
// [Config], [Default] and the package-level functions such as [Info] use a
// shared logger writing to standard error.
//
// The zero [Logger] discards everything.
package log
