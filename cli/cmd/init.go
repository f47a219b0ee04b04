package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/findof1/maw/lang"
	"github.com/findof1/maw/log"
	"github.com/findof1/maw/pkg"
	"github.com/findof1/maw/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a configuration script holding the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath := kongVar(ctx, ConfigIdentifier)
	if confPath == "" {
		panic("internal error: configuration path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	if err := i.write(ctx, file); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// write renders the configuration script to w.
func (i *Init) write(ctx context.Context, w io.Writer) error {
	header := fmt.Sprintf(
		"// %s configuration. Keys are flag names in camel case;\n"+
			"// command-line flags override these values.\n",
		pkg.Name,
	)

	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	return i.build(ctx).Format(ctx, w, defaultConfigIndent)
}

// build constructs the configuration program from current flag values.
func (i *Init) build(ctx context.Context) *lang.Program {
	obj := &lang.ObjectLiteral{Properties: make([]lang.Property, 0)}

	if ktx := kongContextFrom(ctx); ktx != nil {
		prefixIgnore := []string{"help", profile.Tag}

		for _, flag := range ktx.Model.Flags {
			if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
				return strings.HasPrefix(flag.Name, s)
			}) {
				continue
			}

			if val := i.flagValue(ktx, flag); val != nil {
				obj.Properties = append(obj.Properties, lang.Property{
					Key:   ConfigKey(flag.Name),
					Value: val,
				})
			}
		}
	}

	return &lang.Program{Body: []lang.Stmt{
		&lang.VarDeclaration{Name: ConfigBinding, Constant: true, Value: obj},
	}}
}

// flagValue returns the literal for a CLI flag, or nil if it is unset or
// cannot be written as a Maw literal.
func (*Init) flagValue(ktx *kong.Context, flag *kong.Flag) lang.Expr {
	return literal(ktx.FlagValue(flag))
}

// literal converts a flag value to a Maw literal. Negative and fractional
// numbers are written as strings since Maw literals are unsigned integers;
// kong parses them back from the string.
func literal(val any) lang.Expr {
	switch v := val.(type) {
	case nil:
		return nil

	case bool:
		return &lang.Identifier{Name: strconv.FormatBool(v)}

	case string:
		if v == "" || strings.Contains(v, `"`) && strings.Contains(v, "'") {
			return nil
		}

		return &lang.StringLiteral{Value: v}

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64:
		s := fmt.Sprint(v)

		n, err := strconv.ParseUint(s, 10, 53)
		if err != nil {
			return &lang.StringLiteral{Value: s}
		}

		return &lang.NumericLiteral{Value: float64(n)}

	case []string:
		if len(v) == 0 {
			return nil
		}

		elems := make([]lang.Expr, 0, len(v))

		for _, s := range v {
			if lit := literal(s); lit != nil {
				elems = append(elems, lit)
			}
		}

		return &lang.ArrayLiteral{Elements: elems}

	default:
		return literal(fmt.Sprint(v))
	}
}
