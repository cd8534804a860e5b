// Package logging builds the CLI's structured logger. It supports text and
// JSON output, the usual slog levels, and stdout or stderr as destination.
// The logger is carried to library packages in a context.Context.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	slogcontext "github.com/veqryn/slog-context"
)

// Log format constants
const (
	FormatFlagName = "logformat"

	FormatText = "text"
	FormatJSON = "json"
)

// Log level constants
const (
	LevelFlagName = "loglevel"

	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Log output constants
const (
	OutputFlagName = "logoutput"

	OutputStdout = "stdout"
	OutputStderr = "stderr"
)

var (
	formats = []string{FormatText, FormatJSON}
	levels  = []string{LevelWarn, LevelInfo, LevelDebug, LevelError}
	outputs = []string{OutputStderr, OutputStdout}
)

// RegisterFlags adds the logging flags to flagset. The first value of each
// set is the default.
//
//	--logformat json     # JSON records for machine processing
//	--loglevel debug     # include descriptor-level diagnostics
//	--logoutput stdout   # mix logs into normal output
func RegisterFlags(flagset *pflag.FlagSet) {
	flagset.String(FormatFlagName, formats[0], "log format, one of: "+strings.Join(formats, ", "))
	flagset.String(LevelFlagName, levels[0], "log level, one of: "+strings.Join(levels, ", "))
	flagset.String(OutputFlagName, outputs[0], "log destination, one of: "+strings.Join(outputs, ", "))
}

// NewLogger creates a slog.Logger from the command's logging flags.
func NewLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level, err := levelFromCommand(cmd)
	if err != nil {
		return nil, err
	}

	format, err := lookup(cmd.Flags(), FormatFlagName, formats)
	if err != nil {
		return nil, err
	}
	output, err := lookup(cmd.Flags(), OutputFlagName, outputs)
	if err != nil {
		return nil, err
	}

	var w io.Writer
	switch output {
	case OutputStdout:
		w = cmd.OutOrStdout()
	default:
		w = cmd.ErrOrStderr()
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}

// Attach stores logger in ctx for use with slogcontext.
func Attach(ctx context.Context, logger *slog.Logger) context.Context {
	return slogcontext.NewCtx(ctx, logger)
}

// Discard returns a context whose logger drops every record. Tests use it to
// keep output quiet.
func Discard(ctx context.Context) context.Context {
	return Attach(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func levelFromCommand(cmd *cobra.Command) (slog.Level, error) {
	value, err := lookup(cmd.Flags(), LevelFlagName, levels)
	if err != nil {
		return slog.LevelWarn, err
	}
	switch value {
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelInfo:
		return slog.LevelInfo, nil
	case LevelError:
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, nil
	}
}

// lookup reads a string flag and checks it against the allowed values.
// Unregistered flags fall back to the default.
func lookup(flags *pflag.FlagSet, name string, allowed []string) (string, error) {
	f := flags.Lookup(name)
	if f == nil {
		return allowed[0], nil
	}
	value := strings.ToLower(f.Value.String())
	if !slices.Contains(allowed, value) {
		return "", fmt.Errorf("invalid value %q for --%s, expected one of: %s", value, name, strings.Join(allowed, ", "))
	}
	return value, nil
}
