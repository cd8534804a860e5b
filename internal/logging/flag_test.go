package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"
)

func newCommand(t *testing.T, args map[string]string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{}
	RegisterFlags(cmd.Flags())
	for k, v := range args {
		if err := cmd.Flags().Set(k, v); err != nil {
			t.Fatalf("setting --%s: %v", k, err)
		}
	}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	return cmd, &buf
}

func TestRegisterFlags(t *testing.T) {
	cmd := &cobra.Command{}
	RegisterFlags(cmd.PersistentFlags())

	for _, name := range []string{FormatFlagName, LevelFlagName, OutputFlagName} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cmd, _ := newCommand(t, map[string]string{LevelFlagName: tt.level})
			got, err := levelFromCommand(cmd)
			if err != nil {
				t.Fatalf("levelFromCommand: %v", err)
			}
			if got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewLoggerJSONOutput(t *testing.T) {
	cmd, buf := newCommand(t, map[string]string{
		FormatFlagName: FormatJSON,
		LevelFlagName:  LevelInfo,
	})

	logger, err := NewLogger(cmd)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	ctx := Attach(context.Background(), logger)
	slogcontext.Info(ctx, "catalog built", "components", 3)

	if !strings.Contains(buf.String(), `"msg":"catalog built"`) {
		t.Errorf("expected JSON record, got %q", buf.String())
	}
}

func TestNewLoggerRejectsUnknownFormat(t *testing.T) {
	cmd, _ := newCommand(t, map[string]string{FormatFlagName: "xml"})
	if _, err := NewLogger(cmd); err == nil {
		t.Error("expected error for unknown log format")
	}
}
