package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   slog.Level
	}{
		{
			name:   "debug level",
			config: Config{Level: LevelDebug, Format: FormatText, Output: "discard"},
			want:   slog.LevelDebug,
		},
		{
			name:   "info level",
			config: Config{Level: LevelInfo, Format: FormatText, Output: "discard"},
			want:   slog.LevelInfo,
		},
		{
			name:   "warn level",
			config: Config{Level: LevelWarn, Format: FormatText, Output: "discard"},
			want:   slog.LevelWarn,
		},
		{
			name:   "error level",
			config: Config{Level: LevelError, Format: FormatJSON, Output: "discard"},
			want:   slog.LevelError,
		},
		{
			name:   "unknown level falls back to info",
			config: Config{Level: Level("verbose"), Format: FormatText, Output: "discard"},
			want:   slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.config)

			if !l.Enabled(context.Background(), tt.want) {
				t.Errorf("logger does not log at %v", tt.want)
			}
			if tt.want > slog.LevelDebug && l.Enabled(context.Background(), tt.want-4) {
				t.Errorf("logger unexpectedly logs below %v", tt.want)
			}
		})
	}
}

func TestWith(t *testing.T) {
	l := New(Config{Level: LevelInfo, Format: FormatText, Output: "discard"})

	child := l.With("component", "test")
	if child == nil || child.Logger == nil {
		t.Fatal("With() returned an unusable logger")
	}
}
