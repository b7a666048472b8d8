package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/spendlog/spendlog/internal/logger"
	"github.com/spendlog/spendlog/internal/storage"
)

func discardLogger() *logger.Logger {
	return logger.New(logger.Config{Output: "discard"})
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation errors are specific",
			err:  &storage.ValidationError{Field: "amount", Reason: "must be greater than zero"},
			want: "invalid amount: must be greater than zero",
		},
		{
			name: "not found is generic",
			err:  &storage.NotFoundError{},
			want: "no such record",
		},
		{
			name: "authorization is indistinguishable from not found",
			err:  &storage.AuthorizationError{},
			want: "no such record",
		},
		{
			name: "transport errors suggest retrying",
			err:  &storage.TransportError{Op: "read", Err: errors.New("disk full")},
			want: "storage is unavailable, try again",
		},
		{
			name: "wrapped errors unwrap",
			err:  errors.Join(errors.New("context"), &storage.NotFoundError{}),
			want: "no such record",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserMessage(tt.err, discardLogger())
			if got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessageTransportNeverLeaksCause(t *testing.T) {
	err := &storage.TransportError{Op: "read", Err: errors.New("/home/alice/storage.csv: permission denied")}

	got := UserMessage(err, discardLogger())
	if strings.Contains(got, "alice") {
		t.Errorf("UserMessage() leaked the underlying cause: %q", got)
	}
}
