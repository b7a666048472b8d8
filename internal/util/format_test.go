package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "250", want: "250.00"},
		{input: "19.9", want: "19.90"},
		{input: "0.5", want: "0.50"},
		{input: "1234.567", want: "1234.57"},
		{input: "0", want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := FormatAmount(decimal.RequireFromString(tt.input))
			if got != tt.want {
				t.Errorf("FormatAmount(%s) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestColorOutput(t *testing.T) {
	// Unknown options are ignored rather than failing.
	got := ColorOutput("expense", "not-a-color")
	if got != "expense" {
		t.Errorf("ColorOutput() = %q, want expense", got)
	}
}
