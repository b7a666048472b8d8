package util

import (
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
)

const displayPlaces = 2

// FormatAmount renders an amount with two decimal places for display.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(displayPlaces)
}

var colorsOptions = map[string]color.Attribute{
	"red":       color.FgHiRed,
	"green":     color.FgGreen,
	"cyan":      color.FgCyan,
	"underline": color.Underline,
	"bold":      color.Bold,
}

// ColorOutput wraps text in the named color attributes for terminal output.
func ColorOutput(text string, colorOptions ...string) string {
	attributes := []color.Attribute{}
	for _, option := range colorOptions {
		if o, ok := colorsOptions[option]; ok {
			attributes = append(attributes, o)
		}
	}
	c := color.New(attributes...)
	return c.Sprint(text)
}
