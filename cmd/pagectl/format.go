package main

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer formats counts with digit grouping ("1,048,576").
var printer = message.NewPrinter(language.English)

// formatBytes renders n as a grouped byte count with a binary-unit hint.
func formatBytes(n uint64) string {
	switch {
	case n >= 1<<30:
		return printer.Sprintf("%d bytes (%.1f GiB)", n, float64(n)/(1<<30))
	case n >= 1<<20:
		return printer.Sprintf("%d bytes (%.1f MiB)", n, float64(n)/(1<<20))
	case n >= 1<<10:
		return printer.Sprintf("%d bytes (%.1f KiB)", n, float64(n)/(1<<10))
	default:
		return printer.Sprintf("%d bytes", n)
	}
}
