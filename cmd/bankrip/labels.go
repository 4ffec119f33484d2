package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleLabel turns identifiers such as "raw" or "dry_run" into "Raw" and
// "Dry Run" for human output.
func titleLabel(value string) string {
	value = strings.TrimSpace(strings.ReplaceAll(value, "_", " "))
	if value == "" {
		return ""
	}
	return cases.Title(language.Und).String(value)
}

func outcomeLabel(outcome string, colorize bool) string {
	label := titleLabel(outcome)
	if !colorize {
		return label
	}
	switch outcome {
	case "validated":
		return text.FgGreen.Sprint(label)
	case "salvaged":
		return text.FgCyan.Sprint(label)
	case "raw":
		return text.FgYellow.Sprint(label)
	case "failed":
		return text.FgRed.Sprint(label)
	default:
		return label
	}
}

func bankStatus(missing bool, entries int) string {
	switch {
	case missing:
		return "missing"
	case entries == 0:
		return "empty"
	default:
		return "ok"
	}
}
