package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/sagarc03/settlersdb/database"
)

// printCollisions writes the nickname collision report. Colour is dropped
// automatically when stdout is not a terminal.
func printCollisions(w io.Writer, e *database.PrecheckError) {
	red := color.New(color.FgRed, color.Bold)
	yellow := color.New(color.FgYellow)

	_, _ = red.Fprintln(w, "These groups of users' nicknames collide with each other when lowercase:")
	for _, g := range e.SortedGroups() {
		_, _ = fmt.Fprintf(w, "[%s]\n", yellow.Sprint(strings.Join(g, ", ")))
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprint(w, database.Remediation)
}

func printUpgradeText(w io.Writer, r database.UpgradeReport) {
	green := color.New(color.FgGreen)

	_, _ = fmt.Fprintf(w, "upgrade %s: %s\n", r.RunID, green.Sprint(r.State))
	_, _ = fmt.Fprintf(w, "  schema:  %d -> %d\n", int(r.From), int(r.To))
	_, _ = fmt.Fprintf(w, "  users:   %d\n", r.Users)
	_, _ = fmt.Fprintf(w, "  batches: %d\n", len(r.Batches))
	if !r.Finished.IsZero() {
		_, _ = fmt.Fprintf(w, "  took:    %s\n", r.Finished.Sub(r.Started))
	}
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func checkFormat(format string) error {
	switch format {
	case "text", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown format %q: want text or yaml", format)
	}
}
