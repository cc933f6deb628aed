package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sagarc03/settlersdb/database"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the database dialect, schema version and table state",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().String("format", "text", "output format: text, yaml")

	rootCmd.AddCommand(statusCmd)
}

// statusReport is the yaml form of status.
type statusReport struct {
	Dialect    string          `yaml:"dialect"`
	Version    int             `yaml:"version"`
	Latest     bool            `yaml:"latest"`
	Tables     map[string]bool `yaml:"tables"`
	Users      int             `yaml:"users"`
	Validation string          `yaml:"validation"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	_, m, done, err := connect(ctx)
	if err != nil {
		return err
	}
	defer done()

	store := database.NewStore(m)

	info, err := store.SchemaInfo(ctx)
	if err != nil {
		return err
	}
	users, err := store.CountUsers(ctx)
	if err != nil {
		return err
	}

	validation := "ok"
	if err := m.Validate(ctx); err != nil {
		validation = err.Error()
	}

	out := cmd.OutOrStdout()
	if format == "yaml" {
		return printYAML(out, statusReport{
			Dialect:    info.Dialect,
			Version:    info.Version,
			Latest:     info.Latest,
			Tables:     info.Tables,
			Users:      users,
			Validation: validation,
		})
	}

	ok := color.New(color.FgGreen).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()

	latest := ok("latest")
	if !info.Latest {
		latest = warn("upgrade available")
	}

	_, _ = fmt.Fprintf(out, "dialect:    %s\n", info.Dialect)
	_, _ = fmt.Fprintf(out, "version:    %d (%s)\n", info.Version, latest)
	_, _ = fmt.Fprintf(out, "users:      %d\n", users)
	_, _ = fmt.Fprintln(out, "tables:")
	for _, name := range slices.Sorted(maps.Keys(info.Tables)) {
		state := ok("present")
		if !info.Tables[name] {
			state = warn("missing")
		}
		_, _ = fmt.Fprintf(out, "  %-12s %s\n", name, state)
	}
	if validation == "ok" {
		_, _ = fmt.Fprintf(out, "validation: %s\n", ok(validation))
	} else {
		_, _ = fmt.Fprintf(out, "validation: %s\n", warn(validation))
	}
	return nil
}
