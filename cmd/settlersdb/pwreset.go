package main

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/settlersdb"
	"github.com/sagarc03/settlersdb/database"
)

var pwResetCmd = &cobra.Command{
	Use:   "pw-reset <nickname>",
	Short: "Reset a user's password",
	Long: `Prompt twice for a new password and store it for the given user.

The nickname is matched case-insensitively when the schema supports it.`,
	Args: cobra.ExactArgs(1),
	RunE: runPwReset,
}

func init() {
	rootCmd.AddCommand(pwResetCmd)
}

func runPwReset(cmd *cobra.Command, args []string) error {
	ctx, cancel := exitOnSignal(cmd.Context())
	defer cancel()

	_, m, done, err := connect(ctx)
	if err != nil {
		return err
	}
	defer done()

	store := database.NewStore(m)

	nickname, found, err := store.LookupUser(ctx, args[0])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("pw-reset: user %q: %w", args[0], settlersdb.ErrNotFound)
	}

	password, err := promptPassword(fmt.Sprintf("New password for %s", nickname))
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm new password")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("pw-reset: passwords do not match")
	}

	if _, err := store.UpdatePassword(ctx, nickname, password); err != nil {
		return fmt.Errorf("pw-reset: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", nickname)
	return nil
}

func promptPassword(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Mask:     '*',
		Validate: settlersdb.ValidatePassword,
	}
	password, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return password, nil
}
