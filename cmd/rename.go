package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// renameCmd represents the rename command
var renameCmd = &cobra.Command{
	Use:   "rename <session> <title...>",
	Short: "Rename a session",
	Long: `Set the title of a session. A title still being generated for the
session is discarded.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.TrimSpace(strings.Join(args[1:], " "))
		if title == "" {
			return errors.New("title must not be empty")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		i, err := a.sessionArg(args[0])
		if err != nil {
			return err
		}
		if err := a.store.SetTitle(i, title); err != nil {
			return fmt.Errorf("failed to rename session: %w", err)
		}
		a.warnIfUnsaved()

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Renamed session #%d to %q\n", i+1, title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
