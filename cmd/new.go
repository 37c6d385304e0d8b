package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new session",
	Long:  `Create an empty session and make it the current one.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		i, err := a.manager.CreateSession()
		if err != nil {
			return fmt.Errorf("failed to select new session: %w", err)
		}
		a.warnIfUnsaved()

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created session #%d\n", i+1)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
