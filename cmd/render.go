package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/iksnae/chatview/internal"
	"github.com/iksnae/chatview/internal/render"
	"github.com/spf13/cobra"
)

var renderTerminal bool

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render message text",
	Long: `Render raw message text as the chat view shows it: HTML-escaped, with
**bold**, *italic* and ` + "`code`" + ` markup and highlighted fenced code blocks.

Reads the file argument, or standard input when none is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		out := cmd.OutOrStdout()
		if renderTerminal {
			r := render.NewTerminalRenderer(0, internal.IsTerminal())
			_, _ = fmt.Fprintln(out, r.RenderText(string(data)))
			return nil
		}
		_, _ = fmt.Fprintln(out, render.Format(string(data)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().BoolVarP(&renderTerminal, "terminal", "t", false, "Render for the terminal instead of HTML")
}
