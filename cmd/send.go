package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/iksnae/chatview/internal"
	"github.com/iksnae/chatview/internal/render"
	"github.com/spf13/cobra"
)

var (
	sendSession string
	sendHTML    bool
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <message...>",
	Short: "Send a message in the current session",
	Long: `Send a message to the completion endpoint and print the reply.

The first message of a session also asks the endpoint for a short title.
A failed request is kept in the session as an "Error: ..." reply.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if sendSession != "" {
			i, err := a.sessionArg(sendSession)
			if err != nil {
				return err
			}
			if err := a.manager.Select(i); err != nil {
				return fmt.Errorf("failed to select session: %w", err)
			}
		}

		text := strings.Join(args, " ")
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		var reply *internal.Message
		err = internal.ShowProgress(ctx, "Waiting for reply", func() error {
			var sendErr error
			reply, sendErr = a.manager.Send(ctx, text)
			return sendErr
		})
		if err != nil {
			return err
		}
		a.warnIfUnsaved()

		if reply == nil {
			internal.PrintInfo("Nothing to send")
			return nil
		}

		out := cmd.OutOrStdout()
		if sendHTML {
			_, _ = fmt.Fprintln(out, render.RenderMessage(*reply))
			return nil
		}
		r := render.NewTerminalRenderer(0, internal.IsTerminal())
		_, _ = fmt.Fprintln(out, r.RenderMessage(*reply))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sendSession, "session", "s", "", "Session number to send to (default: current session)")
	sendCmd.Flags().BoolVar(&sendHTML, "html", false, "Print the reply as HTML")
}
