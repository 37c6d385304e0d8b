package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chatview/internal"
	"github.com/iksnae/chatview/internal/render"
	"github.com/spf13/cobra"
)

var (
	limit     int
	showHTML  bool
	showWidth int
)

var sessionMetaStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("243")).
	MarginBottom(1)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [session]",
	Short: "Show the messages of a session",
	Long: `Display the messages of a session, the current one when no number is given.

With --html the transcript is printed as the chat view's HTML.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		i, err := a.sessionArg(arg)
		if err != nil {
			return err
		}
		session, err := a.store.Session(i)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if showHTML {
			if limit > 0 && len(session.Messages) > limit {
				session.Messages = session.Messages[len(session.Messages)-limit:]
			}
			_, _ = fmt.Fprintln(out, render.RenderTranscript(session))
			return nil
		}

		r := render.NewTerminalRenderer(showWidth, internal.IsTerminal())
		_, _ = fmt.Fprintln(out, r.RenderTitle(i+1, session))
		_, _ = fmt.Fprintln(out, sessionMetaStyle.Render(fmt.Sprintf("%d message(s), created %s",
			len(session.Messages), session.CreatedAt.Local().Format(time.DateTime))))
		_, _ = fmt.Fprintln(out, r.RenderTranscript(session, limit))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the last N messages (0 shows all)")
	showCmd.Flags().BoolVar(&showHTML, "html", false, "Print the transcript as HTML")
	showCmd.Flags().IntVar(&showWidth, "width", 80, "Truncate the title to this many columns (0 disables)")
}
