package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chatview/internal"
	"github.com/iksnae/chatview/internal/render"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

const (
	listTitleWidth   = 40
	listPreviewWidth = 40
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	columnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)
)

var (
	listHTML     bool
	listAllUsers bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Long:  `List the stored chat sessions with their titles, message counts and a preview.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if listAllUsers {
			users, err := internal.ListUsers(a.backend)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}
			displayUsers(cmd.OutOrStdout(), users, a.store.UserID())
			return nil
		}
		if listHTML {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), render.RenderSessionList(a.store.Sessions(), a.manager.Current()))
			return nil
		}
		displaySessions(cmd.OutOrStdout(), a.store.Sessions(), a.manager.Current(), time.Now())
		return nil
	},
}

func displaySessions(out io.Writer, sessions []*internal.ChatSession, current int, now time.Time) {
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(out, headerStyle.Render("No sessions found"))
		return
	}

	_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Found %d session(s)", len(sessions))))
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, " \t"+columnStyle.Render("#")+"\t"+columnStyle.Render("Title")+"\t"+
		columnStyle.Render("Messages")+"\t"+columnStyle.Render("Updated")+"\t"+columnStyle.Render("Preview")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 110))

	for i, session := range sessions {
		marker := " "
		if i == current {
			marker = currentStyle.Render("*")
		}
		title := runewidth.Truncate(session.Title, listTitleWidth, "...")
		preview := strings.Join(strings.Fields(render.Preview(session)), " ")
		preview = runewidth.Truncate(preview, listPreviewWidth, "...")

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			marker,
			idStyle.Render(strconv.Itoa(i+1)),
			title,
			countStyle.Render(strconv.Itoa(len(session.Messages))),
			dateStyle.Render(formatWhen(session.LastUpdated(), now)),
			preview,
		)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, idStyle.Render("Tip: use the number with `chatview show <#>` or `chatview send --session <#>`"))
}

func displayUsers(out io.Writer, users []internal.UserSummary, current string) {
	_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Found %d user(s)", len(users))))
	_, _ = fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, " \t"+columnStyle.Render("User")+"\t"+columnStyle.Render("Sessions")+"\t")
	for _, user := range users {
		marker := " "
		if user.UserID == current {
			marker = currentStyle.Render("*")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t\n", marker, user.UserID, countStyle.Render(strconv.Itoa(user.Sessions)))
	}
	_ = w.Flush()
}

// formatWhen formats t relative to now: a clock time today, a weekday this
// week, a date otherwise
func formatWhen(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	t = t.Local()
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listHTML, "html", false, "Print the session list as HTML")
	listCmd.Flags().BoolVar(&listAllUsers, "all-users", false, "List every user with stored sessions instead")
}
