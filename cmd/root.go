package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/chatview/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configFile string
	envFile    string
	dryRun     bool
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatview",
	Short: "Chat with a completion endpoint and keep the conversations",
	Long: `chatview keeps chat sessions with a completion endpoint, renders their
messages (inline markup and highlighted code blocks) and exports them.

Sessions are stored per user in a file directory, a SQLite database or in
memory, and get a short generated title after the first message.

Quick Start:
  chatview new                         # Start a new session
  chatview send "How do I log in JS?"  # Talk in the current session
  chatview list                        # List sessions
  chatview show --html                 # Render the current session as HTML
  chatview export --format md          # Export it as Markdown`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/chatview/config.yaml)")
	flags.StringVar(&envFile, "env-file", "", "Dotenv file merged into the environment (default .env)")
	flags.String("user", "", "User the sessions belong to (default \"local\")")
	flags.String("data-dir", internal.DefaultDataDir(), "Directory holding stored sessions")
	flags.String("backend", internal.BackendFile, "Storage backend: file, sqlite or memory")
	flags.String("endpoint", "", "Completion endpoint URL")
	flags.String("title-endpoint", "", "Endpoint used for title generation (default: --endpoint)")
	flags.Duration("timeout", 0, "Request timeout (default 60s)")
	flags.String("log-level", "", "Log level: error, warn, info or debug")
	flags.BoolVar(&dryRun, "dry-run", false, "Keep all changes in memory; nothing is written")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
