package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/iksnae/chatview/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags puts every flag back to its default. Cobra keeps parsed values
// on the package-level commands between Execute calls.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command with args and returns what it printed
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

// isolateEnv keeps config files, dotenv values and CHATVIEW_* variables of the
// machine running the tests out of the commands. It returns a data directory.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := testutil.CreateTempDir(t)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("HOME", dir)
	for _, key := range []string{"CHATVIEW_ENDPOINT", "CHATVIEW_TITLE_ENDPOINT", "CHATVIEW_USER", "CHATVIEW_BACKEND", "CHATVIEW_TIMEOUT", "CHATVIEW_DATA_DIR", "CHATVIEW_LOG_LEVEL"} {
		old, had := os.LookupEnv(key)
		_ = os.Unsetenv(key)
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(key, old)
			}
		})
	}
	return filepath.Join(dir, "sessions")
}

// storeArgs points a command at a file backend in dataDir
func storeArgs(dataDir string, args ...string) []string {
	return append(args, "--backend", "file", "--data-dir", dataDir)
}
