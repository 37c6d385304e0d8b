package cmd

import (
	"fmt"
	"strconv"

	"github.com/iksnae/chatview/internal"
	"github.com/spf13/cobra"
)

// app is everything a command needs to work on the stored sessions
type app struct {
	cfg     *internal.Config
	backend internal.Backend
	store   *internal.Store
	manager *internal.Manager
	close   func() error
}

// openApp resolves configuration, opens the configured backend and loads the
// user's sessions
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := internal.LoadConfig(internal.ConfigOptions{
		ConfigFile: configFile,
		EnvFile:    envFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return nil, err
	}
	if !verbose {
		internal.SetLogLevel(internal.ParseLogLevel(cfg.LogLevel))
	}
	if dryRun {
		cfg.Backend = internal.BackendMemory
	}
	internal.LogDebug("Using %s backend in %s", cfg.Backend, cfg.DataDir)

	backend, closeBackend, err := internal.OpenBackend(cfg.Backend, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", cfg.Backend, err)
	}

	store := internal.NewStore(backend, cfg.UserID)
	if err := store.Load(); err != nil {
		_ = closeBackend()
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	completer := internal.NewHTTPCompleter(cfg.Endpoint, cfg.Timeout)
	titleCompleter := completer
	if url := cfg.TitleURL(); url != cfg.Endpoint {
		titleCompleter = internal.NewHTTPCompleter(url, cfg.Timeout)
	}
	titles := internal.NewTitleGenerator(titleCompleter, cfg.TitlePrompt)

	return &app{
		cfg:     cfg,
		backend: backend,
		store:   store,
		manager: internal.NewManager(store, completer, titles),
		close:   closeBackend,
	}, nil
}

// Close waits for background title generation and releases the backend
func (a *app) Close() {
	a.manager.Wait()
	if err := a.close(); err != nil {
		internal.LogWarn("Failed to close backend: %v", err)
	}
}

// warnIfUnsaved reports a failed durable write. The in-memory state is still
// correct, so this is not an error for the command.
func (a *app) warnIfUnsaved() {
	if err := a.store.Err(); err != nil {
		internal.PrintWarning(fmt.Sprintf("changes were not saved: %v", err))
	}
}

// sessionArg resolves a 1-based session number. Empty means the current session.
func (a *app) sessionArg(arg string) (int, error) {
	if arg == "" {
		return a.manager.Current(), nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid session number %q", arg)
	}
	i := n - 1
	if i < 0 || i >= a.store.Len() {
		return 0, fmt.Errorf("%w: session %d does not exist (have %d)", internal.ErrSessionIndex, n, a.store.Len())
	}
	return i, nil
}
