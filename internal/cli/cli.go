// Package cli implements the ontoforge command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ontoforge/pkg/buildinfo"
	"github.com/matzehuels/ontoforge/pkg/config"
	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/storage"
	"github.com/matzehuels/ontoforge/pkg/workspace"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "ontoforge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
	loaded     bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Ontoforge models ontologies as editable graphs",
		Long:          `Ontoforge is a workspace for building ontologies: entities, data properties, notes and external references connected by typed relationships, editable as a diagram or as text.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.openCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.duplicateCommand())
	root.AddCommand(c.exampleCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.nodeCommand())
	root.AddCommand(c.edgeCommand())
	root.AddCommand(c.typesCommand())
	root.AddCommand(c.textCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file once per process. The log level from
// the file applies unless the caller already raised it to debug.
func (c *CLI) loadConfig() error {
	if c.loaded {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.loaded = true
	if c.Logger.GetLevel() != log.DebugLevel {
		c.SetLogLevel(cfg.Level())
	}
	return nil
}

// =============================================================================
// Workspace Session
// =============================================================================

// session is a workspace restored from the configured storage for the
// duration of one command.
type session struct {
	ws     *workspace.Workspace
	store  storage.Store
	logger *log.Logger
}

// openSession opens the configured storage and restores the workspace.
func (c *CLI) openSession(ctx context.Context) (*session, error) {
	store, err := storage.Open(ctx, c.cfg.StorageOptions())
	if err != nil {
		return nil, err
	}
	ws := workspace.New(
		workspace.WithLogger(c.Logger),
		workspace.WithStorage(store),
		workspace.WithTextFormat(c.cfg.Editor.TextFormat),
		workspace.WithDebounce(c.cfg.Editor.Debounce.Duration),
		workspace.WithAuthor(c.cfg.Author),
	)
	restored, err := ws.Load(ctx)
	if err != nil {
		ws.Close()
		store.Close()
		return nil, err
	}
	if !restored {
		c.Logger.Debug("no saved workspace, starting fresh", "backend", c.cfg.Storage.Backend)
	}
	ws.EnsureWorkspace()
	return &session{ws: ws, store: store, logger: c.Logger}, nil
}

// save persists the workspace.
func (s *session) save(ctx context.Context) error {
	return s.ws.Save(ctx)
}

func (s *session) close() {
	s.ws.Close()
	if err := s.store.Close(); err != nil {
		s.logger.Debug("close storage", "error", err)
	}
}

// withSession runs fn against a restored workspace and saves afterwards
// when mutate is set.
func (c *CLI) withSession(ctx context.Context, mutate bool, fn func(ctx context.Context, ws *workspace.Workspace) error) error {
	s, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	ctx = withLogger(ctx, c.Logger)
	if err := fn(ctx, s.ws); err != nil {
		return err
	}
	if !mutate {
		return nil
	}
	return s.save(ctx)
}

// =============================================================================
// Helpers
// =============================================================================

// requireActive fails with NO_ACTIVE_ONTOLOGY when nothing is open.
func requireActive(ws *workspace.Workspace) error {
	if ws.Active() == nil {
		return errs.New(errs.ErrCodeNoActiveOntology, "no active ontology (use '%s open' or '%s new')", appName, appName)
	}
	return nil
}

// dataDirExists reports whether the configured data directory exists.
func (c *CLI) dataDirExists() bool {
	_, err := os.Stat(c.cfg.DataDir)
	return err == nil
}
