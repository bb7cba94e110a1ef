package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/vidlib/internal/catalog"
	"github.com/nikbrunner/vidlib/internal/logging"
	"github.com/nikbrunner/vidlib/internal/search"
	"github.com/nikbrunner/vidlib/internal/session"
	"github.com/nikbrunner/vidlib/internal/storage"
	"github.com/nikbrunner/vidlib/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli carries the state shared by all commands.
type cli struct {
	// Global flags
	verbose  bool
	dataDir  string
	category string

	cfg    *storage.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "vidlib",
		Short: "vidlib - terminal video library manager",
		Long: `vidlib manages a catalog of videos grouped by category.

Run without arguments to open the interactive browser.

Data is stored in ~/.config/vidlib (override with VIDLIB_DATA_DIR or --data-dir).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// The TUI owns the terminal, so its logs go to a file
			return c.setup(cmd.Name() == "vidlib")
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context())
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&c.dataDir, "data-dir", "", "data directory (default $VIDLIB_DATA_DIR or ~/.config/vidlib)")
	root.PersistentFlags().StringVarP(&c.category, "category", "c", "", "category to work on (default from config)")

	root.AddCommand(
		c.newListCmd(),
		c.newAddCmd(),
		c.newEditCmd(),
		c.newRemoveCmd(),
		c.newFeatureCmd(),
		c.newHideCmd(),
		c.newFindCmd(),
		c.newExportCmd(),
		c.newImportCmd(),
		c.newSeedCmd(),
		c.newCheckThumbsCmd(),
		c.newEventsCmd(),
		c.newSignupCmd(),
		c.newLoginCmd(),
		c.newLogoutCmd(),
	)

	return root
}

// setup resolves the data directory, loads config and builds the logger.
func (c *cli) setup(logToFile bool) error {
	if c.dataDir == "" {
		dir, err := storage.DefaultDataDir()
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		c.dataDir = dir
	}

	cfg, err := storage.LoadConfig(storage.ConfigFilePath(c.dataDir))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	if c.category == "" {
		c.category = cfg.DefaultCategory
	}

	opts := logging.Options{Verbose: c.verbose}
	if logToFile {
		opts.File = logging.FilePath(c.dataDir)
	}
	logger, err := logging.New(opts)
	if err != nil {
		return err
	}
	c.logger = logger.With(zap.String("backend", cfg.Backend))
	return nil
}

func (c *cli) openStorage() (storage.Storage, error) {
	st, err := storage.OpenStorage(c.cfg, c.dataDir)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return st, nil
}

// openCatalog opens storage and loads the active category into a Store.
// The caller closes the returned storage.
func (c *cli) openCatalog(ctx context.Context) (*catalog.Store, storage.Storage, error) {
	st, err := c.openStorage()
	if err != nil {
		return nil, nil, err
	}
	store := catalog.NewStore(catalog.StoreParams{Source: st, Logger: c.logger})
	if err := store.Load(ctx, c.category); err != nil {
		st.Close()
		return nil, nil, err
	}
	return store, st, nil
}

func (c *cli) sessionStore() *session.Store {
	return session.NewStore(session.FilePath(c.dataDir))
}

func (c *cli) sessionContext() (session.Context, error) {
	user, err := c.sessionStore().Current()
	if err != nil {
		return session.Context{}, fmt.Errorf("read session: %w", err)
	}
	return session.Context{Theme: c.cfg.Theme, User: user}, nil
}

// defaultSort returns the configured sort key, falling back to featured.
func (c *cli) defaultSort() search.SortKey {
	key, err := search.ParseSortKey(c.cfg.DefaultSort)
	if err != nil {
		c.logger.Warn("Ignoring invalid defaultSort", zap.String("defaultSort", c.cfg.DefaultSort))
		return search.SortFeatured
	}
	return key
}

// runTUI runs the full interactive TUI.
func (c *cli) runTUI(ctx context.Context) error {
	st, err := c.openStorage()
	if err != nil {
		return err
	}
	defer st.Close()

	sess, err := c.sessionContext()
	if err != nil {
		return err
	}

	store := catalog.NewStore(catalog.StoreParams{Source: st, Logger: c.logger})
	view := catalog.NewView(store, c.defaultSort())
	defer view.Close()

	app := tui.NewApp(tui.AppParams{
		Context:  ctx,
		View:     view,
		Category: c.category,
		Session:  sess,
		Logger:   c.logger,
	})

	c.logger.Info("Starting TUI", zap.String("category", c.category))
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run app: %w", err)
	}
	return nil
}
