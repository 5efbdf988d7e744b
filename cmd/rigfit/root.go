package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/philipparndt/rigfit/internal/config"
	"github.com/philipparndt/rigfit/pkg/layout"
	"github.com/philipparndt/rigfit/pkg/report"
	"github.com/philipparndt/rigfit/pkg/watcher"
	"github.com/philipparndt/rigfit/version"
	"github.com/spf13/cobra"
)

// watchDebounce delays a reload until an editor has finished writing
const watchDebounce = 200 * time.Millisecond

// app holds the state shared by all commands
type app struct {
	configPath string
	verbose    bool
	jsonOutput bool

	cfg *config.Config
	// out serialises report output between the command and watch reloads
	out sync.Mutex
}

func newApp() *app {
	return &app{cfg: config.Default()}
}

// rootCommand creates the root cobra command with all subcommands registered
func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "rigfit",
		Short: "Infer the geometry of fixture rigs",
		Long: `rigfit reads lighting rig layouts (fixture positions in 3D) and infers
their structure: the best-fit plane, circles through ring-shaped rigs, and
pairs of fixtures mirrored across a vertical symmetry plane.`,
		Version:           version.GetVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetVersionTemplate(version.Template())

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (.toml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	flags.BoolVar(&a.jsonOutput, "json", false, "write results as JSON")

	root.AddCommand(a.infoCommand())
	root.AddCommand(a.planeCommand())
	root.AddCommand(a.circleCommand())
	root.AddCommand(a.mirrorCommand())
	root.AddCommand(a.renderCommand())

	return root
}

// setup loads the config file and attaches the logger to the command context
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	level, err := a.cfg.Level()
	if err != nil {
		return err
	}
	if a.verbose {
		level = log.DebugLevel
	}

	logger := newLogger(cmd.ErrOrStderr(), level)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, logger))

	if a.configPath != "" {
		logger.Debug("loaded config", "path", a.configPath)
	}
	return nil
}

// loadLayout reads a layout file and logs what was found
func loadLayout(ctx context.Context, path string) (*layout.Layout, error) {
	l, err := layout.Load(path)
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("loaded layout", "name", l.Name, "fixtures", l.FixtureCount())
	return l, nil
}

// emit writes v as JSON or hands it to the text writer
func (a *app) emit(cmd *cobra.Command, v any, text func()) error {
	a.out.Lock()
	defer a.out.Unlock()

	if a.jsonOutput {
		return report.WriteJSON(cmd.OutOrStdout(), v)
	}
	text()
	return nil
}

// runWatched runs analyse once and, when watch is set, again after every
// change to path until the command context is cancelled
func (a *app) runWatched(cmd *cobra.Command, path string, watch bool, analyse func() error) error {
	if err := analyse(); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	fw, err := watcher.NewFileWatcher(watchDebounce, func(err error) {
		logger.Warn("watcher error", "err", err)
	})
	if err != nil {
		return err
	}

	err = fw.Watch([]string{path}, func(changed string) {
		logger.Info("layout changed, refitting", "path", changed)
		if err := analyse(); err != nil {
			logger.Error("refit failed", "err", err)
		}
	})
	if err != nil {
		fw.Close()
		return err
	}

	logger.Info("watching for changes", "path", path)
	if err := fw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	return nil
}
