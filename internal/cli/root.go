package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/logging"
	"github.com/idilsaglam/todolist/internal/session"
	"github.com/idilsaglam/todolist/internal/store/jsonstore"
	"github.com/idilsaglam/todolist/internal/store/kv"
	"github.com/idilsaglam/todolist/internal/tui"
	"github.com/idilsaglam/todolist/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// usageError marks mistakes in how the command was invoked.
type usageError struct {
	err  error
	hint string
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(hint, format string, args ...interface{}) error {
	return &usageError{err: fmt.Errorf(format, args...), hint: hint}
}

// usageArgs wraps a cobra validator so its failures exit with exitUsage.
func usageArgs(v cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := v(cmd, args); err != nil {
			return &usageError{err: err, hint: "usage: " + cmd.UseLine()}
		}
		return nil
	}
}

// globalFlags are the persistent flags; each one that is set overrides config.
type globalFlags struct {
	config   string
	storage  string
	dataDir  string
	key      string
	theme    string
	logFile  string
	logLevel string
}

// app carries what every subcommand needs once the root pre-run is done.
type app struct {
	flags globalFlags
	cfg   *config.Config
	log   *zap.Logger
	store *jsonstore.Store
	close func() error

	out, errOut io.Writer
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	a := &app{out: stdout, errOut: stderr}
	root := a.rootCmd()
	root.SetArgs(args)

	err := root.Execute()
	if cerr := a.teardown(); err == nil {
		err = cerr
	}
	if err == nil {
		return exitOK
	}
	var ue *usageError
	if errors.As(err, &ue) {
		ui.Fail(stderr, ue.Error())
		if ue.hint != "" {
			ui.Hint(stderr, ue.hint)
		}
		return exitUsage
	}
	ui.Fail(stderr, err.Error())
	return exitError
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "todo",
		Short: "todo - a tiny to-do list",
		Long: `todo keeps a single to-do list in a key-value store.

Run without arguments to open the interactive list.`,
		Example: `  todo add "Buy milk"
  todo ls --filter active
  todo done 2
  todo rm 3`,
		Args:              usageArgs(cobra.NoArgs),
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(session.New(a.store, a.log), a.log)
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err, hint: "run `" + cmd.CommandPath() + " --help` for usage"}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.config, "config", "", "config file (default ~/.todo/config.toml, then ./.todo.toml)")
	pf.StringVar(&a.flags.storage, "storage", "", "storage backend: file or sqlite")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "directory holding the list")
	pf.StringVar(&a.flags.key, "key", "", "storage key the list lives under")
	pf.StringVar(&a.flags.theme, "theme", "", "theme: classic, neon or mono")
	pf.StringVar(&a.flags.logFile, "log-file", "", "log file (empty string disables logging)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.doneCmd(),
		a.removeCmd(),
		a.editCmd(),
		a.clearCmd(),
	)
	return root
}

// setup loads config, then builds the logger and opens the store.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.flags.config)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	pf := cmd.Flags()
	for name, dst := range map[string]*string{
		"storage":   &cfg.Storage,
		"data-dir":  &cfg.DataDir,
		"key":       &cfg.Key,
		"theme":     &cfg.Theme,
		"log-file":  &cfg.LogFile,
		"log-level": &cfg.LogLevel,
	} {
		if pf.Changed(name) {
			*dst, _ = pf.GetString(name)
		}
	}
	if err := cfg.Finalize(); err != nil {
		return &usageError{err: fmt.Errorf("config: %w", err)}
	}
	a.cfg = cfg
	ui.SetTheme(cfg.Theme)

	a.log, err = logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}

	backend, closer, err := openStorage(cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.close = closer
	a.store = jsonstore.Open(backend,
		jsonstore.WithKey(cfg.Key),
		jsonstore.WithLogger(a.log.With(zap.String("storage", cfg.Storage))),
	)
	a.log.Debug("store opened",
		zap.String("storage", cfg.Storage),
		zap.String("dir", cfg.DataDir),
		zap.Int("items", len(a.store.Items())),
	)
	return nil
}

func (a *app) teardown() error {
	var err error
	if a.close != nil {
		err = a.close()
		a.close = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return err
}

func openStorage(cfg *config.Config) (kv.Storage, func() error, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		db, err := kv.OpenSQLite(filepath.Join(cfg.DataDir, kv.SQLiteFileName))
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		f, err := kv.NewFile(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return f, nil, nil
	}
}
