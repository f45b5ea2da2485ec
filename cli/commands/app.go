package commands

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/petal-labs/yvision/cli/config"
	"github.com/petal-labs/yvision/cli/keystore"
)

// ConfigLoader loads CLI config from a path.
type ConfigLoader func(path string) (*config.Config, error)

// KeystoreFactory creates a keystore instance.
type KeystoreFactory func() (keystore.Keystore, error)

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig   ConfigLoader
	createClient ClientFactory
	newKeystore  KeystoreFactory
	getenv       func(string) string
	stdin        io.Reader
	stdout       io.Writer
	stderr       io.Writer

	cfgFile    string
	folderID   string
	jsonOutput bool
	verbose    bool
	cfg        *config.Config
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithClientFactory injects an OCR client factory dependency.
func WithClientFactory(factory ClientFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.createClient = factory
		}
	}
}

// WithKeystoreFactory injects a keystore factory dependency.
func WithKeystoreFactory(factory KeystoreFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newKeystore = factory
		}
	}
}

// WithEnv injects the environment lookup used for credentials.
func WithEnv(getenv func(string) string) AppOption {
	return func(a *App) {
		if getenv != nil {
			a.getenv = getenv
		}
	}
}

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		loadConfig:   config.LoadConfig,
		createClient: defaultClientFactory,
		newKeystore:  keystore.NewKeystore,
		getenv:       os.Getenv,
		stdin:        os.Stdin,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "yvision",
		Short: "yvision - command-line client for Yandex Vision OCR",
		Long: `yvision recognizes text in images and PDF documents with Yandex Vision OCR.

Use yvision to run synchronous recognition, start asynchronous operations,
wait for their results, and manage stored credentials.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	// Global flags available to all commands.
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.yvision/config.yaml)")
	root.PersistentFlags().StringVar(&a.folderID, "folder-id", "", "Yandex Cloud folder id (overrides folder_id)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(a.newRecognizeCommand())
	root.AddCommand(a.newStartCommand())
	root.AddCommand(a.newOperationCommand())
	root.AddCommand(a.newResultCommand())
	root.AddCommand(a.newWaitCommand())
	root.AddCommand(a.newKeysCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// Execute runs the root command.
func (a *App) Execute() error {
	return a.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which is handed to every
// request the command makes.
func (a *App) ExecuteContext(ctx context.Context) error {
	if err := a.root.ExecuteContext(ctx); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr
		}
		// Argument and flag errors come straight from cobra.
		return a.handleError(configError(err))
	}
	return nil
}

// SetArgs overrides the command line arguments.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

func (a *App) initConfig() error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := a.loadConfig(path)
	if err != nil {
		return a.handleError(configError(err))
	}
	a.cfg = cfg

	// Flags override the config file.
	if a.folderID != "" {
		a.cfg.FolderID = a.folderID
	}

	return nil
}

// Execute runs a default app with ctx.
func Execute(ctx context.Context) error {
	return NewApp().ExecuteContext(ctx)
}
