// Package commands implements the CLI command structure using Cobra.
package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/venice-ai/venice-go/cli/config"
	"github.com/venice-ai/venice-go/cli/keystore"
	"github.com/venice-ai/venice-go/core"
	"github.com/venice-ai/venice-go/venice"
)

// Keystore entry names for the two key types.
const (
	keystoreAPIKey   = "venice"
	keystoreAdminKey = "venice-admin"
)

// ConfigLoader loads CLI config from a path.
type ConfigLoader func(path string) (*config.Config, error)

// ClientFactory builds an API client from resolved configuration.
type ClientFactory func(cfg *config.Config, apiKey, adminKey string, verbose bool) *venice.Client

// KeystoreFactory creates a keystore instance.
type KeystoreFactory func() (keystore.Keystore, error)

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig  ConfigLoader
	newClient   ClientFactory
	newKeystore KeystoreFactory
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer

	cfgFile    string
	model      string
	jsonOutput bool
	verbose    bool
	cfg        *config.Config

	chatPrompt    string
	chatSystem    string
	chatCharacter string
	chatWebSearch string
	chatMaxTokens int
	chatStream    bool

	modelsType string

	imagePrompt string
	imageOut    string
	imageWidth  int
	imageHeight int
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithClientFactory injects a client factory dependency.
func WithClientFactory(factory ClientFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newClient = factory
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
		loadConfig:  config.LoadConfig,
		newClient:   defaultClientFactory,
		newKeystore: keystore.NewKeystore,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "venice",
		Short: "Venice - CLI for the Venice AI API",
		Long: `Venice is a command-line interface for the Venice AI inference API.

Use it to chat with models, generate images, browse the model and
character catalogs, and manage API keys.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage: true,
	}

	// Global flags available to all commands.
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.venice/config.yaml)")
	root.PersistentFlags().StringVar(&a.model, "model", "", "model ID (e.g. llama-3.3-70b)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(a.newChatCommand())
	root.AddCommand(a.newImageCommand())
	root.AddCommand(a.newModelsCommand())
	root.AddCommand(a.newCharactersCommand())
	root.AddCommand(a.newKeysCommand())
	root.AddCommand(a.newVVVCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// Execute runs the root command.
func (a *App) Execute() error {
	return a.root.Execute()
}

func (a *App) initConfig() error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := a.loadConfig(path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// Apply config defaults if flags not set.
	if a.model == "" && cfg.DefaultModel != "" {
		a.model = cfg.DefaultModel
	}

	return nil
}

// resolveAPIKeys resolves the inference and admin keys: environment first,
// keystore second. The admin key is optional.
func (a *App) resolveAPIKeys() (apiKey, adminKey string, err error) {
	apiKey = a.cfg.APIKey
	adminKey = a.cfg.AdminKey
	if apiKey != "" && adminKey != "" {
		return apiKey, adminKey, nil
	}

	ks, ksErr := a.newKeystore()
	if ksErr != nil {
		if apiKey != "" {
			return apiKey, adminKey, nil
		}
		return "", "", fmt.Errorf("failed to open keystore: %w", ksErr)
	}

	if apiKey == "" {
		apiKey, err = ks.Get(keystoreAPIKey)
		if err != nil {
			if _, ok := err.(*keystore.ErrKeyNotFound); ok {
				return "", "", fmt.Errorf("no API key: set VENICE_API_KEY or run 'venice keys set'")
			}
			return "", "", fmt.Errorf("failed to get API key: %w", err)
		}
	}
	if adminKey == "" {
		if v, err := ks.Get(keystoreAdminKey); err == nil {
			adminKey = v
		}
	}
	return apiKey, adminKey, nil
}

// client builds an API client with keys resolved.
func (a *App) client() (*venice.Client, error) {
	apiKey, adminKey, err := a.resolveAPIKeys()
	if err != nil {
		return nil, exitWithCode(ExitValidation, err)
	}
	return a.newClient(a.cfg, apiKey, adminKey, a.verbose), nil
}

func defaultClientFactory(cfg *config.Config, apiKey, adminKey string, verbose bool) *venice.Client {
	opts := []venice.Option{}
	if cfg.BaseURL != "" {
		opts = append(opts, venice.WithBaseURL(cfg.BaseURL))
	}
	if adminKey != "" {
		opts = append(opts, venice.WithAdminKey(adminKey))
	}
	if cfg.RequestTimeout != "" {
		if d, err := time.ParseDuration(cfg.RequestTimeout); err == nil {
			opts = append(opts, venice.WithTimeout(d))
		}
	}
	if verbose {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Logger().
			Level(zerolog.DebugLevel)
		opts = append(opts,
			venice.WithLogger(log),
			venice.WithObserver(core.LogObserver{Logger: log}))
	}
	return venice.New(apiKey, opts...)
}

var defaultApp = NewApp()

// Execute runs the default app root command.
func Execute() error {
	return defaultApp.Execute()
}
