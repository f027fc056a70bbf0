// Package cli implements the httpkit command line interface.
package cli

//go:generate go tool errtrace -w .

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"braces.dev/errtrace"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ghettovoice/httpkit/internal/config"
	"github.com/ghettovoice/httpkit/internal/log"
)

// App holds the state shared by commands.
type App struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
}

func newApp() *App {
	return &App{
		v:      viper.New(),
		logger: log.Noop,
	}
}

// bindFlags binds flags to config keys, so a flag set on the command line
// overrides the config file and the environment.
func (app *App) bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		if err := app.v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// load reads the configuration once flags are parsed.
func (app *App) load(cmd *cobra.Command) error {
	cfg, err := config.Load(app.v, app.cfgFile)
	if err != nil {
		return errtrace.Wrap(err)
	}
	logger, err := log.New(cfg.LogFormat, cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return errtrace.Wrap(err)
	}
	app.cfg, app.logger = cfg, logger
	return nil
}

// NewRootCommand creates the httpkit command tree.
func NewRootCommand() *cobra.Command {
	app := newApp()

	root := &cobra.Command{
		Use:   "httpkit",
		Short: "URI and HTTP toolkit",
		Long: `httpkit parses, normalizes, resolves and relativizes URI references
according to RFC 3986 and sends HTTP requests.

Settings are read from the --config YAML file and HTTPKIT_* environment variables,
e.g. HTTPKIT_LOG_LEVEL=debug or HTTPKIT_CLIENT_TIMEOUT=5s.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return errtrace.Wrap(app.load(cmd))
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.cfgFile, "config", "", "config file (YAML)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: console, dev, json, text")
	app.bindFlags(flags, map[string]string{
		"log-level":  "log_level",
		"log-format": "log_format",
	})

	root.AddCommand(
		newParseCommand(app),
		newNormalizeCommand(app),
		newResolveCommand(app),
		newRelativizeCommand(app),
		newFetchCommand(app),
	)
	return root
}

// Execute runs the command tree with the given arguments and returns the exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}
