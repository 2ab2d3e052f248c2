// Package cli is the operator front end of the console: cobra commands
// driving the list managers, the permission tree and the report exporter
// against the Max Loyalty API.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"maxloyalty.com/backoffice/config"
	"maxloyalty.com/backoffice/infrastructure/communication"
	"maxloyalty.com/backoffice/infrastructure/devops"
	"maxloyalty.com/backoffice/listmanager"
	"maxloyalty.com/backoffice/logger"
	v1 "maxloyalty.com/backoffice/maxloyalty/v1"
)

// App is what every command runs with, set up before the command runs.
type App struct {
	Config   *config.Config
	Log      *slog.Logger
	Client   *v1.MaxLoyaltyClient
	Notifier listmanager.Notifier
	Out      io.Writer
}

// ConfigOptions names where the configuration is read from.
type ConfigOptions struct {
	Path      string
	Parameter string
}

func (o *ConfigOptions) Load(ctx context.Context) (*config.Config, error) {
	return devops.ResolveConfig(ctx, o.Path, o.Parameter)
}

// BindConfigFlags adds --config and --parameter.
func BindConfigFlags(flags *pflag.FlagSet, o *ConfigOptions) {
	flags.StringVar(&o.Path, "config", "", "YAML configuration file")
	flags.StringVar(&o.Parameter, "parameter", "", "SSM parameter holding the YAML configuration")
}

type rootOptions struct {
	ConfigOptions
	apiURL   string
	token    string
	cookie   string
	timeout  time.Duration
	logLevel string
	slack    bool
}

func (app *App) init(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := opts.Load(cmd.Context())
	if err != nil {
		return err
	}
	if opts.apiURL != "" {
		cfg.API.BaseURL = opts.apiURL
	}
	if opts.token != "" {
		cfg.API.Token = opts.token
	}
	if opts.cookie != "" {
		cfg.API.SessionCookie = opts.cookie
	}
	if opts.timeout > 0 {
		cfg.API.Timeout = opts.timeout
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	app.Config = cfg
	app.Out = cmd.OutOrStdout()
	app.Log = logger.NewWithWriter(cmd.ErrOrStderr(), "maxconsole", cfg.LogLevel)
	app.Client = v1.NewMaxLoyaltyClient(cfg.API.BaseURL, cfg.API.Token, cfg.API.Timeout)
	app.Client.Transport.SessionCookie = cfg.API.SessionCookie

	notifiers := listmanager.MultiNotifier{listmanager.WriterNotifier{W: cmd.ErrOrStderr()}}
	if opts.slack && cfg.Slack.Token != "" {
		notifiers = append(notifiers, communication.ConnectSlack(cfg.Slack))
	}
	app.Notifier = notifiers
	return nil
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	app := &App{}

	cmd := &cobra.Command{
		Use:           "maxconsole",
		Short:         "Max Loyalty back-office console",
		Long:          `Lists and edits the back-office catalogues, edits user permissions and exports the transaction report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	BindConfigFlags(flags, &opts.ConfigOptions)
	flags.StringVar(&opts.apiURL, "api", "", "API base URL (overrides the configuration)")
	flags.StringVar(&opts.token, "token", "", "API token (overrides the configuration)")
	flags.StringVar(&opts.cookie, "cookie", "", "send the token as this session cookie instead of a bearer header")
	flags.DurationVar(&opts.timeout, "timeout", 0, "request timeout, e.g. 30s")
	flags.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	flags.BoolVar(&opts.slack, "slack", false, "also post alerts to the configured Slack channels")

	cmd.AddCommand(
		listCommand(app),
		createCommand(app),
		updateCommand(app),
		deleteCommand(app),
		importCommand(app),
		cardsCommand(app),
		walletsCommand(app),
		permissionsCommand(app),
		reportCommand(app),
		ServeCommand(&opts.ConfigOptions),
		TokenCommand(&opts.ConfigOptions),
	)
	return cmd
}

func Execute() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		cmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
