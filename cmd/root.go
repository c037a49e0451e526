package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teemow/rofi-calendar/internal/agenda"
	"github.com/teemow/rofi-calendar/internal/calendar"
	"github.com/teemow/rofi-calendar/internal/errfmt"
	"github.com/teemow/rofi-calendar/internal/google"
	"github.com/teemow/rofi-calendar/internal/instrumentation"
	"github.com/teemow/rofi-calendar/internal/logging"
	"github.com/teemow/rofi-calendar/internal/settings"
)

// version will be set by main
var version = "dev"

// SetVersion sets the version reported by the version command
func SetVersion(v string) {
	version = v
}

// rootOptions holds the values of the root command flags
type rootOptions struct {
	start           string
	end             string
	configPath      string
	credentialsPath string
	tokenPath       string
	debug           bool
}

// flagAliases maps alternative long flag names to their canonical names
var flagAliases = map[string]string{
	"start-date": "start",
	"end-date":   "end",
}

func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if canonical, ok := flagAliases[name]; ok {
		name = canonical
	}
	return pflag.NormalizedName(name)
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rofi-calendar [selection]",
		Short: "Lists upcoming Google Calendar events for rofi",
		Long: `rofi-calendar prints the events of the configured Google calendars,
one line per event, so they can be shown by a launcher such as rofi:

  rofi -show cal -modes cal:rofi-calendar

The window defaults to now until the end of the current day. Calendars are
listed in the order of the settings file.

When rofi passes the selected line back as an argument nothing is printed,
which closes the menu.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && args[0] != "" {
				return nil
			}
			return runAgenda(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().SetNormalizeFunc(normalizeFlagName)

	cmd.Flags().StringVarP(&opts.start, "start", "s", "", "Start of the window as an ISO-8601 timestamp (alias: --start-date). Default: now")
	cmd.Flags().StringVarP(&opts.end, "end", "e", "", "End of the window as an ISO-8601 timestamp (alias: --end-date). Default: end of today")
	cmd.Flags().StringVar(&opts.configPath, "config", defaultSettingsPath(), "Settings file")
	cmd.Flags().StringVar(&opts.credentialsPath, "credentials", defaultCredentialsPath(), "OAuth client secrets file downloaded from the Google Cloud console")
	cmd.Flags().StringVar(&opts.tokenPath, "token", defaultTokenPath(), "OAuth token file")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute is the main entry point for the CLI application
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd(&rootOptions{}).ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, errfmt.Format(err))
		os.Exit(1)
	}
}

func runAgenda(ctx context.Context, opts *rootOptions, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := logging.New(errOut, opts.debug)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	instrConfig.Output = errOut

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	logger.Debug("instrumentation configured", slog.Bool("enabled", provider.Enabled()))

	ctx, span := provider.Tracer(instrumentation.TracerName).Start(ctx, "rofi-calendar.list")
	defer span.End()

	if err := listAgenda(ctx, opts, logger, provider.Metrics(), out); err != nil {
		instrumentation.SetSpanError(span, err)
		logger.Debug("listing failed", logging.Err(err), slog.String("trace_id", instrumentation.GetTraceID(ctx)))
		return err
	}
	instrumentation.SetSpanSuccess(span)
	return nil
}

func listAgenda(ctx context.Context, opts *rootOptions, logger *slog.Logger, metrics *instrumentation.Metrics, out io.Writer) error {
	loader := settings.NewLoader(opts.configPath)
	cfg, err := loader.Load(settings.Overrides{
		StartDate: opts.start,
		EndDate:   opts.end,
	})
	if err != nil {
		return err
	}

	window := cfg.Window()
	logger.Debug("loaded settings",
		slog.String("path", loader.Path()),
		slog.String("timezone", cfg.Timezone),
		slog.Any("calendars", cfg.CalendarIDs),
		slog.Time("start", window.Start),
		slog.Time("end", window.End),
	)

	creds := google.NewCredentialProvider(google.ProviderConfig{
		ClientSecretsPath: opts.credentialsPath,
		Store:             google.NewFileTokenStore(opts.tokenPath),
		Logger:            logger,
		Metrics:           metrics,
	})

	httpClient, err := creds.HTTPClient(ctx)
	if err != nil {
		return err
	}

	client, err := calendar.NewClient(ctx, httpClient,
		calendar.WithLogger(logger),
		calendar.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	a := &agenda.Agenda{
		Source:   client,
		Location: cfg.Location(),
		Logger:   logging.NewSlogAdapter(logger).With(logging.Operation("agenda")),
	}

	return a.Run(ctx, out, cfg.CalendarIDs, window)
}
