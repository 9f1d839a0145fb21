package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nao1215/userscan/internal/catalog"
	"github.com/nao1215/userscan/internal/classify"
	"github.com/nao1215/userscan/internal/config"
	"github.com/nao1215/userscan/internal/engine"
	"github.com/nao1215/userscan/internal/enrich"
	"github.com/nao1215/userscan/internal/log"
	"github.com/nao1215/userscan/internal/model"
	"github.com/nao1215/userscan/internal/probe"
	"github.com/nao1215/userscan/internal/proxy"
	"github.com/nao1215/userscan/internal/report"
	"github.com/nao1215/userscan/internal/variation"
)

// ErrCatalogNotFound is returned when no site catalog could be located.
var ErrCatalogNotFound = errors.New("no site catalog found (run 'userscan init' to create one)")

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [flags] USERNAME [USERNAME...]",
		Short: "Probe the site catalog for the given usernames",
		Long: `Scan probes every site in the catalog for each username and reports
where matching profiles exist.

Detection is per-site: status codes, body patterns, and redirect targets
are combined as the catalog entry specifies. Sites flagged unreliable
have their verdicts downgraded to uncertain unless --strict is set.

Examples:
  # Scan one username with the default catalog
  userscan scan alice

  # Scan several usernames and their common variations
  userscan scan --variants alice bob

  # Route all probes through Tor and save a JSON report
  userscan scan --tor -o report.json alice

  # Bound the whole run to 30 seconds
  userscan scan --deadline 30s alice`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScanCmd,
	}

	cmd.Flags().StringP("sites", "s", "", "Site catalog file (default: sites.yaml in cwd or XDG config dir)")
	cmd.Flags().StringP("config", "c", "", "Configuration file path (default: .userscan in cwd or home dir)")
	cmd.Flags().Bool("variants", false, "Also probe common variations of each username")
	cmd.Flags().Int("max-variants", config.DefaultMaxVariants, "Maximum generated variations per run")
	cmd.Flags().StringP("proxy", "p", "", "Proxy endpoint (socks5://host:port or http://host:port)")
	cmd.Flags().Bool("tor", false, "Route probes through an embedded Tor daemon")
	cmd.Flags().Duration("tor-timeout", config.DefaultTorStartupTimeout, "Maximum time to wait for Tor bootstrap")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Per-request timeout")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency, "Maximum probe tasks in flight")
	cmd.Flags().Int("conn-limit", config.DefaultConnLimit, "Maximum simultaneously open connections")
	cmd.Flags().Duration("deadline", 0, "Overall run deadline (0 = none)")
	cmd.Flags().Bool("strict", false, "Report unreliable sites' verdicts as-is instead of uncertain")
	cmd.Flags().Bool("include-skipped", false, "Probe sites marked skip in the catalog")
	cmd.Flags().Bool("show-uncertain", false, "Include uncertain results in the report")
	cmd.Flags().Bool("exif", false, "Extract EXIF metadata from avatars of found profiles")
	cmd.Flags().BoolP("json", "j", false, "Write the report as JSON to stdout")
	cmd.Flags().BoolP("markdown", "m", false, "Write the report as Markdown to stdout")
	cmd.Flags().StringP("output", "o", "", "Also write the report to a file (.json or .csv)")
	cmd.Flags().String("user-agent", "", "Override the User-Agent header")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)

	// Cancel the run on SIGINT/SIGTERM. In-flight probes get the grace
	// period to finish; undispatched tasks are reported as skipped.
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return runScan(ctx, cmd, cfg, logger)
}

// buildConfig assembles the scan configuration: defaults, then the
// .userscan file when present, then explicit flags on top.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	if found := config.FindConfigFile(configPath); found != "" {
		cf, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		cf.Apply(cfg)
	} else if configPath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	cfg.Usernames = args

	flags := cmd.Flags()
	if flags.Changed("sites") {
		cfg.CatalogPath, _ = flags.GetString("sites")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("conn-limit") {
		cfg.ConnLimit, _ = flags.GetInt("conn-limit")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("proxy") {
		cfg.Proxy, _ = flags.GetString("proxy")
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent, _ = flags.GetString("user-agent")
	}
	if flags.Changed("max-variants") {
		cfg.MaxVariants, _ = flags.GetInt("max-variants")
	}
	if flags.Changed("tor-timeout") {
		cfg.TorStartupTimeout, _ = flags.GetDuration("tor-timeout")
	}

	cfg.Deadline, _ = flags.GetDuration("deadline")
	cfg.UseTor, _ = flags.GetBool("tor")
	if flags.Changed("strict") {
		cfg.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("include-skipped") {
		cfg.IncludeSkipped, _ = flags.GetBool("include-skipped")
	}
	cfg.ShowUncertain, _ = flags.GetBool("show-uncertain")
	cfg.Variants, _ = flags.GetBool("variants")
	cfg.ExtractEXIF, _ = flags.GetBool("exif")
	cfg.JSONReport, _ = flags.GetBool("json")
	cfg.MarkdownReport, _ = flags.GetBool("markdown")
	cfg.OutputFile, _ = flags.GetString("output")
	cfg.Verbose, _ = cmd.Flags().GetBool("verbose")

	return cfg, nil
}

// runScan performs the scan: load the catalog, build the probe stack,
// run the engine, optionally enrich, and write the report.
func runScan(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) error {
	catalogPath := config.FindCatalog(cfg.CatalogPath)
	if catalogPath == "" {
		if cfg.CatalogPath != "" {
			return fmt.Errorf("%w: %s", ErrCatalogNotFound, cfg.CatalogPath)
		}
		return ErrCatalogNotFound
	}

	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}
	logger.Debug("catalog loaded", "path", catalogPath, "sites", cat.Len())

	usernames := cfg.Usernames
	if cfg.Variants {
		usernames = variation.Expand(usernames, cfg.MaxVariants)
		logger.Debug("variations generated", "usernames", len(usernames))
	}

	transport, torCleanup, err := buildTransport(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if torCleanup != nil {
		defer torCleanup()
	}

	client := probe.NewClient(
		probe.WithTransport(transport),
		probe.WithConnLimit(cfg.ConnLimit),
		probe.WithUserAgent(cfg.UserAgent),
		probe.WithTimeout(cfg.Timeout),
		probe.WithMaxBodyBytes(cfg.MaxBodyBytes),
		probe.WithLogger(logger),
	)

	engineOpts := []engine.Option{
		engine.WithConcurrency(cfg.Concurrency),
		engine.WithClassifier(classify.Classifier{Strict: cfg.Strict}),
		engine.WithIncludeSkipped(cfg.IncludeSkipped),
		engine.WithDeadline(cfg.Deadline),
		engine.WithGracePeriod(cfg.GracePeriod),
		engine.WithLogger(logger),
	}
	if !cfg.JSONReport && !cfg.MarkdownReport {
		// Stream hits to stderr as they arrive; the report itself goes to
		// stdout once the run completes.
		progress := cmd.ErrOrStderr()
		engineOpts = append(engineOpts, engine.WithOnVerdict(func(tv model.TaskVerdict) {
			if tv.Verdict.Kind == model.VerdictFound {
				fmt.Fprintf(progress, "%s %s: %s\n", color.GreenString("[+]"), tv.Task.Username, tv.ProfileURL)
			}
		}))
	}

	eng := engine.New(cat, usernames, engine.NewHTTPProber(client), engineOpts...)

	result, err := eng.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.ExtractEXIF {
		enricher := enrich.NewAvatarEXIF(
			&http.Client{Transport: transport, Timeout: cfg.Timeout},
			enrich.WithLogger(logger),
		)
		enricher.Enrich(ctx, result, cat)
	}

	return outputReport(cmd, cfg, result)
}

// buildTransport constructs the HTTP transport for all probes, starting
// the embedded Tor daemon when requested. The returned cleanup function
// is non-nil only when Tor was started.
func buildTransport(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*http.Transport, func(), error) {
	if !cfg.UseTor {
		t, err := proxy.NewTransport(cfg.Proxy)
		return t, nil, err
	}

	logger.Debug("starting embedded Tor daemon")
	tor := proxy.NewEmbeddedTor(proxy.WithStartupTimeout(cfg.TorStartupTimeout))
	if err := tor.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start embedded Tor: %w", err)
	}

	t, err := tor.Transport()
	if err != nil {
		_ = tor.Stop()
		return nil, nil, err
	}
	logger.Debug("embedded Tor ready", "socks", tor.SocksAddr())

	cleanup := func() {
		if err := tor.Stop(); err != nil {
			logger.Warn("failed to stop embedded Tor", "error", err)
		}
	}
	return t, cleanup, nil
}

// outputReport writes the report to stdout in the selected format and,
// when -o is set, additionally to a file whose format follows its
// extension.
func outputReport(cmd *cobra.Command, cfg *config.Config, result *model.RunReport) error {
	var writers []report.Writer

	switch {
	case cfg.JSONReport:
		writers = append(writers, report.NewFullJSONWriter(cmd.OutOrStdout(), getVersion(), report.WithPrettyPrint()))
	case cfg.MarkdownReport:
		var opts []report.MarkdownWriterOption
		if cfg.ShowUncertain {
			opts = append(opts, report.WithUncertainSection())
		}
		writers = append(writers, report.NewMarkdownWriter(cmd.OutOrStdout(), opts...))
	default:
		var opts []report.ConsoleWriterOption
		if cfg.ShowUncertain {
			opts = append(opts, report.WithUncertain())
		}
		writers = append(writers, report.NewConsoleWriter(cmd.OutOrStdout(), opts...))
	}

	if cfg.OutputFile != "" {
		fw, cleanup, err := fileWriter(cfg.OutputFile)
		if err != nil {
			return err
		}
		defer cleanup()
		writers = append(writers, fw)
	}

	if _, err := report.NewMultiWriter(writers...).Write(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// fileWriter opens the -o target and picks a writer by extension.
func fileWriter(path string) (report.Writer, func(), error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	cleanup := func() { _ = f.Close() }

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return report.NewCSVWriter(f), cleanup, nil
	case ".json":
		return report.NewFullJSONWriter(f, getVersion(), report.WithPrettyPrint()), cleanup, nil
	default:
		cleanup()
		return nil, nil, fmt.Errorf("unsupported output extension %q (use .json or .csv)", filepath.Ext(path))
	}
}
