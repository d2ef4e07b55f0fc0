package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tgienger/taskui/internal/api"
	"github.com/tgienger/taskui/internal/config"
	"github.com/tgienger/taskui/internal/db"
	"github.com/tgienger/taskui/internal/logging"
	"github.com/tgienger/taskui/internal/ui"
	"github.com/tgienger/taskui/internal/ui/route"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options collects the command line flags
type options struct {
	configPath string
	apiURL     string
	startRoute string
	pageSize   int
	theme      string
	logLevel   string
	initConfig bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:     "taskui",
		Short:   "A terminal client for a task backend",
		Long:    "taskui lists, creates, edits and deletes tasks stored by a JSON backend such as taskd.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if opts.initConfig {
				path := opts.configPath
				if path == "" {
					path = config.DefaultPath()
				}
				if err := cfg.SaveTo(path); err != nil {
					return err
				}
				fmt.Fprintf(stdout, "Wrote %s\n", path)
				return nil
			}
			return run(cfg, opts.startRoute)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default "+config.DefaultPath()+")")
	cmd.Flags().StringVar(&opts.apiURL, "api-url", "", "Backend base URL, overrides api.base_url")
	cmd.Flags().StringVarP(&opts.startRoute, "route", "r", route.ListPath, "View to open: /, /create or /edit/{id}")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", 0, "Rows per page (5, 10, 25 or -1 for all)")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "Color theme: dark or light")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level, overrides log.level")
	cmd.Flags().BoolVar(&opts.initConfig, "init-config", false, "Write the effective configuration to the config file and exit")

	return cmd
}

// loadConfig reads the config file and environment, then applies flags
// the user actually set.
func loadConfig(cmd *cobra.Command, opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.API.BaseURL = opts.apiURL
	}
	if flags.Changed("page-size") {
		cfg.UI.PageSize = opts.pageSize
	}
	if flags.Changed("theme") {
		cfg.UI.Theme = opts.theme
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, cfg.Validate()
}

func run(cfg *config.Config, startRoute string) error {
	r, err := route.Parse(startRoute)
	if err != nil {
		return err
	}

	log, logFile, err := logging.NewFile(cfg.Log)
	if err != nil {
		return err
	}
	defer logFile.Close()

	client, err := api.NewClient(cfg.API.BaseURL,
		api.WithLogger(log),
		api.WithTimeout(cfg.API.Timeout.Duration),
	)
	if err != nil {
		return err
	}

	dbPath := cfg.UI.DBPath
	if dbPath == "" {
		if dbPath, err = db.DefaultPath("taskui.db"); err != nil {
			return fmt.Errorf("locating settings database: %w", err)
		}
	}
	settings, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening settings database: %w", err)
	}
	defer settings.Close()

	log.WithField("api", cfg.API.BaseURL).Info("starting taskui")

	app := ui.NewApp(client, settings, log, ui.Options{
		PageSize: cfg.UI.PageSize,
		Theme:    cfg.UI.Theme,
		Route:    r,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}
