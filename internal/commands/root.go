package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"evalgo.org/labops/internal/config"
	"evalgo.org/labops/internal/inventory"
	"evalgo.org/labops/internal/logging"
	"evalgo.org/labops/internal/render"
	"evalgo.org/labops/internal/version"
)

var (
	cfgFile   string
	cfg       *config.Config
	logLevel  string
	logFormat string
	noCache   bool
	refresh   bool
)

var rootCmd = &cobra.Command{
	Use:   "labops [asset-id | hardware-id]",
	Short: "Look up lab hosts, racks and switches",
	Long: `labops queries the lab inventory service.

Pass an asset ID or a hardware ID to look up a single host, or use one of
the subcommands to list and filter the inventory.

Examples:
  labops 100234
  labops SVR.ABC1234
  labops hosts --platform monza --no-bmc
  labops rack SEA85.159.R6-L01
  labops tui`,
	Args:              cobra.MaximumNArgs(1),
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
	RunE:              runLookup,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to every RunE.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (auto, console, json)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "bypass the response cache entirely")
	rootCmd.PersistentFlags().BoolVar(&refresh, "refresh", false, "ignore cached responses and fetch fresh data")

	rootCmd.AddCommand(hostsCmd)
	rootCmd.AddCommand(racksCmd)
	rootCmd.AddCommand(rackCmd)
	rootCmd.AddCommand(rackContentsCmd)
	rootCmd.AddCommand(switchesCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "%s" .Version}}
`)
}

// initConfig loads configuration and sets up logging before any command
// runs. Flags win over file and environment values.
func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	return logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

func runLookup(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	src, closeSource, err := newSource()
	if err != nil {
		return err
	}
	defer closeSource()

	host, err := src.Lookup(cmd.Context(), args[0])
	if err != nil {
		var lerr *inventory.LookupError
		if errors.As(err, &lerr) && lerr.NotFound() {
			fmt.Fprintln(cmd.OutOrStdout(), render.Error(lerr.Error()))
			return nil
		}
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), render.Host(*host))
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, info.String())

		if cmd.Flag("verbose").Changed {
			fmt.Fprintf(out, "\nDetails:\n")
			fmt.Fprintf(out, "  Version:    %s\n", info.Version)
			fmt.Fprintf(out, "  Git Commit: %s\n", info.GitCommit)
			fmt.Fprintf(out, "  Built:      %s\n", info.BuildTime)
			fmt.Fprintf(out, "  Go Version: %s\n", info.GoVersion)
			fmt.Fprintf(out, "  Platform:   %s\n", info.Platform)
		}
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "verbose version output")
}
