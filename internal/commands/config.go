package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configOutput string
	configForce  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runShowConfig,
}

var initConfigCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	RunE:  runInitConfig,
}

func init() {
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(initConfigCmd)

	initConfigCmd.Flags().StringVarP(&configOutput, "output", "o", "config.yaml", "file to write")
	initConfigCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	defaultConfig := fmt.Sprintf(`# labops configuration

api:
  base_url: http://127.0.0.1:8000
  key: mock-secret-token
  timeout: 30s
  insecure_skip_verify: true
  rate_limit: 10
  burst: 5

cache:
  enabled: true
  path: %s
  ttl: 300s

logging:
  level: warn
  format: auto
  output: stderr

tui:
  log_file: %s
`, filepath.Join(os.TempDir(), "labops_cache.db"), filepath.Join(os.TempDir(), "labops_tui.log"))

	if !configForce {
		if _, err := os.Stat(configOutput); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configOutput)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	if err := os.WriteFile(configOutput, []byte(defaultConfig), 0o644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", configOutput)
	return nil
}
