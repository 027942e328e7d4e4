package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khrees2412/jobmatch/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.AppConfig
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, titleStyle.Render("Configuration"))
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Config File:"), config.GetConfigPath())
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Taxonomy:"), taxonomySource(cfg))
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Model Format:"), cfg.ModelFormat)
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Model Path:"), orNotSet(cfg.ModelPath))
		if cfg.ModelFormat == "onnx" {
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render("ONNX Runtime:"), orNotSet(cfg.ONNXLibraryPath))
			fmt.Fprintf(out, "%s %s -> %s\n", labelStyle.Render("ONNX Tensors:"), cfg.ONNXInputName, cfg.ONNXOutputName)
		}
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Metrics File:"), orNotSet(cfg.MetricsFile))
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Browser Timeout:"), cfg.BrowserTimeout)
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  jobmatch config set --key model_path --value ~/models/forest.json
  jobmatch config set --key model_format --value onnx
  jobmatch config set --key taxonomy_ref --value tech@2
  jobmatch config set --key metrics_file --value /var/lib/node_exporter/jobmatch.prom`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" {
			return fmt.Errorf("--key is required, one of: %v", config.SettableKeys)
		}

		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("updating config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration updated: %s\n", key)
		return nil
	},
}

func taxonomySource(cfg *config.Config) string {
	switch {
	case cfg.TaxonomyPath != "":
		return "file " + cfg.TaxonomyPath
	case cfg.TaxonomyRef != "":
		return "registry " + cfg.TaxonomyRef
	default:
		return "built-in default"
	}
}

func orNotSet(s string) string {
	if s == "" {
		return "✗ Not configured"
	}
	return s
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)

	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value (empty clears it)")
}
