package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/khrees2412/jobmatch/internal/app"
	"github.com/khrees2412/jobmatch/internal/config"
	"github.com/khrees2412/jobmatch/internal/logger"
)

var (
	cfgFile     string
	application *app.App
)

var rootCmd = &cobra.Command{
	Use:   "jobmatch",
	Short: "Score how well a resume fits a job description",
	Long: `jobmatch detects skill categories in a resume and a job description,
asks a trained classifier for a match probability and adjusts it by how many
categories the two documents share.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(cfgFile); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		log, err := logger.New(config.AppConfig.LogJSON, config.AppConfig.Debug)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		// The database lives next to the config file
		dataDir := filepath.Dir(config.GetConfigPath())
		application = app.NewApp(config.AppConfig, log, dataDir)

		cmd.SetContext(app.WithApp(cmd.Context(), application))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.jobmatch/config.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	if application != nil {
		if cerr := application.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

// getApp returns the App stored by PersistentPreRunE
func getApp(cmd *cobra.Command) *app.App {
	if a := app.FromContext(cmd.Context()); a != nil {
		return a
	}
	return application
}
