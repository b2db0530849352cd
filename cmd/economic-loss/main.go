package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/iwvelando/economic-loss/pkg/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// cliFlags carries the persistent flags, overridable through ECONLOSS_* environment variables.
var cliFlags = viper.New()

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "economic-loss",
		Short: "Forensic economic-loss projection and discounting",
		Long: `economic-loss projects a decedent's lost future earnings from actuarial
life, work-life and wage-growth tables and discounts them to present value
at the date of death.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", constants.DefaultConfigFile, "path to case configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("output-format", "", "type of output override: pretty, csv, json")

	cliFlags.SetEnvPrefix(constants.EnvPrefix)
	cliFlags.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cliFlags.AutomaticEnv()
	_ = cliFlags.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = cliFlags.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = cliFlags.BindPFlag("output-format", rootCmd.PersistentFlags().Lookup("output-format"))

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(tablesCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "economic-loss %s\n", version)
			return err
		},
	}
}
