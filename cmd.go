package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "A terminal dashboard and CLI for your income and bank statements",
	Long: `findash tracks income records and bank account statements kept by a
finance backend. Run it without a subcommand for the dashboard, or use the
subcommands to script it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		// Setup logging
		log.SetLevel(log.InfoLevel)
		if cfg.Debug {
			log.SetLevel(log.DebugLevel)
		}

		a, err := newApp(cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.SetContext(withApp(ctx, a))
		return nil
	},
	RunE: runWithApp(func(cmd *cobra.Command, _ []string, a *app) error {
		// Start TUI when no subcommands are provided
		return runTUI(cmd.Context(), a)
	}),
}

// configCmd prints the effective configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  `Print the configuration findash resolved from flags, environment and config file, with secrets masked.`,
	RunE: runWithApp(func(cmd *cobra.Command, _ []string, a *app) error {
		out, err := a.cfg.TOML()
		if err != nil {
			return fmt.Errorf("failed to render configuration: %w", err)
		}

		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# config file: %s\n", used)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "# no config file found")
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	}),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Could not load .env file", "error", err)
	}

	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is findash.toml in the usual places)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("base-url", "", "finance API base URL")
	rootCmd.PersistentFlags().String("currency", "", "currency code used to display amounts")
	rootCmd.PersistentFlags().String("session-file", "", "where the login token is stored")

	// Bind flags to viper
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("currency", rootCmd.PersistentFlags().Lookup("currency"))
	_ = viper.BindPFlag("session_file", rootCmd.PersistentFlags().Lookup("session-file"))

	// Add subcommands
	rootCmd.AddCommand(
		newLoginCmd(),
		newSignupCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newIncomeCmd(),
		newAccountsCmd(),
		newTransactionsCmd(),
		newCategoriesCmd(),
		newNetWorthCmd(),
		configCmd,
	)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigDefaults(viper.GetViper())

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(appName)
		viper.SetConfigType("toml")
		for _, path := range configSearchPaths() {
			viper.AddConfigPath(path)
		}
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		log.Debug("Config file not found or error reading", "error", err)
		return
	}

	log.Debug("Using config file", "file", viper.ConfigFileUsed())
}
