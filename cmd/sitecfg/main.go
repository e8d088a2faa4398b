// cmd/sitecfg/main.go
package main

import (
	"fmt"
	"os"

	"sitecfg/internal/config"
	"sitecfg/internal/logging"

	"github.com/spf13/cobra"
)

const defaultConfigFile = "site.yaml"

type appConfig struct {
	configPath string
	logLevel   string
	logConfig  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Operation failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	appCfg := &appConfig{}

	rootCmd := &cobra.Command{
		Use:   "sitecfg",
		Short: "sitecfg - load, check and publish a static site's configuration",
		Long: `sitecfg owns the site configuration file of a static blog: title, author,
theme color, social links, pagination and deployment prefix. It validates the
file and exports it for the site generator.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Setup(appCfg.logLevel, appCfg.logConfig)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&appCfg.configPath, "config", "c", defaultConfigFile, "Site config file (.yaml, .yml, .toml or .json).")
	flags.StringVar(&appCfg.logLevel, "log-level", "warn", "Log level (debug, info, warn, error).")
	flags.StringVar(&appCfg.logConfig, "log-config", "", "zeroconfig YAML file for logging (default $"+logging.LogConfigEnv+").")

	rootCmd.AddCommand(
		newValidateCmd(appCfg),
		newShowCmd(appCfg),
		newExportCmd(appCfg),
		newInitCmd(appCfg),
		newWatchCmd(appCfg),
	)
	return rootCmd
}

func (a *appConfig) siteConfig() (*config.SiteConfig, error) {
	siteCfg, err := config.LoadSiteConfig(a.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load site config: %w", err)
	}
	return siteCfg, nil
}
