package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	coreconfig "github.com/daeho-materials/daeho-web/core/config"
	"github.com/daeho-materials/daeho-web/pkg/utils"
)

var rootCmd = &cobra.Command{
	Use:   "daeho-web",
	Short: "Backend for the Daeho Materials marketing site",
	Long: `Bilingual (KO/EN) marketing site backend: content-managed design
settings with history, import/export and schema migration, a cached font
catalog, and the contact-form pipeline.`,
}

func init() {
	// Load .env and bind environment variables before any subcommand runs.
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cobra.OnInitialize(initEnvConfig)
}

// initEnvConfig promotes selected viper-bound values into the structured
// config so flags and .env files win over plain process environment.
func initEnvConfig() {
	if _, err := coreconfig.LoadConfig(); err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	if envPort := viper.GetString("app_port"); envPort != "" {
		coreconfig.Global.App.Port = envPort
	}
	if viper.IsSet("app_debug") {
		coreconfig.Global.App.Debug = viper.GetBool("app_debug")
	}

	if coreconfig.Global.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Errorln(err)
		os.Exit(1)
	}
}
