package main

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rafabd1/treesub/internal/config"
)

var log = logrus.WithField("prefix", "main")

var (
	version = "dev"
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:          "treesub",
	Short:        "Slash commands nested in groups, declared one handler at a time",
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./config.yaml or ~/.treesub/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	viper.SetEnvPrefix("treesub")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindEnv("token")

	rootCmd.AddCommand(runCmd, inspectCmd, configCmd)
}

// loadConfig reads the config file and applies flag and environment overrides.
func loadConfig(*cobra.Command, []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	if token := viper.GetString("token"); token != "" {
		cfg.Discord.Token = token
	}
	if level := viper.GetString("log_level"); level != "" {
		cfg.Log.Level = level
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", cfg.Log.Level)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}
