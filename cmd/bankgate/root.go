package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MrEthical07/bankgate/internal/config"
)

var (
	cfgFile string
	v       = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "bankgate",
	Short: "Phegon Bank web front end",
	Long: `bankgate serves the Phegon Bank pages. It keeps browser sessions, gates customer
and privileged pages by role, and forwards every banking operation to the banking API.

Configuration is read from bankgate.yaml in the current directory,
$HOME/.bankgate/ or /etc/bankgate/. Environment variables override config values
with the BANKGATE_ prefix, for example BANKGATE_API_BASE_URL=https://bank.example/api.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() { config.InitViper(v, cfgFile) })
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./bankgate.yaml)")
}
