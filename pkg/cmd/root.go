// Package cmd wires the sortbot CLI: flag/env/config binding and the
// run, monitor, and calibrate subcommands.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	calibrateCmd "github.com/brickbot/sortbot/pkg/cmd/calibrate"
	monitorCmd "github.com/brickbot/sortbot/pkg/cmd/monitor"
	runCmd "github.com/brickbot/sortbot/pkg/cmd/run"
	"github.com/brickbot/sortbot/pkg/config"
	"github.com/brickbot/sortbot/pkg/log"
	"github.com/brickbot/sortbot/version"
)

const envPrefix = "SORTBOT"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:     "sortbot",
	Short:   "Drives the sorter rover onto a colored target zone",
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Init(config.LogLevel, config.LogFormat)
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./sortbot.yml)")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel, "log-level", "info",
		"log level (zap level names)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat, "log-format", "console",
		"log format (console or json)")
	rootCmd.PersistentFlags().StringVar(&config.Backend, "backend", "brick",
		"hardware backend (brick, feetech, mock)")
	rootCmd.PersistentFlags().StringVar(&config.BrickPort, "port", "/dev/ttyACM0",
		"serial port of the controller board")
	rootCmd.PersistentFlags().StringVar(&config.WheelPort, "wheel-port", "/dev/ttyUSB0",
		"serial port of the feetech wheel bus")
	rootCmd.PersistentFlags().IntVar(&config.LeftID, "left-id", 1,
		"left wheel servo ID on the feetech bus")
	rootCmd.PersistentFlags().IntVar(&config.RightID, "right-id", 2,
		"right wheel servo ID on the feetech bus")

	rootCmd.AddCommand(runCmd.NewRunCmd())
	rootCmd.AddCommand(monitorCmd.NewMonitorCmd())
	rootCmd.AddCommand(calibrateCmd.NewCalibrateCmd())
}

// initConfig reads the config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("sortbot")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// bindFlags maps each flag to its environment variable equivalent, e.g.
// --stop-distance-mm to SORTBOT_STOP_DISTANCE_MM.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not set flag %s: %v", f.Name, err)
			}
		}
	})
}
