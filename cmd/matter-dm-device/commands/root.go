// Package commands provides the CLI commands for matter-dm-device.
package commands

import (
	"fmt"

	"github.com/backkem/matter-dm/examples/camera"
	"github.com/backkem/matter-dm/examples/common"
	"github.com/spf13/cobra"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var opts = common.DefaultOptions()

var rootCmd = &cobra.Command{
	Use:   "matter-dm-device",
	Short: "Push AV camera on the Matter data-model provider",
	Long: `matter-dm-device brings up a Push AV camera described by a YAML file:
Basic Information on the root endpoint and a Push AV Stream Transport
server on every camera endpoint. It runs until interrupted.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := camera.NewDevice(opts)
		if err != nil {
			return err
		}
		return common.RunDevice(dev, cmd.OutOrStdout())
	},
}

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Bring the device up, print the registered clusters and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, err := camera.NewDevice(opts)
		if err != nil {
			return err
		}
		if err := dev.Start(); err != nil {
			return err
		}
		common.PrintRegistry(cmd.OutOrStdout(), dev.Registry())
		return dev.Stop()
	},
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML device description (default: built-in camera)")
	rootCmd.PersistentFlags().StringVar(&opts.StoragePath, "storage", "", "Directory for non-volatile attributes (default: in-memory)")
	rootCmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level (TRACE|DEBUG|INFO|WARN|ERROR|DISABLED)")

	// Version template
	rootCmd.SetVersionTemplate(fmt.Sprintf("matter-dm-device %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(clustersCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
