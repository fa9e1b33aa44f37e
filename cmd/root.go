// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/strix/internal/config"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "strix",
	Short: "Strix - OpenFlow packet classification core",
	Long: `Strix is the packet-classification core of an SDN controller.
It decodes frames delivered by packet-in events layer by layer (Ethernet,
802.1Q, IPv4, ARP, TCP, UDP, DHCP) without copying the packet, and exposes
every decoded field through canonical OXM identifiers for match evaluation
and in-place rewriting.

The inspect command replays a pcap capture through the classifier for
offline analysis.`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (default: built-in defaults)")

	// Add subcommands
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig() (*config.StrixConfig, error) {
	if configFile == "" {
		return config.Default(), nil
	}
	return config.Load(configFile)
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
