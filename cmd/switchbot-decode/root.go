package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "switchbot-decode",
	Short: "Decode SwitchBot BLE advertisements",
	Long: `switchbot-decode decodes captured SwitchBot advertisement payloads without a
Bluetooth adapter.

Payloads are hex strings as printed by the exporter trace logs or by any BLE
sniffer. Manufacturer data is passed as <company id>:<hex>, without the company
id prefix in the hex string.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			zerolog.SetGlobalLevel(zerolog.TraceLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "",
		"Output format: json, cbor or table (default table on a terminal, json otherwise)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable trace logs")
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func format() string {
	if outputFormat != "" {
		return outputFormat
	}

	if isTerminal() {
		return "table"
	}

	return "json"
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
