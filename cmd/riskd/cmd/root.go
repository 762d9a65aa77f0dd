package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "riskd",
	Short: "Leveraged-position risk engine for crypto margin trading",
	Long: `Riskd is the position risk engine behind a leveraged crypto
trading platform.

It provides tools for:
  - Opening and closing leveraged positions against an in-memory ledger
  - Mark-to-market valuation, take-profit/stop-loss and liquidation
  - Replaying scripted price ticks from a configuration file
  - Auditing every transition to a CSV or SQLite journal`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
