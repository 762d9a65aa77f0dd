package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the riskd CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("riskd version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
