package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the fractal CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fractal version %s\n", version)
		fmt.Println("A portfolio backtesting engine with pluggable strategies")
		fmt.Println("https://github.com/ashesh8500/fractal")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
