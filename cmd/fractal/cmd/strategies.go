package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ashesh8500/fractal/strategy"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the registered strategies",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range strategy.Names() {
			cmd.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(strategiesCmd)
}
