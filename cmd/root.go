package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command of the starkmeta CLI.
var rootCmd = &cobra.Command{
	Use:   "starkmeta",
	Short: "Contract metadata extraction for compiled Starknet programs",
	Long: "starkmeta locates contract modules in a compiled program's semantic index " +
		"and extracts the generated external interface of each one",
}

// Execute provides an exportable function to invoke the CLI.
func Execute() error {
	return rootCmd.Execute()
}
