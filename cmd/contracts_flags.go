package cmd

// addContractsFlags adds the various flags for the contracts command.
func addContractsFlags() {
	// Prevent alphabetical sorting of usage message
	contractsCmd.Flags().SortFlags = false

	// Crate filter
	contractsCmd.Flags().String("crate", "", "restrict the scan to the named crate")

	// Output format
	contractsCmd.Flags().Bool("json", false, "emit the extracted interfaces as JSON")

	// Metadata cache
	contractsCmd.Flags().String("cache", "", "path to a metadata cache database to update with the results")

	// Verbosity
	contractsCmd.Flags().Bool("verbose", false, "enable debug logging")
}
