package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/starkmeta/starkmeta/abicache"
	"github.com/starkmeta/starkmeta/cmd/exitcodes"
	"github.com/starkmeta/starkmeta/compilation"
)

// cacheCmd inspects the metadata cache entries recorded for an index snapshot.
var cacheCmd = &cobra.Command{
	Use:          "cache <cache-file> <index-file>",
	Short:        "Show cached interface metadata for an index snapshot",
	Args:         cobra.ExactArgs(2),
	RunE:         cmdRunCache,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
}

// cmdRunCache runs the cache CLI command.
func cmdRunCache(cmd *cobra.Command, args []string) error {
	snapshot, err := compilation.LoadSnapshot(args[1])
	if err != nil {
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeGeneralError)
	}

	cache, err := abicache.Open(args[0])
	if err != nil {
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeGeneralError)
	}
	defer cache.Close()

	entries, err := cache.List(snapshot.ContentHash())
	if err != nil {
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeGeneralError)
	}

	// Cache listings are unordered; sort by contract name for stable output.
	names := maps.Keys(entries)
	slices.Sort(names)
	for _, name := range names {
		entry := entries[name]
		fmt.Printf("contract %s (abi trait %s)\n", name, entry.ABITrait)
		for i := range entry.Functions {
			fmt.Printf("  %s  %s\n", entry.Selectors[i], entry.Functions[i])
		}
	}
	return nil
}
