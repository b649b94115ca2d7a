package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/starkmeta/starkmeta/abicache"
	"github.com/starkmeta/starkmeta/cmd/exitcodes"
	"github.com/starkmeta/starkmeta/compilation"
	"github.com/starkmeta/starkmeta/contract"
	"github.com/starkmeta/starkmeta/logging"
	"github.com/starkmeta/starkmeta/semantic"
	"github.com/starkmeta/starkmeta/utils"
)

// contractsCmd scans a semantic index snapshot for contracts and prints the external
// interface generated for each one.
var contractsCmd = &cobra.Command{
	Use:          "contracts <index-file>",
	Short:        "List contracts and their generated external interfaces",
	Args:         cobra.ExactArgs(1),
	RunE:         cmdRunContracts,
	SilenceUsage: true,
}

func init() {
	addContractsFlags()
	rootCmd.AddCommand(contractsCmd)
}

// cmdRunContracts runs the contracts CLI command.
func cmdRunContracts(cmd *cobra.Command, args []string) error {
	crateFilter, err := cmd.Flags().GetString("crate")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	cachePath, err := cmd.Flags().GetString("cache")
	if err != nil {
		return err
	}

	// Console logging interleaves badly with JSON output, so disable it there.
	logger, err := loggerForFlags(cmd.Flags(), !jsonOutput)
	if err != nil {
		return err
	}
	logger = logger.NewSubLogger("module", "contracts")

	snapshot, err := compilation.LoadSnapshot(args[0])
	if err != nil {
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeGeneralError)
	}

	crates, err := selectCrates(snapshot, crateFilter)
	if err != nil {
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeGeneralError)
	}

	declarations := contract.FindContracts(snapshot, crates)
	logger.Info("discovered ", len(declarations), " contract(s) across ", len(crates), " crate(s)")

	report := make([]abicache.Entry, 0, len(declarations))
	for _, declaration := range declarations {
		entry, err := extractEntry(snapshot, declaration)
		if err != nil {
			name := snapshot.SubmoduleName(declaration.Submodule())
			return exitcodes.NewErrorWithExitCode(
				errors.WithMessagef(err, "contract %s", name), exitcodes.ExitCodeExtractionError)
		}
		report = append(report, entry)
	}

	if cachePath != "" {
		if err := persistEntries(cachePath, snapshot.ContentHash(), report); err != nil {
			return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeGeneralError)
		}
		logger.Info("cached ", len(report), " entries in ", cachePath)
	}

	if jsonOutput {
		encoded, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return exitcodes.NewErrorWithExitCode(errors.WithStack(err), exitcodes.ExitCodeGeneralError)
		}
		fmt.Println(string(encoded))
		return nil
	}

	for _, entry := range report {
		fmt.Printf("contract %s (abi trait %s)\n", entry.Contract, entry.ABITrait)
		for i := range entry.Functions {
			fmt.Printf("  %s  %s\n", entry.Selectors[i], entry.Functions[i])
		}
	}
	return nil
}

// loggerForFlags builds a command logger at the level the flag set asks for.
func loggerForFlags(flags *pflag.FlagSet, consoleEnabled bool) (*logging.Logger, error) {
	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return nil, err
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return logging.NewLogger(level, consoleEnabled), nil
}

// selectCrates resolves the set of crates to scan, honoring the optional name filter.
func selectCrates(snapshot *compilation.Snapshot, filter string) ([]semantic.CrateID, error) {
	crates := snapshot.CrateIDs()
	if filter == "" {
		return crates, nil
	}
	for _, crate := range crates {
		if snapshot.CrateName(crate) == filter {
			return []semantic.CrateID{crate}, nil
		}
	}
	return nil, errors.Errorf("no crate named %q in the index snapshot", filter)
}

// extractEntry resolves one contract's generated interface into a cacheable entry.
func extractEntry(snapshot *compilation.Snapshot, declaration contract.Declaration) (abicache.Entry, error) {
	functions, err := contract.ExternalFunctions(snapshot, declaration)
	if err != nil {
		return abicache.Entry{}, err
	}
	abiTrait, err := contract.ABITrait(snapshot, declaration)
	if err != nil {
		return abicache.Entry{}, err
	}

	entry := abicache.Entry{
		Contract: snapshot.SubmoduleName(declaration.Submodule()),
		ABITrait: snapshot.TraitName(abiTrait),
	}
	for _, function := range functions {
		name := snapshot.FunctionName(function)
		entry.Functions = append(entry.Functions, name)
		entry.Selectors = append(entry.Selectors, utils.Selector(name).Hex())
	}
	return entry, nil
}

// persistEntries writes the extraction results to the metadata cache.
func persistEntries(cachePath string, contentHash string, entries []abicache.Entry) error {
	cache, err := abicache.Open(cachePath)
	if err != nil {
		return err
	}
	defer cache.Close()

	for _, entry := range entries {
		if err := cache.Put(contentHash, entry); err != nil {
			return err
		}
	}
	return nil
}
