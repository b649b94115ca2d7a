package contract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starkmeta/starkmeta/compilation"
	"github.com/starkmeta/starkmeta/contract"
	"github.com/starkmeta/starkmeta/semantic"
)

// addContract declares a contract module with the given name in the parent module,
// marks it with the contract attribute, and returns its id.
func addContract(snapshot *compilation.Snapshot, parent semantic.ModuleID, name string) semantic.SubmoduleID {
	submodule := snapshot.AddSubmodule(parent, name)
	snapshot.AddAttribute(semantic.SubmoduleModuleID(submodule), contract.ContractAttribute)
	return submodule
}

// addGeneratedModule declares the generated sibling module for a contract, populated
// with an external functions submodule and an ABI trait, and returns its id.
func addGeneratedModule(snapshot *compilation.Snapshot, parent semantic.ModuleID, contractName string, functions ...string) semantic.SubmoduleID {
	generated := snapshot.AddSubmodule(parent, contract.GeneratedModulePrefix+contractName)
	generatedModule := semantic.SubmoduleModuleID(generated)

	external := snapshot.AddSubmodule(generatedModule, contract.ExternalModuleName)
	for _, function := range functions {
		snapshot.AddFreeFunction(semantic.SubmoduleModuleID(external), function)
	}
	snapshot.AddTrait(generatedModule, contract.ABITraitName)
	return generated
}

// TestFindContracts verifies discovery returns exactly the marked modules, in
// enumeration order, and ignores unmarked ones.
func TestFindContracts(t *testing.T) {
	t.Parallel()

	snapshot := compilation.NewSnapshot()
	crate := snapshot.AddCrate("hello_starknet")
	root := semantic.CrateRootModuleID(crate)

	counter := addContract(snapshot, root, "counter")
	snapshot.AddSubmodule(root, "helpers")
	ledger := addContract(snapshot, root, "ledger")
	snapshot.AddSubmodule(root, "math")

	declarations := contract.FindContracts(snapshot, snapshot.CrateIDs())
	require.Len(t, declarations, 2, "only the two marked modules should be discovered")
	assert.Equal(t, counter, declarations[0].Submodule())
	assert.Equal(t, ledger, declarations[1].Submodule())
	assert.Equal(t, semantic.SubmoduleModuleID(counter), declarations[0].ModuleID())
}

// TestFindContracts_MultipleCrates verifies crates are processed in the given order.
func TestFindContracts_MultipleCrates(t *testing.T) {
	t.Parallel()

	snapshot := compilation.NewSnapshot()
	first := snapshot.AddCrate("first")
	second := snapshot.AddCrate("second")
	a := addContract(snapshot, semantic.CrateRootModuleID(first), "a")
	b := addContract(snapshot, semantic.CrateRootModuleID(second), "b")

	declarations := contract.FindContracts(snapshot, []semantic.CrateID{second, first})
	require.Len(t, declarations, 2)
	assert.Equal(t, b, declarations[0].Submodule(), "contracts of the first listed crate should come first")
	assert.Equal(t, a, declarations[1].Submodule())
}

// TestFindContracts_SkipsUnresolvedModules verifies modules whose content failed
// analysis are silently excluded without aborting the scan.
func TestFindContracts_SkipsUnresolvedModules(t *testing.T) {
	t.Parallel()

	snapshot := compilation.NewSnapshot()
	crate := snapshot.AddCrate("hello_starknet")
	root := semantic.CrateRootModuleID(crate)

	// A broken submodule: its own attribute query fails.
	broken := addContract(snapshot, root, "broken")
	snapshot.MarkUnresolved(semantic.SubmoduleModuleID(broken))

	healthy := addContract(snapshot, root, "healthy")

	declarations := contract.FindContracts(snapshot, snapshot.CrateIDs())
	require.Len(t, declarations, 1, "the unresolved module should be skipped, not fail the scan")
	assert.Equal(t, healthy, declarations[0].Submodule())
}

// TestFindContracts_SkipsUnresolvedParents verifies a parent whose submodule query
// fails hides all of its children.
func TestFindContracts_SkipsUnresolvedParents(t *testing.T) {
	t.Parallel()

	snapshot := compilation.NewSnapshot()
	crate := snapshot.AddCrate("hello_starknet")
	root := semantic.CrateRootModuleID(crate)

	addContract(snapshot, root, "counter")
	snapshot.MarkUnresolved(root)

	assert.Empty(t, contract.FindContracts(snapshot, snapshot.CrateIDs()),
		"contracts under an unresolved parent should not be discovered")
}

// nonSubmoduleDatabase wraps a snapshot and reports a crate root among a module's
// submodules, exercising the non-submodule node edge case.
type nonSubmoduleDatabase struct {
	*compilation.Snapshot
}

func (db nonSubmoduleDatabase) ModuleSubmodules(module semantic.ModuleID) ([]semantic.ModuleID, error) {
	return []semantic.ModuleID{semantic.CrateRootModuleID(0)}, nil
}

// TestFindContracts_IgnoresNonSubmoduleNodes verifies module-tree nodes that are not
// submodules are never considered, even when enumerated.
func TestFindContracts_IgnoresNonSubmoduleNodes(t *testing.T) {
	t.Parallel()

	snapshot := compilation.NewSnapshot()
	crate := snapshot.AddCrate("hello_starknet")
	root := semantic.CrateRootModuleID(crate)
	snapshot.AddAttribute(root, contract.ContractAttribute)

	declarations := contract.FindContracts(nonSubmoduleDatabase{snapshot}, snapshot.CrateIDs())
	assert.Empty(t, declarations, "a crate root can never be a contract")
}
