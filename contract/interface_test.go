package contract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starkmeta/starkmeta/compilation"
	"github.com/starkmeta/starkmeta/contract"
	"github.com/starkmeta/starkmeta/semantic"
)

// newCounterProgram builds a snapshot holding one contract ("counter") with a fully
// populated generated module, and returns the snapshot and the discovered declaration.
func newCounterProgram(t *testing.T) (*compilation.Snapshot, contract.Declaration) {
	snapshot := compilation.NewSnapshot()
	crate := snapshot.AddCrate("hello_starknet")
	root := semantic.CrateRootModuleID(crate)

	addContract(snapshot, root, "counter")
	addGeneratedModule(snapshot, root, "counter", "increase_balance", "get_balance")

	declarations := contract.FindContracts(snapshot, snapshot.CrateIDs())
	require.Len(t, declarations, 1)
	return snapshot, declarations[0]
}

// TestGeneratedModule verifies the resolver finds the conventionally named sibling
// module of a contract.
func TestGeneratedModule(t *testing.T) {
	t.Parallel()

	snapshot, declaration := newCounterProgram(t)
	generated, err := contract.GeneratedModule(snapshot, declaration)
	require.NoError(t, err)
	require.Equal(t, semantic.ModuleSubmodule, generated.Kind)
	assert.Equal(t, "__generated__counter", snapshot.SubmoduleName(generated.Submodule))
}

// TestGeneratedModule_Missing verifies resolution fails with an error naming the
// exact expected key when the generated module is absent.
func TestGeneratedModule_Missing(t *testing.T) {
	t.Parallel()

	snapshot := compilation.NewSnapshot()
	crate := snapshot.AddCrate("hello_starknet")
	addContract(snapshot, semantic.CrateRootModuleID(crate), "orphan")

	declarations := contract.FindContracts(snapshot, snapshot.CrateIDs())
	require.Len(t, declarations, 1)

	_, err := contract.GeneratedModule(snapshot, declarations[0])
	require.Error(t, err)
	assert.ErrorContains(t, err, "__generated__orphan")

	var resolutionErr *contract.ResolutionError
	require.ErrorAs(t, err, &resolutionErr)
	assert.Equal(t, contract.FailureGeneratedModuleMissing, resolutionErr.Kind)
	assert.Equal(t, "__generated__orphan", resolutionErr.Key)
}

// TestGeneratedModule_WrongItemKind verifies a sibling item under the generated name
// that is not a submodule does not satisfy the convention.
func TestGeneratedModule_WrongItemKind(t *testing.T) {
	t.Parallel()

	snapshot := compilation.NewSnapshot()
	crate := snapshot.AddCrate("hello_starknet")
	root := semantic.CrateRootModuleID(crate)
	addContract(snapshot, root, "counter")
	snapshot.AddTrait(root, "__generated__counter")

	declarations := contract.FindContracts(snapshot, snapshot.CrateIDs())
	require.Len(t, declarations, 1)

	_, err := contract.GeneratedModule(snapshot, declarations[0])
	var resolutionErr *contract.ResolutionError
	require.ErrorAs(t, err, &resolutionErr)
	assert.Equal(t, contract.FailureGeneratedModuleMissing, resolutionErr.Kind)
}

// TestGeneratedModule_UnresolvedParent verifies a failed parent item query surfaces
// as a query failure rather than being swallowed.
func TestGeneratedModule_UnresolvedParent(t *testing.T) {
	t.Parallel()

	snapshot, declaration := newCounterProgram(t)
	snapshot.MarkUnresolved(snapshot.SubmoduleParent(declaration.Submodule()))

	_, err := contract.GeneratedModule(snapshot, declaration)
	var resolutionErr *contract.ResolutionError
	require.ErrorAs(t, err, &resolutionErr)
	assert.Equal(t, contract.FailureQueryFailed, resolutionErr.Kind)

	var queryErr *semantic.QueryError
	assert.ErrorAs(t, err, &queryErr, "the underlying database error should be preserved")
}

// TestExternalFunctions verifies extraction returns exactly the declared free
// functions, in order, and is idempotent.
func TestExternalFunctions(t *testing.T) {
	t.Parallel()

	snapshot, declaration := newCounterProgram(t)

	functions, err := contract.ExternalFunctions(snapshot, declaration)
	require.NoError(t, err)
	require.Len(t, functions, 2)
	assert.Equal(t, "increase_balance", snapshot.FunctionName(functions[0]))
	assert.Equal(t, "get_balance", snapshot.FunctionName(functions[1]))

	again, err := contract.ExternalFunctions(snapshot, declaration)
	require.NoError(t, err)
	assert.Equal(t, functions, again, "repeated extraction should yield identical results")
}

// TestExternalFunctions_MissingExternalModule verifies extraction fails when the
// generated module lacks the external functions submodule.
func TestExternalFunctions_MissingExternalModule(t *testing.T) {
	t.Parallel()

	snapshot := compilation.NewSnapshot()
	crate := snapshot.AddCrate("hello_starknet")
	root := semantic.CrateRootModuleID(crate)
	addContract(snapshot, root, "counter")
	generated := snapshot.AddSubmodule(root, "__generated__counter")
	snapshot.AddTrait(semantic.SubmoduleModuleID(generated), contract.ABITraitName)

	declarations := contract.FindContracts(snapshot, snapshot.CrateIDs())
	require.Len(t, declarations, 1)

	_, err := contract.ExternalFunctions(snapshot, declarations[0])
	var resolutionErr *contract.ResolutionError
	require.ErrorAs(t, err, &resolutionErr)
	assert.Equal(t, contract.FailureItemKindMismatch, resolutionErr.Kind)
	assert.Equal(t, contract.ExternalModuleName, resolutionErr.Key)

	// The ABI trait lives in its own failure domain and is still extractable.
	abiTrait, err := contract.ABITrait(snapshot, declarations[0])
	require.NoError(t, err)
	assert.Equal(t, contract.ABITraitName, snapshot.TraitName(abiTrait))
}

// TestABITrait verifies extraction returns the declared ABI trait and is idempotent.
func TestABITrait(t *testing.T) {
	t.Parallel()

	snapshot, declaration := newCounterProgram(t)

	abiTrait, err := contract.ABITrait(snapshot, declaration)
	require.NoError(t, err)
	assert.Equal(t, contract.ABITraitName, snapshot.TraitName(abiTrait))

	again, err := contract.ABITrait(snapshot, declaration)
	require.NoError(t, err)
	assert.Equal(t, abiTrait, again)
}

// TestABITrait_Missing verifies a generated module without the ABI trait fails ABI
// extraction while external function extraction is unaffected.
func TestABITrait_Missing(t *testing.T) {
	t.Parallel()

	snapshot := compilation.NewSnapshot()
	crate := snapshot.AddCrate("hello_starknet")
	root := semantic.CrateRootModuleID(crate)
	addContract(snapshot, root, "counter")
	generated := snapshot.AddSubmodule(root, "__generated__counter")
	external := snapshot.AddSubmodule(semantic.SubmoduleModuleID(generated), contract.ExternalModuleName)
	snapshot.AddFreeFunction(semantic.SubmoduleModuleID(external), "increase_balance")

	declarations := contract.FindContracts(snapshot, snapshot.CrateIDs())
	require.Len(t, declarations, 1)

	_, err := contract.ABITrait(snapshot, declarations[0])
	var resolutionErr *contract.ResolutionError
	require.ErrorAs(t, err, &resolutionErr)
	assert.Equal(t, contract.FailureItemKindMismatch, resolutionErr.Kind)
	assert.Equal(t, contract.ABITraitName, resolutionErr.Key)

	functions, err := contract.ExternalFunctions(snapshot, declarations[0])
	require.NoError(t, err, "external function extraction should not depend on the ABI trait")
	assert.Len(t, functions, 1)
}

// TestExternalFunctions_UnresolvedGeneratedModule verifies a failed item query on the
// generated module is reported, not swallowed.
func TestExternalFunctions_UnresolvedGeneratedModule(t *testing.T) {
	t.Parallel()

	snapshot, declaration := newCounterProgram(t)
	generated, err := contract.GeneratedModule(snapshot, declaration)
	require.NoError(t, err)
	snapshot.MarkUnresolved(generated)

	_, err = contract.ExternalFunctions(snapshot, declaration)
	var resolutionErr *contract.ResolutionError
	require.ErrorAs(t, err, &resolutionErr)
	assert.Equal(t, contract.FailureQueryFailed, resolutionErr.Kind)
}
