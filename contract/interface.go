package contract

import (
	"github.com/starkmeta/starkmeta/semantic"
)

// GeneratedModule returns the module the code generation stage synthesized for the
// given contract. The generated module is a sibling of the contract's module, named
// GeneratedModulePrefix followed by the contract's simple name.
func GeneratedModule(db semantic.Database, declaration Declaration) (semantic.ModuleID, error) {
	parent := db.SubmoduleParent(declaration.submodule)
	name := GeneratedModulePrefix + db.SubmoduleName(declaration.submodule)

	items, err := db.ModuleItems(parent)
	if err != nil {
		return semantic.ModuleID{}, newQueryError(name, err)
	}
	generated, ok := items[name].AsSubmodule()
	if !ok {
		return semantic.ModuleID{}, newMissingError(name)
	}
	return semantic.SubmoduleModuleID(generated), nil
}

// ExternalFunctions returns the externally callable functions generated for the given
// contract, in declaration order. The result references the free functions declared
// in the generated module's external submodule.
func ExternalFunctions(db semantic.Database, declaration Declaration) ([]semantic.FunctionID, error) {
	generated, err := GeneratedModule(db, declaration)
	if err != nil {
		return nil, err
	}

	items, err := db.ModuleItems(generated)
	if err != nil {
		return nil, newQueryError(ExternalModuleName, err)
	}
	external, ok := items[ExternalModuleName].AsSubmodule()
	if !ok {
		return nil, newKindMismatchError(ExternalModuleName)
	}

	functions, err := db.ModuleFreeFunctions(semantic.SubmoduleModuleID(external))
	if err != nil {
		return nil, newQueryError(ExternalModuleName, err)
	}
	return functions, nil
}

// ABITrait returns the trait describing the given contract's external interface.
func ABITrait(db semantic.Database, declaration Declaration) (semantic.TraitID, error) {
	generated, err := GeneratedModule(db, declaration)
	if err != nil {
		return 0, err
	}

	items, err := db.ModuleItems(generated)
	if err != nil {
		return 0, newQueryError(ABITraitName, err)
	}
	abiTrait, ok := items[ABITraitName].AsTrait()
	if !ok {
		return 0, newKindMismatchError(ABITraitName)
	}
	return abiTrait, nil
}
