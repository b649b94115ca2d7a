// Package contract locates the contract-annotated modules of an analyzed program and
// extracts the interface metadata a prior code generation stage derived for them: the
// externally callable function set and the ABI trait.
package contract

import (
	"github.com/starkmeta/starkmeta/semantic"
)

// Marker names shared with the code generation stage. The expansion pass that
// synthesizes each contract's generated module files the derived interface under
// these names.
const (
	// ContractAttribute is the attribute marking a module as a contract.
	ContractAttribute = "contract"

	// ABITraitName is the name the ABI trait is filed under inside a generated module.
	ABITraitName = "__abi"

	// ExternalModuleName is the name of the submodule holding the external function
	// wrappers inside a generated module.
	ExternalModuleName = "__external"

	// GeneratedModulePrefix is prepended to a contract's name to form the name of its
	// generated sibling module.
	GeneratedModulePrefix = "__generated__"
)

// Declaration represents a declaration of a contract: a module annotated with the
// contract attribute. Declarations are created by FindContracts and are immutable.
type Declaration struct {
	// submodule is the module that defines the contract.
	submodule semantic.SubmoduleID
}

// Submodule returns the submodule that defines the contract.
func (d Declaration) Submodule() semantic.SubmoduleID {
	return d.submodule
}

// ModuleID returns the contract's defining module as a module-tree reference.
func (d Declaration) ModuleID() semantic.ModuleID {
	return semantic.SubmoduleModuleID(d.submodule)
}

// FindContracts scans the given crates for modules annotated as contracts and returns
// their declarations. Crates are processed in the given order and modules in the
// order the database enumerates them, so contract numbering downstream is
// reproducible across runs on unchanged input.
//
// Modules whose submodules or attributes fail to resolve are skipped rather than
// failing the scan; the analysis errors behind those failures have already been
// reported through the database's own diagnostics channel.
func FindContracts(db semantic.Database, crates []semantic.CrateID) []Declaration {
	var contracts []Declaration
	for _, crate := range crates {
		for _, module := range db.CrateModules(crate) {
			submodules, err := db.ModuleSubmodules(module)
			if err != nil {
				continue
			}

			for _, submodule := range submodules {
				if submodule.Kind != semantic.ModuleSubmodule {
					continue
				}
				attributes, err := db.ModuleAttributes(submodule)
				if err != nil {
					continue
				}
				for _, attribute := range attributes {
					if attribute.Name == ContractAttribute {
						contracts = append(contracts, Declaration{submodule: submodule.Submodule})
						break
					}
				}
			}
		}
	}
	return contracts
}
