package semantic

import "fmt"

// CrateID identifies a single compilation unit (crate) within a Database.
type CrateID uint32

// SubmoduleID identifies a named module declared inside a parent module.
type SubmoduleID uint32

// TraitID identifies a trait declaration.
type TraitID uint32

// FunctionID identifies a free function declaration.
type FunctionID uint32

// ModuleKind discriminates the variants of a ModuleID.
type ModuleKind uint8

const (
	// ModuleCrateRoot marks the root module of a crate.
	ModuleCrateRoot ModuleKind = iota

	// ModuleSubmodule marks a named module nested inside another module.
	ModuleSubmodule
)

// ModuleID references a node in a program's module tree. It is a tagged value: either
// the root module of a crate or a submodule.
type ModuleID struct {
	// Kind indicates which of the reference fields below is valid.
	Kind ModuleKind

	// Crate is the referenced crate, valid when Kind is ModuleCrateRoot.
	Crate CrateID

	// Submodule is the referenced submodule, valid when Kind is ModuleSubmodule.
	Submodule SubmoduleID
}

// CrateRootModuleID returns the ModuleID referencing the root module of the given crate.
func CrateRootModuleID(crate CrateID) ModuleID {
	return ModuleID{Kind: ModuleCrateRoot, Crate: crate}
}

// SubmoduleModuleID returns the ModuleID referencing the given submodule.
func SubmoduleModuleID(submodule SubmoduleID) ModuleID {
	return ModuleID{Kind: ModuleSubmodule, Submodule: submodule}
}

// String returns a short, stable description of the module reference for diagnostics.
func (m ModuleID) String() string {
	if m.Kind == ModuleCrateRoot {
		return fmt.Sprintf("crate(%d)", m.Crate)
	}
	return fmt.Sprintf("submodule(%d)", m.Submodule)
}

// ItemKind discriminates the kinds of items a module can declare.
type ItemKind uint8

const (
	// ItemInvalid is the zero ItemKind; it matches no declaration, so a lookup miss
	// in a name-to-item map never aliases a real item.
	ItemInvalid ItemKind = iota

	// ItemSubmodule is a nested module declaration.
	ItemSubmodule

	// ItemTrait is a trait declaration.
	ItemTrait

	// ItemFreeFunction is a free function declaration.
	ItemFreeFunction

	// ItemStruct is a struct declaration.
	ItemStruct

	// ItemUse is a use/import declaration.
	ItemUse
)

// ItemID references a single item declared in a module. Ref is interpreted according
// to Kind (a SubmoduleID, TraitID, FunctionID, ...).
type ItemID struct {
	Kind ItemKind
	Ref  uint32
}

// AsSubmodule returns the referenced submodule, if the item is one.
func (i ItemID) AsSubmodule() (SubmoduleID, bool) {
	if i.Kind != ItemSubmodule {
		return 0, false
	}
	return SubmoduleID(i.Ref), true
}

// AsTrait returns the referenced trait, if the item is one.
func (i ItemID) AsTrait() (TraitID, bool) {
	if i.Kind != ItemTrait {
		return 0, false
	}
	return TraitID(i.Ref), true
}

// AsFreeFunction returns the referenced free function, if the item is one.
func (i ItemID) AsFreeFunction() (FunctionID, bool) {
	if i.Kind != ItemFreeFunction {
		return 0, false
	}
	return FunctionID(i.Ref), true
}

// Attribute identifies an attribute attached to a module declaration.
type Attribute struct {
	// Name is the attribute's identifier, without surrounding syntax.
	Name string
}
