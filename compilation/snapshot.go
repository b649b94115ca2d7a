// Package compilation loads the semantic index artifact the analysis stage of the
// pipeline emits for a compiled program, and exposes it through the
// semantic.Database query interface.
package compilation

import (
	"os"

	"github.com/Masterminds/semver"
	"github.com/fxamacker/cbor"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/starkmeta/starkmeta/semantic"
)

// SnapshotFormatVersion is the artifact format version written by this build.
const SnapshotFormatVersion = "1.0.0"

// snapshotFormatConstraint describes the artifact format versions this reader
// understands.
const snapshotFormatConstraint = "~1"

// ModuleContent holds the analyzed content of a single module.
type ModuleContent struct {
	// Unresolved marks a module whose content carried analysis errors; the fallible
	// queries fail for such a module.
	Unresolved bool `cbor:"unresolved"`

	// Attributes are the attributes attached to the module's declaration.
	Attributes []semantic.Attribute `cbor:"attributes"`

	// ItemNames and Items hold the module's declared items in declaration order;
	// ItemNames[i] is the name Items[i] is filed under.
	ItemNames []string          `cbor:"itemNames"`
	Items     []semantic.ItemID `cbor:"items"`

	// FreeFunctions are the free functions declared directly in the module, in
	// declaration order.
	FreeFunctions []semantic.FunctionID `cbor:"freeFunctions"`

	// Submodules are the submodules declared in the module, in declaration order.
	Submodules []semantic.SubmoduleID `cbor:"submodules"`
}

// CrateRecord describes one compilation unit in a snapshot.
type CrateRecord struct {
	// Name is the crate's name.
	Name string `cbor:"name"`

	// Root is the content of the crate's root module.
	Root ModuleContent `cbor:"root"`
}

// SubmoduleRecord describes one named submodule in a snapshot.
type SubmoduleRecord struct {
	// Name is the submodule's simple name.
	Name string `cbor:"name"`

	// Parent is the module the submodule is declared in.
	Parent semantic.ModuleID `cbor:"parent"`

	// Content is the submodule's analyzed content.
	Content ModuleContent `cbor:"content"`
}

// TraitRecord describes one trait declaration in a snapshot.
type TraitRecord struct {
	// Name is the trait's simple name.
	Name string `cbor:"name"`

	// Module is the module the trait is declared in.
	Module semantic.ModuleID `cbor:"module"`
}

// FunctionRecord describes one free function declaration in a snapshot.
type FunctionRecord struct {
	// Name is the function's simple name.
	Name string `cbor:"name"`

	// Module is the module the function is declared in.
	Module semantic.ModuleID `cbor:"module"`
}

// Snapshot is the semantic index of an analyzed program, serialized between pipeline
// stages. It implements semantic.Database; every semantic ID indexes one of the
// record tables below.
type Snapshot struct {
	// FormatVersion is the artifact format the snapshot was written with.
	FormatVersion string `cbor:"formatVersion"`

	// BuildID uniquely identifies the analysis run that produced the snapshot.
	BuildID string `cbor:"buildId"`

	// Crates, Submodules, Traits and Functions are the snapshot's declaration tables.
	Crates     []CrateRecord     `cbor:"crates"`
	Submodules []SubmoduleRecord `cbor:"submodules"`
	Traits     []TraitRecord     `cbor:"traits"`
	Functions  []FunctionRecord  `cbor:"functions"`
}

// NewSnapshot returns an empty snapshot stamped with the current format version and a
// fresh build id.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		FormatVersion: SnapshotFormatVersion,
		BuildID:       uuid.NewString(),
	}
}

// LoadSnapshot reads a snapshot artifact from the given path and verifies its format
// version is one this reader understands.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "could not read index snapshot %s", path)
	}

	snapshot := &Snapshot{}
	if err := cbor.Unmarshal(data, snapshot); err != nil {
		return nil, errors.WithMessagef(err, "could not decode index snapshot %s", path)
	}

	// Verify the artifact format before handing the snapshot to callers.
	version, err := semver.NewVersion(snapshot.FormatVersion)
	if err != nil {
		return nil, errors.WithMessagef(err, "invalid snapshot format version %q", snapshot.FormatVersion)
	}
	constraint, err := semver.NewConstraint(snapshotFormatConstraint)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !constraint.Check(version) {
		return nil, errors.Errorf("unsupported snapshot format version %s (this reader accepts %s)", snapshot.FormatVersion, snapshotFormatConstraint)
	}
	return snapshot, nil
}

// Save writes the snapshot artifact to the given path.
func (s *Snapshot) Save(path string) error {
	data, err := cbor.Marshal(s, cbor.EncOptions{Canonical: true})
	if err != nil {
		return errors.WithMessage(err, "could not encode index snapshot")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WithMessagef(err, "could not write index snapshot %s", path)
	}
	return nil
}

// AddCrate appends a new crate to the snapshot and returns its id.
func (s *Snapshot) AddCrate(name string) semantic.CrateID {
	s.Crates = append(s.Crates, CrateRecord{Name: name})
	return semantic.CrateID(len(s.Crates) - 1)
}

// AddSubmodule declares a new submodule inside the given parent module and files it
// in the parent's item map under its name.
func (s *Snapshot) AddSubmodule(parent semantic.ModuleID, name string) semantic.SubmoduleID {
	id := semantic.SubmoduleID(len(s.Submodules))
	s.Submodules = append(s.Submodules, SubmoduleRecord{Name: name, Parent: parent})

	content := s.content(parent)
	content.Submodules = append(content.Submodules, id)
	s.addItem(content, name, semantic.ItemID{Kind: semantic.ItemSubmodule, Ref: uint32(id)})
	return id
}

// AddTrait declares a new trait in the given module and files it in the module's item
// map under its name.
func (s *Snapshot) AddTrait(module semantic.ModuleID, name string) semantic.TraitID {
	id := semantic.TraitID(len(s.Traits))
	s.Traits = append(s.Traits, TraitRecord{Name: name, Module: module})

	content := s.content(module)
	s.addItem(content, name, semantic.ItemID{Kind: semantic.ItemTrait, Ref: uint32(id)})
	return id
}

// AddFreeFunction declares a new free function in the given module and files it in
// the module's item map under its name.
func (s *Snapshot) AddFreeFunction(module semantic.ModuleID, name string) semantic.FunctionID {
	id := semantic.FunctionID(len(s.Functions))
	s.Functions = append(s.Functions, FunctionRecord{Name: name, Module: module})

	content := s.content(module)
	content.FreeFunctions = append(content.FreeFunctions, id)
	s.addItem(content, name, semantic.ItemID{Kind: semantic.ItemFreeFunction, Ref: uint32(id)})
	return id
}

// AddAttribute attaches an attribute to the given module's declaration.
func (s *Snapshot) AddAttribute(module semantic.ModuleID, name string) {
	content := s.content(module)
	content.Attributes = append(content.Attributes, semantic.Attribute{Name: name})
}

// MarkUnresolved marks the given module's content as carrying analysis errors, making
// the fallible queries on it fail.
func (s *Snapshot) MarkUnresolved(module semantic.ModuleID) {
	s.content(module).Unresolved = true
}

// addItem files an item in a module's ordered item tables.
func (s *Snapshot) addItem(content *ModuleContent, name string, item semantic.ItemID) {
	content.ItemNames = append(content.ItemNames, name)
	content.Items = append(content.Items, item)
}

// content returns the content record of the given module. The reference is assumed
// valid; use queryContent for externally supplied module ids.
func (s *Snapshot) content(module semantic.ModuleID) *ModuleContent {
	if module.Kind == semantic.ModuleCrateRoot {
		return &s.Crates[module.Crate].Root
	}
	return &s.Submodules[module.Submodule].Content
}

// validModule reports whether the given module reference points into the snapshot's
// tables.
func (s *Snapshot) validModule(module semantic.ModuleID) bool {
	if module.Kind == semantic.ModuleCrateRoot {
		return int(module.Crate) < len(s.Crates)
	}
	return int(module.Submodule) < len(s.Submodules)
}

// queryContent resolves the given module's content for a fallible query, failing if
// the reference is unknown or the module's content did not resolve during analysis.
func (s *Snapshot) queryContent(module semantic.ModuleID, query string) (*ModuleContent, error) {
	if !s.validModule(module) {
		return nil, errors.Errorf("unknown module %s", module)
	}
	content := s.content(module)
	if content.Unresolved {
		return nil, &semantic.QueryError{Module: module, Query: query}
	}
	return content, nil
}

// CrateIDs returns the ids of every crate in the snapshot, in declaration order.
func (s *Snapshot) CrateIDs() []semantic.CrateID {
	crates := make([]semantic.CrateID, len(s.Crates))
	for i := range s.Crates {
		crates[i] = semantic.CrateID(i)
	}
	return crates
}

// CrateName returns the name of the given crate.
func (s *Snapshot) CrateName(crate semantic.CrateID) string {
	return s.Crates[crate].Name
}

// TraitName returns the simple name of the given trait.
func (s *Snapshot) TraitName(trait semantic.TraitID) string {
	return s.Traits[trait].Name
}

// FunctionName returns the simple name of the given free function.
func (s *Snapshot) FunctionName(function semantic.FunctionID) string {
	return s.Functions[function].Name
}

// CrateModules returns the crate's root module followed by every submodule reachable
// from it, in breadth-first declaration order.
func (s *Snapshot) CrateModules(crate semantic.CrateID) []semantic.ModuleID {
	if int(crate) >= len(s.Crates) {
		return nil
	}
	modules := []semantic.ModuleID{semantic.CrateRootModuleID(crate)}
	for i := 0; i < len(modules); i++ {
		for _, submodule := range s.content(modules[i]).Submodules {
			modules = append(modules, semantic.SubmoduleModuleID(submodule))
		}
	}
	return modules
}

// ModuleSubmodules returns the submodules declared directly in the given module, in
// declaration order.
func (s *Snapshot) ModuleSubmodules(module semantic.ModuleID) ([]semantic.ModuleID, error) {
	content, err := s.queryContent(module, "submodules")
	if err != nil {
		return nil, err
	}
	submodules := make([]semantic.ModuleID, len(content.Submodules))
	for i, submodule := range content.Submodules {
		submodules[i] = semantic.SubmoduleModuleID(submodule)
	}
	return submodules, nil
}

// ModuleAttributes returns the attributes attached to the given module's declaration.
func (s *Snapshot) ModuleAttributes(module semantic.ModuleID) ([]semantic.Attribute, error) {
	content, err := s.queryContent(module, "attributes")
	if err != nil {
		return nil, err
	}
	return content.Attributes, nil
}

// ModuleItems returns the items declared in the given module, keyed by name.
func (s *Snapshot) ModuleItems(module semantic.ModuleID) (map[string]semantic.ItemID, error) {
	content, err := s.queryContent(module, "items")
	if err != nil {
		return nil, err
	}
	items := make(map[string]semantic.ItemID, len(content.Items))
	for i, name := range content.ItemNames {
		items[name] = content.Items[i]
	}
	return items, nil
}

// ModuleFreeFunctions returns the free functions declared directly in the given
// module, in declaration order.
func (s *Snapshot) ModuleFreeFunctions(module semantic.ModuleID) ([]semantic.FunctionID, error) {
	content, err := s.queryContent(module, "free functions")
	if err != nil {
		return nil, err
	}
	return content.FreeFunctions, nil
}

// SubmoduleName returns the simple name of the given submodule.
func (s *Snapshot) SubmoduleName(submodule semantic.SubmoduleID) string {
	return s.Submodules[submodule].Name
}

// SubmoduleParent returns the module the given submodule is declared in.
func (s *Snapshot) SubmoduleParent(submodule semantic.SubmoduleID) semantic.ModuleID {
	return s.Submodules[submodule].Parent
}
