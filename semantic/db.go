// Package semantic defines the read-only query boundary over a fully analyzed
// program: the module tree, attributes, and declared items of a set of crates. The
// analysis itself happens in an earlier pipeline stage; consumers of this package
// only hold references into the index and never mutate it.
package semantic

import "fmt"

// Database is the queryable index of an analyzed program. Implementations must be
// safe for concurrent readers; all queries are pure and side-effect free.
//
// Queries over a module's own content can fail when that content carried analysis
// errors. Such failures are reported as *QueryError; the diagnostics behind them have
// already been surfaced through the analysis stage's own reporting channel.
type Database interface {
	// CrateModules returns every module belonging to the given crate, root module
	// first, in a stable enumeration order.
	CrateModules(crate CrateID) []ModuleID

	// ModuleSubmodules returns the submodules declared directly in the given module,
	// in declaration order.
	ModuleSubmodules(module ModuleID) ([]ModuleID, error)

	// ModuleAttributes returns the attributes attached to the given module's
	// declaration.
	ModuleAttributes(module ModuleID) ([]Attribute, error)

	// ModuleItems returns the items declared in the given module, keyed by name.
	ModuleItems(module ModuleID) (map[string]ItemID, error)

	// ModuleFreeFunctions returns the free functions declared directly in the given
	// module, in declaration order.
	ModuleFreeFunctions(module ModuleID) ([]FunctionID, error)

	// SubmoduleName returns the simple name of the given submodule. The reference is
	// assumed valid.
	SubmoduleName(submodule SubmoduleID) string

	// SubmoduleParent returns the module the given submodule is declared in. The
	// reference is assumed valid.
	SubmoduleParent(submodule SubmoduleID) ModuleID
}

// QueryError reports a database query that failed because the queried module's
// content did not resolve during analysis.
type QueryError struct {
	// Module is the module whose content failed to resolve.
	Module ModuleID

	// Query names the query that failed.
	Query string
}

// Error returns the error message string, implementing the `error` interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("could not query %s of %s: module content did not resolve", e.Query, e.Module)
}
