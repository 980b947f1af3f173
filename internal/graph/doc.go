// Package graph builds the module dependency graph for a run.
//
// Construction is a three-pass process: create one node per module, link
// explicit and category-implied dependencies, then validate the result
// (missing references, cycles). A graph that fails validation produces no
// execution plan downstream.
package graph
