// Package planner turns a validated dependency graph into an ordered list of
// execution batches.
//
// Every dependency of every module in batch N is satisfied by a module in
// some earlier batch, and modules within a batch have no dependency
// relationship among one another, so a batch is safe to run concurrently.
//
// Determinism rule: within a batch, modules appear in the order they were
// supplied in the input module list. Two plan computations over the same
// input therefore produce byte-for-byte identical plans.
package planner
