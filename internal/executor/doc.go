// Package executor runs a module's blueprint against its virtual file
// overlay.
//
// Execution happens in two fixed phases. Scaffolding commands (framework CLI
// generators) run first, directly against the real filesystem, because the
// generators manage their own file writes; afterwards the overlay is
// resynchronized from disk so the remaining actions see the generator's
// output. Every other action then executes against the overlay through a
// handler registry keyed by action type.
//
// Failure policy at this level is best-effort: a failing action is recorded
// and execution continues, so a broken blueprint reports every problem in
// one run instead of one per attempt. The module as a whole is still marked
// failed, which the orchestrator translates into a batch abort.
package executor
