// Package model defines the format-agnostic data types shared across the
// orchestration core: modules, blueprints, actions, and execution results.
//
// The types here carry no behavior beyond small helpers. Loading them from a
// concrete on-disk format is the job of internal/manifest and
// internal/marketplace; interpreting them is the job of internal/graph,
// internal/planner and internal/executor.
package model
