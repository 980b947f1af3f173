// Package manifest parses the HCL inputs of a run: the genome file that
// selects modules for a project, and the per-module manifests that declare a
// module's configuration and blueprint.
//
// Parsing produces the format-agnostic types of internal/model; nothing
// downstream of this package knows the files were HCL.
package manifest
