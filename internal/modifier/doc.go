// Package modifier implements the structured merge strategies blueprint
// actions delegate to: package-manifest dependency merges, deep JSON merges,
// script and env-file merges, and JSON config wrapping.
//
// A modifier is a pure function over a file's current content and a
// parameter set; its only output is the new content or an error. Writing the
// result back into the overlay is the caller's job.
package modifier
