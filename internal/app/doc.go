// Package app wires the application together: configuration, logging, the
// genome loader, the marketplace source, and the orchestrator.
package app
