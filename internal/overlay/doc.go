// Package overlay implements the virtual file overlay: an in-memory staging
// layer over a real directory tree.
//
// Every file mutation a module performs is recorded against its own private
// overlay. Nothing reaches the disk until Flush, which commits the staged
// set through a temp-directory-plus-rename strategy. An overlay is
// write-once: it is staged, flushed exactly once, and discarded.
package overlay
