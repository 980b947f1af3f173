// Package expr evaluates the small HCL expression surface blueprints are
// allowed to use: action conditions and template placeholders in paths,
// contents and commands.
package expr
