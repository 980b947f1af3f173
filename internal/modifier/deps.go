package modifier

import (
	"fmt"
	"strings"
)

// defaultVersionRange is used for packages declared without a version.
const defaultVersionRange = "latest"

// MergeDependencies merges a package list into a package manifest's
// dependencies (or devDependencies) object. Re-adding an already-present
// package at the same version produces no diff; a differing version is an
// upgrade and simply wins.
func MergeDependencies(current []byte, params Params) ([]byte, error) {
	if len(params.Packages) == 0 {
		return nil, fmt.Errorf("dependency merge requires a non-empty package list")
	}

	doc, err := decodeObject(current)
	if err != nil {
		return nil, err
	}

	field := "dependencies"
	if params.Dev {
		field = "devDependencies"
	}
	deps, err := subObject(doc, field)
	if err != nil {
		return nil, err
	}

	for _, entry := range params.Packages {
		name, version := splitPackageEntry(entry)
		if name == "" {
			return nil, fmt.Errorf("invalid package entry %q", entry)
		}
		deps[name] = version
	}

	return encodeObject(doc)
}

// splitPackageEntry parses "name" or "name@version", keeping scoped package
// names ("@scope/pkg", "@scope/pkg@1.2.3") intact.
func splitPackageEntry(entry string) (name, version string) {
	at := strings.LastIndex(entry, "@")
	if at <= 0 {
		// No version separator, or a scoped name with no version.
		return entry, defaultVersionRange
	}
	return entry[:at], entry[at+1:]
}

// MergeScripts adds or replaces one entry in the manifest's scripts object.
func MergeScripts(current []byte, params Params) ([]byte, error) {
	if params.Key == "" {
		return nil, fmt.Errorf("script merge requires a script name")
	}

	doc, err := decodeObject(current)
	if err != nil {
		return nil, err
	}
	scripts, err := subObject(doc, "scripts")
	if err != nil {
		return nil, err
	}
	scripts[params.Key] = params.Value

	return encodeObject(doc)
}
