package overlay

import (
	"fmt"
	"sort"
	"strings"
)

// Collision records a path two or more overlays in the same batch both want
// to write. Ownership of a path is exclusive within a batch, so any
// collision aborts the batch before a single file reaches disk.
type Collision struct {
	Path    string
	Modules []string
}

func (c Collision) String() string {
	return fmt.Sprintf("path %q written by modules %s", c.Path, strings.Join(c.Modules, ", "))
}

// DetectCollisions inspects the dirty path sets of a batch's overlays, keyed
// by module id, and returns every cross-module collision in path order.
func DetectCollisions(overlays map[string]*Overlay) []Collision {
	owners := make(map[string][]string)
	for moduleID, o := range overlays {
		for _, p := range o.DirtyPaths() {
			owners[p] = append(owners[p], moduleID)
		}
	}

	var out []Collision
	for p, mods := range owners {
		if len(mods) > 1 {
			sort.Strings(mods)
			out = append(out, Collision{Path: p, Modules: mods})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
