package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCollisions(t *testing.T) {
	root := t.TempDir()

	t.Run("disjoint overlays have no collisions", func(t *testing.T) {
		a := New(root)
		b := New(root)
		require.NoError(t, a.CreateFile("a.txt", []byte("a")))
		require.NoError(t, b.CreateFile("b.txt", []byte("b")))

		assert.Empty(t, DetectCollisions(map[string]*Overlay{"mod-a": a, "mod-b": b}))
	})

	t.Run("two creators of one path collide", func(t *testing.T) {
		a := New(root)
		b := New(root)
		require.NoError(t, a.CreateFile("shared.json", []byte("{}")))
		require.NoError(t, b.CreateFile("shared.json", []byte("{}")))

		collisions := DetectCollisions(map[string]*Overlay{"ui": a, "db": b})
		require.Len(t, collisions, 1)
		assert.Equal(t, "shared.json", collisions[0].Path)
		assert.Equal(t, []string{"db", "ui"}, collisions[0].Modules)
	})

	t.Run("read-only staging does not collide", func(t *testing.T) {
		a := New(root)
		b := New(root)
		a.files["ctx.json"] = &VirtualFile{Path: "ctx.json", State: StateRead}
		b.files["ctx.json"] = &VirtualFile{Path: "ctx.json", State: StateRead}

		assert.Empty(t, DetectCollisions(map[string]*Overlay{"a": a, "b": b}))
	})
}
