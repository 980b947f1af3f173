package modifier

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeDependencies(t *testing.T) {
	t.Run("merging twice produces identical output", func(t *testing.T) {
		params := Params{Packages: []string{"react@18.0.0"}}

		first, err := MergeDependencies([]byte(`{"name":"app"}`), params)
		require.NoError(t, err)
		second, err := MergeDependencies(first, params)
		require.NoError(t, err)

		assert.Equal(t, string(first), string(second), "dependency merge must be idempotent")

		var doc map[string]any
		require.NoError(t, json.Unmarshal(second, &doc))
		deps := doc["dependencies"].(map[string]any)
		assert.Equal(t, "18.0.0", deps["react"])
	})

	t.Run("version upgrade wins", func(t *testing.T) {
		out, err := MergeDependencies(
			[]byte(`{"dependencies":{"react":"17.0.0"}}`),
			Params{Packages: []string{"react@18.0.0"}},
		)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"react": "18.0.0"`)
	})

	t.Run("dev flag routes to devDependencies", func(t *testing.T) {
		out, err := MergeDependencies([]byte(`{}`), Params{Packages: []string{"vitest"}, Dev: true})
		require.NoError(t, err)
		assert.Contains(t, string(out), "devDependencies")
		assert.Contains(t, string(out), `"vitest": "latest"`)
	})

	t.Run("scoped packages keep their scope", func(t *testing.T) {
		out, err := MergeDependencies([]byte(`{}`), Params{Packages: []string{"@prisma/client@5.0.0"}})
		require.NoError(t, err)
		assert.Contains(t, string(out), `"@prisma/client": "5.0.0"`)
	})

	t.Run("empty package list is rejected", func(t *testing.T) {
		_, err := MergeDependencies([]byte(`{}`), Params{})
		assert.ErrorContains(t, err, "non-empty package list")
	})

	t.Run("empty file is treated as an empty manifest", func(t *testing.T) {
		out, err := MergeDependencies(nil, Params{Packages: []string{"zod@3.0.0"}})
		require.NoError(t, err)
		assert.Contains(t, string(out), `"zod": "3.0.0"`)
	})
}

func TestSplitPackageEntry(t *testing.T) {
	cases := []struct {
		entry   string
		name    string
		version string
	}{
		{"react", "react", "latest"},
		{"react@18.0.0", "react", "18.0.0"},
		{"@scope/pkg", "@scope/pkg", "latest"},
		{"@scope/pkg@1.2.3", "@scope/pkg", "1.2.3"},
	}
	for _, tc := range cases {
		name, version := splitPackageEntry(tc.entry)
		assert.Equal(t, tc.name, name, tc.entry)
		assert.Equal(t, tc.version, version, tc.entry)
	}
}

func TestMergeScripts(t *testing.T) {
	out, err := MergeScripts([]byte(`{"scripts":{"build":"tsc"}}`), Params{Key: "dev", Value: "vite"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"dev": "vite"`)
	assert.Contains(t, string(out), `"build": "tsc"`)

	_, err = MergeScripts([]byte(`{}`), Params{})
	assert.ErrorContains(t, err, "script name")
}

func TestDeepMergeJSON(t *testing.T) {
	current := []byte(`{"compilerOptions":{"strict":true,"target":"es2020"},"include":["src"]}`)
	out, err := DeepMergeJSON(current, Params{Merge: map[string]any{
		"compilerOptions": map[string]any{"paths": map[string]any{"@/*": []any{"./src/*"}}},
		"include":         []any{"src", "tests"},
	}})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	co := doc["compilerOptions"].(map[string]any)
	assert.Equal(t, true, co["strict"], "existing nested keys survive the merge")
	assert.Contains(t, co, "paths")
	assert.Len(t, doc["include"], 2, "arrays replace rather than merge")
}

func TestWrapJSON(t *testing.T) {
	t.Run("nests the document under the wrapper key", func(t *testing.T) {
		out, err := WrapJSON([]byte(`{"reactStrictMode":true}`), Params{Wrapper: "nextConfig"})
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(out, &doc))
		inner := doc["nextConfig"].(map[string]any)
		assert.Equal(t, true, inner["reactStrictMode"])
	})

	t.Run("wrapping twice does not nest again", func(t *testing.T) {
		params := Params{Wrapper: "cfg"}
		once, err := WrapJSON([]byte(`{"a":1}`), params)
		require.NoError(t, err)
		twice, err := WrapJSON(once, params)
		require.NoError(t, err)
		assert.Equal(t, string(once), string(twice))
	})

	t.Run("missing wrapper key is rejected", func(t *testing.T) {
		_, err := WrapJSON([]byte(`{}`), Params{})
		assert.ErrorContains(t, err, "wrapper key")
	})
}

func TestMergeEnvFile(t *testing.T) {
	t.Run("merge is byte-stable", func(t *testing.T) {
		params := Params{Key: "DATABASE_URL", Value: "postgres://localhost/app"}
		first, err := MergeEnvFile(nil, params)
		require.NoError(t, err)
		second, err := MergeEnvFile(first, params)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second))
	})

	t.Run("existing variables survive", func(t *testing.T) {
		out, err := MergeEnvFile([]byte("PORT=3000\n"), Params{Key: "HOST", Value: "0.0.0.0"})
		require.NoError(t, err)
		assert.Contains(t, string(out), "PORT=3000")
		assert.Contains(t, string(out), "HOST=0.0.0.0")
	})

	t.Run("values with spaces are quoted", func(t *testing.T) {
		out, err := MergeEnvFile(nil, Params{Key: "GREETING", Value: "hello world"})
		require.NoError(t, err)
		assert.Contains(t, string(out), `GREETING="hello world"`)
	})
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{PackageDependencies, PackageScripts, JSONMerge, JSONWrap, EnvFile} {
		fn, err := r.Get(name)
		require.NoError(t, err, name)
		assert.NotNil(t, fn, name)
	}

	_, err := r.Get("nope")
	assert.ErrorContains(t, err, "not registered")

	assert.Panics(t, func() { r.Register(EnvFile, MergeEnvFile) })
}
