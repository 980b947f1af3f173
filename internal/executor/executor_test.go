package executor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/modforge/internal/analyzer"
	"github.com/vk/modforge/internal/expr"
	"github.com/vk/modforge/internal/model"
	"github.com/vk/modforge/internal/overlay"
)

func runBlueprint(t *testing.T, bp *model.Blueprint, vars map[string]cty.Value) (*Result, *overlay.Overlay) {
	t.Helper()
	root := t.TempDir()
	ectx := expr.NewContext("acme", root, vars)

	analysis, err := analyzer.Analyze(context.Background(), bp, ectx)
	require.NoError(t, err)

	ov := overlay.New(root)
	e := New(time.Minute)
	return e.ExecuteBlueprint(context.Background(), bp, analysis, ectx, ov), ov
}

func TestExecuteBlueprint(t *testing.T) {
	t.Run("create then enhance with create fallback, later content wins", func(t *testing.T) {
		bp := &model.Blueprint{
			ID: "ui",
			Actions: []model.Action{
				{Type: model.ActionCreateFile, Path: "src/app.tsx", Content: "v1"},
				{Type: model.ActionEnhanceFile, Path: "src/app.tsx", Content: "v2", Fallback: model.FallbackCreate},
			},
		}

		result, ov := runBlueprint(t, bp, nil)
		require.True(t, result.Success, "errors: %v", result.Errors)

		got, err := ov.ReadFile("src/app.tsx")
		require.NoError(t, err)
		assert.Equal(t, "v2", string(got))
		assert.Equal(t, []string{"src/app.tsx"}, result.Files)
	})

	t.Run("false condition skips the action", func(t *testing.T) {
		bp := &model.Blueprint{
			ID: "db",
			Actions: []model.Action{
				{Type: model.ActionCreateFile, Path: "a.ts", Content: "a"},
				{Type: model.ActionCreateFile, Path: "b.ts", Content: "b", Condition: "false"},
			},
		}

		result, ov := runBlueprint(t, bp, nil)
		require.True(t, result.Success)
		assert.True(t, ov.FileExists("a.ts"))
		assert.False(t, ov.FileExists("b.ts"))
	})

	t.Run("condition on a variable", func(t *testing.T) {
		bp := &model.Blueprint{
			ID: "ts",
			Actions: []model.Action{
				{Type: model.ActionCreateFile, Path: "tsconfig.json", Content: "{}", Condition: "use_typescript"},
			},
		}

		result, ov := runBlueprint(t, bp, map[string]cty.Value{"use_typescript": cty.True})
		require.True(t, result.Success)
		assert.True(t, ov.FileExists("tsconfig.json"))
	})

	t.Run("failures are collected and execution continues", func(t *testing.T) {
		bp := &model.Blueprint{
			ID: "broken",
			Actions: []model.Action{
				{Type: model.ActionEnhanceFile, Path: "missing.ts", Content: "x"},
				{Type: model.ActionCreateFile, Path: "ok.ts", Content: "fine"},
			},
		}

		result, ov := runBlueprint(t, bp, nil)
		assert.False(t, result.Success)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, model.ErrKindAction, result.Errors[0].Kind)
		assert.Equal(t, "broken", result.Errors[0].Module)
		assert.Equal(t, model.ActionEnhanceFile, result.Errors[0].Action)
		assert.True(t, ov.FileExists("ok.ts"), "later actions still run")
	})

	t.Run("install packages stages a manifest in a fresh project", func(t *testing.T) {
		bp := &model.Blueprint{
			ID: "deps",
			Actions: []model.Action{
				{Type: model.ActionInstallPackages, Packages: []string{"react@18.0.0"}},
				{Type: model.ActionAddScript, Name: "dev", Value: "vite"},
			},
		}

		result, ov := runBlueprint(t, bp, nil)
		require.True(t, result.Success, "errors: %v", result.Errors)

		manifest, err := ov.ReadFile("package.json")
		require.NoError(t, err)
		assert.Contains(t, string(manifest), `"react": "18.0.0"`)
		assert.Contains(t, string(manifest), `"dev": "vite"`)
	})

	t.Run("env vars accumulate into one file", func(t *testing.T) {
		bp := &model.Blueprint{
			ID: "env",
			Actions: []model.Action{
				{Type: model.ActionAddEnvVar, Name: "DATABASE_URL", Value: "postgres://localhost/acme"},
				{Type: model.ActionAddEnvVar, Name: "PORT", Value: "3000"},
			},
		}

		result, ov := runBlueprint(t, bp, nil)
		require.True(t, result.Success, "errors: %v", result.Errors)

		env, err := ov.ReadFile(".env")
		require.NoError(t, err)
		assert.Contains(t, string(env), "DATABASE_URL=postgres://localhost/acme")
		assert.Contains(t, string(env), "PORT=3000")
	})

	t.Run("template content resolves from the blueprint set", func(t *testing.T) {
		bp := &model.Blueprint{
			ID:        "tmpl",
			Templates: map[string]string{"layout": "export default function Layout() {}"},
			Actions: []model.Action{
				{Type: model.ActionCreateFile, Path: "src/layout.tsx", Template: "layout"},
			},
		}

		result, ov := runBlueprint(t, bp, nil)
		require.True(t, result.Success, "errors: %v", result.Errors)

		got, err := ov.ReadFile("src/layout.tsx")
		require.NoError(t, err)
		assert.Contains(t, string(got), "Layout")
	})

	t.Run("missing template is an action error", func(t *testing.T) {
		bp := &model.Blueprint{
			ID: "tmpl",
			Actions: []model.Action{
				{Type: model.ActionCreateFile, Path: "x.ts", Template: "ghost"},
			},
		}

		result, _ := runBlueprint(t, bp, nil)
		assert.False(t, result.Success)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0].Message, "ghost")
	})
}

func TestTextEdits(t *testing.T) {
	t.Run("append and prepend", func(t *testing.T) {
		bp := &model.Blueprint{
			ID: "txt",
			Actions: []model.Action{
				{Type: model.ActionCreateFile, Path: "notes.md", Content: "middle\n"},
				{Type: model.ActionAppendToFile, Path: "notes.md", Content: "bottom\n"},
				{Type: model.ActionPrependToFile, Path: "notes.md", Content: "top"},
			},
		}

		result, ov := runBlueprint(t, bp, nil)
		require.True(t, result.Success, "errors: %v", result.Errors)

		got, err := ov.ReadFile("notes.md")
		require.NoError(t, err)
		assert.Equal(t, "top\nmiddle\nbottom\n", string(got))
	})

	t.Run("ts import inserts after the last import and is idempotent", func(t *testing.T) {
		src := "import { a } from \"a\";\nimport { b } from \"b\";\n\nexport const x = 1;\n"
		bp := &model.Blueprint{
			ID: "imports",
			Actions: []model.Action{
				{Type: model.ActionCreateFile, Path: "src/index.ts", Content: src},
				{Type: model.ActionAddTSImport, Path: "src/index.ts", Content: `import { c } from "c";`},
				{Type: model.ActionAddTSImport, Path: "src/index.ts", Content: `import { c } from "c";`},
			},
		}

		result, ov := runBlueprint(t, bp, nil)
		require.True(t, result.Success, "errors: %v", result.Errors)

		got, err := ov.ReadFile("src/index.ts")
		require.NoError(t, err)
		want := "import { a } from \"a\";\nimport { b } from \"b\";\nimport { c } from \"c\";\n\nexport const x = 1;\n"
		assert.Equal(t, want, string(got))
	})

	t.Run("schema extension skips an already-present block", func(t *testing.T) {
		block := "model User {\n  id Int @id\n}"
		bp := &model.Blueprint{
			ID: "schema",
			Actions: []model.Action{
				{Type: model.ActionCreateFile, Path: "schema.prisma", Content: "datasource db {}\n"},
				{Type: model.ActionExtendSchema, Path: "schema.prisma", Content: block},
				{Type: model.ActionExtendSchema, Path: "schema.prisma", Content: block},
			},
		}

		result, ov := runBlueprint(t, bp, nil)
		require.True(t, result.Success, "errors: %v", result.Errors)

		got, err := ov.ReadFile("schema.prisma")
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(got), "model User"))
	})
}

func TestMergeJSONAction(t *testing.T) {
	bp := &model.Blueprint{
		ID: "cfg",
		Actions: []model.Action{
			{Type: model.ActionCreateFile, Path: "tsconfig.json", Content: `{"compilerOptions":{"strict":true}}`},
			{Type: model.ActionMergeJSON, Path: "tsconfig.json", Content: `{"compilerOptions":{"target":"es2022"}}`},
		},
	}

	result, ov := runBlueprint(t, bp, nil)
	require.True(t, result.Success, "errors: %v", result.Errors)

	got, err := ov.ReadFile("tsconfig.json")
	require.NoError(t, err)
	assert.Contains(t, string(got), `"strict": true`)
	assert.Contains(t, string(got), `"target": "es2022"`)
}

func TestIsScaffoldCommand(t *testing.T) {
	scaffolds := []string{
		"npx create-next-app@latest acme",
		"npm create vite@latest acme",
		"yarn create react-app acme",
		"pnpm create astro acme",
	}
	for _, cmd := range scaffolds {
		assert.True(t, IsScaffoldCommand(cmd), cmd)
	}

	ordinary := []string{
		"npm install",
		"npx prisma generate",
		"git init",
		"echo hi",
	}
	for _, cmd := range ordinary {
		assert.False(t, IsScaffoldCommand(cmd), cmd)
	}
}

func TestRunCommandAction(t *testing.T) {
	t.Run("ordinary commands run in the project root", func(t *testing.T) {
		bp := &model.Blueprint{
			ID: "git",
			Actions: []model.Action{
				{Type: model.ActionRunCommand, Command: "touch marker.txt"},
			},
		}

		result, ov := runBlueprint(t, bp, nil)
		require.True(t, result.Success, "errors: %v", result.Errors)

		v := overlay.New(ov.Root())
		require.NoError(t, v.SeedFromDisk(context.Background(), []string{"marker.txt"}))
		assert.True(t, v.FileExists("marker.txt"))
	})

	t.Run("failing command is an action error", func(t *testing.T) {
		bp := &model.Blueprint{
			ID: "bad",
			Actions: []model.Action{
				{Type: model.ActionRunCommand, Command: "exit 3"},
			},
		}

		result, _ := runBlueprint(t, bp, nil)
		assert.False(t, result.Success)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0].Message, "failed")
	})
}
