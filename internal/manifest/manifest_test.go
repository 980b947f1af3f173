package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/modforge/internal/model"
)

func writeHCL(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadGenome(t *testing.T) {
	t.Run("full genome", func(t *testing.T) {
		path := writeHCL(t, "genome.hcl", `
project {
  name = "acme"
  root = "./acme"
}

module "nextjs" {
  category = "framework"
}

module "prisma" {
  category   = "orm"
  depends_on = ["nextjs"]

  database = "postgres"
}

module "shadcn" {
  category = "ui"

  components = ["button", "card"]
}
`)

		genome, err := LoadGenome(context.Background(), path)
		require.NoError(t, err)

		assert.Equal(t, "acme", genome.ProjectName)
		assert.Equal(t, "./acme", genome.ProjectRoot)
		require.Len(t, genome.Modules, 3)

		assert.Equal(t, "nextjs", genome.Modules[0].ID)
		assert.Equal(t, model.CategoryFramework, genome.Modules[0].Category)
		assert.Empty(t, genome.Modules[0].Dependencies)

		prisma := genome.Modules[1]
		assert.Equal(t, []string{"nextjs"}, prisma.Dependencies)
		require.Contains(t, prisma.Parameters, "database")
		assert.Equal(t, "postgres", prisma.Parameters["database"].AsString())

		shadcn := genome.Modules[2]
		require.Contains(t, shadcn.Parameters, "components")
		assert.True(t, shadcn.Parameters["components"].Type().IsTupleType())
	})

	t.Run("project root defaults to the project name", func(t *testing.T) {
		path := writeHCL(t, "genome.hcl", `
project {
  name = "acme"
}
`)
		genome, err := LoadGenome(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "acme", genome.ProjectRoot)
	})

	t.Run("missing project block", func(t *testing.T) {
		path := writeHCL(t, "genome.hcl", `
module "nextjs" {
  category = "framework"
}
`)
		_, err := LoadGenome(context.Background(), path)
		assert.ErrorContains(t, err, "project block")
	})

	t.Run("unparsable file", func(t *testing.T) {
		path := writeHCL(t, "genome.hcl", `project {`)
		_, err := LoadGenome(context.Background(), path)
		assert.ErrorContains(t, err, "parsing genome")
	})
}

func TestLoadModuleSpec(t *testing.T) {
	t.Run("full manifest", func(t *testing.T) {
		path := writeHCL(t, "module.hcl", `
module {
  id       = "prisma"
  name     = "Prisma ORM"
  category = "orm"
}

contextual_files = ["package.json"]

action "INSTALL_PACKAGES" {
  packages = ["prisma@5.0.0", "@prisma/client@5.0.0"]
}

action "CREATE_FILE" {
  path     = "prisma/schema.prisma"
  template = "schema"
}

action "ADD_ENV_VAR" {
  name      = "DATABASE_URL"
  value     = "postgres://localhost/${project.name}"
  condition = "database == \"postgres\""
}
`)

		spec, err := LoadModuleSpec(context.Background(), path)
		require.NoError(t, err)

		assert.Equal(t, "prisma", spec.Config.ID)
		assert.Equal(t, model.CategoryORM, spec.Config.Category)
		assert.Equal(t, "Prisma ORM", spec.Blueprint.Name)
		assert.Equal(t, []string{"package.json"}, spec.Blueprint.ContextualFiles)

		require.Len(t, spec.Blueprint.Actions, 3)
		assert.Equal(t, model.ActionInstallPackages, spec.Blueprint.Actions[0].Type)
		assert.Equal(t, "schema", spec.Blueprint.Actions[1].Template)
		assert.Equal(t, `database == "postgres"`, spec.Blueprint.Actions[2].Condition)
		assert.Contains(t, spec.Blueprint.Actions[2].Value, "${project.name}",
			"templates stay unrendered until execution")
	})

	t.Run("for_each and fallback decode", func(t *testing.T) {
		path := writeHCL(t, "module.hcl", `
module {
  id       = "pages"
  category = "ui"
}

action "CREATE_FILE" {
  for_each = "pages"
  path     = "src/pages/${each}.tsx"
  content  = "// ${each}"
}

action "ENHANCE_FILE" {
  path     = ".gitignore"
  content  = "node_modules"
  fallback = "create"
}
`)

		spec, err := LoadModuleSpec(context.Background(), path)
		require.NoError(t, err)
		require.Len(t, spec.Blueprint.Actions, 2)
		assert.Equal(t, "pages", spec.Blueprint.Actions[0].ForEach)
		assert.Equal(t, model.FallbackCreate, spec.Blueprint.Actions[1].Fallback)
	})

	t.Run("dependency alias maps to install packages", func(t *testing.T) {
		path := writeHCL(t, "module.hcl", `
module {
  id       = "deps"
  category = "tooling"
}

action "ADD_DEPENDENCY" {
  packages = ["zod"]
}
`)

		spec, err := LoadModuleSpec(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, model.ActionInstallPackages, spec.Blueprint.Actions[0].Type)
	})

	t.Run("unknown action type is rejected", func(t *testing.T) {
		path := writeHCL(t, "module.hcl", `
module {
  id       = "bad"
  category = "tooling"
}

action "DELETE_EVERYTHING" {
  path = "/"
}
`)

		_, err := LoadModuleSpec(context.Background(), path)
		assert.ErrorContains(t, err, "DELETE_EVERYTHING")
	})

	t.Run("missing module block", func(t *testing.T) {
		path := writeHCL(t, "module.hcl", `contextual_files = []`)
		_, err := LoadModuleSpec(context.Background(), path)
		assert.ErrorContains(t, err, "module block")
	})
}
