package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPredicates(t *testing.T) {
	cases := []struct {
		pred func(string) bool
		in   string
		want bool
	}{
		{InfraImportForbidden, "degcore/internal/infra/persistence/memory", true},
		{InfraImportForbidden, "degcore/internal/stats", false},
		{AdapterImportForbidden, "degcore/internal/adapters/ingest", true},
		{AdapterImportForbidden, "degcore/internal/core", false},
		{InternalImportForbidden, "degcore/internal/genesets", true},
		{InternalImportForbidden, "degcore/pkg/domain", false},
		{InternalImportForbidden, "", false},
		{InternalImportForbidden, "notinternal", false},
	}
	for _, c := range cases {
		if got := c.pred(c.in); got != c.want {
			t.Errorf("predicate(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAssertNoDirectImportsIgnoresTestAndNonGoFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("x.go", "package tmp\nimport \"fmt\"\nfunc X() { fmt.Println(1) }\n")
	write("x_test.go", "package tmp\nimport \"forbidden/pkg\"\nvar _ = 0\n")
	write("notes.txt", "not go")

	AssertNoDirectImports(t, dir, func(path string) bool {
		return path == "forbidden/pkg"
	}, "test files and non-go files are skipped")
}

func TestAssertNoDirectImportsHandlesImportBlocks(t *testing.T) {
	dir := t.TempDir()
	src := "package tmp\nimport (\n\t\"os\"\n\talias \"context\"\n)\nvar _ = os.Args\nvar _ alias.Context\n"
	if err := os.WriteFile(filepath.Join(dir, "y.go"), []byte(src), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	AssertNoDirectImports(t, dir, func(string) bool { return false }, "none forbidden")
}

func TestAssertNoTransitiveDependency(t *testing.T) {
	AssertNoTransitiveDependency(t, ".", func(path string) bool {
		return path == "github.com/some/package/we/dont/use"
	}, "unused package must not appear")
}
