package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sift/internal/types"
)

func TestAnalyzeCleanQuery(t *testing.T) {
	scope := types.NewScope()
	scope.Variables["nums"] = types.Variable{Name: "nums", Type: types.NewSlice(types.Int)}

	res := Analyze("nums | filter(# > 1) | sum()", Options{Scope: scope})
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Bag.Items())
	}
	if got := types.Details(res.RootType()); got != "float" {
		t.Errorf("root type %s, want float", got)
	}
}

func TestAnalyzeReportsBothStages(t *testing.T) {
	// A parse error and a check error land in the same sorted bag.
	res := Analyze(`len() + "x`, Options{})
	if !res.Bag.HasErrors() {
		t.Fatal("expected errors")
	}
	items := res.Bag.Items()
	for i := 1; i < len(items); i++ {
		if items[i-1].Primary.Start > items[i].Primary.Start {
			t.Fatal("bag must be sorted by span")
		}
	}
}

func TestAnalyzeSkipLint(t *testing.T) {
	res := Analyze("len()", Options{SkipLint: true})
	if res.Bag.Len() != 0 {
		t.Errorf("lint skipped, got %v", res.Bag.Items())
	}
	res = Analyze("len()", Options{})
	if !res.Bag.HasErrors() {
		t.Error("lint enabled, expected an arg-count error")
	}
}

func TestAnalyzeMaxDiagnostics(t *testing.T) {
	res := Analyze("len() + len() + len() + len()", Options{MaxDiagnostics: 2})
	if res.Bag.Len() > 2 {
		t.Errorf("got %d diagnostics, cap is 2", res.Bag.Len())
	}
}

func TestTypeAt(t *testing.T) {
	scope := types.NewScope()
	scope.Variables["name"] = types.Variable{Name: "name", Type: types.String}
	res := Analyze("name", Options{Scope: scope})
	if got := types.Details(res.TypeAt(2)); got != "string" {
		t.Errorf("got %s, want string", got)
	}
	// Offsets past the end resolve to any rather than failing.
	if got := types.Details(res.TypeAt(999)); got != "any" {
		t.Errorf("got %s, want any", got)
	}
}

func writeQueries(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCheckDir(t *testing.T) {
	dir := t.TempDir()
	writeQueries(t, dir, map[string]string{
		"b.sift":         "1 + 2",
		"a.sift":         "len()",
		"nested/c.sift":  `"ok"`,
		"skip.txt":       "not a query",
		".hidden/d.sift": "ignored",
	})

	results, err := CheckDir(context.Background(), dir, Options{}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	// Path order, not completion order.
	wantOrder := []string{"a.sift", "b.sift", filepath.Join("nested", "c.sift")}
	for i, want := range wantOrder {
		if results[i].Path != filepath.Join(dir, want) {
			t.Errorf("result %d is %s, want %s", i, results[i].Path, want)
		}
	}
	if !results[0].Result.Bag.HasErrors() {
		t.Error("a.sift must carry the arg-count error")
	}
	if results[1].Result.Bag.HasErrors() {
		t.Error("b.sift must be clean")
	}
}

func TestCheckDirEmpty(t *testing.T) {
	results, err := CheckDir(context.Background(), t.TempDir(), Options{}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if results != nil {
		t.Errorf("got %v, want nil for no query files", results)
	}
}

func TestCheckDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeQueries(t, dir, map[string]string{"a.sift": "1"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := CheckDir(ctx, dir, Options{}, 1); err == nil {
		t.Error("cancelled context must surface an error")
	}
}

func TestCheckDirMissing(t *testing.T) {
	if _, err := CheckDir(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{}, 1); err == nil {
		t.Error("missing directory must fail")
	}
}
