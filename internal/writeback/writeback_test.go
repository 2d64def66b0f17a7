package writeback

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docwright/docwright/internal/depgraph"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestSetDocInsertsNewDocstring(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mod.py", "def greet(name):\n    return f'hi {name}'\n")

	w := NewWriter()
	defer w.Close()

	comp := &depgraph.CodeComponent{ID: "mod.greet", Kind: depgraph.KindFunction, FilePath: path}
	if err := w.SetDoc(path, comp, "Greets name."); err != nil {
		t.Fatalf("SetDoc: %v", err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading result: %v", err)
	}
	got := string(out)
	if !strings.Contains(got, `"""Greets name."""`) {
		t.Errorf("expected inserted docstring, got:\n%s", got)
	}
	if !strings.Contains(got, "return f'hi {name}'") {
		t.Errorf("expected original body preserved, got:\n%s", got)
	}
}

func TestSetDocReplacesExistingDocstring(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mod.py", "def greet(name):\n    \"\"\"Old doc.\"\"\"\n    return name\n")

	w := NewWriter()
	defer w.Close()

	comp := &depgraph.CodeComponent{ID: "mod.greet", Kind: depgraph.KindFunction, FilePath: path}
	if err := w.SetDoc(path, comp, "New doc."); err != nil {
		t.Fatalf("SetDoc: %v", err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading result: %v", err)
	}
	got := string(out)
	if strings.Contains(got, "Old doc.") {
		t.Errorf("expected old docstring removed, got:\n%s", got)
	}
	if !strings.Contains(got, "New doc.") {
		t.Errorf("expected new docstring present, got:\n%s", got)
	}
}

func TestSetDocLocatesMethodInsideClass(t *testing.T) {
	dir := t.TempDir()
	src := "class Widget:\n    def __init__(self, size):\n        self.size = size\n\n    def area(self):\n        return self.size * self.size\n"
	path := writeFile(t, dir, "mod.py", src)

	w := NewWriter()
	defer w.Close()

	comp := &depgraph.CodeComponent{ID: "mod.Widget.area", Kind: depgraph.KindMethod, ClassName: "Widget", FilePath: path}
	if err := w.SetDoc(path, comp, "Returns the area."); err != nil {
		t.Fatalf("SetDoc: %v", err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading result: %v", err)
	}
	got := string(out)
	if !strings.Contains(got, "Returns the area.") {
		t.Errorf("expected method docstring inserted, got:\n%s", got)
	}
	if !strings.Contains(got, "self.size = size") {
		t.Errorf("expected constructor body untouched, got:\n%s", got)
	}
}

func TestSetDocReturnsErrorForMissingComponent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "mod.py", "def greet(name):\n    return name\n")

	w := NewWriter()
	defer w.Close()

	comp := &depgraph.CodeComponent{ID: "mod.missing", Kind: depgraph.KindFunction, FilePath: path}
	err := w.SetDoc(path, comp, "doc")
	if err == nil {
		t.Fatalf("expected error for unresolvable component")
	}
}

func TestRefreshFileUpdatesLineNumbers(t *testing.T) {
	dir := t.TempDir()
	src := "def first():\n    return 1\n\n\ndef second():\n    return 2\n"
	path := writeFile(t, dir, "mod.py", src)

	components := depgraph.ComponentMap{
		"mod.first":  {ID: "mod.first", Kind: depgraph.KindFunction, FilePath: path, StartLine: 1, EndLine: 2},
		"mod.second": {ID: "mod.second", Kind: depgraph.KindFunction, FilePath: path, StartLine: 5, EndLine: 6},
	}

	w := NewWriter()
	defer w.Close()
	if err := w.SetDoc(path, components["mod.first"], "First function, now documented across two lines of explanation."); err != nil {
		t.Fatalf("SetDoc: %v", err)
	}

	if err := RefreshFile(path, components, map[string]struct{}{"mod.first": {}}); err != nil {
		t.Fatalf("RefreshFile: %v", err)
	}

	if components["mod.second"].StartLine <= 5 {
		t.Errorf("expected second's StartLine to shift later, got %d", components["mod.second"].StartLine)
	}
}
