package depgraph

import "testing"

func TestResolveComponentByPathExactAndFallback(t *testing.T) {
	components := ComponentMap{
		"pkg.mod.Widget": {ID: "pkg.mod.Widget", Kind: KindClass},
	}

	if c, ok := ResolveComponentByPath(components, "pkg.mod.Widget"); !ok || c.ID != "pkg.mod.Widget" {
		t.Fatalf("exact match failed: %v, %v", c, ok)
	}

	if c, ok := ResolveComponentByPath(components, "pkg.mod.Widget.size"); !ok || c.ID != "pkg.mod.Widget" {
		t.Errorf("expected tolerant fallback to pkg.mod.Widget, got %v, %v", c, ok)
	}

	if _, ok := ResolveComponentByPath(components, "pkg.other.Thing"); ok {
		t.Errorf("expected no match for an unrelated path")
	}
}

func TestGetClassHeaderThroughInit(t *testing.T) {
	class := &CodeComponent{
		ID:         "pkg.mod.Widget",
		Kind:       KindClass,
		ModulePath: "pkg.mod",
		StartLine:  1,
		EndLine:    8,
		SourceText: "class Widget:\n    def __init__(self, size):\n        self.size = size\n\n    def area(self):\n        return self.size * self.size\n",
	}
	init := &CodeComponent{
		ID:        "pkg.mod.Widget.__init__",
		Kind:      KindMethod,
		ClassName: "Widget",
		StartLine: 2,
		EndLine:   3,
	}
	components := ComponentMap{class.ID: class, init.ID: init}

	header := GetClassHeaderThroughInit(class, components)
	if header == class.SourceText {
		t.Errorf("expected header to be truncated, got the full source")
	}
	want := "class Widget:\n    def __init__(self, size):\n        self.size = size"
	if header != want {
		t.Errorf("header = %q, want %q", header, want)
	}
}

func TestGetClassHeaderThroughInitNoConstructor(t *testing.T) {
	class := &CodeComponent{
		ID:         "pkg.mod.Bare",
		Kind:       KindClass,
		ModulePath: "pkg.mod",
		StartLine:  1,
		EndLine:    2,
		SourceText: "class Bare:\n    pass\n",
	}
	components := ComponentMap{class.ID: class}

	if got := GetClassHeaderThroughInit(class, components); got != class.SourceText {
		t.Errorf("expected full source when there is no __init__, got %q", got)
	}
}

func TestResolveDependents(t *testing.T) {
	components := ComponentMap{
		"pkg.a": {ID: "pkg.a", DependsOn: map[string]struct{}{"pkg.b": {}}},
		"pkg.c": {ID: "pkg.c", DependsOn: map[string]struct{}{"pkg.b": {}}},
		"pkg.b": {ID: "pkg.b"},
	}

	dependents := ResolveDependents(components, "pkg.b")
	if len(dependents) != 2 {
		t.Fatalf("expected 2 dependents, got %d: %v", len(dependents), dependents)
	}
}
