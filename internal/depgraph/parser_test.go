package depgraph

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", filepath.Dir(full), err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile(%s): %v", full, err)
		}
	}
	return dir
}

func parseDir(t *testing.T, dir string, rel ...string) (ComponentMap, []ParseWarning) {
	t.Helper()
	var files []string
	for _, r := range rel {
		files = append(files, filepath.Join(dir, r))
	}
	components, warnings, err := ParseRepository(files, dir, os.ReadFile)
	if err != nil {
		t.Fatalf("ParseRepository: %v", err)
	}
	return components, warnings
}

func TestParseRepositoryFunctionAndClass(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"pkg/greet.py": `def say_hello(name):
    """Say hello to name."""
    return build_greeting(name)


def build_greeting(name):
    return "hello " + name


class Greeter:
    """Greets people."""

    def __init__(self, prefix):
        self.prefix = prefix

    def greet(self, name):
        return self.prefix + name
`,
	})

	components, warnings := parseDir(t, dir, "pkg/greet.py")
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	cases := []struct {
		id   string
		kind ComponentKind
	}{
		{"pkg.greet.say_hello", KindFunction},
		{"pkg.greet.build_greeting", KindFunction},
		{"pkg.greet.Greeter", KindClass},
		{"pkg.greet.Greeter.__init__", KindMethod},
		{"pkg.greet.Greeter.greet", KindMethod},
	}
	for _, c := range cases {
		got, ok := components[c.id]
		if !ok {
			t.Errorf("missing component %q", c.id)
			continue
		}
		if got.Kind != c.kind {
			t.Errorf("%s: got kind %v, want %v", c.id, got.Kind, c.kind)
		}
	}

	hello := components["pkg.greet.say_hello"]
	if !hello.HasDoc || hello.DocText != "Say hello to name." {
		t.Errorf("say_hello docstring = (%v, %q)", hello.HasDoc, hello.DocText)
	}
	if _, ok := hello.DependsOn["pkg.greet.build_greeting"]; !ok {
		t.Errorf("say_hello should depend on build_greeting, got %v", hello.DependsOn)
	}

	init := components["pkg.greet.Greeter.__init__"]
	if !init.IsConstructor() {
		t.Errorf("__init__ should report IsConstructor")
	}

	class := components["pkg.greet.Greeter"]
	if _, ok := class.DependsOn["pkg.greet.Greeter.greet"]; !ok {
		t.Errorf("class should depend on its non-constructor method, got %v", class.DependsOn)
	}
	if _, ok := class.DependsOn["pkg.greet.Greeter.__init__"]; ok {
		t.Errorf("class should not depend on __init__, got %v", class.DependsOn)
	}
}

func TestParseRepositoryFromImportDependency(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"pkg/models.py": `class Widget:
    def __init__(self, size):
        self.size = size
`,
		"pkg/service.py": `from pkg.models import Widget


def make_widget(size):
    w = Widget(size)
    return w.size
`,
	})

	components, _ := parseDir(t, dir, "pkg/models.py", "pkg/service.py")

	make := components["pkg.service.make_widget"]
	if make == nil {
		t.Fatalf("missing pkg.service.make_widget")
	}
	if _, ok := make.DependsOn["pkg.models.Widget"]; !ok {
		t.Errorf("make_widget should depend on pkg.models.Widget, got %v", make.DependsOn)
	}
}

func TestParseRepositorySkipsSyntaxErrorFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"pkg/broken.py": "def broken(:\n    pass\n",
		"pkg/fine.py":   "def fine():\n    return 1\n",
	})

	components, warnings := parseDir(t, dir, "pkg/broken.py", "pkg/fine.py")
	if len(warnings) == 0 {
		t.Fatalf("expected a warning for the broken file")
	}
	if _, ok := components["pkg.fine.fine"]; !ok {
		t.Errorf("fine.py's component should still be collected")
	}
	if _, ok := components["pkg.broken.broken"]; ok {
		t.Errorf("broken.py should not contribute any components")
	}
}
