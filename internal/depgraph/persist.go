package depgraph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// graphEntry is the on-disk shape of one component in .docwright/graph.json.
type graphEntry struct {
	Kind         string   `json:"kind"`
	FilePath     string   `json:"file_path"`
	RelativePath string   `json:"relative_path"`
	StartLine    int      `json:"start_line"`
	EndLine      int      `json:"end_line"`
	HasDoc       bool     `json:"has_doc"`
	DocText      string   `json:"doc_text"`
	DependsOn    []string `json:"depends_on"`
}

// SaveGraph persists components to .docwright/graph.json inside dir.
func SaveGraph(dir string, components ComponentMap) error {
	docwrightDir := filepath.Join(dir, ".docwright")
	if err := os.MkdirAll(docwrightDir, 0o755); err != nil {
		return fmt.Errorf("create .docwright dir: %w", err)
	}

	entries := make(map[string]graphEntry, len(components))
	for id, c := range components {
		deps := make([]string, 0, len(c.DependsOn))
		for d := range c.DependsOn {
			deps = append(deps, d)
		}
		sort.Strings(deps)
		entries[id] = graphEntry{
			Kind:         c.Kind.String(),
			FilePath:     c.FilePath,
			RelativePath: c.RelativePath,
			StartLine:    c.StartLine,
			EndLine:      c.EndLine,
			HasDoc:       c.HasDoc,
			DocText:      c.DocText,
			DependsOn:    deps,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}
	return os.WriteFile(filepath.Join(docwrightDir, "graph.json"), data, 0o644)
}

// LoadGraph reads .docwright/graph.json from dir. Returns an empty map if
// the file does not exist.
func LoadGraph(dir string) (ComponentMap, error) {
	path := filepath.Join(dir, ".docwright", "graph.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(ComponentMap), nil
		}
		return nil, fmt.Errorf("read graph: %w", err)
	}

	var entries map[string]graphEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal graph: %w", err)
	}

	components := make(ComponentMap, len(entries))
	for id, e := range entries {
		c := &CodeComponent{
			ID:           id,
			Kind:         kindFromString(e.Kind),
			FilePath:     e.FilePath,
			RelativePath: e.RelativePath,
			StartLine:    e.StartLine,
			EndLine:      e.EndLine,
			HasDoc:       e.HasDoc,
			DocText:      e.DocText,
			DependsOn:    make(map[string]struct{}, len(e.DependsOn)),
		}
		for _, d := range e.DependsOn {
			c.DependsOn[d] = struct{}{}
		}
		components[id] = c
	}
	return components, nil
}

func kindFromString(s string) ComponentKind {
	switch s {
	case "method":
		return KindMethod
	case "class":
		return KindClass
	default:
		return KindFunction
	}
}
