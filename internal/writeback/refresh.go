package writeback

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/docwright/docwright/internal/depgraph"
)

// RefreshFile re-parses file and updates the StartLine/EndLine and
// SourceText (and sets HasDoc when a docstring is now present; DocText is
// left as it was) of every not-yet-processed component in components that
// belongs to it, after a SetDoc call has shifted line numbers for
// everything below the edited component.
func RefreshFile(file string, components depgraph.ComponentMap, skip map[string]struct{}) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("writeback: refreshing %s: %w", file, err)
	}

	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	defer p.Close()

	tree, err := p.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return fmt.Errorf("writeback: re-parsing %s: %w", file, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	for id, comp := range components {
		if comp.FilePath != file {
			continue
		}
		if _, done := skip[id]; done {
			continue
		}
		node := locateNode(root, content, comp)
		if node == nil {
			continue
		}
		comp.StartLine = int(node.StartPoint().Row) + 1
		comp.EndLine = int(node.EndPoint().Row) + 1
		comp.SourceText = node.Content(content)
		if body := node.ChildByFieldName("body"); body != nil {
			if ds := firstDocstringNode(body, content); ds != nil {
				comp.HasDoc = true
			}
		}
	}
	return nil
}
