// Package writeback rewrites a component's docstring into its source file
// in place, locating the component by re-parsing its file with the same
// tree-sitter grammar the dependency analyzer uses.
package writeback

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/docwright/docwright/internal/depgraph"
)

// Writer rewrites a code component's docstring in its source file.
type Writer struct {
	ts *sitter.Parser
}

// NewWriter constructs a Writer with its own tree-sitter parser.
func NewWriter() *Writer {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Writer{ts: p}
}

// Close releases the underlying tree-sitter parser.
func (w *Writer) Close() {
	w.ts.Close()
}

// ErrComponentNotFound is returned when a component cannot be relocated in
// its own file, for example because an earlier writeback in the same run
// shifted it somewhere the simple name/kind/enclosing-class match no
// longer recognizes.
var ErrComponentNotFound = fmt.Errorf("writeback: component not found in file")

// SetDoc replaces comp's existing docstring with newDoc, or inserts one as
// comp's first statement if it has none, then atomically rewrites the
// file. The docstring is laid out by renderDocstring and spliced in as a
// byte range, since Go has no unparser to regenerate source from a tree.
func (w *Writer) SetDoc(file string, comp *depgraph.CodeComponent, newDoc string) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("writeback: reading %s: %w", file, err)
	}

	tree, err := w.ts.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return fmt.Errorf("writeback: parsing %s: %w", file, err)
	}
	defer tree.Close()

	node := locateNode(tree.RootNode(), content, comp)
	if node == nil {
		return fmt.Errorf("%w: %s", ErrComponentNotFound, comp.ID)
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return fmt.Errorf("writeback: %s has no body block", comp.ID)
	}

	declIndent := indentOf(content, node)
	docIndent := declIndent + "    "
	rendered := renderDocstring(newDoc, docIndent)

	var start, end uint32
	if first := firstDocstringNode(body, content); first != nil {
		start, end = first.StartByte(), first.EndByte()
	} else {
		start = body.NamedChild(0).StartByte()
		end = start
		rendered += "\n" + docIndent
	}

	out := make([]byte, 0, len(content)+len(rendered))
	out = append(out, content[:start]...)
	out = append(out, rendered...)
	out = append(out, content[end:]...)

	return atomicWrite(file, out)
}

// locateNode finds comp's function_definition/class_definition node by
// walking the tree for a name/kind/enclosing-class match, since a
// previous writeback in the same file may have shifted byte offsets.
func locateNode(root *sitter.Node, content []byte, comp *depgraph.CodeComponent) *sitter.Node {
	name := comp.Name()
	if comp.Kind == depgraph.KindClass {
		return findDefinition(root, content, "class_definition", name)
	}
	if comp.ClassName == "" {
		return findDefinition(root, content, "function_definition", name)
	}
	class := findDefinition(root, content, "class_definition", comp.ClassName)
	if class == nil {
		return nil
	}
	body := class.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	return findDefinitionIn(body, content, "function_definition", name)
}

// findDefinition searches the direct children of root (module level) for a
// definition of the given tree-sitter node type and name.
func findDefinition(root *sitter.Node, content []byte, nodeType, name string) *sitter.Node {
	return findDefinitionIn(root, content, nodeType, name)
}

func findDefinitionIn(scope *sitter.Node, content []byte, nodeType, name string) *sitter.Node {
	n := int(scope.NamedChildCount())
	for i := 0; i < n; i++ {
		child := scope.NamedChild(i)
		target := child
		if child.Type() == "decorated_definition" {
			if def := child.ChildByFieldName("definition"); def != nil {
				target = def
			} else if cnt := int(child.NamedChildCount()); cnt > 0 {
				target = child.NamedChild(cnt - 1)
			}
		}
		if target.Type() != nodeType {
			continue
		}
		nameNode := target.ChildByFieldName("name")
		if nameNode != nil && nameNode.Content(content) == name {
			return target
		}
	}
	return nil
}

// firstDocstringNode returns body's first statement's string-literal
// expression node, if it has a bare docstring already, else nil.
func firstDocstringNode(body *sitter.Node, content []byte) *sitter.Node {
	if body.NamedChildCount() == 0 {
		return nil
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return nil
	}
	expr := first.NamedChild(0)
	if expr.Type() != "string" {
		return nil
	}
	return first
}

// indentOf returns the whitespace prefix of the line node starts on.
func indentOf(content []byte, node *sitter.Node) string {
	lineStart := node.StartByte()
	for lineStart > 0 && content[lineStart-1] != '\n' {
		lineStart--
	}
	i := lineStart
	for i < node.StartByte() && (content[i] == ' ' || content[i] == '\t') {
		i++
	}
	return string(content[lineStart:i])
}

// renderDocstring wraps the trimmed text in triple quotes. A one-line text
// stays on the quote line; otherwise the first line follows the opening
// quotes and each later line, and the closing quotes, are prefixed with
// indent. Lines are not dedented, and no newline follows the opening
// quotes.
func renderDocstring(text string, indent string) string {
	text = strings.TrimSpace(text)
	lines := strings.Split(text, "\n")
	var b strings.Builder
	b.WriteString(`"""`)
	if len(lines) == 1 {
		b.WriteString(lines[0])
		b.WriteString(`"""`)
		return b.String()
	}
	b.WriteString(lines[0])
	b.WriteString("\n")
	for _, line := range lines[1:] {
		b.WriteString(indent)
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(indent)
	b.WriteString(`"""`)
	return b.String()
}

// atomicWrite replaces file's contents by writing to a temp file in the
// same directory and renaming over the original, so a crash mid-write
// cannot leave truncated source behind.
func atomicWrite(file string, content []byte) error {
	dir := filepath.Dir(file)
	tmp, err := os.CreateTemp(dir, ".docwright-writeback-*")
	if err != nil {
		return fmt.Errorf("writeback: creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writeback: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writeback: closing temp file: %w", err)
	}

	info, err := os.Stat(file)
	if err == nil {
		os.Chmod(tmpName, info.Mode())
	}

	if err := os.Rename(tmpName, file); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writeback: renaming temp file over %s: %w", file, err)
	}
	return nil
}
