package depgraph

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// builtinTypes and standardModules mirror the original analyzer's exclusion
// lists: names that are never emitted as dependency edges because they are
// never components of the repository being documented.
var builtinTypes = map[string]struct{}{
	"int": {}, "float": {}, "str": {}, "bool": {}, "bytes": {}, "list": {},
	"dict": {}, "set": {}, "tuple": {}, "frozenset": {}, "object": {},
	"None": {}, "True": {}, "False": {}, "Exception": {}, "ValueError": {},
	"TypeError": {}, "KeyError": {}, "IndexError": {}, "RuntimeError": {},
	"StopIteration": {}, "print": {}, "len": {}, "range": {}, "enumerate": {},
	"zip": {}, "map": {}, "filter": {}, "super": {}, "isinstance": {},
	"type": {},
}

var standardModules = map[string]struct{}{
	"os": {}, "sys": {}, "re": {}, "json": {}, "logging": {}, "time": {},
	"datetime": {}, "collections": {}, "itertools": {}, "functools": {},
	"pathlib": {}, "typing": {}, "abc": {}, "dataclasses": {}, "enum": {},
	"asyncio": {}, "threading": {}, "subprocess": {}, "math": {}, "random": {},
	"copy": {}, "io": {}, "traceback": {}, "unittest": {}, "argparse": {},
}

const excludedSelf = "self"
const excludedCls = "cls"

// Parser extracts CodeComponents and tracks import tables across a
// directory of Python source files using a tree-sitter Python grammar.
type Parser struct {
	ts       *sitter.Parser
	warnings []ParseWarning
}

// NewParser constructs a Parser ready to process Python source files.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Parser{ts: p}
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	p.ts.Close()
}

// Warnings returns every non-fatal parse failure recorded so far.
func (p *Parser) Warnings() []ParseWarning {
	return p.warnings
}

// fileImports records the import table for one source file.
type fileImports struct {
	// modules maps an imported module's local name to its dotted module path,
	// for "import X" / "import X as Y" forms.
	modules map[string]string
	// fromImports maps a bare imported name to the module it was imported
	// from, for "from X import a, b" forms.
	fromImports map[string]string
	// starImports records modules imported via "from X import *": names are
	// unknown, so no dependency edges are ever emitted through them.
	starImports map[string]struct{}
}

// ParseRepository walks every provided file, extracting components and
// resolving each one's dependency edges while its tree-sitter tree is still
// live (tree-sitter node content becomes unreadable once the owning tree is
// closed, so resolution cannot be deferred to a later pass over all files).
// A per-file parse failure is recorded as a warning and that file's
// components are dropped; parsing continues for the remaining files. Once
// every file has been processed, a final pass adds class-to-method edges,
// which only needs the component map, not any tree-sitter state.
func ParseRepository(files []string, rootDir string, readFile func(string) ([]byte, error)) (ComponentMap, []ParseWarning, error) {
	parser := NewParser()
	defer parser.Close()

	components := make(ComponentMap)

	for _, file := range files {
		content, err := readFile(file)
		if err != nil {
			parser.warnings = append(parser.warnings, ParseWarning{File: file, Err: err})
			continue
		}

		tree, err := parser.ts.ParseCtx(context.Background(), nil, content)
		if err != nil {
			log.Printf("depgraph: parse error in %s: %v", file, err)
			parser.warnings = append(parser.warnings, ParseWarning{File: file, Err: err})
			continue
		}

		relPath, err := filepath.Rel(rootDir, file)
		if err != nil {
			relPath = file
		}
		relPath = filepath.ToSlash(relPath)
		modulePath := moduleFromRelPath(relPath)

		root := tree.RootNode()
		if root.HasError() {
			log.Printf("depgraph: %s contains syntax errors; skipping", file)
			parser.warnings = append(parser.warnings, ParseWarning{File: file, Err: fmt.Errorf("syntax error")})
			tree.Close()
			continue
		}

		fi := collectImports(root, content)
		collectComponents(root, content, file, relPath, modulePath, fi, components)
		tree.Close()
	}

	addClassMethodEdges(components)

	return components, parser.warnings, nil
}

// moduleFromRelPath turns "pkg/sub/file.py" into "pkg.sub.file".
func moduleFromRelPath(relPath string) string {
	trimmed := strings.TrimSuffix(relPath, ".py")
	return strings.ReplaceAll(trimmed, "/", ".")
}
