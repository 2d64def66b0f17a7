package depgraph

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// collectImports walks the module root and builds a per-file import table:
// "import X" / "import X as Y" populate modules; "from X import a, b"
// populates fromImports; "from X import *" records a star import with
// unknown names.
func collectImports(root *sitter.Node, content []byte) *fileImports {
	fi := &fileImports{
		modules:     make(map[string]string),
		fromImports: make(map[string]string),
		starImports: make(map[string]struct{}),
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement":
			collectPlainImport(n, content, fi)
		case "import_from_statement":
			collectFromImport(n, content, fi)
		}
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)
	return fi
}

func collectPlainImport(n *sitter.Node, content []byte, fi *fileImports) {
	count := int(n.NamedChildCount())
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			mod := child.Content(content)
			fi.modules[localName(mod)] = mod
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil {
				continue
			}
			mod := nameNode.Content(content)
			alias := mod
			if aliasNode != nil {
				alias = aliasNode.Content(content)
			}
			fi.modules[localName(alias)] = mod
		}
	}
}

func collectFromImport(n *sitter.Node, content []byte, fi *fileImports) {
	moduleNode := n.ChildByFieldName("module_name")
	if moduleNode == nil {
		return
	}
	module := moduleNode.Content(content)

	count := int(n.NamedChildCount())
	sawName := false
	for i := 0; i < count; i++ {
		child := n.NamedChild(i)
		if child == moduleNode {
			continue
		}
		switch child.Type() {
		case "wildcard_import":
			fi.starImports[module] = struct{}{}
			sawName = true
		case "dotted_name":
			name := child.Content(content)
			fi.fromImports[name] = module
			sawName = true
		case "aliased_import":
			nameNode := child.ChildByFieldName("name")
			aliasNode := child.ChildByFieldName("alias")
			if nameNode == nil {
				continue
			}
			alias := nameNode.Content(content)
			if aliasNode != nil {
				alias = aliasNode.Content(content)
			}
			fi.fromImports[alias] = module
			sawName = true
		}
	}
	if !sawName {
		// Defensive: grammar variance where children aren't exposed as
		// expected. Treat as a star import so we never fabricate edges.
		fi.starImports[module] = struct{}{}
	}
}

// localName returns the first dotted segment of a module path, which is
// the name bound in the importing scope for a bare "import X.Y" statement.
func localName(mod string) string {
	for i := 0; i < len(mod); i++ {
		if mod[i] == '.' {
			return mod[:i]
		}
	}
	return mod
}
