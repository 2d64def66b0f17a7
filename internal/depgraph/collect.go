package depgraph

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// collectComponents walks a parsed file's root node and records every
// top-level function, class, and directly-nested method it finds, along
// with each component's resolved dependency edges (computed while the
// tree-sitter tree is still alive, since byte ranges and node content
// become invalid once the tree is closed). Nested functions and
// class-in-class definitions are treated as opaque and never become
// components of their own, matching the original analyzer.
func collectComponents(root *sitter.Node, content []byte, filePath, relPath, modulePath string, fi *fileImports, out ComponentMap) {
	siblings := collectTopLevelNames(root, content)
	walkModuleBody(root, content, filePath, relPath, modulePath, fi, siblings, out)
}

// collectTopLevelNames returns the set of module-level function and class
// names declared directly in this file, used to resolve same-module
// sibling references.
func collectTopLevelNames(root *sitter.Node, content []byte) map[string]struct{} {
	names := make(map[string]struct{})
	n := int(root.NamedChildCount())
	for i := 0; i < n; i++ {
		child := root.NamedChild(i)
		target := child
		if child.Type() == "decorated_definition" {
			target = definitionUnderDecorator(child)
			if target == nil {
				continue
			}
		}
		if target.Type() == "function_definition" || target.Type() == "class_definition" {
			if name := target.ChildByFieldName("name"); name != nil {
				names[name.Content(content)] = struct{}{}
			}
		}
	}
	return names
}

// walkModuleBody visits the direct children of the module root, recording
// top-level function and class definitions.
func walkModuleBody(root *sitter.Node, content []byte, filePath, relPath, modulePath string, fi *fileImports, siblings map[string]struct{}, out ComponentMap) {
	n := int(root.NamedChildCount())
	for i := 0; i < n; i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "function_definition":
			addFunctionComponent(child, content, filePath, relPath, modulePath, "", fi, siblings, out)
		case "class_definition":
			addClassComponent(child, content, filePath, relPath, modulePath, fi, siblings, out)
		case "decorated_definition":
			def := definitionUnderDecorator(child)
			if def == nil {
				continue
			}
			switch def.Type() {
			case "function_definition":
				addFunctionComponent(def, content, filePath, relPath, modulePath, "", fi, siblings, out)
			case "class_definition":
				addClassComponent(def, content, filePath, relPath, modulePath, fi, siblings, out)
			}
		}
	}
}

// definitionUnderDecorator returns the function_definition or
// class_definition wrapped by a decorated_definition node.
func definitionUnderDecorator(n *sitter.Node) *sitter.Node {
	def := n.ChildByFieldName("definition")
	if def != nil {
		return def
	}
	// Fallback: the last named child is the wrapped definition.
	count := int(n.NamedChildCount())
	if count == 0 {
		return nil
	}
	return n.NamedChild(count - 1)
}

// addClassComponent records a class and walks its body for directly-nested
// methods. Methods nested inside another method, or classes nested inside
// this class, are not collected as independent components.
func addClassComponent(node *sitter.Node, content []byte, filePath, relPath, modulePath string, fi *fileImports, siblings map[string]struct{}, out ComponentMap) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Content(content)
	id := modulePath + "." + name

	comp := &CodeComponent{
		ID:           id,
		Kind:         KindClass,
		FilePath:     filePath,
		RelativePath: relPath,
		SourceText:   node.Content(content),
		StartLine:    int(node.StartPoint().Row) + 1,
		EndLine:      int(node.EndPoint().Row) + 1,
		ModulePath:   modulePath,
	}
	comp.HasDoc, comp.DocText = extractDocstring(node, content)
	comp.DependsOn = resolveDependencies(node, content, fi, modulePath, siblings)
	out[id] = comp

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	m := int(body.NamedChildCount())
	for i := 0; i < m; i++ {
		stmt := body.NamedChild(i)
		target := stmt
		if stmt.Type() == "decorated_definition" {
			target = definitionUnderDecorator(stmt)
			if target == nil {
				continue
			}
		}
		if target.Type() == "function_definition" {
			addFunctionComponent(target, content, filePath, relPath, modulePath, name, fi, siblings, out)
		}
		// Nested class_definition inside a class body is opaque: skipped.
	}
}

// addFunctionComponent records a top-level function (className == "") or a
// method (className != "").
func addFunctionComponent(node *sitter.Node, content []byte, filePath, relPath, modulePath, className string, fi *fileImports, siblings map[string]struct{}, out ComponentMap) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nameNode.Content(content)

	var id string
	kind := KindFunction
	if className != "" {
		id = modulePath + "." + className + "." + name
		kind = KindMethod
	} else {
		id = modulePath + "." + name
	}

	comp := &CodeComponent{
		ID:           id,
		Kind:         kind,
		FilePath:     filePath,
		RelativePath: relPath,
		SourceText:   node.Content(content),
		StartLine:    int(node.StartPoint().Row) + 1,
		EndLine:      int(node.EndPoint().Row) + 1,
		ClassName:    className,
		ModulePath:   modulePath,
	}
	comp.HasDoc, comp.DocText = extractDocstring(node, content)
	comp.DependsOn = resolveDependencies(node, content, fi, modulePath, siblings)
	out[id] = comp
}

// extractDocstring reports whether the function/class body's first
// statement is a bare string-literal expression, and returns its text.
func extractDocstring(node *sitter.Node, content []byte) (bool, string) {
	body := node.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return false, ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return false, ""
	}
	expr := first.NamedChild(0)
	if expr.Type() != "string" {
		return false, ""
	}
	return true, stripStringQuotes(expr.Content(content))
}

// stripStringQuotes removes the surrounding quote markers (''', """, ', ")
// from a Python string literal's source text.
func stripStringQuotes(s string) string {
	for _, q := range []string{`"""`, `'''`} {
		if len(s) >= 2*len(q) && hasPrefixSuffix(s, q) {
			return trimBoth(s, len(q))
		}
	}
	for _, q := range []string{`"`, `'`} {
		if len(s) >= 2 && hasPrefixSuffix(s, q) {
			return trimBoth(s, len(q))
		}
	}
	return s
}

func hasPrefixSuffix(s, affix string) bool {
	return len(s) >= 2*len(affix) && s[:len(affix)] == affix && s[len(s)-len(affix):] == affix
}

func trimBoth(s string, n int) string {
	return s[n : len(s)-n]
}
