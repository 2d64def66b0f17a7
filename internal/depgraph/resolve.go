package depgraph

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// resolveDependencies walks a single component's subtree and returns the set
// of dependency ids it references, following the rules from the original
// analyzer: a bare name imported "from M" resolves to M.name; a chained
// attribute off an imported module resolves to module.nextAttr; a bare name
// matching a sibling defined in the same module resolves to module.name;
// base-class names of a class definition resolve the same way. Built-ins,
// standard-library modules, self/cls, and locally defined names are never
// emitted as edges.
func resolveDependencies(node *sitter.Node, content []byte, fi *fileImports, modulePath string, siblings map[string]struct{}) map[string]struct{} {
	deps := make(map[string]struct{})
	locals := collectLocalNames(node, content)
	constructed := collectConstructorAssignments(node, content, fi, modulePath, siblings)

	var emit func(name string)
	emit = func(name string) {
		if name == "" || name == excludedSelf || name == excludedCls {
			return
		}
		if _, ok := locals[name]; ok {
			return
		}
		if _, ok := builtinTypes[name]; ok {
			return
		}
		if mod, ok := fi.fromImports[name]; ok {
			if _, ok := standardModules[localName(mod)]; !ok {
				deps[mod+"."+name] = struct{}{}
			}
			return
		}
		if _, ok := siblings[name]; ok {
			deps[modulePath+"."+name] = struct{}{}
		}
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "call":
			fn := n.ChildByFieldName("function")
			if fn != nil {
				handleCallable(fn, content, fi, locals, constructed, emit, deps)
			}
		case "attribute":
			handleAttribute(n, content, fi, locals, emit, deps)
			// Do not recurse further into this attribute chain; it has
			// already been fully classified by handleAttribute.
			return
		case "identifier":
			emit(n.Content(content))
		}

		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			walk(n.Child(i))
		}
	}

	// For class definitions, also resolve base classes.
	if node.Type() == "class_definition" {
		if super := node.ChildByFieldName("superclasses"); super != nil {
			count := int(super.NamedChildCount())
			for i := 0; i < count; i++ {
				arg := super.NamedChild(i)
				if arg.Type() == "identifier" {
					emit(arg.Content(content))
				}
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body != nil {
		walk(body)
	}

	return deps
}

// handleCallable resolves the callee of a call expression: a bare name or
// an attribute chain rooted at an imported module or a constructor-inferred
// local variable.
func handleCallable(fn *sitter.Node, content []byte, fi *fileImports, locals map[string]struct{}, constructed map[string]string, emit func(string), deps map[string]struct{}) {
	switch fn.Type() {
	case "identifier":
		emit(fn.Content(content))
	case "attribute":
		obj := fn.ChildByFieldName("object")
		attr := fn.ChildByFieldName("attribute")
		if obj == nil || attr == nil {
			return
		}
		if obj.Type() != "identifier" {
			return
		}
		objName := obj.Content(content)
		attrName := attr.Content(content)

		if objName == excludedSelf || objName == excludedCls {
			return
		}
		if cls, ok := constructed[objName]; ok {
			deps[cls+"."+attrName] = struct{}{}
			return
		}
		if mod, ok := fi.modules[objName]; ok {
			if _, ok := standardModules[localName(mod)]; !ok {
				deps[mod+"."+attrName] = struct{}{}
			}
		}
	}
}

// handleAttribute resolves a non-call attribute access chain the same way
// handleCallable resolves a call's callee.
func handleAttribute(n *sitter.Node, content []byte, fi *fileImports, locals map[string]struct{}, emit func(string), deps map[string]struct{}) {
	obj := n.ChildByFieldName("object")
	attr := n.ChildByFieldName("attribute")
	if obj == nil || attr == nil {
		return
	}
	if obj.Type() == "identifier" {
		objName := obj.Content(content)
		attrName := attr.Content(content)
		if mod, ok := fi.modules[objName]; ok {
			if _, ok := standardModules[localName(mod)]; !ok {
				deps[mod+"."+attrName] = struct{}{}
			}
			return
		}
	}
	// Fall through: a bare identifier object is emitted as a dependency
	// on its own; nested attribute chains are not resolved further.
	if obj.Type() == "identifier" {
		emit(obj.Content(content))
	}
}

// collectLocalNames gathers assignment targets and parameter names within a
// component's subtree, used to suppress false-positive dependency edges.
func collectLocalNames(node *sitter.Node, content []byte) map[string]struct{} {
	locals := make(map[string]struct{})

	if params := node.ChildByFieldName("parameters"); params != nil {
		count := int(params.NamedChildCount())
		for i := 0; i < count; i++ {
			p := params.NamedChild(i)
			addParamName(p, content, locals)
		}
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "assignment" {
			left := n.ChildByFieldName("left")
			if left != nil {
				addAssignTargets(left, content, locals)
			}
		}
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			walk(n.NamedChild(i))
		}
	}
	if body := node.ChildByFieldName("body"); body != nil {
		walk(body)
	}
	return locals
}

func addParamName(p *sitter.Node, content []byte, locals map[string]struct{}) {
	switch p.Type() {
	case "identifier":
		locals[p.Content(content)] = struct{}{}
	case "typed_parameter", "default_parameter", "typed_default_parameter",
		"list_splat_pattern", "dictionary_splat_pattern":
		if name := p.ChildByFieldName("name"); name != nil {
			locals[name.Content(content)] = struct{}{}
		} else if p.NamedChildCount() > 0 {
			addParamName(p.NamedChild(0), content, locals)
		}
	}
}

func addAssignTargets(left *sitter.Node, content []byte, locals map[string]struct{}) {
	switch left.Type() {
	case "identifier":
		locals[left.Content(content)] = struct{}{}
	case "pattern_list", "tuple_pattern", "list_pattern":
		count := int(left.NamedChildCount())
		for i := 0; i < count; i++ {
			addAssignTargets(left.NamedChild(i), content, locals)
		}
	}
}

// collectConstructorAssignments finds "x = ClassName(...)" bindings local
// to the component, so later attribute calls on x can be resolved to
// ClassName's methods.
func collectConstructorAssignments(node *sitter.Node, content []byte, fi *fileImports, modulePath string, siblings map[string]struct{}) map[string]string {
	out := make(map[string]string)
	body := node.ChildByFieldName("body")
	if body == nil {
		return out
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "assignment" {
			left := n.ChildByFieldName("left")
			right := n.ChildByFieldName("right")
			if left != nil && right != nil && left.Type() == "identifier" && right.Type() == "call" {
				fn := right.ChildByFieldName("function")
				if fn != nil && fn.Type() == "identifier" {
					className := fn.Content(content)
					if mod, ok := fi.fromImports[className]; ok {
						out[left.Content(content)] = mod + "." + className
					} else if _, ok := siblings[className]; ok {
						out[left.Content(content)] = modulePath + "." + className
					}
				}
			}
		}
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(body)
	return out
}
