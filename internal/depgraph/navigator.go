package depgraph

import "strings"

// ResolveComponentByPath looks up a dependency id against an already-built
// ComponentMap. Because every component in a repository is parsed and
// indexed up front (unlike the path-driven, parse-on-demand lookup the
// original analyzer performed against the filesystem), resolution here is
// primarily an exact map lookup; the fallback exists for ids emitted by
// looser dependency rules that don't land on a literal key, for example
// an attribute chain truncated to its first two segments.
func ResolveComponentByPath(components ComponentMap, dependencyPath string) (*CodeComponent, bool) {
	if c, ok := components[dependencyPath]; ok {
		return c, true
	}

	parts := strings.Split(dependencyPath, ".")
	if len(parts) < 2 {
		return nil, false
	}

	// Tolerant retry: walk the path backward one segment at a time, in case
	// the id carried a trailing segment that doesn't correspond to a
	// component (e.g. a module-level attribute access rather than a call).
	for i := len(parts) - 1; i >= 2; i-- {
		candidate := strings.Join(parts[:i], ".")
		if c, ok := components[candidate]; ok {
			return c, true
		}
	}

	return nil, false
}

// GetClassHeaderThroughInit returns a class component's source truncated to
// the end of its __init__ method, if it has one, to keep context supplied
// to an agent about a referenced class small. Classes without an __init__
// are returned in full.
func GetClassHeaderThroughInit(class *CodeComponent, components ComponentMap) string {
	if class == nil || class.Kind != KindClass {
		return ""
	}

	initID := class.ModulePath + "." + class.ClassNameOrSelf() + ".__init__"
	init, ok := components[initID]
	if !ok || init.EndLine < class.StartLine {
		return class.SourceText
	}

	lines := strings.Split(class.SourceText, "\n")
	cut := init.EndLine - class.StartLine + 1
	if cut > len(lines) {
		cut = len(lines)
	}
	if cut <= 0 {
		return class.SourceText
	}
	return strings.Join(lines[:cut], "\n")
}

// ClassNameOrSelf returns the component's own bare name when it is a class,
// matching the naming the __init__ lookup above needs.
func (c *CodeComponent) ClassNameOrSelf() string {
	if c.Kind == KindClass {
		return baseName(c.ID)
	}
	return c.ClassName
}

// ResolveDependents returns every component that depends on the given id,
// using the already-built graph rather than re-scanning source for calls.
func ResolveDependents(components ComponentMap, id string) []*CodeComponent {
	var dependents []*CodeComponent
	for _, c := range components {
		if _, ok := c.DependsOn[id]; ok {
			dependents = append(dependents, c)
		}
	}
	return dependents
}

// Lookup adapts a ComponentMap to docagent's ComponentLookup interface, so
// the Searcher agent can resolve names without depending on the map's
// concrete type.
type Lookup struct {
	Components ComponentMap
}

// Resolve satisfies docagent.ComponentLookup.
func (l Lookup) Resolve(id string) (*CodeComponent, bool) {
	return ResolveComponentByPath(l.Components, id)
}

// Dependents satisfies docagent.ComponentLookup.
func (l Lookup) Dependents(id string) []*CodeComponent {
	return ResolveDependents(l.Components, id)
}

// ClassHeader satisfies docagent.ComponentLookup, handing the Searcher a
// class dependency's header-through-constructor text rather than its full
// body, per the base spec's class-dependency truncation rule.
func (l Lookup) ClassHeader(id string) string {
	class, ok := ResolveComponentByPath(l.Components, id)
	if !ok || class.Kind != KindClass {
		return ""
	}
	return GetClassHeaderThroughInit(class, l.Components)
}
