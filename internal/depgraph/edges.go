package depgraph

// addClassMethodEdges gives every class component a dependency edge to each
// of its own methods, except __init__: a class's documentation is expected
// to have been written after its methods (other than the constructor, which
// is skipped for documentation entirely), matching the original analyzer's
// synthetic "class depends on its methods" edges. This pass only touches the
// component map, so it can run after every file's tree-sitter tree has
// already been closed.
func addClassMethodEdges(components ComponentMap) {
	methodsByClass := make(map[string][]string)
	for id, c := range components {
		if c.Kind != KindMethod || c.ClassName == "" {
			continue
		}
		classID := c.ModulePath + "." + c.ClassName
		if c.IsConstructor() {
			continue
		}
		methodsByClass[classID] = append(methodsByClass[classID], id)
	}

	for classID, methodIDs := range methodsByClass {
		class, ok := components[classID]
		if !ok {
			continue
		}
		for _, methodID := range methodIDs {
			class.AddDependency(methodID)
		}
	}
}
