package docagent

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/docwright/docwright/internal/agentcontext"
	"github.com/docwright/docwright/internal/depgraph"
)

// ReferenceProvider answers an external, open-internet retrieval query.
// The original's external-retrieval feature is defined only as a contract
// in the distilled spec; this interface gives it a concrete Go home.
type ReferenceProvider interface {
	Answer(ctx context.Context, query string) (string, error)
}

// Searcher resolves a Reader's InfoRequest against the focal component's
// own outgoing dependency edges and, when asked, an external
// ReferenceProvider, writing results into the shared agentcontext.Store
// for this component's remaining rounds.
type Searcher struct {
	components ComponentLookup
	references ReferenceProvider
}

// ComponentLookup is the subset of ComponentMap behavior Searcher needs,
// so tests can stub it without building a full tree-sitter parse.
type ComponentLookup interface {
	Resolve(id string) (*depgraph.CodeComponent, bool)
	Dependents(id string) []*depgraph.CodeComponent
	// ClassHeader returns a class component's source truncated through
	// the end of its constructor (depgraph.GetClassHeaderThroughInit),
	// or "" if id doesn't resolve to a class.
	ClassHeader(id string) string
}

// NewSearcher constructs a Searcher. references may be nil, in which case
// external queries are skipped.
func NewSearcher(components ComponentLookup, references ReferenceProvider) *Searcher {
	return &Searcher{components: components, references: references}
}

// Resolve fulfills an InfoRequest against the focal component's own
// dependency edges (dependsOn), adding each found fragment to store under
// the appropriate section.
func (s *Searcher) Resolve(ctx context.Context, focalID string, dependsOn map[string]struct{}, req InfoRequest, store *agentcontext.Store) {
	edges := sortedEdges(dependsOn)

	for _, name := range req.Classes {
		s.addFromEdges(store, agentcontext.SectionClass, edges, name, kindClass)
	}
	for _, name := range req.Functions {
		s.addFromEdges(store, agentcontext.SectionFunction, edges, name, kindFunction)
	}
	for _, name := range req.Methods {
		s.addFromEdges(store, agentcontext.SectionMethod, edges, name, kindMethod)
	}

	if req.NeedCallers {
		callers := s.components.Dependents(focalID)
		if len(callers) == 0 {
			store.Add(agentcontext.SectionCallBy, "This component is never called by any other component.")
		}
		for _, dep := range callers {
			store.Add(agentcontext.SectionCallBy, dep.SourceText)
		}
	}

	if s.references == nil {
		return
	}
	for _, q := range req.ExternalQuery {
		answer, err := s.references.Answer(ctx, q)
		if err != nil {
			answer = "External retrieval failed for this query: " + err.Error()
		}
		if answer == "" {
			continue
		}
		store.Add(agentcontext.SectionExternalRetrieval, answer)
	}
}

// edgeKind classifies a dependency edge's probable shape from the casing
// of its dotted path — a dependency graph edge, not a resolved component,
// so casing is the only signal available, same as the original analyzer.
type edgeKind int

const (
	kindClass edgeKind = iota
	kindFunction
	kindMethod
)

// classifyEdge reports which kind a dependency path most likely names, by
// capitalization of its last (and, for methods, second-to-last) segment.
func classifyEdge(path string) (edgeKind, bool) {
	parts := strings.Split(path, ".")
	last := parts[len(parts)-1]
	if last == "" {
		return 0, false
	}
	if startsUpper(last) {
		return kindClass, true
	}
	if len(parts) >= 2 && startsUpper(parts[len(parts)-2]) {
		return kindMethod, true
	}
	return kindFunction, true
}

func startsUpper(s string) bool {
	r := []rune(s)
	return len(r) > 0 && unicode.IsUpper(r[0])
}

// addFromEdges walks the focal component's dependency edges (in
// deterministic, sorted order — the original iterates the parser's own
// list order, which Go's map-backed DependsOn set doesn't preserve),
// looking for one of the requested kind whose name tolerantly matches
// name: an exact match on its last path segment, name appearing anywhere
// in the full dependency path, or the last segment ending with name.
// Methods also match on "ClassName.method". This ports
// original_source/src/agent/searcher.py's _gather_internal_info.
func (s *Searcher) addFromEdges(store *agentcontext.Store, section string, edges []string, name string, want edgeKind) {
	if name == "" {
		return
	}
	for _, path := range edges {
		kind, ok := classifyEdge(path)
		if !ok || kind != want {
			continue
		}
		parts := strings.Split(path, ".")
		last := parts[len(parts)-1]

		matched := last == name || strings.Contains(path, name) || strings.HasSuffix(last, name)
		if want == kindMethod && len(parts) >= 2 {
			matched = matched || parts[len(parts)-2]+"."+last == name
		}
		if !matched {
			continue
		}

		if want == kindClass {
			if header := s.components.ClassHeader(path); header != "" {
				store.Add(section, header)
				return
			}
			continue
		}
		comp, ok := s.components.Resolve(path)
		if !ok {
			continue
		}
		store.Add(section, comp.SourceText)
		return
	}
}

func sortedEdges(dependsOn map[string]struct{}) []string {
	edges := make([]string, 0, len(dependsOn))
	for id := range dependsOn {
		edges = append(edges, id)
	}
	sort.Strings(edges)
	return edges
}
