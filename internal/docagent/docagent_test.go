package docagent

import (
	"context"
	"strings"
	"testing"

	"github.com/docwright/docwright/internal/agentcontext"
	"github.com/docwright/docwright/internal/depgraph"
	"github.com/docwright/docwright/internal/llm"
)

type stubProvider struct {
	response string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: s.response}, nil
}

func TestReaderParsesInfoRequest(t *testing.T) {
	provider := &stubProvider{response: `Analysis text.
<INFO_NEED>true</INFO_NEED>
<REQUEST>
  <INTERNAL>
    <CALLS>
      <CLASS>Widget</CLASS>
      <FUNCTION>helper</FUNCTION>
      <METHOD></METHOD>
    </CALLS>
    <CALL_BY>true</CALL_BY>
  </INTERNAL>
  <RETRIEVAL>
    <QUERY>what is NDCG loss</QUERY>
  </RETRIEVAL>
</REQUEST>`}

	reader := NewReader(provider)
	req, _, err := reader.Process(context.Background(), "test-model", 1000, "def foo(): pass", "", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !req.NeedMore {
		t.Fatalf("expected NeedMore true")
	}
	if len(req.Classes) != 1 || req.Classes[0] != "Widget" {
		t.Errorf("Classes = %v", req.Classes)
	}
	if len(req.Functions) != 1 || req.Functions[0] != "helper" {
		t.Errorf("Functions = %v", req.Functions)
	}
	if !req.NeedCallers {
		t.Errorf("expected NeedCallers true")
	}
	if len(req.ExternalQuery) != 1 || req.ExternalQuery[0] != "what is NDCG loss" {
		t.Errorf("ExternalQuery = %v", req.ExternalQuery)
	}
}

func TestWriterExtractsDocstringBetweenTags(t *testing.T) {
	provider := &stubProvider{response: "some analysis\n<DOCSTRING>\nDoes a thing.\n</DOCSTRING>\ntrailer"}
	writer := NewWriter(provider, DocstringOptions{Style: "google"})

	doc, err := writer.Process(context.Background(), "test-model", 1000, "def foo(): pass", "", "", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if doc != "Does a thing." {
		t.Errorf("doc = %q, want %q", doc, "Does a thing.")
	}
}

func TestWriterFallsBackToFullResponseWithoutTags(t *testing.T) {
	provider := &stubProvider{response: "Does a thing, no tags."}
	writer := NewWriter(provider, DocstringOptions{})

	doc, err := writer.Process(context.Background(), "test-model", 1000, "def foo(): pass", "", "", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if doc != "Does a thing, no tags." {
		t.Errorf("doc = %q", doc)
	}
}

func TestVerifierNoRevisionNeeded(t *testing.T) {
	provider := &stubProvider{response: "Looks accurate.\n<NEED_REVISION>false</NEED_REVISION>"}
	verifier := NewVerifier(provider)

	result, err := verifier.Process(context.Background(), "test-model", 1000, "def foo(): pass", "Does a thing.", "", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.NeedsRevision {
		t.Errorf("expected NeedsRevision false")
	}
}

func TestVerifierRequestsMoreContext(t *testing.T) {
	response := `<NEED_REVISION>true</NEED_REVISION>
<MORE_CONTEXT>true</MORE_CONTEXT>
<SUGGESTION_CONTEXT>need to see the caller</SUGGESTION_CONTEXT>`
	provider := &stubProvider{response: response}
	verifier := NewVerifier(provider)

	result, err := verifier.Process(context.Background(), "test-model", 1000, "def foo(): pass", "Does a thing.", "", nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !result.NeedsRevision || !result.NeedsMoreContext {
		t.Fatalf("expected revision + more context, got %+v", result)
	}
	if result.SuggestionContext != "need to see the caller" {
		t.Errorf("SuggestionContext = %q", result.SuggestionContext)
	}
}

func TestSectionRequirementsFunction(t *testing.T) {
	code := "def greet(name):\n    return \"hi \" + name\n"
	sections := sectionRequirements(code)
	for _, want := range []string{"Args", "Returns", "Examples"} {
		if !containsString(sections, want) {
			t.Errorf("sectionRequirements(%q) = %v, missing %q", code, sections, want)
		}
	}
	if containsString(sections, "Raises") {
		t.Errorf("sectionRequirements(%q) = %v, unexpected Raises", code, sections)
	}
}

func TestSectionRequirementsNoArgsNoReturn(t *testing.T) {
	code := "def ping():\n    print(\"pong\")\n"
	sections := sectionRequirements(code)
	if containsString(sections, "Args") || containsString(sections, "Returns") {
		t.Errorf("sectionRequirements(%q) = %v, expected no Args/Returns", code, sections)
	}
}

func TestSectionRequirementsPrivateNameSkipsExamples(t *testing.T) {
	code := "def _helper(x):\n    return x\n"
	sections := sectionRequirements(code)
	if containsString(sections, "Examples") {
		t.Errorf("sectionRequirements(%q) = %v, private name should skip Examples", code, sections)
	}
}

func TestSectionRequirementsEscapingRaise(t *testing.T) {
	code := "def validate(x):\n    if x < 0:\n        raise ValueError(\"negative\")\n    return x\n"
	sections := sectionRequirements(code)
	if !containsString(sections, "Raises") {
		t.Errorf("sectionRequirements(%q) = %v, expected Raises", code, sections)
	}
}

func TestSectionRequirementsCaughtRaiseDoesNotEscape(t *testing.T) {
	code := "def safe_div(a, b):\n    try:\n        raise ValueError(\"unused\")\n    except ValueError:\n        return 0\n"
	sections := sectionRequirements(code)
	if containsString(sections, "Raises") {
		t.Errorf("sectionRequirements(%q) = %v, raise inside try body should not count as escaping", code, sections)
	}
}

func TestSectionRequirementsClass(t *testing.T) {
	code := "class Widget:\n    kind = \"generic\"\n\n    def __init__(self, size):\n        self.size = size\n"
	sections := sectionRequirements(code)
	for _, want := range []string{"Parameters", "Attributes", "Examples"} {
		if !containsString(sections, want) {
			t.Errorf("sectionRequirements(%q) = %v, missing %q", code, sections, want)
		}
	}
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func TestSearcherResolvesDependencyFirst(t *testing.T) {
	components := depgraph.ComponentMap{
		"pkg.mod.caller": {
			ID:         "pkg.mod.caller",
			SourceText: "def caller(): foo(); Bar()",
			DependsOn:  map[string]struct{}{"pkg.mod.foo": {}, "pkg.mod.Bar": {}},
		},
		"pkg.mod.foo": {ID: "pkg.mod.foo", Kind: depgraph.KindFunction, SourceText: "def foo(): pass"},
		"pkg.mod.Bar": {ID: "pkg.mod.Bar", Kind: depgraph.KindClass, ModulePath: "pkg.mod", SourceText: "class Bar: pass"},
	}
	lookup := depgraph.Lookup{Components: components}
	searcher := NewSearcher(lookup, nil)

	store := agentcontext.NewStore()
	req := InfoRequest{Classes: []string{"Bar"}, Functions: []string{"foo"}}
	searcher.Resolve(context.Background(), "pkg.mod.caller", components["pkg.mod.caller"].DependsOn, req, store)

	rendered := store.Render()
	if !strings.Contains(rendered, "class Bar: pass") {
		t.Errorf("expected Bar's class source resolved via the dependency edge, got: %s", rendered)
	}
	if !strings.Contains(rendered, "def foo(): pass") {
		t.Errorf("expected foo's source resolved via the dependency edge, got: %s", rendered)
	}
}

// TestSearcherDoesNotMatchUnrelatedComponents confirms the Searcher only
// ever resolves names against the focal component's own dependency edges,
// never against the whole component map, per the base spec's retrieval
// contract (only first-level references are addressable).
func TestSearcherDoesNotMatchUnrelatedComponents(t *testing.T) {
	components := depgraph.ComponentMap{
		"pkg.mod.caller": {
			ID:        "pkg.mod.caller",
			DependsOn: map[string]struct{}{"pkg.mod.foo": {}},
		},
		"pkg.mod.foo":      {ID: "pkg.mod.foo", Kind: depgraph.KindFunction, SourceText: "def foo(): pass"},
		"pkg.mod.Unrelated": {ID: "pkg.mod.Unrelated", Kind: depgraph.KindClass, SourceText: "class Unrelated: pass"},
	}
	lookup := depgraph.Lookup{Components: components}
	searcher := NewSearcher(lookup, nil)

	store := agentcontext.NewStore()
	req := InfoRequest{Classes: []string{"Unrelated"}}
	searcher.Resolve(context.Background(), "pkg.mod.caller", components["pkg.mod.caller"].DependsOn, req, store)

	if strings.Contains(store.Render(), "class Unrelated") {
		t.Errorf("expected Unrelated to stay unresolved since it isn't a dependency edge of the focal component")
	}
}
