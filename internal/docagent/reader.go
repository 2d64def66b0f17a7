package docagent

import (
	"context"

	"github.com/docwright/docwright/internal/llm"
)

const readerSystemPrompt = `You are a Reader agent responsible for determining if more context
is needed to generate a high-quality docstring for a code component.

You have access to two kinds of information:

1. Internal codebase information: components called within the focal
   component's body, places where it is called from, and (for methods)
   the class it belongs to.
2. External open-internet retrieval: extremely expensive, and should only
   be requested when the component implements a novel or recently
   published algorithm or metric.

Respond with:
1. A short free-text analysis of what, if anything, is missing.
2. <INFO_NEED>true</INFO_NEED> or <INFO_NEED>false</INFO_NEED>.
3. If true, a structured request:

<REQUEST>
  <INTERNAL>
    <CALLS>
      <CLASS>class1,class2</CLASS>
      <FUNCTION>func1,func2</FUNCTION>
      <METHOD>self.method1,instance.method2</METHOD>
    </CALLS>
    <CALL_BY>true/false</CALL_BY>
  </INTERNAL>
  <RETRIEVAL>
    <QUERY>query1,query2</QUERY>
  </RETRIEVAL>
</REQUEST>

Only request information that is directly reachable from the focal
component: first-level calls, not transitive ones. Use comma-separated
values without spaces for multiple items, and empty tags when a category
has nothing to request.`

// InfoRequest is the Reader's structured follow-up ask, parsed out of its
// free-text response.
type InfoRequest struct {
	NeedMore     bool
	Classes      []string
	Functions    []string
	Methods      []string
	NeedCallers  bool
	ExternalQuery []string
}

// Reader decides whether an agent needs more context before a docstring
// can be written for the focal component.
type Reader struct {
	agent *llmAgent
}

// NewReader constructs a Reader backed by the given provider.
func NewReader(provider llm.Provider) *Reader {
	return &Reader{agent: &llmAgent{name: "reader", provider: provider, systemPrompt: readerSystemPrompt}}
}

// Process asks the Reader whether context is sufficient to document
// focalCode, given the context gathered so far.
func (r *Reader) Process(ctx context.Context, model string, maxTokens int, focalCode, gatheredContext string, usage *Usage) (InfoRequest, string, error) {
	mem := NewMemory()
	mem.Add(llm.RoleSystem, r.agent.systemPrompt)

	task := "Current context:\n"
	if gatheredContext == "" {
		task += "No context gathered yet."
	} else {
		task += gatheredContext
	}
	task += "\n\nAnalyze the following code component:\n\n" + focalCode

	mem.Add(llm.RoleUser, task)

	response, err := r.agent.Complete(ctx, model, maxTokens, mem, usage)
	if err != nil {
		return InfoRequest{}, "", err
	}

	req := parseInfoRequest(response)
	return req, response, nil
}

func parseInfoRequest(response string) InfoRequest {
	req := InfoRequest{NeedMore: extractBoolTag(response, "INFO_NEED", false)}
	if !req.NeedMore {
		return req
	}

	if calls, ok := extractTag(response, "CALLS"); ok {
		if v, ok := extractTag(calls, "CLASS"); ok {
			req.Classes = splitCommaList(v)
		}
		if v, ok := extractTag(calls, "FUNCTION"); ok {
			req.Functions = splitCommaList(v)
		}
		if v, ok := extractTag(calls, "METHOD"); ok {
			req.Methods = splitCommaList(v)
		}
	}
	req.NeedCallers = extractBoolTag(response, "CALL_BY", false)
	if query, ok := extractTag(response, "QUERY"); ok {
		req.ExternalQuery = splitCommaList(query)
	}
	return req
}
