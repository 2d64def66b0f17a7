package docagent

import (
	"context"

	"github.com/docwright/docwright/internal/llm"
)

const verifierSystemPrompt = `You are a Verifier agent responsible for checking a generated docstring
against the code component and context it was written from.

Respond with:
1. <NEED_REVISION>true/false</NEED_REVISION>
2. If true, explain the specific problems and whether additional context
   would resolve them: <MORE_CONTEXT>true/false</MORE_CONTEXT>
3. Based on MORE_CONTEXT, provide suggestions at the end of your response:
   - If MORE_CONTEXT is true: <SUGGESTION_CONTEXT>what specific context is
     needed and why</SUGGESTION_CONTEXT>
   - If MORE_CONTEXT is false: <SUGGESTION>specific improvement
     suggestions</SUGGESTION>

Do not generate anything after </SUGGESTION> or </SUGGESTION_CONTEXT>.`

// VerifyResult is the Verifier's decision for one docstring draft.
type VerifyResult struct {
	NeedsRevision    bool
	NeedsMoreContext bool
	SuggestionContext string
	Suggestion       string
}

// Verifier checks a generated docstring and decides whether it needs
// another round, and if so, whether that round needs a revision (Writer)
// or more context (Searcher) first.
type Verifier struct {
	agent *llmAgent
}

// NewVerifier constructs a Verifier backed by the given provider.
func NewVerifier(provider llm.Provider) *Verifier {
	return &Verifier{agent: &llmAgent{name: "verifier", provider: provider, systemPrompt: verifierSystemPrompt}}
}

// Process checks docstring against focalCode and gatheredContext.
func (v *Verifier) Process(ctx context.Context, model string, maxTokens int, focalCode, docstring, gatheredContext string, usage *Usage) (VerifyResult, error) {
	mem := NewMemory()
	mem.Add(llm.RoleSystem, v.agent.systemPrompt)

	task := "Context used to generate this docstring:\n" + orNone(gatheredContext) + "\n\n"
	task += "<FOCAL_CODE_COMPONENT>\n" + focalCode + "\n</FOCAL_CODE_COMPONENT>\n\n"
	task += "<DOCSTRING>\n" + docstring + "\n</DOCSTRING>\n\n"
	task += "Evaluate whether this docstring is accurate and complete."

	mem.Add(llm.RoleUser, task)

	response, err := v.agent.Complete(ctx, model, maxTokens, mem, usage)
	if err != nil {
		return VerifyResult{}, err
	}

	result := VerifyResult{NeedsRevision: extractBoolTag(response, "NEED_REVISION", false)}
	if !result.NeedsRevision {
		return result, nil
	}
	result.NeedsMoreContext = extractBoolTag(response, "MORE_CONTEXT", false)
	if result.NeedsMoreContext {
		result.SuggestionContext, _ = extractTag(response, "SUGGESTION_CONTEXT")
	} else {
		result.Suggestion, _ = extractTag(response, "SUGGESTION")
	}
	return result, nil
}
