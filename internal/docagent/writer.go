package docagent

import (
	"context"
	"regexp"
	"strings"

	"github.com/docwright/docwright/internal/llm"
)

const writerBasePrompt = `You are a Writer agent responsible for generating high-quality
docstrings that are both complete and helpful, using the context you are given.

General guidelines:
1. Make docstrings actionable and specific: focus on practical usage,
   highlight important considerations, include warnings or gotchas.
2. Use clear, concise, active-voice language.
3. Include precise type information and note any type constraints.
4. Explain relationships to other components, dependencies, and side
   effects made visible by the supplied context.
5. Follow Google docstring format: consistent indentation, clear section
   separation, related information grouped together.`

const writerClassPrompt = `You are documenting a CLASS. Describe the object it represents and its
role in the system.

Required sections: Summary (one line, what it represents), Description
(why/when/where/how).`

const writerFunctionPrompt = `You are documenting a FUNCTION or METHOD. Describe the action it
performs and its effects.

Required sections: Summary (one line, what it does), Description
(why/when/where/how).`

// Writer generates a docstring for a focal component given its gathered
// context.
type Writer struct {
	agent   *llmAgent
	options DocstringOptions
}

// DocstringOptions mirrors config.DocstringOptions without creating an
// import cycle between docagent and config.
type DocstringOptions struct {
	Style            string
	IncludeTypeHints bool
	MaxLineLength    int
}

// NewWriter constructs a Writer backed by the given provider.
func NewWriter(provider llm.Provider, options DocstringOptions) *Writer {
	return &Writer{
		agent:   &llmAgent{name: "writer", provider: provider, systemPrompt: writerBasePrompt},
		options: options,
	}
}

// Process generates a docstring for focalCode given gatheredContext, and
// optionally a revision note carried over from a Verifier round.
func (w *Writer) Process(ctx context.Context, model string, maxTokens int, focalCode, gatheredContext, revisionNote string, usage *Usage) (string, error) {
	mem := NewMemory()
	mem.Add(llm.RoleSystem, w.agent.systemPrompt)
	mem.Add(llm.RoleSystem, customPromptFor(focalCode))

	task := "Available context:\n" + orNone(gatheredContext) + "\n\n"
	if revisionNote != "" {
		task += "A previous draft needed revision for this reason:\n" + revisionNote + "\n\n"
	}
	task += "Generate a high-quality docstring for the following code component based on the available context:\n\n"
	task += "<FOCAL_CODE_COMPONENT>\n" + focalCode + "\n</FOCAL_CODE_COMPONENT>\n\n"
	task += "Generate the docstring between the tags <DOCSTRING> and </DOCSTRING>. Do not wrap it in triple quotes."

	mem.Add(llm.RoleUser, task)

	response, err := w.agent.Complete(ctx, model, maxTokens, mem, usage)
	if err != nil {
		return "", err
	}
	return extractDocstring(response), nil
}

// customPromptFor builds the Writer's specialized system prompt for code,
// splicing the base class/function prompt together with whichever
// conditional sections sectionRequirements finds this specific component
// actually needs, per base spec §4.4's per-component layout contract.
func customPromptFor(code string) string {
	base := writerFunctionPrompt
	if isClassComponent(code) {
		base = writerClassPrompt
	}
	sections := sectionRequirements(code)
	if len(sections) == 0 {
		return base
	}
	return base + "\nConditional sections, include only these: " + strings.Join(sections, ", ") + "."
}

func isClassComponent(code string) bool {
	firstLine := code
	if idx := strings.IndexByte(code, '\n'); idx >= 0 {
		firstLine = code[:idx]
	}
	return strings.Contains(firstLine, "class ")
}

var (
	funcNameRe    = regexp.MustCompile(`def\s+(\w+)`)
	defParamsRe   = regexp.MustCompile(`def\s+\w+\s*\(([^)]*)\)`)
	initParamsRe  = regexp.MustCompile(`def\s+__init__\s*\(([^)]*)\)`)
	classNameRe   = regexp.MustCompile(`class\s+(\w+)`)
	classBasesRe  = regexp.MustCompile(`class\s+\w+\s*\(([^)]*)\)`)
	returnValueRe = regexp.MustCompile(`(?m)^\s*return\s+\S`)
	yieldRe       = regexp.MustCompile(`(?m)^\s*yield(\s|\()`)
	raiseRe       = regexp.MustCompile(`(?m)^\s*raise(\s|$)`)
	tryBlockRe    = regexp.MustCompile(`(?m)^\s*try\s*:`)
	exceptBlockRe = regexp.MustCompile(`(?m)^\s*(except|finally)\b`)
	classAssignRe = regexp.MustCompile(`(?m)^    (\w+)\s*(:[^=]+)?=\s*\S`)
	selfAssignRe  = regexp.MustCompile(`self\.\w+\s*=`)
)

// sectionRequirements reports which conditional docstring sections apply
// to a component's source, per base spec §4.4: Args/Parameters iff
// parameters beyond the receiver exist, Returns iff a non-None return or
// a yield exists, Raises iff a raise escapes its enclosing exception
// handler, Examples iff the name doesn't start with an underscore, and,
// for classes, Attributes iff the class assigns at class scope, assigns
// self.* in its constructor, or derives from an enumeration base. This
// feeds only the Writer's prompt, per SPEC_FULL.md; it is not a
// mechanical check of the model's eventual output.
func sectionRequirements(code string) []string {
	if isClassComponent(code) {
		return classSectionRequirements(code)
	}
	return functionSectionRequirements(code)
}

func functionSectionRequirements(code string) []string {
	var sections []string
	if hasParamsBeyondReceiver(defParamsRe.FindStringSubmatch(code)) {
		sections = append(sections, "Args")
	}
	if returnValueRe.MatchString(code) || yieldRe.MatchString(code) {
		sections = append(sections, "Returns")
	}
	if hasEscapingRaise(code) {
		sections = append(sections, "Raises")
	}
	if !nameStartsWithUnderscore(funcNameRe, code) {
		sections = append(sections, "Examples")
	}
	return sections
}

func classSectionRequirements(code string) []string {
	var sections []string
	if hasParamsBeyondReceiver(initParamsRe.FindStringSubmatch(code)) {
		sections = append(sections, "Parameters")
	}
	if classAssignRe.MatchString(code) || selfAssignRe.MatchString(code) || classDerivesFromEnum(code) {
		sections = append(sections, "Attributes")
	}
	if !nameStartsWithUnderscore(classNameRe, code) {
		sections = append(sections, "Examples")
	}
	return sections
}

func nameStartsWithUnderscore(nameRe *regexp.Regexp, code string) bool {
	m := nameRe.FindStringSubmatch(code)
	return m != nil && strings.HasPrefix(m[1], "_")
}

// hasParamsBeyondReceiver reports whether a def/`__init__`'s parameter
// list (m[1], from a regex match with the param list as capture group 1)
// has any parameter beyond a leading self/cls receiver.
func hasParamsBeyondReceiver(m []string) bool {
	if m == nil {
		return false
	}
	params := splitTopLevel(m[1])
	if len(params) == 0 {
		return false
	}
	first := strings.TrimSpace(params[0])
	first = strings.SplitN(first, ":", 2)[0]
	first = strings.SplitN(first, "=", 2)[0]
	first = strings.TrimSpace(first)
	if first == "self" || first == "cls" {
		return len(params) > 1
	}
	return true
}

// splitTopLevel splits a parameter list on commas that aren't nested
// inside brackets or parens, so default values like `x=[1, 2]` don't get
// split mid-list.
func splitTopLevel(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var parts []string
	depth := 0
	last := 0
	for i, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// hasEscapingRaise walks code's raise/try/except structure line by
// indentation, reporting whether any raise sits outside a try block's
// own body (a raise inside "try:" is presumed caught by its matching
// except; a raise in the function body, an if-branch, an except clause,
// or a finally clause escapes the function).
func hasEscapingRaise(code string) bool {
	type frame struct {
		indent int
		inTry  bool
	}
	var stack []frame
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(trimmed)
		for len(stack) > 0 && indent <= stack[len(stack)-1].indent {
			stack = stack[:len(stack)-1]
		}
		switch {
		case tryBlockRe.MatchString(line):
			stack = append(stack, frame{indent: indent, inTry: true})
		case exceptBlockRe.MatchString(line):
			stack = append(stack, frame{indent: indent, inTry: false})
		case raiseRe.MatchString(line):
			if len(stack) == 0 || !stack[len(stack)-1].inTry {
				return true
			}
		}
	}
	return false
}

func classDerivesFromEnum(code string) bool {
	m := classBasesRe.FindStringSubmatch(code)
	if m == nil {
		return false
	}
	return strings.Contains(m[1], "Enum")
}

func extractDocstring(response string) string {
	if doc, ok := extractTag(response, "DOCSTRING"); ok {
		return doc
	}
	return strings.TrimSpace(response)
}

func orNone(s string) string {
	if s == "" {
		return "No context gathered yet."
	}
	return s
}
