package orchestrator

import (
	"context"
	"strings"

	"github.com/docwright/docwright/internal/agentcontext"
	"github.com/docwright/docwright/internal/config"
	"github.com/docwright/docwright/internal/depgraph"
	"github.com/docwright/docwright/internal/docagent"
	"github.com/docwright/docwright/internal/llm"
	"github.com/docwright/docwright/internal/writeback"
)

// state is the Orchestrator's per-component workflow state.
type state int

const (
	stateRead state = iota
	stateWrite
	stateVerify
	stateDone
)

// Orchestrator drives one component at a time through READ → (maybe
// SEARCH →) READ → WRITE → VERIFY → {DONE | WRITE | READ}, bounded by
// the configured reader-search and verifier-rejection round limits.
type Orchestrator struct {
	reader   *docagent.Reader
	searcher *docagent.Searcher
	writer   *docagent.Writer
	verifier *docagent.Verifier
	wb       *writeback.Writer

	flow           config.FlowControlConfig
	docOpts        config.DocstringOptions
	agentLLMs      map[string]string
	defaultModel   string
	maxOutputTokens int
	maxInputTokens  int

	// Usage accumulates token spend across every Process call this
	// Orchestrator makes, for RunSummary reporting.
	Usage docagent.Usage

	// OnBeforeWrite, if set, is called with the focal component's id and
	// assembled context immediately before each Writer round. This backs
	// --test-mode=context_print, grounded in the base spec's debug-dump
	// tooling.
	OnBeforeWrite func(componentID, context string)

	// ProjectContext, if set, is the maintainer-supplied business context
	// (internal/context.BusinessContext.ToPromptSection) seeded into every
	// component's context store, the same way it enriched the teacher's
	// doc generator prompts.
	ProjectContext string
}

// New constructs an Orchestrator wired to the given agents and writeback
// writer, configured from cfg.
func New(cfg *config.Config, reader *docagent.Reader, searcher *docagent.Searcher, writer *docagent.Writer, verifier *docagent.Verifier, wb *writeback.Writer) *Orchestrator {
	maxOutputTokens := cfg.MaxInputTokens / 4
	if maxOutputTokens < 512 {
		maxOutputTokens = 512
	}
	return &Orchestrator{
		reader:          reader,
		searcher:        searcher,
		writer:          writer,
		verifier:        verifier,
		wb:              wb,
		flow:            cfg.FlowControl,
		docOpts:         cfg.DocstringOptions,
		agentLLMs:       cfg.AgentLLMs,
		defaultModel:    cfg.Model,
		maxOutputTokens: maxOutputTokens,
		maxInputTokens:  cfg.MaxInputTokens,
	}
}

// Process runs one component through the full agent cycle, committing
// the accepted docstring to source via writeback.SetDoc on success.
// Skip rules run first: a constructor is never processed, and a
// component with a non-trivial existing docstring is skipped unless
// overwrite is configured.
func (o *Orchestrator) Process(ctx context.Context, comp *depgraph.CodeComponent) Outcome {
	if comp.IsConstructor() {
		return Outcome{ComponentID: comp.ID, Kind: OutcomeSkippedConstructor}
	}
	if comp.HasDoc && !o.docOpts.OverwriteExisting && isNonTrivialDocstring(comp.DocText) {
		return Outcome{ComponentID: comp.ID, Kind: OutcomeSkippedExisting}
	}

	store := agentcontext.NewStore()
	if o.ProjectContext != "" {
		store.Add(agentcontext.SectionProjectContext, o.ProjectContext)
	}
	r, v := 0, 0
	var readerNote, writerNote, docstring string
	gaveUp := false
	focalTokens := llm.EstimateTokens(comp.SourceText)

	st := stateRead
	for {
		switch st {
		case stateRead:
			store.Truncate(o.maxInputTokens, focalTokens)
			req, _, err := o.reader.Process(ctx, o.modelFor("reader"), o.maxOutputTokens, comp.SourceText, store.Render()+readerNote, &o.Usage)
			readerNote = ""
			if err != nil {
				return Outcome{ComponentID: comp.ID, Kind: OutcomeErroredBudget, Err: err, ReaderRounds: r, VerifierRounds: v}
			}
			if req.NeedMore && r < o.flow.MaxSearchRounds {
				r++
				o.searcher.Resolve(ctx, comp.ID, comp.DependsOn, req, store)
				continue
			}
			st = stateWrite

		case stateWrite:
			store.Truncate(o.maxInputTokens, focalTokens)
			if o.OnBeforeWrite != nil {
				o.OnBeforeWrite(comp.ID, store.Render())
			}
			doc, err := o.writer.Process(ctx, o.modelFor("writer"), o.maxOutputTokens, comp.SourceText, store.Render(), writerNote, &o.Usage)
			writerNote = ""
			if err != nil {
				return Outcome{ComponentID: comp.ID, Kind: OutcomeErroredBudget, Err: err, ReaderRounds: r, VerifierRounds: v}
			}
			docstring = doc
			st = stateVerify

		case stateVerify:
			result, err := o.verifier.Process(ctx, o.modelFor("verifier"), o.maxOutputTokens, comp.SourceText, docstring, store.Render(), &o.Usage)
			if err != nil {
				return Outcome{ComponentID: comp.ID, Kind: OutcomeErroredBudget, Err: err, ReaderRounds: r, VerifierRounds: v}
			}

			switch {
			case !result.NeedsRevision:
				st = stateDone
			case v >= o.flow.MaxVerifyRounds:
				gaveUp = true
				st = stateDone
			case result.NeedsMoreContext && r < o.flow.MaxSearchRounds:
				v++
				readerNote = "\n\nA reviewer requested more context for the following reason: " + result.SuggestionContext
				st = stateRead
			default:
				v++
				// The base decision table calls for the Verifier's rewrite
				// suggestion here; when the Verifier asked for more context
				// but no search rounds remain, fall back to that context
				// request itself as the closest available revision note.
				note := result.Suggestion
				if note == "" {
					note = result.SuggestionContext
				}
				writerNote = note
				st = stateWrite
			}

		case stateDone:
			if err := o.wb.SetDoc(comp.FilePath, comp, docstring); err != nil {
				return Outcome{ComponentID: comp.ID, Kind: OutcomeErroredWriteback, Err: err, Docstring: docstring, ReaderRounds: r, VerifierRounds: v}
			}
			kind := OutcomeOK
			if gaveUp {
				kind = OutcomeGaveUp
			}
			return Outcome{ComponentID: comp.ID, Kind: kind, Docstring: docstring, ReaderRounds: r, VerifierRounds: v}
		}
	}
}

// modelFor returns the model override configured for role, or the
// run's default model when none is set.
func (o *Orchestrator) modelFor(role string) string {
	if o.agentLLMs != nil {
		if m, ok := o.agentLLMs[role]; ok && m != "" {
			return m
		}
	}
	return o.defaultModel
}

// isNonTrivialDocstring reports whether doc has more than ten
// whitespace-separated tokens, the base spec's threshold for treating an
// existing docstring as worth preserving.
func isNonTrivialDocstring(doc string) bool {
	return len(strings.Fields(doc)) > 10
}
