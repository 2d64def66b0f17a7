package orchestrator

import (
	"context"

	"github.com/docwright/docwright/internal/depgraph"
	"github.com/docwright/docwright/internal/llm"
	"github.com/docwright/docwright/internal/progress"
	"github.com/docwright/docwright/internal/writeback"
)

// RunSummary reports what happened across a full Run: per-outcome
// counts, the provider token/request totals an Orchestrator accumulated,
// and an estimated cost, mirroring the teacher's pipeline-result summary
// generalized to this domain's outcome types.
type RunSummary struct {
	Total int

	OK                int
	SkippedExisting   int
	SkippedConstructor int
	ErroredWriteback  int
	ErroredBudget     int
	GaveUp            int

	Outcomes []Outcome

	InputTokens  int
	OutputTokens int
	Requests     int
	EstimatedCostUSD float64
}

// Run processes every id in order (typically depgraph.DependencyFirstDFS's
// result, or a CLI-overridden ordering), refreshing line numbers for the
// remaining components in a file immediately after a successful writeback
// to that file, and reporting progress through reporter.
func (o *Orchestrator) Run(ctx context.Context, components depgraph.ComponentMap, order []string, reporter progress.Reporter, model string) RunSummary {
	summary := RunSummary{Total: len(order)}
	done := make(map[string]struct{}, len(order))

	reporter.Start(len(order))
	for i, id := range order {
		comp, ok := components[id]
		if !ok {
			continue
		}

		reporter.Update(i+1, comp.ID)
		outcome := o.Process(ctx, comp)
		outcome.ComponentID = id
		summary.Outcomes = append(summary.Outcomes, outcome)
		done[id] = struct{}{}

		switch outcome.Kind {
		case OutcomeOK:
			summary.OK++
			refreshSharedFile(comp, components, done)
		case OutcomeGaveUp:
			summary.GaveUp++
			refreshSharedFile(comp, components, done)
		case OutcomeSkippedExisting:
			summary.SkippedExisting++
		case OutcomeSkippedConstructor:
			summary.SkippedConstructor++
		case OutcomeErroredWriteback:
			summary.ErroredWriteback++
		case OutcomeErroredBudget:
			summary.ErroredBudget++
		}
	}
	reporter.Finish()

	summary.InputTokens = o.Usage.InputTokens
	summary.OutputTokens = o.Usage.OutputTokens
	summary.Requests = o.Usage.Requests
	summary.EstimatedCostUSD = llm.EstimateCost(model, o.Usage.InputTokens, o.Usage.OutputTokens)

	return summary
}

// refreshSharedFile re-parses comp's file so any remaining (not yet
// processed) component sharing it sees up-to-date line numbers after
// comp's docstring shifted them, per base spec §4.5 and Testable
// Property 5.
func refreshSharedFile(comp *depgraph.CodeComponent, components depgraph.ComponentMap, done map[string]struct{}) {
	hasOther := false
	for _, c := range components {
		if c.FilePath == comp.FilePath {
			if _, finished := done[c.ID]; !finished {
				hasOther = true
				break
			}
		}
	}
	if !hasOther {
		return
	}
	_ = writeback.RefreshFile(comp.FilePath, components, done)
}
