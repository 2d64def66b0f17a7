package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/docwright/docwright/internal/agentcontext"
	"github.com/docwright/docwright/internal/depgraph"
)

var inspectRepoPath string

var inspectCmd = &cobra.Command{
	Use:   "inspect <component-id>",
	Short: "Print a component's dependency edges and assembled context skeleton",
	Long: `inspect loads the dependency graph saved by the last "document generate"
run, resolves the given component id, and prints its forward and reverse
dependency edges alongside the context skeleton a real run would assemble
for it. Useful for debugging why a component was (or wasn't) documented
the way it was.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectRepoPath, "repo-path", ".", "root directory of the documented repository")
	documentCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	id := args[0]

	repoPath, err := filepath.Abs(inspectRepoPath)
	if err != nil {
		return fmt.Errorf("resolving repo path: %w", err)
	}

	components, err := depgraph.LoadGraph(repoPath)
	if err != nil {
		return fmt.Errorf("loading dependency graph: %w", err)
	}
	if len(components) == 0 {
		return fmt.Errorf("no dependency graph found under %s; run `docwright document generate` first", repoPath)
	}

	comp, ok := depgraph.ResolveComponentByPath(components, id)
	if !ok {
		return fmt.Errorf("component %q not found in the dependency graph", id)
	}

	fmt.Printf("%s  (%s)\n", comp.ID, comp.Kind)
	fmt.Printf("  file:  %s:%d-%d\n", comp.RelativePath, comp.StartLine, comp.EndLine)
	fmt.Printf("  doc:   %v\n", comp.HasDoc)

	fmt.Println("\nDepends on:")
	dependsOn := sortedKeys(comp.DependsOn)
	if len(dependsOn) == 0 {
		fmt.Println("  (none)")
	}
	for _, depID := range dependsOn {
		fmt.Printf("  %s\n", depID)
	}

	fmt.Println("\nDepended on by:")
	dependents := depgraph.ResolveDependents(components, comp.ID)
	if len(dependents) == 0 {
		fmt.Println("  (none)")
	}
	for _, dep := range dependents {
		fmt.Printf("  %s\n", dep.ID)
	}

	fmt.Println("\nContext skeleton:")
	fmt.Println(buildContextSkeleton(components, comp, dependents))

	return nil
}

// buildContextSkeleton assembles the same agentcontext.Store sections a
// full run would gather once the Reader has asked for every one of this
// component's known neighbors: its direct dependencies and its callers.
func buildContextSkeleton(components depgraph.ComponentMap, comp *depgraph.CodeComponent, dependents []*depgraph.CodeComponent) string {
	store := agentcontext.NewStore()

	for _, depID := range sortedKeys(comp.DependsOn) {
		dep, ok := depgraph.ResolveComponentByPath(components, depID)
		if !ok {
			continue
		}
		store.Add(sectionFor(dep.Kind), dep.SourceText)
	}
	for _, dep := range dependents {
		store.Add(agentcontext.SectionCallBy, dep.SourceText)
	}

	if store.IsEmpty() {
		return "  (empty — this component has no known dependencies or callers)"
	}
	return store.Render()
}

func sectionFor(kind depgraph.ComponentKind) string {
	switch kind {
	case depgraph.KindClass:
		return agentcontext.SectionClass
	case depgraph.KindMethod:
		return agentcontext.SectionMethod
	default:
		return agentcontext.SectionFunction
	}
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
