package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/docwright/docwright/internal/config"
	projectcontext "github.com/docwright/docwright/internal/context"
	"github.com/docwright/docwright/internal/dashboard"
	"github.com/docwright/docwright/internal/depgraph"
	"github.com/docwright/docwright/internal/docagent"
	"github.com/docwright/docwright/internal/docs"
	"github.com/docwright/docwright/internal/llm"
	"github.com/docwright/docwright/internal/orchestrator"
	"github.com/docwright/docwright/internal/progress"
	"github.com/docwright/docwright/internal/server"
	"github.com/docwright/docwright/internal/vectordb"
	"github.com/docwright/docwright/internal/walker"
	"github.com/docwright/docwright/internal/writeback"
)

var (
	genRepoPath          string
	genConfigPath        string
	genTestMode          string
	genOrderMode         string
	genSeed              int64
	genEnableWeb         bool
	genWebPort           int
	genOverwriteDocs     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate docstrings for every component in dependency order",
	Long: `generate parses the repository into a dependency graph of functions,
classes, and methods, then runs the read/search/write/verify agent loop
over it in dependency order, so every component is documented with its
callees already documented first. Accepted docstrings are written back
into source.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genRepoPath, "repo-path", ".", "root directory of the repository to document")
	generateCmd.Flags().StringVar(&genConfigPath, "config-path", "", "config file path (defaults to the --config flag)")
	generateCmd.Flags().StringVar(&genTestMode, "test-mode", "none", "test mode: placeholder, context_print, none")
	generateCmd.Flags().StringVar(&genOrderMode, "order-mode", "topo", "processing order: topo, random_node, random_file")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "seed for the random order modes")
	generateCmd.Flags().BoolVar(&genEnableWeb, "enable-web", false, "serve a live dashboard of the run")
	generateCmd.Flags().IntVar(&genWebPort, "web-port", 8080, "port for --enable-web's dashboard")
	generateCmd.Flags().BoolVar(&genOverwriteDocs, "overwrite-docstrings", false, "regenerate docstrings that already exist")
	documentCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if genConfigPath != "" {
		cfgFile = genConfigPath
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if genOverwriteDocs {
		cfg.DocstringOptions.OverwriteExisting = true
	}

	repoPath, err := filepath.Abs(genRepoPath)
	if err != nil {
		return fmt.Errorf("resolving repo path: %w", err)
	}

	fmt.Printf("Scanning %s...\n", repoPath)
	files, err := walker.Walk(walker.WalkerConfig{
		RootDir: repoPath,
		Include: cfg.Include,
		Exclude: cfg.Exclude,
	})
	if err != nil {
		return fmt.Errorf("walking repository: %w", err)
	}

	var pyFiles []string
	for _, f := range files {
		if f.Language == "Python" {
			pyFiles = append(pyFiles, f.Path)
		}
	}
	if len(pyFiles) == 0 {
		fmt.Println("No Python files found under", repoPath)
		return nil
	}

	components, warnings, err := depgraph.ParseRepository(pyFiles, repoPath, os.ReadFile)
	if err != nil {
		return fmt.Errorf("parsing repository: %w", err)
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.String())
	}
	fmt.Printf("Found %d documentable components across %d files.\n", len(components), len(pyFiles))

	graph := depgraph.BuildGraph(components)
	if cycles := depgraph.DetectCycles(graph); len(cycles) > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d dependency cycle(s) detected; breaking deterministically\n", len(cycles))
		graph = depgraph.ResolveCycles(graph)
	}
	order := applyOrderMode(depgraph.DependencyFirstDFS(graph), components, genOrderMode, genSeed)

	if err := depgraph.SaveGraph(repoPath, components); err != nil {
		fmt.Fprintf(os.Stderr, "warning: saving dependency graph: %v\n", err)
	}

	readerProvider, err := providerForRole(cfg, "reader", genTestMode)
	if err != nil {
		return err
	}
	writerProvider, err := providerForRole(cfg, "writer", genTestMode)
	if err != nil {
		return err
	}
	verifierProvider, err := providerForRole(cfg, "verifier", genTestMode)
	if err != nil {
		return err
	}

	reader := docagent.NewReader(readerProvider)
	searcher := docagent.NewSearcher(depgraph.Lookup{Components: components}, referenceProvider())
	writer := docagent.NewWriter(writerProvider, docagent.DocstringOptions{
		Style:            cfg.DocstringOptions.Style,
		IncludeTypeHints: cfg.DocstringOptions.IncludeTypeHints,
		MaxLineLength:    cfg.DocstringOptions.MaxLineLength,
	})
	verifier := docagent.NewVerifier(verifierProvider)

	wb := writeback.NewWriter()
	defer wb.Close()

	orch := orchestrator.New(cfg, reader, searcher, writer, verifier, wb)
	if bctx, err := projectcontext.Load(filepath.Join(repoPath, ".docwright-context.json")); err == nil && bctx != nil {
		orch.ProjectContext = bctx.ToPromptSection()
	}
	if genTestMode == "context_print" {
		orch.OnBeforeWrite = func(componentID, gathered string) {
			fmt.Fprintf(os.Stderr, "--- context for %s ---\n%s\n--- end context ---\n", componentID, gathered)
		}
	}

	docGen := docs.NewDocGenerator(cfg.OutputDir)

	var reporter progress.Reporter
	var dash *dashboard.Dashboard
	if genEnableWeb {
		dash = dashboard.New(docGen)
		srv := server.New(server.Config{Port: genWebPort})
		dash.RegisterRoutes(srv.Router())
		go func() {
			if err := srv.Start(); err != nil {
				fmt.Fprintf(os.Stderr, "dashboard server: %v\n", err)
			}
		}()
		reporter = dash
	} else {
		reporter = progress.NewReporter()
	}

	summary := orch.Run(ctx, components, order, reporter, cfg.Model)

	if dash != nil {
		dash.SetSummary(summary, components)
	}

	if err := docGen.GenerateRunReport(summary, components); err != nil {
		fmt.Fprintf(os.Stderr, "warning: writing run report: %v\n", err)
	}
	if err := docGen.GenerateIndex(components); err != nil {
		fmt.Fprintf(os.Stderr, "warning: writing doc index: %v\n", err)
	}
	if err := indexDocstrings(ctx, cfg, components); err != nil {
		fmt.Fprintf(os.Stderr, "warning: indexing docstrings for search: %v\n", err)
	}

	printRunSummary(summary)

	if genEnableWeb {
		fmt.Printf("\nDashboard running at http://localhost:%d — press Ctrl+C to exit.\n", genWebPort)
		select {}
	}

	return nil
}

// referenceProvider returns a Perplexity-backed external reference
// provider when PERPLEXITY_API_KEY is set, so the Searcher can fulfill a
// Reader's external-query requests for novel or recently published
// algorithms; otherwise external retrieval is declined.
func referenceProvider() docagent.ReferenceProvider {
	apiKey := os.Getenv("PERPLEXITY_API_KEY")
	if apiKey == "" {
		return docagent.NullReferenceProvider{}
	}
	return docagent.NewPerplexityReferenceProvider(apiKey, os.Getenv("PERPLEXITY_MODEL"))
}

// providerForRole builds the LLM provider backing one agent role,
// honoring --test-mode=placeholder and the role's configured rate limit.
func providerForRole(cfg *config.Config, role, testMode string) (llm.Provider, error) {
	if testMode == "placeholder" {
		return newPlaceholderProvider(role), nil
	}

	base, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("creating %s provider: %w", role, err)
	}
	if rl, ok := cfg.RateLimits[role]; ok && rl.RequestsPerMinute > 0 {
		return llm.NewRateLimitedProvider(base, rl.RequestsPerMinute), nil
	}
	return base, nil
}

// placeholderProvider short-circuits the agent loop with a fixed response
// and zero real LLM calls, for --test-mode=placeholder.
type placeholderProvider struct {
	response string
}

func (p *placeholderProvider) Name() string { return "placeholder" }

func (p *placeholderProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	return &llm.CompletionResponse{Content: p.response, Model: "placeholder"}, nil
}

func newPlaceholderProvider(role string) llm.Provider {
	switch role {
	case "reader":
		return &placeholderProvider{response: "<INFO_NEED>false</INFO_NEED>"}
	case "writer":
		return &placeholderProvider{response: "<DOCSTRING>\nTODO: placeholder docstring.\n</DOCSTRING>"}
	case "verifier":
		return &placeholderProvider{response: "<NEED_REVISION>false</NEED_REVISION>"}
	default:
		return &placeholderProvider{}
	}
}

// applyOrderMode overrides the dependency-first processing order for
// testing determinism properties. topo (the default) leaves order as-is.
func applyOrderMode(order []string, components depgraph.ComponentMap, mode string, seed int64) []string {
	switch mode {
	case "random_node":
		out := append([]string(nil), order...)
		rand.New(rand.NewSource(seed)).Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	case "random_file":
		return shuffleByFile(order, components, seed)
	default:
		return order
	}
}

// shuffleByFile shuffles the order's files while preserving each file's
// internal (dependency-consistent) order.
func shuffleByFile(order []string, components depgraph.ComponentMap, seed int64) []string {
	var files []string
	seen := make(map[string]bool)
	groups := make(map[string][]string)
	for _, id := range order {
		c, ok := components[id]
		if !ok {
			continue
		}
		groups[c.FilePath] = append(groups[c.FilePath], id)
		if !seen[c.FilePath] {
			seen[c.FilePath] = true
			files = append(files, c.FilePath)
		}
	}

	rand.New(rand.NewSource(seed)).Shuffle(len(files), func(i, j int) { files[i], files[j] = files[j], files[i] })

	out := make([]string, 0, len(order))
	for _, f := range files {
		out = append(out, groups[f]...)
	}
	return out
}

// indexDocstrings embeds every documented component's docstring and
// persists it to cfg.OutputDir/vectordb, backing `document search`.
func indexDocstrings(ctx context.Context, cfg *config.Config, components depgraph.ComponentMap) error {
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return err
	}
	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return err
	}

	var documents []vectordb.Document
	for id, c := range components {
		if !c.HasDoc || c.DocText == "" {
			continue
		}
		docType := vectordb.DocTypeFunction
		switch c.Kind {
		case depgraph.KindClass:
			docType = vectordb.DocTypeClass
		case depgraph.KindMethod:
			docType = vectordb.DocTypeMethod
		}
		documents = append(documents, vectordb.Document{
			ID:      id,
			Content: c.DocText,
			Metadata: vectordb.DocumentMetadata{
				FilePath:    c.RelativePath,
				LineStart:   c.StartLine,
				LineEnd:     c.EndLine,
				Type:        docType,
				Symbol:      id,
				LastUpdated: time.Now(),
			},
		})
	}
	if len(documents) == 0 {
		return nil
	}
	if err := store.AddDocuments(ctx, documents); err != nil {
		return err
	}
	return store.Persist(ctx, filepath.Join(cfg.OutputDir, "vectordb"))
}

func printRunSummary(summary orchestrator.RunSummary) {
	fmt.Printf("\n%d/%d components documented\n", summary.OK, summary.Total)
	fmt.Printf("  gave up after verify limit: %d\n", summary.GaveUp)
	fmt.Printf("  skipped (existing docstring): %d\n", summary.SkippedExisting)
	fmt.Printf("  skipped (constructor):        %d\n", summary.SkippedConstructor)
	fmt.Printf("  errored (writeback):          %d\n", summary.ErroredWriteback)
	fmt.Printf("  errored (budget):             %d\n", summary.ErroredBudget)
	fmt.Printf("\nTokens: %d in / %d out across %d requests. Estimated cost: $%.4f\n",
		summary.InputTokens, summary.OutputTokens, summary.Requests, summary.EstimatedCostUSD)
}
