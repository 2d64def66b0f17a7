package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docwright/docwright/internal/vectordb"
)

var searchCmd = &cobra.Command{
	Use:   "search [question]",
	Short: "Semantically search generated docstrings",
	Long:  `Searches the docstring vector index built by "document generate" and returns the most relevant components.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 10, "maximum number of results")
	searchCmd.Flags().String("type", "", "filter by type: function, method, class")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	documentCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	queryText := args[0]

	limit, _ := cmd.Flags().GetInt("limit")
	typeFilter, _ := cmd.Flags().GetString("type")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}

	vectorDir := filepath.Join(cfg.OutputDir, "vectordb")
	if err := store.Load(ctx, vectorDir); err != nil {
		return fmt.Errorf("loading docstring index from %s: %w\nRun `docwright document generate` first to build it", vectorDir, err)
	}

	if store.Count() == 0 {
		fmt.Println("Docstring index is empty. Run `docwright document generate` first.")
		return nil
	}

	var filter *vectordb.SearchFilter
	if typeFilter != "" {
		docType := vectordb.DocumentType(typeFilter)
		filter = &vectordb.SearchFilter{Type: &docType}
	}

	results, err := store.Search(ctx, queryText, limit, filter)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	if jsonOutput {
		return printSearchResultsJSON(results)
	}

	printSearchResultsTable(results)
	return nil
}

type searchResultJSON struct {
	Rank       int     `json:"rank"`
	Similarity float64 `json:"similarity"`
	FilePath   string  `json:"file_path"`
	LineStart  int     `json:"line_start,omitempty"`
	Type       string  `json:"type"`
	Symbol     string  `json:"symbol,omitempty"`
	Docstring  string  `json:"docstring"`
}

func printSearchResultsJSON(results []vectordb.SearchResult) error {
	var out []searchResultJSON
	for i, r := range results {
		out = append(out, searchResultJSON{
			Rank:       i + 1,
			Similarity: float64(r.Similarity),
			FilePath:   r.Document.Metadata.FilePath,
			LineStart:  r.Document.Metadata.LineStart,
			Type:       string(r.Document.Metadata.Type),
			Symbol:     r.Document.Metadata.Symbol,
			Docstring:  truncate(r.Document.Content, 200),
		})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printSearchResultsTable(results []vectordb.SearchResult) {
	fmt.Printf("Found %d results:\n\n", len(results))
	for i, r := range results {
		location := r.Document.Metadata.FilePath
		if r.Document.Metadata.LineStart > 0 {
			location = fmt.Sprintf("%s:%d", location, r.Document.Metadata.LineStart)
		}

		symbol := ""
		if r.Document.Metadata.Symbol != "" {
			symbol = fmt.Sprintf(" (%s)", r.Document.Metadata.Symbol)
		}

		fmt.Printf("  %d. [%.1f%%] %s%s\n", i+1, r.Similarity*100, location, symbol)
		fmt.Printf("     Type: %s\n", r.Document.Metadata.Type)
		fmt.Printf("     %s\n\n", truncate(r.Document.Content, 120))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
