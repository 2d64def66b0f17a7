package docs

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"github.com/docwright/docwright/internal/depgraph"
	"github.com/docwright/docwright/internal/orchestrator"
)

// DocGenerator renders a documentation run's outcome into a markdown report
// plus an index of the generated docstrings, and can render the same report
// as HTML for the dashboard's summary page.
type DocGenerator struct {
	OutputDir string
}

// NewDocGenerator creates a DocGenerator that writes to the given output directory.
func NewDocGenerator(outputDir string) *DocGenerator {
	return &DocGenerator{OutputDir: outputDir}
}

type componentRow struct {
	ComponentID string
	Kind        string
	Outcome     orchestrator.Outcome
}

type failureRow struct {
	ComponentID string
	Kind        orchestrator.OutcomeKind
	ErrText     string
}

// reportData assembles everything the run-report template needs from a
// RunSummary and the component map it ran over.
func reportData(projectName string, summary orchestrator.RunSummary, components depgraph.ComponentMap) map[string]any {
	rows := make([]componentRow, 0, len(summary.Outcomes))
	var failures []failureRow
	for _, o := range summary.Outcomes {
		kind := ""
		if c, ok := components[o.ComponentID]; ok {
			kind = c.Kind.String()
		}
		rows = append(rows, componentRow{ComponentID: o.ComponentID, Kind: kind, Outcome: o})
		if o.Err != nil {
			failures = append(failures, failureRow{ComponentID: o.ComponentID, Kind: o.Kind, ErrText: o.Err.Error()})
		}
	}

	return map[string]any{
		"ProjectName": projectName,
		"GeneratedAt": time.Now().Format(time.RFC1123),
		"Summary":     summary,
		"Rows":        rows,
		"Failures":    failures,
	}
}

// GenerateRunReport renders a markdown report of summary to
// {OutputDir}/report.md.
func (g *DocGenerator) GenerateRunReport(summary orchestrator.RunSummary, components depgraph.ComponentMap) error {
	tmpl, err := template.New("report").Funcs(templateFuncs).Parse(runReportTemplate)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(g.OutputDir, "report.md"))
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, reportData(projectNameFromWd(g.OutputDir), summary, components))
}

// RenderRunReportHTML renders the same report as HTML, for the dashboard's
// summary page. It runs the markdown template through goldmark rather than
// serving raw markdown.
func (g *DocGenerator) RenderRunReportHTML(summary orchestrator.RunSummary, components depgraph.ComponentMap) (string, error) {
	tmpl, err := template.New("report").Funcs(templateFuncs).Parse(runReportTemplate)
	if err != nil {
		return "", err
	}

	var md bytes.Buffer
	if err := tmpl.Execute(&md, reportData(projectNameFromWd(g.OutputDir), summary, components)); err != nil {
		return "", err
	}

	md2html := goldmark.New(goldmark.WithExtensions(extension.Table, highlighting.Highlighting))
	var html bytes.Buffer
	if err := md2html.Convert(md.Bytes(), &html); err != nil {
		return "", err
	}
	return html.String(), nil
}

// GenerateIndex renders an index.md listing every component that now has a
// docstring (generated or already present), in map iteration order.
func (g *DocGenerator) GenerateIndex(components depgraph.ComponentMap) error {
	tmpl, err := template.New("index").Funcs(templateFuncs).Parse(indexTemplate)
	if err != nil {
		return err
	}

	docsDir := filepath.Join(g.OutputDir, "docs")
	if err := os.MkdirAll(docsDir, 0o755); err != nil {
		return err
	}

	outPath := filepath.Join(docsDir, "index.md")
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	type quickLink struct {
		Label string
		Href  string
	}

	documented := make([]*depgraph.CodeComponent, 0, len(components))
	for _, c := range components {
		if c.HasDoc {
			documented = append(documented, c)
		}
	}

	data := struct {
		ProjectName string
		Summary     string
		Components  []*depgraph.CodeComponent
		QuickLinks  []quickLink
	}{
		ProjectName: projectNameFromWd(g.OutputDir),
		Components:  documented,
		QuickLinks: []quickLink{
			{Label: "Run report", Href: "../report.md"},
		},
	}

	return tmpl.Execute(f, data)
}

// templateFuncs provides helper functions for the markdown templates.
var templateFuncs = template.FuncMap{
	"anchorize": anchorize,
	"code": func(s string) string {
		if s == "" {
			return ""
		}
		return "`" + s + "`"
	},
	"mdlink": func(filePath string) string {
		return filePath + ".md"
	},
	"oneline": func(s string) string {
		s = strings.ReplaceAll(s, "\n", " ")
		s = strings.ReplaceAll(s, "\r", "")
		return strings.TrimSpace(s)
	},
}

// projectNameFromWd returns the current working directory's base name as the
// project name. Falls back to filepath.Base(fallback) if Getwd fails.
func projectNameFromWd(fallback string) string {
	if wd, err := os.Getwd(); err == nil {
		return filepath.Base(wd)
	}
	return filepath.Base(fallback)
}

// anchorize converts a heading into a GitHub-style markdown anchor.
func anchorize(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	var out strings.Builder
	for _, c := range s {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			out.WriteRune(c)
		}
	}
	return out.String()
}
