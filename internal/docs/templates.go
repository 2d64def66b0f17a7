package docs

const runReportTemplate = `# {{ .ProjectName }} — Documentation Run Report

Generated {{ .GeneratedAt }}

## Summary

| Metric | Count |
|---|---|
| Total components | {{ .Summary.Total }} |
| Documented | {{ .Summary.OK }} |
| Gave up after verify limit | {{ .Summary.GaveUp }} |
| Skipped (existing docstring) | {{ .Summary.SkippedExisting }} |
| Skipped (constructor) | {{ .Summary.SkippedConstructor }} |
| Errored (writeback) | {{ .Summary.ErroredWriteback }} |
| Errored (budget) | {{ .Summary.ErroredBudget }} |

**Tokens:** {{ .Summary.InputTokens }} in / {{ .Summary.OutputTokens }} out across {{ .Summary.Requests }} requests
**Estimated cost:** ${{ printf "%.4f" .Summary.EstimatedCostUSD }}

{{ if .Failures }}## Needs attention

| Component | Outcome | Error |
|---|---|---|
{{ range .Failures }}| {{ code .ComponentID }} | {{ .Kind }} | {{ oneline .ErrText }} |
{{ end }}
{{- end }}

## Components

| Component | Kind | Outcome | Reader rounds | Verify rounds |
|---|---|---|---|---|
{{ range .Rows }}| {{ code .ComponentID }} | {{ .Kind }} | {{ .Outcome.Kind }} | {{ .Outcome.ReaderRounds }} | {{ .Outcome.VerifierRounds }} |
{{ end }}
`

const indexTemplate = `# {{ .ProjectName }} — Generated Docstrings

{{ if .Summary }}{{ .Summary }}
{{ end }}
## Components

| Component | File | Docstring |
|------|---------|---------|
{{ range .Components }}| {{ code .ID }} | [{{ .RelativePath }}]({{ mdlink .RelativePath }}) | {{ oneline .DocText }} |
{{ end }}
{{ if .QuickLinks }}## Quick Links

{{ range .QuickLinks }}- [{{ .Label }}]({{ .Href }})
{{ end }}
{{- end }}
`
