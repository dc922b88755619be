// Package renderer turns krona results into markdown reports.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templateFiles embed.FS

var templates, _ = fs.Sub(templateFiles, "templates")

// RenderPortfolio renders the positions and failures of a run.
func RenderPortfolio(r *PortfolioReport) string {
	partials := map[string]string{
		"portfolio_positions": "portfolio_positions.md",
		"portfolio_totals":    "portfolio_totals.md",
		"portfolio_failures":  "portfolio_failures.md",
	}
	return renderTemplate("portfolio", "portfolio.md", partials, r)
}

// PlanRenderOptions holds configuration for rendering a mapping plan.
type PlanRenderOptions struct {
	SkipMapping  bool // Do not render the accepted mapping.
	SkipDeclined bool // Do not render the declined suggestions.
}

// RenderPlan renders a mapping plan for review.
func RenderPlan(r *PlanReport, opts PlanRenderOptions) string {
	partials := map[string]string{
		"plan_pending":   "plan_pending.md",
		"plan_conflicts": "plan_conflicts.md",
		"plan_mapping":   "plan_mapping.md",
		"plan_declined":  "plan_declined.md",
	}
	// An empty file name results in an empty template.
	if opts.SkipMapping {
		partials["plan_mapping"] = ""
	}
	if opts.SkipDeclined {
		partials["plan_declined"] = ""
	}
	return renderTemplate("plan", "plan.md", partials, r)
}

// RenderHistory renders the transactions applied to a position.
func RenderHistory(r *HistoryReport) string {
	return renderTemplate("history", "history.md", nil, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// cell escapes text for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
