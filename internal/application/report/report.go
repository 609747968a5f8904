// Package report renders audit records as a markdown activity report.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/doeshing/kaalsec/internal/domain"
	"github.com/doeshing/kaalsec/internal/ports"
)

const emptyReport = "# KaalSec Report\n\nNo activity found for the specified period.\n"

// Generator builds reports from the audit log.
type Generator struct {
	Audit  ports.AuditLogger
	Policy ports.PolicyChecker
	Logger ports.Logger

	now func() time.Time
}

// ResolveDate turns the "today" keyword into the current date; any other
// filter is returned unchanged.
func (g *Generator) ResolveDate(filter string) string {
	if strings.EqualFold(strings.TrimSpace(filter), "today") || filter == "" {
		return g.clock().Format(domain.DateFormat)
	}
	return filter
}

// Generate renders the markdown report for dateFilter. When outputPath is
// set the report is also written there.
func (g *Generator) Generate(dateFilter, outputPath string) (string, error) {
	if g.Audit == nil || g.Policy == nil {
		return "", errors.New("report.Generator dependencies not satisfied")
	}

	records, err := g.Audit.Load(g.ResolveDate(dateFilter))
	if err != nil {
		return "", fmt.Errorf("load audit records: %w", err)
	}

	content := g.Policy.Anonymize(g.render(records))

	if outputPath != "" {
		if err := os.MkdirAll(filepath.Dir(outputPath), domain.DirectoryPermissions); err != nil {
			return content, fmt.Errorf("create report directory: %w", err)
		}
		if err := os.WriteFile(outputPath, []byte(content), domain.FilePermissions); err != nil {
			return content, fmt.Errorf("write report: %w", err)
		}
		if g.Logger != nil {
			g.Logger.Info("report written", map[string]interface{}{"path": outputPath, "records": len(records)})
		}
	}
	return content, nil
}

func (g *Generator) render(records []domain.AuditRecord) string {
	if len(records) == 0 {
		return emptyReport
	}

	byDate := make(map[string][]domain.AuditRecord)
	for _, rec := range records {
		date := rec.Date
		if date == "" {
			date = "Unknown"
		}
		byDate[date] = append(byDate[date], rec)
	}
	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	var b strings.Builder
	b.WriteString("# KaalSec Security Testing Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n---\n\n", g.clock().Format("2006-01-02 15:04:05"))

	for _, date := range dates {
		fmt.Fprintf(&b, "## %s\n\n", date)
		for _, rec := range byDate[date] {
			fmt.Fprintf(&b, "### Command: `%s`\n", rec.Command)
			fmt.Fprintf(&b, "**Time:** %s\n\n", rec.Timestamp)
			if rec.Notes != "" {
				fmt.Fprintf(&b, "**Notes:** %s\n\n", rec.Notes)
			}
			if rec.Output != "" {
				b.WriteString("**Output:**\n```\n")
				output, truncated := truncate(rec.Output, domain.ReportOutputLimit)
				b.WriteString(output)
				if !strings.HasSuffix(output, "\n") {
					b.WriteString("\n")
				}
				if truncated {
					b.WriteString("... (truncated)\n")
				}
				b.WriteString("```\n\n")
			}
			b.WriteString("---\n\n")
		}
	}
	return b.String()
}

// truncate cuts s to limit characters.
func truncate(s string, limit int) (string, bool) {
	runes := []rune(s)
	if len(runes) <= limit {
		return s, false
	}
	return string(runes[:limit]), true
}

func (g *Generator) clock() time.Time {
	if g.now != nil {
		return g.now()
	}
	return time.Now()
}
