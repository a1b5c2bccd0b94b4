package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-barytime/internal/tdb"
	"github.com/litescript/ls-barytime/internal/version"
)

// DefaultMaxRows is the number of rows printed per file before truncating.
const DefaultMaxRows = 10

// Report renders conversion results for a terminal or a plain stream.
type Report struct {
	renderer *lipgloss.Renderer
	styles   styles
	MaxRows  int
}

// NewReport creates a report writer for w. Colors are used only when w is
// a terminal that supports them.
func NewReport(w io.Writer) *Report {
	r := lipgloss.NewRenderer(w)
	return &Report{
		renderer: r,
		styles:   newStyles(r),
		MaxRows:  DefaultMaxRows,
	}
}

// Render returns the full report for a batch of files.
func (r *Report) Render(reports []tdb.FileReport) string {
	var b strings.Builder

	b.WriteString(gradientTitle(r.renderer, "ls-barytime"))
	b.WriteString(r.styles.dim.Render(fmt.Sprintf("  v%s · UTC → TDB light-time correction", version.Version)))
	b.WriteString("\n\n")

	for _, fr := range reports {
		b.WriteString(r.renderFile(fr))
		b.WriteString("\n")
	}

	b.WriteString(r.renderSummary(reports))
	b.WriteString("\n")
	return b.String()
}

func (r *Report) renderFile(fr tdb.FileReport) string {
	var b strings.Builder

	b.WriteString(r.styles.title.Render(fr.Path))
	b.WriteString("  ")
	b.WriteString(r.styles.status(fr.Status()))
	if fr.Result.Strategy != "" {
		b.WriteString(r.styles.dim.Render("  via " + fr.Result.Strategy))
	}
	if fr.Notices > 0 {
		b.WriteString(r.styles.warn.Render(fmt.Sprintf("  %d notice(s)", fr.Notices)))
	}
	b.WriteString("\n")

	switch {
	case fr.Err != nil:
		b.WriteString("  " + r.styles.err.Render("Error: "+fr.Err.Error()) + "\n")
		return b.String()
	case !fr.Result.Applied:
		b.WriteString("  " + r.styles.dim.Render("No correction performed.") + "\n")
		return b.String()
	}

	b.WriteString(r.renderRows(tdb.Export(fr).Rows))
	return b.String()
}

func (r *Report) renderRows(rows []tdb.RowExport) string {
	var b strings.Builder

	b.WriteString("  " + r.styles.header.Render(rowHeader()) + "\n")

	limit := len(rows)
	if r.MaxRows > 0 && limit > r.MaxRows {
		limit = r.MaxRows
	}
	for i := 0; i < limit; i++ {
		b.WriteString("  " + r.styles.row.Render(formatRow(i, rows[i])) + "\n")
	}
	if limit < len(rows) {
		b.WriteString("  " + r.styles.dim.Render(fmt.Sprintf("… %d more rows", len(rows)-limit)) + "\n")
	}
	return b.String()
}

func (r *Report) renderSummary(reports []tdb.FileReport) string {
	counts := map[string]int{}
	rows, notices := 0, 0
	for _, fr := range reports {
		counts[fr.Status()]++
		notices += fr.Notices
		if fr.Err == nil {
			rows += fr.Result.Rows()
		}
	}

	parts := []string{
		r.styles.ok.Render(fmt.Sprintf("%d updated", counts["updated"])),
		r.styles.ok.Render(fmt.Sprintf("%d converted", counts["converted"])),
		r.styles.warn.Render(fmt.Sprintf("%d skipped", counts["skipped"])),
		r.styles.err.Render(fmt.Sprintf("%d failed", counts["failed"])),
	}
	summary := fmt.Sprintf("%d file(s): %s", len(reports), strings.Join(parts, ", "))
	summary += r.styles.dim.Render(fmt.Sprintf(" | %d rows | %d notices", rows, notices))
	return summary
}

func rowHeader() string {
	return fmt.Sprintf("%4s  %-18s  %-18s  %-18s  %10s", "#", "start BJD_TDB", "mid BJD_TDB", "end BJD_TDB", "B-H (s)")
}

func formatRow(i int, row tdb.RowExport) string {
	return fmt.Sprintf("%4d  %18.10f  %18.10f  %18.10f  %10.4f", i, row.Start, row.Mid, row.End, row.BaryMinusHelio)
}
