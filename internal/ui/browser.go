package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-barytime/internal/tdb"
)

// BrowserModel is an interactive view over converted rows, one file at a
// time.
type BrowserModel struct {
	files  []tdb.FileExport
	file   int
	cursor int
	offset int
	width  int
	height int
	styles styles
}

// NewBrowser creates a browser over the given reports.
func NewBrowser(reports []tdb.FileReport) BrowserModel {
	files := make([]tdb.FileExport, len(reports))
	for i, r := range reports {
		files[i] = tdb.Export(r)
	}
	return BrowserModel{
		files:  files,
		height: 24,
		styles: newStyles(lipgloss.DefaultRenderer()),
	}
}

// Init implements tea.Model.
func (m BrowserModel) Init() tea.Cmd {
	return nil
}

// File returns the index of the displayed file.
func (m BrowserModel) File() int { return m.file }

// Cursor returns the selected row in the displayed file.
func (m BrowserModel) Cursor() int { return m.cursor }

func (m BrowserModel) rows() []tdb.RowExport {
	if len(m.files) == 0 {
		return nil
	}
	return m.files[m.file].Rows
}

// visibleRows is the number of table rows that fit below the header and
// above the detail/footer lines.
func (m BrowserModel) visibleRows() int {
	return max(m.height-8, 1)
}

// Update implements tea.Model.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		n := len(m.rows())
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "pgup":
			m.cursor = max(m.cursor-m.visibleRows(), 0)
		case "pgdown":
			m.cursor = max(min(m.cursor+m.visibleRows(), n-1), 0)
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(n-1, 0)
		case "left", "h", "[":
			if m.file > 0 {
				m.file--
				m.cursor, m.offset = 0, 0
			}
		case "right", "l", "]":
			if m.file < len(m.files)-1 {
				m.file++
				m.cursor, m.offset = 0, 0
			}
		}
	}

	m.scrollToCursor()
	return m, nil
}

func (m *BrowserModel) scrollToCursor() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

// View implements tea.Model.
func (m BrowserModel) View() string {
	if len(m.files) == 0 {
		return "No files.\n"
	}

	f := m.files[m.file]
	var b strings.Builder

	b.WriteString(m.styles.accent.Render(fmt.Sprintf("[%d/%d] ", m.file+1, len(m.files))))
	b.WriteString(m.styles.title.Render(f.Path))
	b.WriteString("  " + m.styles.status(f.Status))
	if f.Strategy != "" {
		b.WriteString(m.styles.dim.Render("  via " + f.Strategy))
	}
	b.WriteString("\n\n")

	switch {
	case f.Error != "":
		b.WriteString(m.styles.err.Render("Error: "+f.Error) + "\n")
	case len(f.Rows) == 0:
		b.WriteString(m.styles.dim.Render("No correction performed.") + "\n")
	default:
		b.WriteString(m.renderTable(f.Rows))
		b.WriteString("\n")
		b.WriteString(m.renderDetail(f.Rows[m.cursor]))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.dim.Render("↑↓/jk: row | ←→/hl: file | g/G: first/last | q: quit"))
	return b.String()
}

func (m BrowserModel) renderTable(rows []tdb.RowExport) string {
	var b strings.Builder
	b.WriteString(m.styles.header.Render(rowHeader()) + "\n")

	end := min(m.offset+m.visibleRows(), len(rows))
	for i := m.offset; i < end; i++ {
		line := formatRow(i, rows[i])
		if i == m.cursor {
			b.WriteString(m.styles.selected.Render(line))
		} else {
			b.WriteString(m.styles.row.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m BrowserModel) renderDetail(row tdb.RowExport) string {
	return m.styles.dim.Render(fmt.Sprintf(
		"helio start/mid/end %.10f  %.10f  %.10f",
		row.HelioStart, row.HelioMid, row.HelioEnd,
	)) + "\n"
}
