// Package reportlist is the interactive browser for uploaded crash
// reports, shown by 'crashkit reports --tui'.
package reportlist

import (
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/grovetools/crashkit/uploadlist"
)

var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

// Model is the TUI component for browsing uploaded reports.
type Model struct {
	table   table.Model
	records []uploadlist.Record
}

// New creates a report browser over the given records.
func New(records []uploadlist.Record) Model {
	columns := []table.Column{
		{Title: "Uploaded", Width: 20},
		{Title: "Report ID", Width: 44},
	}

	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			r.UploadTime.Format("2006-01-02 15:04:05"),
			r.ReportID,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	headerColor := lipgloss.Color("12")
	if !termenv.HasDarkBackground() {
		headerColor = lipgloss.Color("4")
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true).
		Foreground(headerColor)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)

	return Model{table: t, records: records}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := msg.Height - 4
		if height < 3 {
			height = 3
		}
		m.table.SetHeight(height)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if len(m.records) == 0 {
		return baseStyle.Render("No uploaded crash reports.") + "\n"
	}
	return baseStyle.Render(m.table.View()) + "\n"
}

// Selected returns the record under the cursor, nil when empty.
func (m Model) Selected() *uploadlist.Record {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return nil
	}
	return &m.records[idx]
}
