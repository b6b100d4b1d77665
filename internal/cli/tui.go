package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/ontoforge/pkg/ontology"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// OntologyListModel - Interactive ontology selection
// =============================================================================

// OntologyListModel is the bubbletea model for picking the ontology to
// activate.
type OntologyListModel struct {
	Ontologies []*ontology.Ontology
	ActiveID   string
	Cursor     int
	Selected   *ontology.Ontology
	Height     int
	Offset     int
}

// NewOntologyListModel creates a list model with the cursor on the active
// ontology.
func NewOntologyListModel(items []*ontology.Ontology, activeID string) OntologyListModel {
	m := OntologyListModel{
		Ontologies: items,
		ActiveID:   activeID,
		Height:     15,
	}
	for i, o := range items {
		if o.ID == activeID {
			m.Cursor = i
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	}
	return m
}

func (m OntologyListModel) Init() tea.Cmd {
	return nil
}

func (m OntologyListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Ontologies)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Ontologies) == 0 {
				return m, tea.Quit
			}
			m.Selected = m.Ontologies[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m OntologyListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Ontology"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ activate  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Ontologies))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		o := m.Ontologies[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		active := ""
		if o.ID == m.ActiveID {
			active = "●"
		}
		rows = append(rows, []string{
			cursor,
			active,
			o.Name,
			strconv.Itoa(len(o.Nodes)),
			strconv.Itoa(len(o.Edges)),
			formatRelativeTime(o.LastModified, time.Now()),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Ontology", "Nodes", "Edges", "Modified").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.Ontologies) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col >= 3 {
				base = base.Foreground(colorDim)
			}
			if col == 1 {
				base = base.Foreground(colorGreen)
			}
			if idx == m.Cursor {
				if col == 2 {
					return base.Foreground(colorCyan).Bold(true)
				}
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(m.Ontologies) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Ontologies))))
	}

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
