package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/reelworks/reelgraph/pkg/rendergraph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ComponentListModel - Interactive render-graph browser
// =============================================================================

// ComponentListModel is the bubbletea model for browsing a render graph's
// components in paint order.
type ComponentListModel struct {
	Graph  rendergraph.Graph
	Cursor int
	Height int
	Offset int
}

// NewComponentListModel creates a new component browser model.
func NewComponentListModel(g rendergraph.Graph) ComponentListModel {
	return ComponentListModel{
		Graph:  g,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m ComponentListModel) Init() tea.Cmd {
	return nil
}

func (m ComponentListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Graph.Components)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ComponentListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Render Graph · %d fps · %.2fs", m.Graph.FPS, m.Graph.DurationSeconds)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Graph.Components) {
		end = len(m.Graph.Components)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		comp := m.Graph.Components[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			comp.Type,
			comp.Track,
			fmt.Sprintf("%.2fs", comp.StartTime),
			fmt.Sprintf("%.2fs", comp.Duration),
			fmt.Sprintf("%d", comp.Layer),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Type", "Track", "Start", "Duration", "Layer").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	if len(m.Graph.Components) > 0 {
		b.WriteString(renderProps(m.Graph.Components[m.Cursor]))
		b.WriteString("\n")
	}

	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Graph.Components))))
	return b.String()
}

// renderProps shows the selected component's props, one per line, keys sorted.
func renderProps(c rendergraph.Component) string {
	if len(c.Props) == 0 {
		return listDimStyle.Render("  no props")
	}

	keys := make([]string, 0, len(c.Props))
	for k := range c.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(StyleDim.Render("  props"))
	b.WriteString("\n")
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("    %s %s\n",
			StyleHighlight.Render(k+":"),
			StyleValue.Render(fmt.Sprintf("%v", c.Props[k]))))
	}
	return strings.TrimRight(b.String(), "\n")
}
