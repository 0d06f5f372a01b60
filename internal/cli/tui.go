package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/lineage/pkg/genealogy"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// EgoPickerModel - Interactive primary individual selection
// =============================================================================

// EgoPickerModel is the bubbletea model for choosing the primary individual.
// Typing filters by name or ID.
type EgoPickerModel struct {
	All      []*genealogy.Individual
	Filter   string
	Matches  []*genealogy.Individual
	Cursor   int
	Offset   int
	Height   int
	Selected *genealogy.Individual
}

// NewEgoPickerModel creates a picker over the graph's individuals with the
// cursor on current, if present.
func NewEgoPickerModel(g *genealogy.Graph, current string) EgoPickerModel {
	m := EgoPickerModel{All: g.Individuals(), Height: 15}
	m.Matches = m.All
	for i, ind := range m.Matches {
		if ind.ID == current {
			m.Cursor = i
			m.scroll()
			break
		}
	}
	return m
}

func (m EgoPickerModel) Init() tea.Cmd {
	return nil
}

func (m EgoPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
			}
		case tea.KeyDown:
			if m.Cursor < len(m.Matches)-1 {
				m.Cursor++
			}
		case tea.KeyEnter:
			if len(m.Matches) == 0 {
				return m, nil
			}
			m.Selected = m.Matches[m.Cursor]
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				r := []rune(m.Filter)
				m.Filter = string(r[:len(r)-1])
				m.refilter()
			}
		case tea.KeyRunes, tea.KeySpace:
			m.Filter += string(msg.Runes)
			m.refilter()
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.scroll()
	}
	return m, nil
}

func (m *EgoPickerModel) refilter() {
	m.Cursor, m.Offset = 0, 0
	if m.Filter == "" {
		m.Matches = m.All
		return
	}
	needle := strings.ToLower(m.Filter)
	m.Matches = nil
	for _, ind := range m.All {
		if strings.Contains(strings.ToLower(ind.Name), needle) || strings.Contains(strings.ToLower(ind.ID), needle) {
			m.Matches = append(m.Matches, ind)
		}
	}
}

// scroll keeps the cursor inside the visible window.
func (m *EgoPickerModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m EgoPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Primary Individual"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("filter: ") + StyleValue.Render(m.Filter))
	b.WriteString("\n\n")

	if len(m.Matches) == 0 {
		b.WriteString(StyleWarning.Render("  no matches"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Matches))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		ind := m.Matches[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, ind.ID, displayName(ind), lifeYears(ind)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "ID", "Name", "Years").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col == 3 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Matches))))
	return b.String()
}

// pickIndividual runs the picker and returns the chosen individual ID.
func pickIndividual(g *genealogy.Graph, current string) (string, error) {
	final, err := tea.NewProgram(NewEgoPickerModel(g, current), tea.WithOutput(uiOut)).Run()
	if err != nil {
		return "", fmt.Errorf("picker: %w", err)
	}
	m, ok := final.(EgoPickerModel)
	if !ok || m.Selected == nil {
		return "", errPickCanceled
	}
	return m.Selected.ID, nil
}

// =============================================================================
// Helpers
// =============================================================================

func displayName(ind *genealogy.Individual) string {
	if ind.Name == "" {
		return "—"
	}
	return ind.Name
}

func lifeYears(ind *genealogy.Individual) string {
	birth, ok := ind.BirthYear()
	var s string
	if ok {
		s = strconv.Itoa(birth)
	}
	if ind.Death != nil && ind.Death.Year != nil {
		s += "–" + strconv.Itoa(*ind.Death.Year)
	}
	return s
}
