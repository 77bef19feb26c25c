// Package tui provides a Bubble Tea TUI for browsing generated reports.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("235")).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Background(lipgloss.Color("235"))

	// Section heading inside a tab
	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	subHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	bulletStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	codeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	barStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// overviewTab names the tab holding text that precedes the first section.
const overviewTab = "Inicio"

// Section is one "## " block of a Markdown report.
type Section struct {
	Title string
	Body  string
}

// Split breaks a Markdown report into its document title and sections.
// A leading YAML frontmatter block is dropped. Text before the first
// "## " heading becomes an overview section when it is not blank.
func Split(markdown string) (string, []Section) {
	lines := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "---" {
		for i := 1; i < len(lines); i++ {
			if strings.TrimSpace(lines[i]) == "---" {
				lines = lines[i+1:]
				break
			}
		}
	}

	var (
		title    string
		sections []Section
		cur      = Section{Title: overviewTab}
		body     []string
	)
	flush := func() {
		cur.Body = strings.Trim(strings.Join(body, "\n"), "\n")
		if cur.Title != overviewTab || strings.TrimSpace(cur.Body) != "" {
			sections = append(sections, cur)
		}
		body = nil
	}
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "## "):
			flush()
			cur = Section{Title: strings.TrimSpace(strings.TrimPrefix(line, "## "))}
		case strings.HasPrefix(line, "# ") && title == "":
			title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
		default:
			body = append(body, line)
		}
	}
	flush()
	return title, sections
}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	title     string
	filename  string
	sections  []Section
	activeTab int
	viewports []viewport.Model
	width     int
	height    int
	ready     bool
}

// New creates a new TUI model for the given report and source filename.
func New(markdown, filename string) Model {
	title, sections := Split(markdown)
	if len(sections) == 0 {
		sections = []Section{{Title: overviewTab}}
	}
	return Model{
		title:    title,
		filename: filepath.Base(filename),
		sections: sections,
	}
}

// ActiveTab returns the index of the selected section.
func (m Model) ActiveTab() int { return m.activeTab }

// Sections returns the report sections shown as tabs.
func (m Model) Sections() []Section { return m.sections }

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.sections)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % n
			return m, nil
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + n) % n
			return m, nil
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			if i := int(key[0] - '1'); i < n {
				m.activeTab = i
			}
			return m, nil
		}
		if !m.ready {
			return m, nil
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Cargando…"
	}

	name := m.filename
	if m.title != "" {
		name = m.title + "  ·  " + m.filename
	}
	title := titleStyle.Width(m.width).Render("  ai-logger  " + name)

	var tabParts []string
	for i, s := range m.sections {
		label := fmt.Sprintf(" %d %s ", i+1, s.Title)
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < len(m.sections)-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ sección  ↑/↓ desplazar  1-9 saltar  q salir"
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

func (m *Model) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewports = make([]viewport.Model, len(m.sections))
	for i, s := range m.sections {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(renderSection(s))
		m.viewports[i] = vp
	}
}

// ── Rendering ─────────────────────

func renderSection(s Section) string {
	var sb strings.Builder
	sb.WriteString("\n" + sectionHeader.Render("  "+s.Title) + "\n\n")
	if strings.TrimSpace(s.Body) == "" {
		sb.WriteString(dimStyle.Render("  (vacío)") + "\n")
		return sb.String()
	}
	inCode := false
	for _, line := range strings.Split(s.Body, "\n") {
		sb.WriteString(renderLine(line, &inCode) + "\n")
	}
	return sb.String()
}

func renderLine(line string, inCode *bool) string {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "```") {
		*inCode = !*inCode
		return dimStyle.Render("  " + strings.Repeat("─", 20))
	}
	if *inCode {
		return codeStyle.Render("    " + line)
	}
	switch {
	case strings.HasPrefix(trimmed, "### "):
		return subHeader.Render("  " + strings.TrimPrefix(trimmed, "### "))
	case strings.HasPrefix(trimmed, "- "):
		return bulletStyle.Render("  •") + "  " + stripEmphasis(strings.TrimPrefix(trimmed, "- "))
	case strings.HasPrefix(trimmed, "|"):
		if strings.Trim(trimmed, "|-: ") == "" {
			return dimStyle.Render("  " + trimmed)
		}
		return "  " + strings.ReplaceAll(trimmed, "█", barStyle.Render("█"))
	case strings.HasPrefix(trimmed, "*") && strings.HasSuffix(trimmed, "*"):
		return dimStyle.Render("  " + strings.Trim(trimmed, "*"))
	case trimmed == "---":
		return dimStyle.Render("  " + strings.Repeat("─", 40))
	}
	return "  " + stripEmphasis(line)
}

func stripEmphasis(s string) string {
	return strings.ReplaceAll(s, "**", "")
}

// Run starts the TUI for the given report.
func Run(markdown, filename string) error {
	p := tea.NewProgram(New(markdown, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
