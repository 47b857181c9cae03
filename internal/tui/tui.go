// Package tui implements the interactive command tree browser behind
// `treesub inspect`.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/rafabd1/treesub/internal/tree"
)

var log = logrus.WithField("prefix", "tui")

// Styles used to render the tree.
type Styles struct {
	Group       lipgloss.Style
	Command     lipgloss.Style
	Description lipgloss.Style
	Empty       lipgloss.Style
}

// DefaultStyles returns the colored styles used by the browser.
func DefaultStyles() Styles {
	return Styles{
		Group:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
		Command:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Description: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Empty:       lipgloss.NewStyle().Faint(true),
	}
}

// PlainStyles renders without any escape sequences.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Group: s, Command: s, Description: s, Empty: s}
}

// Render draws the tree, one node per line, indented by depth. When filter
// is set only commands whose full path contains it (and their groups) are shown.
func Render(t *tree.Tree, filter string, st Styles) string {
	filter = strings.ToLower(strings.TrimSpace(filter))
	keep := make(map[string]bool)
	tree.Walk(t, func(path []string, n tree.Node) {
		if _, ok := n.(*tree.Command); !ok {
			return
		}
		full := strings.Join(append(append([]string(nil), path...), n.Name()), " ")
		if filter != "" && !strings.Contains(full, filter) {
			return
		}
		keep[full] = true
		for i := range path {
			keep[strings.Join(path[:i+1], " ")] = true
		}
	})

	var lines []string
	tree.Walk(t, func(path []string, n tree.Node) {
		full := strings.Join(append(append([]string(nil), path...), n.Name()), " ")
		if !keep[full] {
			return
		}
		indent := strings.Repeat("  ", len(path))
		switch n.(type) {
		case *tree.Group:
			lines = append(lines, indent+st.Group.Render(n.Name()+"/")+"  "+st.Description.Render(n.Description()))
		default:
			lines = append(lines, indent+st.Command.Render("/"+n.Name())+"  "+st.Description.Render(n.Description()))
		}
	})
	if len(lines) == 0 {
		return st.Empty.Render("No matching commands.")
	}
	return strings.Join(lines, "\n")
}

// Model is the browser state.
type Model struct {
	tree     *tree.Tree
	viewport viewport.Model
	filter   textarea.Model
	styles   Styles
	ready    bool
}

// New initializes a browser over t.
func New(t *tree.Tree) *Model {
	ta := textarea.New()
	ta.Placeholder = "Type to filter commands..."
	ta.Focus()
	ta.Prompt = "┃ "
	ta.CharLimit = 64
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	return &Model{tree: t, filter: ta, styles: DefaultStyles()}
}

// Init starts the cursor blink.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles key presses and resizes.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		vpCmd tea.Cmd
		taCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.headerView())
		footerHeight := lipgloss.Height(m.footerView())
		height := msg.Height - headerHeight - footerHeight
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.filter.SetWidth(msg.Width)
	}

	m.filter, taCmd = m.filter.Update(msg)
	if m.ready {
		m.viewport.SetContent(Render(m.tree, m.filter.Value(), m.styles))
		m.viewport, vpCmd = m.viewport.Update(msg)
	}
	return m, tea.Batch(vpCmd, taCmd)
}

// View renders header, tree and filter input.
func (m *Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	return fmt.Sprintf("%s\n%s\n%s", m.headerView(), m.viewport.View(), m.footerView())
}

func (m *Model) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Command tree")
	line := strings.Repeat("─", max(m.viewport.Width, 0))
	return lipgloss.JoinVertical(lipgloss.Left, title, line)
}

func (m *Model) footerView() string {
	return m.filter.View()
}

// Run starts the browser and blocks until the user quits. Log output is
// discarded meanwhile since the program owns the terminal.
func Run(t *tree.Tree) error {
	restore := silence(logrus.StandardLogger())
	p := tea.NewProgram(New(t), tea.WithAltScreen())
	_, err := p.Run()
	restore()
	log.WithError(err).Debug("Browser closed")
	return err
}

// silence discards l's output until the returned func is called.
func silence(l *logrus.Logger) (restore func()) {
	out := l.Out
	l.SetOutput(io.Discard)
	return func() { l.SetOutput(out) }
}
