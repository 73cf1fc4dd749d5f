package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	diffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// interactiveModel shows the source and clone dumps side by side, scrolled
// together, with differing lines highlighted.
type interactiveModel struct {
	rep       *report
	left      viewport.Model
	right     viewport.Model
	ready     bool
	addresses bool
}

func newInteractiveModel(rep *report) *interactiveModel {
	return &interactiveModel{rep: rep}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "a":
			m.addresses = !m.addresses
			m.setContent()
			return m, nil
		}

	case tea.WindowSizeMsg:
		// title, footer and pane borders
		height := max(msg.Height-6, 1)
		width := max(msg.Width/2-2, 10)
		if !m.ready {
			m.left = viewport.New(width, height)
			m.right = viewport.New(width, height)
			m.ready = true
		} else {
			m.left.Width, m.left.Height = width, height
			m.right.Width, m.right.Height = width, height
		}
		m.setContent()
		return m, nil
	}

	if !m.ready {
		return m, nil
	}
	var cmd tea.Cmd
	m.left, cmd = m.left.Update(msg)
	m.right.SetYOffset(m.left.YOffset)
	return m, cmd
}

func (m *interactiveModel) setContent() {
	src, dst := m.rep.sourceDump, m.rep.cloneDump
	if m.addresses {
		src = m.rep.sourceAddrs + src
		dst = m.rep.cloneAddrs + dst
	}
	left, right := highlight(src, dst)
	m.left.SetContent(left)
	m.right.SetContent(right)
	m.right.SetYOffset(m.left.YOffset)
}

// highlight marks lines that differ between the two texts.
func highlight(a, b string) (string, string) {
	la := strings.Split(a, "\n")
	lb := strings.Split(b, "\n")
	for i, n := 0, max(len(la), len(lb)); i < n; i++ {
		if i < len(la) && i < len(lb) && la[i] == lb[i] {
			continue
		}
		if i < len(la) {
			la[i] = diffStyle.Render(la[i])
		}
		if i < len(lb) {
			lb[i] = diffStyle.Render(lb[i])
		}
	}
	return strings.Join(la, "\n"), strings.Join(lb, "\n")
}

func (m *interactiveModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Layout Table Clone"))
	status := resultStyle.Render("identical")
	if m.rep.sourceDump != m.rep.cloneDump {
		status = diffStyle.Render("differs")
	}
	fmt.Fprintf(&b, " %d byte block, dumps %s\n", m.rep.blockSize, status)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(headerStyle.Render("source")+"\n"+m.left.View()),
		paneStyle.Render(headerStyle.Render("clone")+"\n"+m.right.View()),
	))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ scroll • a addresses • q quit"))
	return b.String()
}

func runInteractive(rep *report) error {
	p := tea.NewProgram(newInteractiveModel(rep), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
