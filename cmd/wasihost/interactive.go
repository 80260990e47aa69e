package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apepkuss/wasmedge-wasi-for-quark/resource"
	"github.com/apepkuss/wasmedge-wasi-for-quark/wasictx"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	capStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// descriptorRow is one table row with the full capability lists kept for
// the detail pane.
type descriptorRow struct {
	fd       uint32
	kind     string
	path     string
	fileCaps string
	dirCaps  string
}

type interactiveModel struct {
	filename string
	args     []string
	env      []string
	rows     []descriptorRow
	table    table.Model
	proceed  bool
}

func newInteractiveModel(filename string, wctx *wasictx.Context) *interactiveModel {
	var rows []descriptorRow
	wctx.Table().Each(func(fd uint32, e resource.Entry) bool {
		r := descriptorRow{
			fd:       fd,
			kind:     e.Kind.String(),
			path:     e.GuestPath,
			fileCaps: e.FileCaps.String(),
		}
		if e.Kind == resource.KindDir {
			r.dirCaps = e.DirCaps.String()
		}
		rows = append(rows, r)
		return true
	})

	columns := []table.Column{
		{Title: "FD", Width: 4},
		{Title: "Kind", Width: 8},
		{Title: "Guest path", Width: 24},
		{Title: "File caps", Width: 40},
	}
	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, table.Row{strconv.FormatUint(uint64(r.fd), 10), r.kind, r.path, r.fileCaps})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithFocused(true),
		table.WithHeight(min(len(tableRows)+1, 12)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#666666")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))
	t.SetStyles(styles)

	return &interactiveModel{
		filename: filename,
		args:     wctx.Args(),
		env:      wctx.Environ(),
		rows:     rows,
		table:    t,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r", "enter":
			m.proceed = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("WASI Host"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("args: "))
	b.WriteString(strings.Join(m.args, " "))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("env:  "))
	b.WriteString(strings.Join(m.env, " "))
	b.WriteString("\n\n")

	b.WriteString(boxStyle.Render(m.table.View()))
	b.WriteString("\n")

	if i := m.table.Cursor(); i >= 0 && i < len(m.rows) {
		r := m.rows[i]
		b.WriteString(fmt.Sprintf("\nfd %d (%s)\n", r.fd, r.kind))
		b.WriteString(labelStyle.Render("file caps: "))
		b.WriteString(capStyle.Render(r.fileCaps))
		b.WriteString("\n")
		if r.dirCaps != "" {
			b.WriteString(labelStyle.Render("dir caps:  "))
			b.WriteString(capStyle.Render(r.dirCaps))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter/r run • q quit"))
	return b.String()
}

// runInteractive shows the descriptor table and reports whether the user
// asked to run the module.
func runInteractive(filename string, wctx *wasictx.Context) (bool, error) {
	m := newInteractiveModel(filename, wctx)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return false, err
	}
	return m.proceed, nil
}
