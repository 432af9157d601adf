package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/clr-importer/importer"
)

var (
	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

// resultItem is one row of the browser: a type or a diagnostic.
type resultItem struct {
	title  string
	detail string
}

func (i resultItem) Title() string       { return i.title }
func (i resultItem) Description() string { return i.detail }
func (i resultItem) FilterValue() string { return i.title }

type browserModel struct {
	list list.Model
}

func (m browserModel) Init() tea.Cmd { return nil }

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-2, msg.Height-4)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browserModel) View() string {
	return detailStyle.Render(m.list.View()) + "\n q: quit\n"
}

// runBrowser opens an interactive view over the import result.
func runBrowser(name string, res *importer.ImportResult) error {
	rep := res.Summarize()

	var items []list.Item
	for _, nt := range rep.NewTypes {
		detail := fmt.Sprintf("new type, %d fields, %d methods", nt.Fields, nt.Methods)
		if nt.Renamed {
			detail += ", renamed"
		}
		items = append(items, resultItem{title: nt.Name, detail: detail})
	}
	for _, mt := range rep.MergedTypes {
		detail := fmt.Sprintf("merged: +%d fields, +%d methods, %d edited bodies",
			len(mt.NewFields), len(mt.NewMethods), len(mt.EditedMethods))
		items = append(items, resultItem{title: mt.Name, detail: detail})
	}
	for _, d := range rep.Diagnostics {
		items = append(items, resultItem{
			title:  d.Severity + " " + d.Code,
			detail: d.Message,
		})
	}
	if len(items) == 0 {
		items = append(items, resultItem{title: "no changes", detail: "the import produced nothing"})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "import: " + name

	_, err := tea.NewProgram(browserModel{list: l}, tea.WithAltScreen()).Run()
	return err
}
