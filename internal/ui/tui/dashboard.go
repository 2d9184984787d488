package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/klauern/skillhub/internal/model"
)

// StatusSource produces a fresh hub status snapshot.
type StatusSource func() ([]model.HubStatus, error)

// statusMsg carries the result of a refresh.
type statusMsg struct {
	statuses []model.HubStatus
	err      error
	at       time.Time
}

type dashboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultDashboardKeyMap() dashboardKeyMap {
	return dashboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type dashboardColumnWidths struct {
	skill   int
	synced  int
	missing int
	path    int
}

func defaultDashboardColumnWidths() dashboardColumnWidths {
	return dashboardColumnWidths{skill: 24, synced: 30, missing: 30, path: 40}
}

// DashboardModel is a read-only table of hub skills and the tools that
// hold or lack them.
type DashboardModel struct {
	table       table.Model
	source      StatusSource
	statuses    []model.HubStatus
	err         error
	refreshedAt time.Time
	keys        dashboardKeyMap
	widths      dashboardColumnWidths
	showHelp    bool
	width       int
	height      int
	quitting    bool
}

// NewDashboardModel creates the dashboard and loads the first snapshot.
func NewDashboardModel(source StatusSource) DashboardModel {
	widths := defaultDashboardColumnWidths()
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Skill", Width: widths.skill},
			{Title: "Synced To", Width: widths.synced},
			{Title: "Missing In", Width: widths.missing},
			{Title: "Hub Path", Width: widths.path},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	m := DashboardModel{
		table:  t,
		source: source,
		keys:   defaultDashboardKeyMap(),
		widths: widths,
	}
	return m.apply(load(source))
}

func load(source StatusSource) statusMsg {
	statuses, err := source()
	return statusMsg{statuses: statuses, err: err, at: time.Now()}
}

func (m DashboardModel) refresh() tea.Cmd {
	source := m.source
	return func() tea.Msg { return load(source) }
}

func (m DashboardModel) apply(msg statusMsg) DashboardModel {
	m.err = msg.err
	m.refreshedAt = msg.at
	if msg.err == nil {
		m.statuses = msg.statuses
		m.table.SetRows(m.rows())
	}
	return m
}

func (m DashboardModel) rows() []table.Row {
	rows := make([]table.Row, len(m.statuses))
	for i, s := range m.statuses {
		rows[i] = table.Row{
			truncateText(s.SkillID, m.widths.skill),
			truncateText(joinTools(s.SyncedTo), m.widths.synced),
			truncateText(joinTools(s.MissingIn), m.widths.missing),
			truncateText(s.HubPath, m.widths.path),
		}
	}
	return rows
}

// Init implements tea.Model.
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-8, 5))
		return m, nil

	case statusMsg:
		return m.apply(msg), nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			return m, m.refresh()
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m DashboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render("skillhub status"))
	b.WriteString("\n\n")

	if len(m.statuses) == 0 {
		b.WriteString(Styles.Status.Render("The hub has no skills."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(Styles.Error.Render(fmt.Sprintf("refresh failed: %v", m.err)))
		b.WriteString("\n")
	}

	status := fmt.Sprintf("%d skill(s)", len(m.statuses))
	if !m.refreshedAt.IsZero() {
		status += " · refreshed " + m.refreshedAt.Format("15:04:05")
	}
	b.WriteString(Styles.Status.Render(status))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(Styles.Help.Render("↑/k, ↓/j  move\nr         rescan tools and hub\n?         toggle help\nq         quit"))
	} else {
		b.WriteString(Styles.Help.Render("↑/↓ navigate • r refresh • ? help • q quit"))
	}
	return b.String()
}

// Statuses returns the snapshot currently shown.
func (m DashboardModel) Statuses() []model.HubStatus {
	return m.statuses
}

// RunDashboard runs the status dashboard until the user quits.
func RunDashboard(source StatusSource) error {
	_, err := Run(NewDashboardModel(source), tea.WithAltScreen())
	return err
}
