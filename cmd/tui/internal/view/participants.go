package view

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmcardoso/payplan/internal/roster"
)

type participantsState int

const (
	participantsStateList participantsState = iota
	participantsStatePath
	participantsStateImporting
)

type ParticipantsModel struct {
	CommonModel
	rosterService *roster.Service

	state        participantsState
	participants []*roster.Participant
	loading      bool
	status       string

	form    *huh.Form
	path    string
	spinner spinner.Model
}

func NewParticipantsModel(svc *roster.Service) ParticipantsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ParticipantsModel{
		rosterService: svc,
		state:         participantsStateList,
		loading:       true,
		path:          "./participants.csv",
		spinner:       s,
	}
}

func (m ParticipantsModel) Init() tea.Cmd {
	return m.loadParticipantsCmd()
}

func (m ParticipantsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case participantsStateList:
		return m.updateList(msg)
	case participantsStatePath:
		return m.updatePath(msg)
	case participantsStateImporting:
		return m.updateImporting(msg)
	}

	return m, nil
}

func (m ParticipantsModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "i":
			m.form = m.buildPathForm()
			m.state = participantsStatePath

			return m, m.form.Init()
		}

	case loadParticipantsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading participants: %v", msg.err)
			break
		}

		m.participants = msg.participants
	}

	return m, nil
}

func (m ParticipantsModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = participantsStateList
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = participantsStateImporting

	return m, tea.Batch(m.spinner.Tick, m.importCmd(m.path))
}

func (m ParticipantsModel) updateImporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(importResultMsg); ok {
		m.state = participantsStateList
		m.loading = true

		if result.err != nil {
			m.status = fmt.Sprintf("Import failed: %v", result.err)
			m.loading = false

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d participants", result.count)

		return m, m.loadParticipantsCmd()
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ParticipantsModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("CSV File").
				Description("Header must name at least one of name, email, phone").
				Placeholder("./participants.csv").
				Value(&m.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ParticipantsModel) View() string {
	switch m.state {
	case participantsStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case participantsStateImporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Importing participants...", m.spinner.View()),
		)
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading participants...")
	}

	s := "Participants:\n\n"

	if len(m.participants) == 0 {
		s += "  (none saved yet)\n"
	}

	for _, p := range m.participants {
		contact := p.Email
		if contact == "" {
			contact = p.Phone
		}

		s += fmt.Sprintf("  %-24s %s\n", p.Name, contact)
	}

	if m.status != "" {
		s += "\n" + m.status
	}

	s += "\n(i to import a CSV, Esc to back)"

	return lipgloss.NewStyle().Padding(2).Render(s)
}

type loadParticipantsMsg struct {
	participants []*roster.Participant
	err          error
}

func (m ParticipantsModel) loadParticipantsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		participants, err := m.rosterService.List(ctx)

		return loadParticipantsMsg{participants: participants, err: err}
	}
}

type importResultMsg struct {
	count int
	err   error
}

func (m ParticipantsModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		parsed, err := roster.ParseCSV(f)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		saved, err := m.rosterService.Import(ctx, parsed)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{count: len(saved)}
	}
}
