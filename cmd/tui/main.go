package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/jmcardoso/payplan/cmd/tui/internal/view"
	"github.com/jmcardoso/payplan/internal/allocation"
	"github.com/jmcardoso/payplan/internal/config"
	"github.com/jmcardoso/payplan/internal/database"
	"github.com/jmcardoso/payplan/internal/invoice"
	invoiceStore "github.com/jmcardoso/payplan/internal/invoice/store"
	"github.com/jmcardoso/payplan/internal/processor"
	"github.com/jmcardoso/payplan/internal/roster"
	rosterStore "github.com/jmcardoso/payplan/internal/roster/store"
)

type model struct {
	invoiceService *invoice.Service
	rosterService  *roster.Service
	submitter      processor.Submitter
	policy         allocation.RemainderPolicy

	currentView View

	invoicesView     view.InvoicesModel
	allocateView     view.AllocateModel
	participantsView view.ParticipantsModel
}

type View int

const (
	ViewMenu         View = 0
	ViewInvoices     View = 1
	ViewAllocate     View = 2
	ViewParticipants View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	policy := allocation.RemainderFrontLoaded
	if cfg.Allocation.Remainder == "back" {
		policy = allocation.RemainderBackLoaded
	}

	invoiceSvc := invoice.NewService(invoiceStore.New(db))
	rosterSvc := roster.NewService(rosterStore.New(db))
	submitter := processor.NewClient(cfg.Processor.URL, cfg.Processor.Token)

	return model{
		invoiceService:   invoiceSvc,
		rosterService:    rosterSvc,
		submitter:        submitter,
		policy:           policy,
		currentView:      ViewMenu,
		invoicesView:     view.NewInvoicesModel(invoiceSvc),
		participantsView: view.NewParticipantsModel(rosterSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewInvoices
				m.invoicesView = view.NewInvoicesModel(m.invoiceService)

				return m, m.invoicesView.Init()
			case "2":
				m.currentView = ViewParticipants
				m.participantsView = view.NewParticipantsModel(m.rosterService)

				return m, m.participantsView.Init()
			}
		}
	case view.InvoiceSelectedMsg:
		m.currentView = ViewAllocate
		m.allocateView = view.NewAllocateModel(msg.Invoice, m.rosterService, m.submitter, m.policy)

		return m, m.allocateView.Init()
	case view.BackMsg:
		if m.currentView == ViewAllocate {
			m.currentView = ViewInvoices
			m.invoicesView = view.NewInvoicesModel(m.invoiceService)

			return m, m.invoicesView.Init()
		}

		m.currentView = ViewMenu

		return m, nil
	}

	switch m.currentView {
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoicesView.Update(msg)
		m.invoicesView = newModel.(view.InvoicesModel)
	case ViewAllocate:
		var newModel tea.Model
		newModel, cmd = m.allocateView.Update(msg)
		m.allocateView = newModel.(view.AllocateModel)
	case ViewParticipants:
		var newModel tea.Model
		newModel, cmd = m.participantsView.Update(msg)
		m.participantsView = newModel.(view.ParticipantsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"PayPlan TUI\n\n" +
				"1. Pay an Invoice\n" +
				"2. Manage Participants\n\n" +
				"q. Quit",
		)
	case ViewInvoices:
		return m.invoicesView.View()
	case ViewAllocate:
		return m.allocateView.View()
	case ViewParticipants:
		return m.participantsView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
