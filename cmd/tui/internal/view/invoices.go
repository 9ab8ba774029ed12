package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmcardoso/payplan/internal/invoice"
)

// InvoiceSelectedMsg is emitted when the user picks an invoice to pay.
type InvoiceSelectedMsg struct {
	Invoice *invoice.Invoice
}

type InvoicesModel struct {
	CommonModel
	invoiceService *invoice.Service

	invoices []*invoice.Invoice
	cursor   int
	loading  bool
	status   string
}

func NewInvoicesModel(svc *invoice.Service) InvoicesModel {
	return InvoicesModel{
		invoiceService: svc,
		loading:        true,
	}
}

func (m InvoicesModel) Init() tea.Cmd {
	return m.loadInvoicesCmd()
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyEsc:
			return m, Back

		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}

		case tea.KeyDown:
			if m.cursor < len(m.invoices)-1 {
				m.cursor++
			}

		case tea.KeyEnter:
			if len(m.invoices) == 0 {
				return m, nil
			}

			selected := m.invoices[m.cursor]
			if selected.Status == invoice.StatusPaid {
				m.status = "Invoice is already settled"
				return m, nil
			}

			return m, func() tea.Msg {
				return InvoiceSelectedMsg{Invoice: selected}
			}
		}

	case loadInvoicesMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading invoices: %v", msg.err)
			break
		}

		m.invoices = msg.invoices
		m.cursor = 0

		if len(m.invoices) == 0 {
			m.status = "No open invoices."
		}
	}

	return m, nil
}

func (m InvoicesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	s := "Open Invoices:\n\n"

	for i, inv := range m.invoices {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %-14s %-20s due %s  remaining %s  [%s]\n",
			cursor,
			inv.Reference,
			inv.CustomerName,
			FormatDate(inv.DueDate),
			FormatMoney(inv.Remaining()),
			inv.Status,
		)
	}

	if m.status != "" {
		s += "\n" + m.status
	}

	s += "\n(Enter to allocate a payment, Esc to back)"

	return lipgloss.NewStyle().Padding(2).Render(s)
}

type loadInvoicesMsg struct {
	invoices []*invoice.Invoice
	err      error
}

func (m InvoicesModel) loadInvoicesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invoices, err := m.invoiceService.List(ctx, invoice.ListFilter{})

		return loadInvoicesMsg{invoices: invoices, err: err}
	}
}
