package view

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmcardoso/payplan/internal/allocation"
	"github.com/jmcardoso/payplan/internal/invoice"
	"github.com/jmcardoso/payplan/internal/money"
	"github.com/jmcardoso/payplan/internal/processor"
	"github.com/jmcardoso/payplan/internal/roster"
)

type allocateState int

const (
	allocateStateMode allocateState = iota
	allocateStatePartial
	allocateStateCustom
	allocateStateSplit
	allocateStateSchedule
	allocateStatePreview
	allocateStateRail
	allocateStateSubmitting
	allocateStateResult
)

var modeChoices = []allocation.Mode{
	allocation.ModePartial,
	allocation.ModeFull,
	allocation.ModeCustom,
	allocation.ModeSplit,
	allocation.ModeSchedule,
}

type AllocateModel struct {
	CommonModel
	rosterService *roster.Service
	submitter     processor.Submitter

	controller *allocation.Controller
	inv        *invoice.Invoice

	state      allocateState
	modeCursor int

	suggestions      []allocation.Suggestion
	suggestionCursor int

	form *huh.Form

	// form-bound fields
	customAmount string
	strategy     string
	participants string
	cadence      string
	installments string
	startDate    string
	rail         string
	memo         string

	spinner spinner.Model
	status  string
	receipt *processor.Receipt
	err     error
}

func NewAllocateModel(inv *invoice.Invoice, rosterSvc *roster.Service, submitter processor.Submitter, policy allocation.RemainderPolicy) AllocateModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return AllocateModel{
		rosterService: rosterSvc,
		submitter:     submitter,
		controller:    allocation.NewController(inv, allocation.WithRemainderPolicy(policy)),
		inv:           inv,
		state:         allocateStateMode,
		suggestions:   allocation.SuggestedAmounts(inv.Remaining(), inv.MinimumAmount),
		installments:  "3",
		startDate:     FormatDate(time.Now()),
		spinner:       s,
	}
}

func (m AllocateModel) Init() tea.Cmd {
	return nil
}

func (m AllocateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case allocateStateMode:
		return m.updateMode(msg)
	case allocateStatePartial:
		return m.updatePartial(msg)
	case allocateStateCustom, allocateStateSplit, allocateStateSchedule:
		return m.updateForm(msg)
	case allocateStatePreview:
		return m.updatePreview(msg)
	case allocateStateRail:
		return m.updateRail(msg)
	case allocateStateSubmitting:
		return m.updateSubmitting(msg)
	case allocateStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m AllocateModel) updateMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyEsc:
		m.controller.Cancel()
		return m, Back

	case tea.KeyUp:
		if m.modeCursor > 0 {
			m.modeCursor--
		}

	case tea.KeyDown:
		if m.modeCursor < len(modeChoices)-1 {
			m.modeCursor++
		}

	case tea.KeyEnter:
		mode := modeChoices[m.modeCursor]
		m.controller.SetMode(mode)
		m.status = ""

		switch mode {
		case allocation.ModeFull:
			m.state = allocateStatePreview
		case allocation.ModeCustom:
			m.customAmount = ""
			m.form = m.buildCustomForm()
			m.state = allocateStateCustom

			return m, m.form.Init()
		case allocation.ModeSplit:
			m.form = m.buildSplitForm()
			m.state = allocateStateSplit

			return m, m.form.Init()
		case allocation.ModeSchedule:
			m.form = m.buildScheduleForm()
			m.state = allocateStateSchedule

			return m, m.form.Init()
		default:
			m.suggestionCursor = 0
			m.state = allocateStatePartial
		}
	}

	return m, nil
}

func (m AllocateModel) updatePartial(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyEsc:
		m.state = allocateStateMode

	case tea.KeyUp:
		if m.suggestionCursor > 0 {
			m.suggestionCursor--
		}

	case tea.KeyDown:
		if m.suggestionCursor < len(m.suggestions)-1 {
			m.suggestionCursor++
		}

	case tea.KeyEnter:
		m.controller.SetAmount(m.suggestions[m.suggestionCursor].Amount)
		m.state = allocateStatePreview
	}

	return m, nil
}

func (m AllocateModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = allocateStateMode
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if err := m.applyForm(); err != nil {
		m.status = err.Error()
		m.state = allocateStateMode

		return m, nil
	}

	m.state = allocateStatePreview

	return m, nil
}

// applyForm pushes the completed form's values into the controller.
func (m *AllocateModel) applyForm() error {
	switch m.state {
	case allocateStateCustom:
		amount, err := money.Parse(m.customAmount, m.inv.TotalAmount.Currency)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}

		m.controller.SetAmount(amount)

	case allocateStateSplit:
		inputs, err := m.parseParticipants()
		if err != nil {
			return err
		}

		m.controller.SetSplit(allocation.SplitStrategy(m.strategy), inputs)

	case allocateStateSchedule:
		count, err := strconv.Atoi(strings.TrimSpace(m.installments))
		if err != nil {
			return fmt.Errorf("invalid installment count: %w", err)
		}

		start, err := time.Parse("2006-01-02", strings.TrimSpace(m.startDate))
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}

		m.controller.SetSchedule(allocation.Cadence(m.cadence), count)
		m.controller.SetStartDate(start)
	}

	return nil
}

// parseParticipants turns one "Name <email>" entry per line into split
// inputs. Percentage and custom strategies take a share after a colon,
// e.g. "Alice <alice@example.com>: 40" or ": 25.00". Known emails are
// resolved against the roster so saved names win over blanks.
func (m *AllocateModel) parseParticipants() ([]allocation.SplitInput, error) {
	currency := m.inv.TotalAmount.Currency

	var inputs []allocation.SplitInput

	for _, line := range strings.Split(m.participants, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var share string
		if idx := strings.LastIndex(line, ":"); idx >= 0 {
			share = strings.TrimSpace(line[idx+1:])
			line = strings.TrimSpace(line[:idx])
		}

		input := allocation.SplitInput{Participant: parseParticipant(line)}

		if input.Participant.Email != "" {
			ctx, cancel := DbCtx()
			known, err := m.rosterService.Lookup(ctx, input.Participant.Email)
			cancel()

			if err == nil && input.Participant.Name == "" {
				input.Participant.Name = known.Name
			}
		}

		switch allocation.SplitStrategy(m.strategy) {
		case allocation.SplitPercentage:
			pct, err := strconv.ParseFloat(share, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid percentage %q for %s", share, input.Participant.Name)
			}

			input.BasisPoints = int64(math.Round(pct * 100))

		case allocation.SplitCustom:
			amount, err := money.Parse(share, currency)
			if err != nil {
				return nil, fmt.Errorf("invalid amount %q for %s", share, input.Participant.Name)
			}

			input.Amount = amount
		}

		inputs = append(inputs, input)
	}

	return inputs, nil
}

// parseParticipant accepts "Name <email>", a bare email, or a bare name.
func parseParticipant(s string) roster.Participant {
	if open := strings.Index(s, "<"); open >= 0 {
		if end := strings.Index(s, ">"); end > open {
			return roster.Participant{
				Name:  strings.TrimSpace(s[:open]),
				Email: strings.TrimSpace(s[open+1 : end]),
			}
		}
	}

	if strings.Contains(s, "@") {
		return roster.Participant{Email: s}
	}

	return roster.Participant{Name: s}
}

func (m AllocateModel) updatePreview(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyEsc:
		m.state = allocateStateMode

	case tea.KeyEnter:
		if err := m.controller.Validate(); err != nil {
			m.status = fmt.Sprintf("Cannot submit: %v", err)
			return m, nil
		}

		m.rail = string(processor.RailCard)
		m.memo = ""
		m.form = m.buildRailForm()
		m.state = allocateStateRail

		return m, m.form.Init()
	}

	return m, nil
}

func (m AllocateModel) updateRail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = allocateStatePreview
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	plan, err := m.controller.Submit()
	if err != nil {
		m.status = fmt.Sprintf("Cannot submit: %v", err)
		m.state = allocateStatePreview

		return m, nil
	}

	m.state = allocateStateSubmitting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.submitCmd(plan))
}

func (m AllocateModel) updateSubmitting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(submitResultMsg); ok {
		m.state = allocateStateResult
		m.receipt = result.receipt
		m.err = result.err

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m AllocateModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	return m, nil
}

func (m AllocateModel) buildCustomForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Payment Amount").
				Description(fmt.Sprintf("Remaining balance: %s", FormatMoney(m.inv.Remaining()))).
				Placeholder("25.00").
				Value(&m.customAmount),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m AllocateModel) buildSplitForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("strategy").
				Title("Split Strategy").
				Options(
					huh.NewOption("Equal shares", string(allocation.SplitEqual)),
					huh.NewOption("By percentage", string(allocation.SplitPercentage)),
					huh.NewOption("Custom amounts", string(allocation.SplitCustom)),
				).
				Value(&m.strategy),
			huh.NewText().
				Key("participants").
				Title("Participants").
				Description("One per line: Name <email>. Percentage and custom shares after a colon.").
				Value(&m.participants),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m AllocateModel) buildScheduleForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("cadence").
				Title("Cadence").
				Options(
					huh.NewOption("Weekly", string(allocation.CadenceWeekly)),
					huh.NewOption("Biweekly", string(allocation.CadenceBiweekly)),
					huh.NewOption("Monthly", string(allocation.CadenceMonthly)),
				).
				Value(&m.cadence),
			huh.NewInput().
				Key("installments").
				Title("Installments").
				Placeholder("3").
				Value(&m.installments),
			huh.NewInput().
				Key("start").
				Title("First Due Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.startDate),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m AllocateModel) buildRailForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("rail").
				Title("Payment Rail").
				Options(
					huh.NewOption("Card", string(processor.RailCard)),
					huh.NewOption("Bank Transfer", string(processor.RailBank)),
					huh.NewOption("Crypto", string(processor.RailCrypto)),
					huh.NewOption("Wallet", string(processor.RailWallet)),
				).
				Value(&m.rail),
			huh.NewInput().
				Key("memo").
				Title("Memo").
				Placeholder("optional").
				Value(&m.memo),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m AllocateModel) View() string {
	switch m.state {
	case allocateStateMode:
		return m.viewMode()
	case allocateStatePartial:
		return m.viewPartial()
	case allocateStateCustom, allocateStateSplit, allocateStateSchedule, allocateStateRail:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case allocateStatePreview:
		return m.viewPreview()
	case allocateStateSubmitting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Submitting to payment processor...", m.spinner.View()),
		)
	case allocateStateResult:
		return m.viewResult()
	}

	return ""
}

func (m AllocateModel) viewMode() string {
	s := fmt.Sprintf("Invoice %s (%s)\nRemaining: %s\n\nHow do you want to pay?\n\n",
		m.inv.Reference, m.inv.CustomerName, FormatMoney(m.inv.Remaining()))

	labels := map[allocation.Mode]string{
		allocation.ModePartial:  "Partial payment (suggested amounts)",
		allocation.ModeFull:     "Pay in full",
		allocation.ModeCustom:   "Custom amount",
		allocation.ModeSplit:    "Split between people",
		allocation.ModeSchedule: "Payment schedule",
	}

	for i, mode := range modeChoices {
		cursor := " "
		if m.modeCursor == i {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, labels[mode])
	}

	if m.status != "" {
		s += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status) + "\n"
	}

	s += "\n(Enter to select, Esc to cancel)"

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m AllocateModel) viewPartial() string {
	s := "Suggested amounts:\n\n"

	for i, sg := range m.suggestions {
		cursor := " "
		if m.suggestionCursor == i {
			cursor = ">"
		}

		label := sg.Label
		if sg.Clamped {
			label += " (capped at balance)"
		}

		s += fmt.Sprintf("%s %-24s %s\n", cursor, label, FormatMoney(sg.Amount))
	}

	s += "\n(Enter to select, Esc to back)"

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m AllocateModel) viewPreview() string {
	plan := m.controller.Plan()
	if plan == nil {
		return lipgloss.NewStyle().Padding(2).Render("No plan. (Esc to back)")
	}

	s := fmt.Sprintf("Plan preview (%s):\n\n", plan.Mode)

	switch plan.Kind {
	case allocation.PlanSplit:
		for _, split := range plan.Splits {
			name := split.Participant.Name
			if name == "" {
				name = split.Participant.Email
			}

			s += fmt.Sprintf("  %-24s %s\n", name, FormatMoney(split.Amount))
		}
	case allocation.PlanSchedule:
		for _, entry := range plan.Entries {
			s += fmt.Sprintf("  #%d  %s  %s\n", entry.Sequence, FormatDate(entry.DueDate), FormatMoney(entry.Amount))
		}
	default:
		s += fmt.Sprintf("  Pay %s now\n", FormatMoney(plan.Amount))
	}

	s += fmt.Sprintf("\n  Total: %s of %s remaining\n", FormatMoney(money.New(plan.Total(), m.inv.TotalAmount.Currency)), FormatMoney(m.inv.Remaining()))

	if err := m.controller.Validate(); err != nil {
		s += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Invalid: %v", err)) + "\n"
	} else {
		s += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("Plan is valid.") + "\n"
	}

	if m.status != "" {
		s += "\n" + m.status + "\n"
	}

	s += "\n(Enter to continue, Esc to change mode)"

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m AllocateModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Submission failed: %v", m.err)) +
				"\n\n(Esc to back)",
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Payment Submitted!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			fmt.Sprintf("Receipt: %s", m.receipt.ID),
			fmt.Sprintf("Status:  %s", m.receipt.Status),
			"",
			"(Esc to back)",
		),
	)
}

type submitResultMsg struct {
	receipt *processor.Receipt
	err     error
}

const submitTimeout = 2 * time.Minute

func (m AllocateModel) submitCmd(plan *allocation.Plan) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		// Remember split participants for next time before handing off.
		for _, split := range plan.Splits {
			p := split.Participant
			if p.Reachable() {
				_ = m.rosterService.Save(ctx, &p)
			}
		}

		submitCtx, submitCancel := context.WithTimeout(context.Background(), submitTimeout)
		defer submitCancel()

		receipt, err := m.submitter.Submit(submitCtx, processor.Submission{
			InvoiceID: m.inv.ID,
			Plan:      plan,
			Rail:      processor.Rail(m.rail),
			Memo:      m.memo,
		})

		return submitResultMsg{receipt: receipt, err: err}
	}
}
