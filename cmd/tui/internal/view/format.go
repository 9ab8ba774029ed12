package view

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmcardoso/payplan/internal/money"
)

const dbTimeout = 5 * time.Second

// CommonModel carries the terminal dimensions shared by every screen.
type CommonModel struct {
	Width  int
	Height int
}

// BackMsg asks the root model to return to the previous screen.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// FormatMoney formats an amount with its currency code.
func FormatMoney(m money.Money) string {
	return fmt.Sprintf("%s %s", m.String(), m.Currency)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
