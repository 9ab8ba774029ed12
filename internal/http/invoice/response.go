package invoice

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmcardoso/payplan/internal/invoice"
	"github.com/jmcardoso/payplan/internal/money"
)

type amountResponse struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
	Currency  string `json:"currency"`
}

type invoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	Reference     string          `json:"reference"`
	CustomerName  string          `json:"customer_name"`
	TotalAmount   amountResponse  `json:"total_amount"`
	PaidAmount    amountResponse  `json:"paid_amount"`
	Remaining     amountResponse  `json:"remaining_amount"`
	Status        invoice.Status  `json:"status"`
	DueDate       time.Time       `json:"due_date"`
	AllowPartial  bool            `json:"allow_partial"`
	MinimumAmount *amountResponse `json:"minimum_amount,omitempty"`
	MaximumAmount *amountResponse `json:"maximum_amount,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:           inv.ID,
		Reference:    inv.Reference,
		CustomerName: inv.CustomerName,
		TotalAmount:  toAmount(inv.TotalAmount),
		PaidAmount:   toAmount(inv.PaidAmount),
		Remaining:    toAmount(inv.Remaining()),
		Status:       inv.Status,
		DueDate:      inv.DueDate,
		AllowPartial: inv.AllowPartial,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}

	if inv.MinimumAmount != nil {
		resp.MinimumAmount = new(toAmount(*inv.MinimumAmount))
	}

	if inv.MaximumAmount != nil {
		resp.MaximumAmount = new(toAmount(*inv.MaximumAmount))
	}

	return resp
}

func toResponseList(invoices []*invoice.Invoice) []invoiceResponse {
	resp := make([]invoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = toResponse(inv)
	}

	return resp
}

func toAmount(m money.Money) amountResponse {
	return amountResponse{
		Cents:     m.Cents,
		Formatted: m.String(),
		Currency:  m.Currency,
	}
}
