package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmcardoso/payplan/internal/money"
)

// ErrOverpayment occurs when a recorded payment would push the paid amount
// above the invoice total.
var ErrOverpayment = errors.New("payment exceeds remaining balance")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	UpdateInvoice(ctx context.Context, inv *Invoice) error
	ListInvoices(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	DeleteInvoice(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Reference     string
	CustomerName  string
	TotalAmount   money.Money
	DueDate       time.Time
	AllowPartial  bool
	MinimumAmount *money.Money
	MaximumAmount *money.Money
}

type ListFilter struct {
	Status  *Status
	DueFrom *time.Time
	DueTo   *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	if params.TotalAmount.IsNegative() {
		return nil, fmt.Errorf("invalid total amount %s", params.TotalAmount)
	}

	inv := &Invoice{
		Reference:     params.Reference,
		CustomerName:  params.CustomerName,
		TotalAmount:   params.TotalAmount,
		PaidAmount:    money.Zero(params.TotalAmount.Currency),
		Status:        StatusOpen,
		DueDate:       params.DueDate,
		AllowPartial:  params.AllowPartial,
		MinimumAmount: params.MinimumAmount,
		MaximumAmount: params.MaximumAmount,
	}
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteInvoice(ctx, id)
}

// RecordPayment registers a settled payment against the invoice and keeps
// paid/status consistent. The invariant remaining == total - paid >= 0 holds
// after every successful call.
func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, amount money.Money) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if amount.IsNegative() || amount.IsZero() {
		return nil, fmt.Errorf("invalid payment amount %s", amount)
	}

	if amount.GreaterThan(inv.Remaining()) {
		return nil, ErrOverpayment
	}

	paid, err := inv.PaidAmount.Add(amount)
	if err != nil {
		return nil, fmt.Errorf("recording payment: %w", err)
	}

	inv.PaidAmount = paid
	if inv.Remaining().IsZero() {
		inv.Status = StatusPaid
	} else {
		inv.Status = StatusPartiallyPaid
	}

	if err := s.repo.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}
