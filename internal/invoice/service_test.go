package invoice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/jmcardoso/payplan/internal/invoice"
	"github.com/jmcardoso/payplan/internal/money"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params invoice.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *invoice.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: invoice.CreateParams{
					Reference:    "INV-2025-001",
					CustomerName: "Acme Lda",
					TotalAmount:  money.New(25000, "EUR"),
					DueDate:      time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
					AllowPartial: true,
				},
			},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().
					CreateInvoice(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
						inv.ID = uuid.New()
						inv.CreatedAt = time.Now()
						return nil
					})
			},
			wantErr: false,
		},
		{
			name: "RepoError",
			args: args{
				params: invoice.CreateParams{
					TotalAmount: money.New(500, "EUR"),
				},
			},
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().
					CreateInvoice(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := invoice.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, invoice.StatusOpen, got.Status)
			assert.True(t, got.PaidAmount.IsZero())
			assert.Equal(t, int64(25000), got.Remaining().Cents)
		})
	}
}

func TestService_RecordPayment(t *testing.T) {
	id := uuid.New()

	baseInvoice := func() *invoice.Invoice {
		return &invoice.Invoice{
			ID:          id,
			Reference:   "INV-2025-001",
			TotalAmount: money.New(10000, "EUR"),
			PaidAmount:  money.New(2500, "EUR"),
			Status:      invoice.StatusPartiallyPaid,
		}
	}

	type testCase struct {
		name       string
		amount     money.Money
		setupMock  func(m *invoice.MockRepository)
		wantErr    bool
		wantErrIs  error
		wantPaid   int64
		wantStatus invoice.Status
	}

	tests := []testCase{
		{
			name:   "PartialPayment",
			amount: money.New(2500, "EUR"),
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetInvoice(gomock.Any(), id).Return(baseInvoice(), nil)
				m.EXPECT().UpdateInvoice(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantPaid:   5000,
			wantStatus: invoice.StatusPartiallyPaid,
		},
		{
			name:   "FinalPaymentSettles",
			amount: money.New(7500, "EUR"),
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetInvoice(gomock.Any(), id).Return(baseInvoice(), nil)
				m.EXPECT().UpdateInvoice(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantPaid:   10000,
			wantStatus: invoice.StatusPaid,
		},
		{
			name:   "Overpayment",
			amount: money.New(9000, "EUR"),
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetInvoice(gomock.Any(), id).Return(baseInvoice(), nil)
			},
			wantErr:   true,
			wantErrIs: invoice.ErrOverpayment,
		},
		{
			name:   "ZeroAmount",
			amount: money.Zero("EUR"),
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetInvoice(gomock.Any(), id).Return(baseInvoice(), nil)
			},
			wantErr: true,
		},
		{
			name:   "NotFound",
			amount: money.New(100, "EUR"),
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetInvoice(gomock.Any(), id).Return(nil, invoice.ErrNotFound)
			},
			wantErr:   true,
			wantErrIs: invoice.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := invoice.NewService(repo)
			got, err := svc.RecordPayment(context.Background(), id, tt.amount)

			if tt.wantErr {
				require.Error(t, err)
				if tt.wantErrIs != nil {
					assert.ErrorIs(t, err, tt.wantErrIs)
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPaid, got.PaidAmount.Cents)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, got.TotalAmount.Cents-tt.wantPaid, got.Remaining().Cents)
		})
	}
}

func TestService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().GetInvoice(gomock.Any(), id).Return(&invoice.Invoice{ID: id}, nil)

	svc := invoice.NewService(repo)
	got, err := svc.Get(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().
		ListInvoices(gomock.Any(), invoice.ListFilter{}).
		Return([]*invoice.Invoice{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	svc := invoice.NewService(repo)
	got, err := svc.List(context.Background(), invoice.ListFilter{})

	require.NoError(t, err)
	assert.Len(t, got, 2)
}
