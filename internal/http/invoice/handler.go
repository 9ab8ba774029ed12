package invoice

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jmcardoso/payplan/internal/invoice"
	"github.com/jmcardoso/payplan/internal/money"
)

type Handler struct {
	svc      *invoice.Service
	currency string
}

func NewHandler(svc *invoice.Service, currency string) *Handler {
	return &Handler{svc: svc, currency: currency}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/payments", h.recordPayment)
}

type createInvoiceRequest struct {
	Reference     string    `json:"reference"`
	CustomerName  string    `json:"customer_name"`
	TotalAmount   string    `json:"total_amount"`
	DueDate       time.Time `json:"due_date"`
	AllowPartial  bool      `json:"allow_partial"`
	MinimumAmount *string   `json:"minimum_amount,omitempty"`
	MaximumAmount *string   `json:"maximum_amount,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	total, err := money.Parse(req.TotalAmount, h.currency)
	if err != nil {
		http.Error(w, "invalid total_amount", http.StatusBadRequest)
		return
	}

	params := invoice.CreateParams{
		Reference:    req.Reference,
		CustomerName: req.CustomerName,
		TotalAmount:  total,
		DueDate:      req.DueDate,
		AllowPartial: req.AllowPartial,
	}

	if req.MinimumAmount != nil {
		m, err := money.Parse(*req.MinimumAmount, h.currency)
		if err != nil {
			http.Error(w, "invalid minimum_amount", http.StatusBadRequest)
			return
		}

		params.MinimumAmount = &m
	}

	if req.MaximumAmount != nil {
		m, err := money.Parse(*req.MaximumAmount, h.currency)
		if err != nil {
			http.Error(w, "invalid maximum_amount", http.StatusBadRequest)
			return
		}

		params.MaximumAmount = &m
	}

	inv, err := h.svc.Create(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := invoice.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(invoice.Status(s))
	}

	if s := r.URL.Query().Get("due_from"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.DueFrom = new(t)
		}
	}

	if s := r.URL.Query().Get("due_to"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.DueTo = new(t)
		}
	}

	invoices, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(invoices)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			http.Error(w, "invoice not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type recordPaymentRequest struct {
	Amount string `json:"amount"`
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	amount, err := money.Parse(req.Amount, h.currency)
	if err != nil {
		http.Error(w, "invalid amount", http.StatusBadRequest)
		return
	}

	inv, err := h.svc.RecordPayment(r.Context(), id, amount)
	if err != nil {
		switch {
		case errors.Is(err, invoice.ErrNotFound):
			http.Error(w, "invoice not found", http.StatusNotFound)
		case errors.Is(err, invoice.ErrOverpayment):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(inv)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
