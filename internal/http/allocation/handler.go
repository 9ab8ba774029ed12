package allocation

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jmcardoso/payplan/internal/allocation"
	"github.com/jmcardoso/payplan/internal/invoice"
	"github.com/jmcardoso/payplan/internal/processor"
)

type Handler struct {
	invoices  *invoice.Service
	submitter processor.Submitter
	policy    allocation.RemainderPolicy
}

func NewHandler(invoices *invoice.Service, submitter processor.Submitter, policy allocation.RemainderPolicy) *Handler {
	return &Handler{
		invoices:  invoices,
		submitter: submitter,
		policy:    policy,
	}
}

// Routes are mounted under /invoices/{id}; every operation works on a fresh
// snapshot of that invoice.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggestions", h.suggestions)
	r.Post("/split", h.split)
	r.Post("/schedule", h.schedule)
	r.Post("/validate", h.validate)
}

// SubmitRoute is registered separately so the router can guard it with auth.
func (h *Handler) SubmitRoute(r chi.Router) {
	r.Post("/submit", h.submit)
}

func (h *Handler) loadInvoice(w http.ResponseWriter, r *http.Request) *invoice.Invoice {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil
	}

	inv, err := h.invoices.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, invoice.ErrNotFound) {
			http.Error(w, "invoice not found", http.StatusNotFound)
			return nil
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return nil
	}

	return inv
}

func (h *Handler) suggestions(w http.ResponseWriter, r *http.Request) {
	inv := h.loadInvoice(w, r)
	if inv == nil {
		return
	}

	suggestions := allocation.SuggestedAmounts(inv.Remaining(), inv.MinimumAmount)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toSuggestionList(suggestions)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type splitRequest struct {
	Strategy     string           `json:"strategy"`
	Participants []participantDTO `json:"participants"`
}

func (h *Handler) split(w http.ResponseWriter, r *http.Request) {
	inv := h.loadInvoice(w, r)
	if inv == nil {
		return
	}

	var req splitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inputs, err := toSplitInputs(req.Participants, inv.Remaining().Currency)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	plan := allocation.Split(inv.Remaining(), allocation.SplitStrategy(req.Strategy), inputs, h.policy, time.Now())

	h.writePlan(w, plan, inv)
}

type scheduleRequest struct {
	Cadence      string     `json:"cadence"`
	Installments int        `json:"installments"`
	StartDate    *time.Time `json:"start_date,omitempty"`
}

func (h *Handler) schedule(w http.ResponseWriter, r *http.Request) {
	inv := h.loadInvoice(w, r)
	if inv == nil {
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := time.Now()

	start := now
	if req.StartDate != nil {
		start = *req.StartDate
	}

	plan := allocation.Schedule(inv.Remaining(), allocation.Cadence(req.Cadence), req.Installments, start, h.policy, now)

	h.writePlan(w, plan, inv)
}

type validateRequest struct {
	Plan planDTO `json:"plan"`
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	inv := h.loadInvoice(w, r)
	if inv == nil {
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	plan, err := toPlan(req.Plan, inv.Remaining().Currency)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toValidationResponse(allocation.Validate(plan, inv))); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type submitRequest struct {
	Plan planDTO `json:"plan"`
	Rail string  `json:"rail"`
	Memo string  `json:"memo,omitempty"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	inv := h.loadInvoice(w, r)
	if inv == nil {
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rail, err := processor.ParseRail(req.Rail)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	plan, err := toPlan(req.Plan, inv.Remaining().Currency)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Submission is the only operation gated on validation.
	if err := allocation.Validate(plan, inv); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)

		if encErr := json.NewEncoder(w).Encode(toValidationResponse(err)); encErr != nil {
			slog.Error("failed to encode response", "error", encErr)
		}

		return
	}

	receipt, err := h.submitter.Submit(r.Context(), processor.Submission{
		InvoiceID: inv.ID,
		Plan:      plan,
		Rail:      rail,
		Memo:      req.Memo,
	})
	if err != nil {
		slog.Error("processor submission failed", "invoice_id", inv.ID, "error", err)
		http.Error(w, "submission failed", http.StatusBadGateway)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toReceiptResponse(receipt)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writePlan(w http.ResponseWriter, plan *allocation.Plan, inv *invoice.Invoice) {
	w.Header().Set("Content-Type", "application/json")

	resp := toPlanResponse(plan)
	resp.Validation = toValidationResponse(allocation.Validate(plan, inv))

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
