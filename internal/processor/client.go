package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jmcardoso/payplan/internal/allocation"
)

// Client submits allocation plans to the payment processor over HTTP.
type Client struct {
	baseURL  string
	apiToken string
	client   *http.Client
}

func NewClient(baseURL, apiToken string) *Client {
	return &Client{
		baseURL:  baseURL,
		apiToken: apiToken,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type chargeRequest struct {
	InvoiceID string        `json:"invoice_id"`
	Rail      string        `json:"rail"`
	Memo      string        `json:"memo,omitempty"`
	Kind      string        `json:"kind"`
	Currency  string        `json:"currency"`
	Amount    int64         `json:"amount,omitempty"`
	Splits    []chargeSplit `json:"splits,omitempty"`
	Schedule  []chargeDue   `json:"schedule,omitempty"`
}

type chargeSplit struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Amount int64  `json:"amount"`
}

type chargeDue struct {
	Sequence int    `json:"sequence"`
	DueDate  string `json:"due_date"`
	Amount   int64  `json:"amount"`
}

type chargeResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Submit posts the plan as a charge request and returns the processor's
// receipt. Schedule entries are forwarded as (due date, amount) pairs; the
// processor's scheduler owns triggering and persistence from here on.
func (c *Client) Submit(ctx context.Context, sub Submission) (*Receipt, error) {
	body, err := json.Marshal(toChargeRequest(sub))
	if err != nil {
		return nil, fmt.Errorf("encoding charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if c.apiToken != "" {
		req.Header.Set("Authorization", "Token "+c.apiToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d from processor", resp.StatusCode)
	}

	var cr chargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decoding receipt: %w", err)
	}

	return &Receipt{ID: cr.ID, Status: cr.Status, SubmittedAt: cr.SubmittedAt}, nil
}

func toChargeRequest(sub Submission) chargeRequest {
	cr := chargeRequest{
		InvoiceID: sub.InvoiceID.String(),
		Rail:      string(sub.Rail),
		Memo:      sub.Memo,
		Kind:      string(sub.Plan.Kind),
	}

	switch sub.Plan.Kind {
	case allocation.PlanSplit:
		for _, s := range sub.Plan.Splits {
			cr.Currency = s.Amount.Currency
			cr.Splits = append(cr.Splits, chargeSplit{
				Name:   s.Participant.Name,
				Email:  s.Participant.Email,
				Phone:  s.Participant.Phone,
				Amount: s.Amount.Cents,
			})
		}
	case allocation.PlanSchedule:
		for _, e := range sub.Plan.Entries {
			cr.Currency = e.Amount.Currency
			cr.Schedule = append(cr.Schedule, chargeDue{
				Sequence: e.Sequence,
				DueDate:  e.DueDate.Format(time.DateOnly),
				Amount:   e.Amount.Cents,
			})
		}
	default:
		cr.Currency = sub.Plan.Amount.Currency
		cr.Amount = sub.Plan.Amount.Cents
	}

	return cr
}
