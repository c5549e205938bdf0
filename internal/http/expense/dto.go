package expense

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/http/respond"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
)

// Request is the wire form of expense.CreateParams. The import handlers reuse it
// for statement drafts.
type Request struct {
	Date           respond.Date     `json:"date"`
	Category       expense.Category `json:"category"`
	Description    string           `json:"description"`
	RawDescription string           `json:"raw_description,omitempty"`
	Amount         money.Amount     `json:"amount"`
}

func (req Request) Params() expense.CreateParams {
	return expense.CreateParams{
		Date:           req.Date.Time(),
		Category:       req.Category,
		Description:    req.Description,
		RawDescription: req.RawDescription,
		Amount:         req.Amount,
	}
}

func ToRequest(p expense.CreateParams) Request {
	return Request{
		Date:           respond.Date(p.Date),
		Category:       p.Category,
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Amount:         p.Amount,
	}
}

type Response struct {
	ID             uuid.UUID        `json:"id"`
	Date           respond.Date     `json:"date"`
	Category       expense.Category `json:"category"`
	CategoryLabel  string           `json:"category_label"`
	Description    string           `json:"description"`
	RawDescription string           `json:"raw_description,omitempty"`
	Amount         money.Amount     `json:"amount"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      *time.Time       `json:"updated_at,omitempty"`
}

func ToResponse(e *expense.Expense) Response {
	return Response{
		ID:             e.ID,
		Date:           respond.Date(e.Date),
		Category:       e.Category,
		CategoryLabel:  e.Category.Label(),
		Description:    e.Description,
		RawDescription: e.RawDescription,
		Amount:         e.Amount,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func ToResponseList(es []*expense.Expense) []Response {
	out := make([]Response, 0, len(es))
	for _, e := range es {
		out = append(out, ToResponse(e))
	}

	return out
}
