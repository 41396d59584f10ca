// Package balance groups unpaid purchases into per-user outstanding balances.
package balance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fallback labels for rows whose joined profile or consumable is missing.
const (
	UnknownUser = "Unknown User"
	UnknownItem = "Unknown Item"
	DefaultUnit = "unit"
)

// Row is one unpaid purchase with the joined profile and consumable fields.
type Row struct {
	PurchaseID     uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	FullName       string          `json:"full_name"`
	ConsumableName string          `json:"consumable_name"`
	Unit           string          `json:"unit"`
	Quantity       int             `json:"quantity"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	PurchaseDate   time.Time       `json:"purchase_date"`
}

// Balance is the outstanding amount of one user and the orders behind it.
type Balance struct {
	UserID    uuid.UUID       `json:"user_id"`
	FullName  string          `json:"full_name"`
	TotalOwed decimal.Decimal `json:"total_owed"`
	Orders    []Row           `json:"unpaid_orders"`
}

// Display renders the owed amount with two decimals.
func (b Balance) Display() string {
	return FormatAmount(b.TotalOwed)
}

// Report is the set of balances for every user with at least one unpaid order.
// Balances keep the order in which their user first appeared unless sorted.
type Report struct {
	Balances []Balance `json:"balances"`
}

// Aggregate groups rows by user id, summing total prices per user.
func Aggregate(rows []Row) Report {
	index := make(map[uuid.UUID]int)
	var balances []Balance
	for _, row := range rows {
		row = withFallbacks(row)
		i, ok := index[row.UserID]
		if !ok {
			i = len(balances)
			index[row.UserID] = i
			balances = append(balances, Balance{
				UserID:    row.UserID,
				FullName:  row.FullName,
				TotalOwed: decimal.Zero,
			})
		}
		balances[i].TotalOwed = balances[i].TotalOwed.Add(row.TotalPrice)
		balances[i].Orders = append(balances[i].Orders, row)
	}
	return Report{Balances: balances}
}

func withFallbacks(row Row) Row {
	if row.FullName == "" {
		row.FullName = UnknownUser
	}
	if row.ConsumableName == "" {
		row.ConsumableName = UnknownItem
	}
	if row.Unit == "" {
		row.Unit = DefaultUnit
	}
	return row
}

// Total is the outstanding amount across all users.
func (r Report) Total() decimal.Decimal {
	total := decimal.Zero
	for _, b := range r.Balances {
		total = total.Add(b.TotalOwed)
	}
	return total
}

// OrderCount is the number of unpaid orders across all users.
func (r Report) OrderCount() int {
	n := 0
	for _, b := range r.Balances {
		n += len(b.Orders)
	}
	return n
}

// Find returns the balance of userID.
func (r Report) Find(userID uuid.UUID) (Balance, bool) {
	for _, b := range r.Balances {
		if b.UserID == userID {
			return b, true
		}
	}
	return Balance{}, false
}

// Remove drops the order with orderID and recomputes its owner's total from the
// remaining orders. An owner left without orders disappears from the report.
// The receiver is not modified; ok is false when no balance holds the order.
func (r Report) Remove(orderID uuid.UUID) (Report, bool) {
	out := Report{Balances: make([]Balance, 0, len(r.Balances))}
	found := false
	for _, b := range r.Balances {
		remaining := make([]Row, 0, len(b.Orders))
		for _, o := range b.Orders {
			if o.PurchaseID == orderID {
				found = true
				continue
			}
			remaining = append(remaining, o)
		}
		if len(remaining) == 0 {
			continue
		}
		if len(remaining) == len(b.Orders) {
			out.Balances = append(out.Balances, b)
			continue
		}
		total := decimal.Zero
		for _, o := range remaining {
			total = total.Add(o.TotalPrice)
		}
		b.Orders = remaining
		b.TotalOwed = total
		out.Balances = append(out.Balances, b)
	}
	if !found {
		return r, false
	}
	return out, true
}

// FormatAmount renders a money value with exactly two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
