package balance

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOrder selects how balances are ordered.
type SortOrder string

const (
	// SortByName orders by full name using locale-aware collation.
	SortByName SortOrder = "name"
	// SortByAmount orders by total owed, smallest first.
	SortByAmount SortOrder = "amount"
)

// ParseSort maps a query value to a SortOrder; empty means SortByName.
func ParseSort(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "", SortByName:
		return SortByName, nil
	case SortByAmount:
		return SortByAmount, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// Sorted returns a copy of the report ordered by order. Both orders are stable,
// so sorting an already sorted report returns it unchanged.
func (r Report) Sorted(order SortOrder) Report {
	out := Report{Balances: slices.Clone(r.Balances)}
	switch order {
	case SortByAmount:
		slices.SortStableFunc(out.Balances, func(a, b Balance) int {
			return a.TotalOwed.Cmp(b.TotalOwed)
		})
	default:
		// Collators keep internal buffers and are not safe to share.
		col := collate.New(language.English)
		slices.SortStableFunc(out.Balances, func(a, b Balance) int {
			return col.CompareString(a.FullName, b.FullName)
		})
	}
	return out
}
