package balance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func row(user uuid.UUID, name, total string) Row {
	return Row{
		PurchaseID:     uuid.New(),
		UserID:         user,
		FullName:       name,
		ConsumableName: "PLA",
		Unit:           "meter",
		Quantity:       1,
		TotalPrice:     money(total),
		PurchaseDate:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAggregateGroupsByUser(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	rows := []Row{row(a, "Alice", "10"), row(a, "Alice", "5"), row(b, "Bob", "20")}

	report := Aggregate(rows)

	require.Len(t, report.Balances, 2)
	assert.Equal(t, a, report.Balances[0].UserID)
	assert.True(t, money("15").Equal(report.Balances[0].TotalOwed))
	assert.Len(t, report.Balances[0].Orders, 2)
	assert.Equal(t, b, report.Balances[1].UserID)
	assert.True(t, money("20").Equal(report.Balances[1].TotalOwed))
	assert.Len(t, report.Balances[1].Orders, 1)
	assert.Equal(t, "35.00", FormatAmount(report.Total()))
	assert.Equal(t, 3, report.OrderCount())
}

func TestAggregateFirstSeenOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	rows := []Row{row(c, "Cy", "1"), row(a, "Al", "1"), row(c, "Cy", "1"), row(b, "Bo", "1")}

	report := Aggregate(rows)

	require.Len(t, report.Balances, 3)
	assert.Equal(t, []uuid.UUID{c, a, b}, []uuid.UUID{
		report.Balances[0].UserID, report.Balances[1].UserID, report.Balances[2].UserID,
	})
}

func TestAggregateConservesTotal(t *testing.T) {
	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	amounts := []string{"0.10", "0.20", "0.30", "19.99", "3.33", "3.34", "100", "0.01"}
	var rows []Row
	want := decimal.Zero
	for i, amt := range amounts {
		rows = append(rows, row(users[i%len(users)], "Member", amt))
		want = want.Add(money(amt))
	}

	report := Aggregate(rows)

	assert.True(t, want.Equal(report.Total()), "got %s want %s", report.Total(), want)
	assert.Equal(t, len(rows), report.OrderCount())
}

func TestAggregateEmptyAndFallbacks(t *testing.T) {
	assert.Empty(t, Aggregate(nil).Balances)
	assert.True(t, Aggregate(nil).Total().IsZero())

	r := Row{PurchaseID: uuid.New(), UserID: uuid.New(), Quantity: 2, TotalPrice: money("4")}
	report := Aggregate([]Row{r})
	require.Len(t, report.Balances, 1)
	assert.Equal(t, UnknownUser, report.Balances[0].FullName)
	assert.Equal(t, UnknownItem, report.Balances[0].Orders[0].ConsumableName)
	assert.Equal(t, DefaultUnit, report.Balances[0].Orders[0].Unit)
}

func TestSortedByName(t *testing.T) {
	rows := []Row{
		row(uuid.New(), "émile", "1"),
		row(uuid.New(), "Zoe", "2"),
		row(uuid.New(), "adam", "3"),
		row(uuid.New(), "Bea", "4"),
	}

	sorted := Aggregate(rows).Sorted(SortByName)

	var names []string
	for _, b := range sorted.Balances {
		names = append(names, b.FullName)
	}
	assert.Equal(t, []string{"adam", "Bea", "émile", "Zoe"}, names)
	assert.Equal(t, sorted, sorted.Sorted(SortByName))
}

func TestSortedByAmountIsStableAndAscending(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	rows := []Row{
		row(uuid.New(), "Big", "50"),
		row(first, "Tie One", "5"),
		row(uuid.New(), "Small", "1"),
		row(second, "Tie Two", "5"),
	}

	sorted := Aggregate(rows).Sorted(SortByAmount)

	require.Len(t, sorted.Balances, 4)
	assert.Equal(t, "Small", sorted.Balances[0].FullName)
	assert.Equal(t, first, sorted.Balances[1].UserID)
	assert.Equal(t, second, sorted.Balances[2].UserID)
	assert.Equal(t, "Big", sorted.Balances[3].FullName)
	assert.Equal(t, sorted, sorted.Sorted(SortByAmount))
}

func TestSortedDoesNotMutateReceiver(t *testing.T) {
	report := Aggregate([]Row{row(uuid.New(), "Zed", "1"), row(uuid.New(), "Amy", "2")})
	_ = report.Sorted(SortByName)
	assert.Equal(t, "Zed", report.Balances[0].FullName)
}

func TestParseSort(t *testing.T) {
	order, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortByName, order)

	order, err = ParseSort("amount")
	require.NoError(t, err)
	assert.Equal(t, SortByAmount, order)

	_, err = ParseSort("date")
	assert.Error(t, err)
}

func TestRemoveDecreasesOwnerTotal(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	rows := []Row{row(a, "Alice", "10"), row(a, "Alice", "5"), row(b, "Bob", "20")}
	report := Aggregate(rows)

	updated, ok := report.Remove(rows[1].PurchaseID)

	require.True(t, ok)
	alice, found := updated.Find(a)
	require.True(t, found)
	assert.True(t, money("10").Equal(alice.TotalOwed))
	assert.Len(t, alice.Orders, 1)
	assert.True(t, report.Total().Sub(money("5")).Equal(updated.Total()))
	// receiver untouched
	assert.Len(t, report.Balances[0].Orders, 2)
}

func TestRemoveLastOrderDropsUser(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	rows := []Row{row(a, "Alice", "10"), row(b, "Bob", "20")}

	updated, ok := Aggregate(rows).Remove(rows[1].PurchaseID)

	require.True(t, ok)
	_, found := updated.Find(b)
	assert.False(t, found)
	assert.Len(t, updated.Balances, 1)
}

func TestRemoveUnknownOrder(t *testing.T) {
	report := Aggregate([]Row{row(uuid.New(), "Alice", "10")})
	updated, ok := report.Remove(uuid.New())
	assert.False(t, ok)
	assert.Equal(t, report, updated)
}

func TestDisplayRoundsToCents(t *testing.T) {
	b := Balance{TotalOwed: money("0.1").Add(money("0.2"))}
	assert.Equal(t, "0.30", b.Display())
	assert.Equal(t, "2.68", FormatAmount(money("2.675")))
}
