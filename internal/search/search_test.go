package search

import (
	"testing"
	"time"

	"finance-manager/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func record(title string, date time.Time, amount string, dir models.Direction, cat models.Category, items int) *models.Record {
	r := &models.Record{
		Title:     title,
		Date:      date,
		Amount:    decimal.RequireFromString(amount),
		Direction: dir,
		Category:  cat,
	}
	for i := 0; i < items; i++ {
		r.Items = append(r.Items, models.Item{Name: "item", Price: decimal.NewFromInt(1)})
	}
	return r
}

func fixture() []*models.Record {
	return []*models.Record{
		record("Coffee", day(2024, 5, 1), "3.5", models.Expense, models.Jidlo, 0),
		record("Salary", day(2024, 4, 30), "30000", models.Income, models.Vyplata, 0),
		record("Rent", day(2024, 5, 3), "12000", models.Expense, models.Najem, 1),
		record("Coffee", day(2023, 5, 20), "4", models.Expense, models.Jidlo, 2),
		record("Bonus", day(2024, 5, 2), "5000", models.Income, models.Vyplata, 3),
	}
}

func titles(records []*models.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Title+"@"+r.Date.Format("2006-01-02"))
	}
	return out
}

func TestCurrentMonthIgnoresYear(t *testing.T) {
	got := CurrentMonth(fixture(), time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, []string{
		"Rent@2024-05-03",
		"Bonus@2024-05-02",
		"Coffee@2024-05-01",
		"Coffee@2023-05-20",
	}, titles(got))

	assert.Empty(t, CurrentMonth(fixture(), day(2024, 6, 1)))
}

func TestIncomesAndExpenses(t *testing.T) {
	assert.Equal(t, []string{"Bonus@2024-05-02", "Salary@2024-04-30"}, titles(Incomes(fixture())))
	assert.Equal(t, []string{
		"Rent@2024-05-03",
		"Coffee@2024-05-01",
		"Coffee@2023-05-20",
	}, titles(Expenses(fixture())))
}

func TestByTitle(t *testing.T) {
	got := ByTitle(fixture(), "Coffee")
	assert.Equal(t, []string{"Coffee@2024-05-01", "Coffee@2023-05-20"}, titles(got))
	assert.Empty(t, ByTitle(fixture(), "coffee"), "title match is exact")
}

func TestByCategory(t *testing.T) {
	got := ByCategory(fixture(), models.Vyplata)
	assert.Equal(t, []string{"Salary@2024-04-30", "Bonus@2024-05-02"}, titles(got))
	assert.Empty(t, ByCategory(fixture(), models.Sport))
}

func TestByDateRangeInclusive(t *testing.T) {
	got := ByDateRange(fixture(), day(2024, 4, 30), day(2024, 5, 2))
	assert.Equal(t, []string{"Coffee@2024-05-01", "Salary@2024-04-30", "Bonus@2024-05-02"}, titles(got))
}

func TestByAmountRangeInclusive(t *testing.T) {
	got := ByAmountRange(fixture(), decimal.RequireFromString("3.5"), decimal.NewFromInt(5000))
	assert.Equal(t, []string{"Coffee@2024-05-01", "Coffee@2023-05-20", "Bonus@2024-05-02"}, titles(got))
}

func TestByItemCountInclusive(t *testing.T) {
	got := ByItemCount(fixture(), 1, 2)
	assert.Equal(t, []string{"Rent@2024-05-03", "Coffee@2023-05-20"}, titles(got))
	assert.Len(t, ByItemCount(fixture(), 0, 0), 2)
}

func TestSortIsStable(t *testing.T) {
	a := record("A", day(2024, 1, 1), "1", models.Expense, models.Auto, 0)
	b := record("B", day(2024, 1, 1), "1", models.Expense, models.Auto, 0)
	c := record("C", day(2024, 2, 1), "1", models.Expense, models.Auto, 0)
	got := SortDescendingByDate([]*models.Record{a, b, c})
	assert.Equal(t, []*models.Record{c, a, b}, got)
}

func TestInputIsNotMutated(t *testing.T) {
	in := fixture()
	before := titles(in)

	_ = SortDescendingByDate(in)
	_ = CurrentMonth(in, day(2024, 5, 1))
	_ = Incomes(in)

	assert.Equal(t, before, titles(in))
}

func TestTotals(t *testing.T) {
	income, expense := Totals(fixture())
	require.True(t, income.Equal(decimal.NewFromInt(35000)), "income = %s", income)
	assert.True(t, expense.Equal(decimal.RequireFromString("12007.5")), "expense = %s", expense)

	income, expense = Totals(nil)
	assert.True(t, income.IsZero())
	assert.True(t, expense.IsZero())
}
