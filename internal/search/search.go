// Package search selects subsets of records.
//
// Every function returns a new slice and leaves its input untouched. The
// records themselves are shared, not copied.
package search

import (
	"slices"
	"time"

	"finance-manager/internal/models"

	"github.com/shopspring/decimal"
)

// where returns the records matching keep, in input order.
func where(records []*models.Record, keep func(*models.Record) bool) []*models.Record {
	out := make([]*models.Record, 0, len(records))
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// SortDescendingByDate returns the records ordered from the latest
// transaction date to the oldest. Records on the same date keep their
// relative order.
func SortDescendingByDate(records []*models.Record) []*models.Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b *models.Record) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// CurrentMonth returns the records whose transaction date falls in the
// month of now, latest first.
//
// Only the month number is compared: a record from May of any year matches
// in May.
func CurrentMonth(records []*models.Record, now time.Time) []*models.Record {
	month := now.Month()
	return SortDescendingByDate(where(records, func(r *models.Record) bool {
		return r.Date.Month() == month
	}))
}

// Incomes returns the income records, latest first.
func Incomes(records []*models.Record) []*models.Record {
	return SortDescendingByDate(where(records, func(r *models.Record) bool {
		return r.Direction == models.Income
	}))
}

// Expenses returns the expense records, latest first.
func Expenses(records []*models.Record) []*models.Record {
	return SortDescendingByDate(where(records, func(r *models.Record) bool {
		return r.Direction == models.Expense
	}))
}

// ByTitle returns the records whose title is exactly title.
func ByTitle(records []*models.Record, title string) []*models.Record {
	return where(records, func(r *models.Record) bool { return r.Title == title })
}

// ByCategory returns the records of category c.
func ByCategory(records []*models.Record, c models.Category) []*models.Record {
	return where(records, func(r *models.Record) bool { return r.Category == c })
}

// ByDateRange returns the records dated within [lo, hi].
func ByDateRange(records []*models.Record, lo, hi time.Time) []*models.Record {
	return where(records, func(r *models.Record) bool {
		return !r.Date.Before(lo) && !r.Date.After(hi)
	})
}

// ByAmountRange returns the records whose amount lies within [lo, hi].
func ByAmountRange(records []*models.Record, lo, hi decimal.Decimal) []*models.Record {
	return where(records, func(r *models.Record) bool {
		return r.Amount.GreaterThanOrEqual(lo) && r.Amount.LessThanOrEqual(hi)
	})
}

// ByItemCount returns the records holding between lo and hi items,
// inclusive.
func ByItemCount(records []*models.Record, lo, hi int) []*models.Record {
	return where(records, func(r *models.Record) bool {
		n := len(r.Items)
		return n >= lo && n <= hi
	})
}

// Totals sums the amounts of the income and of the expense records.
func Totals(records []*models.Record) (income, expense decimal.Decimal) {
	for _, r := range records {
		if r.Direction == models.Income {
			income = income.Add(r.Amount)
		} else {
			expense = expense.Add(r.Amount)
		}
	}
	return income, expense
}
