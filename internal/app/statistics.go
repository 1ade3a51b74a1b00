package app

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"finance-manager/internal/models"
	"finance-manager/internal/search"

	"github.com/shopspring/decimal"
)

// CategoryStat is the spending of one category within a month.
type CategoryStat struct {
	Category   models.Category
	Total      decimal.Decimal
	Count      int
	Percentage float64
}

// MonthStats summarizes the records of one calendar month.
type MonthStats struct {
	Year           int
	Month          time.Month
	Income         decimal.Decimal
	Expense        decimal.Decimal
	Categories     []CategoryStat // expenses only, largest first
	Records        []*models.Record
	Prev, Next     time.Time
	IsCurrentMonth bool
}

// Statistics summarizes the account's records dated in the given month of
// the given year.
func (a *App) Statistics(year int, month time.Month) (MonthStats, error) {
	records, err := a.records()
	if err != nil {
		return MonthStats{}, err
	}

	now := a.now()
	first := time.Date(year, month, 1, 0, 0, 0, 0, now.Location())
	next := first.AddDate(0, 1, 0)
	inMonth := search.SortDescendingByDate(search.ByDateRange(records, first, next.Add(-time.Nanosecond)))

	stats := MonthStats{
		Year:           year,
		Month:          month,
		Records:        inMonth,
		Prev:           first.AddDate(0, -1, 0),
		Next:           next,
		IsCurrentMonth: year == now.Year() && month == now.Month(),
	}
	stats.Income, stats.Expense = search.Totals(inMonth)
	stats.Categories = categoryStats(search.Expenses(inMonth), stats.Expense)
	return stats, nil
}

func categoryStats(expenses []*models.Record, total decimal.Decimal) []CategoryStat {
	byCategory := make(map[models.Category]*CategoryStat)
	for _, r := range expenses {
		s, ok := byCategory[r.Category]
		if !ok {
			s = &CategoryStat{Category: r.Category}
			byCategory[r.Category] = s
		}
		s.Total = s.Total.Add(r.Amount)
		s.Count++
	}

	out := make([]CategoryStat, 0, len(byCategory))
	for _, s := range byCategory {
		if total.IsPositive() {
			s.Percentage = s.Total.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		out = append(out, *s)
	}
	slices.SortFunc(out, func(x, y CategoryStat) int {
		if c := y.Total.Cmp(x.Total); c != 0 {
			return c
		}
		return cmp.Compare(x.Category, y.Category)
	})
	return out
}

// RecordGroup holds the records of one day.
type RecordGroup struct {
	Title   string
	Date    string
	Total   decimal.Decimal // incomes minus expenses
	Records []*models.Record
}

// GroupByDate groups records by their day, newest day first. Record order
// within a day follows the input.
func GroupByDate(records []*models.Record, now time.Time) []RecordGroup {
	index := make(map[string]int)
	var groups []RecordGroup
	for _, r := range records {
		day := r.Date.Format("2006-01-02")
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, RecordGroup{Date: day, Title: groupTitle(r.Date, now)})
		}
		groups[i].Total = groups[i].Total.Add(r.Signed())
		groups[i].Records = append(groups[i].Records, r)
	}
	slices.SortStableFunc(groups, func(x, y RecordGroup) int { return strings.Compare(y.Date, x.Date) })
	return groups
}

func groupTitle(date, now time.Time) string {
	day := date.Format("2006-01-02")
	if day == now.Format("2006-01-02") {
		return "TODAY"
	}
	if day == now.AddDate(0, 0, -1).Format("2006-01-02") {
		return "YESTERDAY"
	}
	return strings.ToUpper(date.Format("Mon, 02.01.2006"))
}
