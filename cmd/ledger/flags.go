package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"strings"
	"time"

	"finance-manager/internal/app"
	"finance-manager/internal/apperr"
	"finance-manager/internal/models"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{"02.01.2006", "2.1.2006", "2006-01-02"}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use DD.MM.YYYY or YYYY-MM-DD", s)
}

// parseAmount accepts a decimal comma as well as a point.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// itemList collects repeated -item flags of the form
// "name;price[;category[;description]]".
type itemList []models.Item

func (l *itemList) String() string {
	parts := make([]string, 0, len(*l))
	for _, it := range *l {
		parts = append(parts, it.Name)
	}
	return strings.Join(parts, ",")
}

func (l *itemList) Set(s string) error {
	it, err := parseItem(s)
	if err != nil {
		return err
	}
	*l = append(*l, it)
	return nil
}

func parseItem(s string) (models.Item, error) {
	fields := strings.SplitN(s, ";", 4)
	if len(fields) < 2 || strings.TrimSpace(fields[0]) == "" {
		return models.Item{}, fmt.Errorf("invalid item %q, use name;price[;category[;description]]", s)
	}
	price, err := parseAmount(fields[1])
	if err != nil {
		return models.Item{}, err
	}
	it := models.Item{Name: strings.TrimSpace(fields[0]), Price: price}
	if len(fields) > 2 && strings.TrimSpace(fields[2]) != "" {
		if it.Category, err = models.ParseCategory(fields[2]); err != nil {
			return models.Item{}, err
		}
	}
	if len(fields) > 3 {
		it.Description = fields[3]
	}
	return it, nil
}

// recordFlags are the editable record fields as flags.
type recordFlags struct {
	title    string
	date     string
	amount   string
	income   bool
	note     string
	category string
	items    itemList
}

func (r *recordFlags) setFlags(f *flag.FlagSet) {
	f.StringVar(&r.title, "title", "", "Title")
	f.StringVar(&r.date, "date", "", "Transaction date, DD.MM.YYYY or YYYY-MM-DD (defaults to today)")
	f.StringVar(&r.amount, "amount", "", "Amount in CZK")
	f.BoolVar(&r.income, "income", false, "Record an income instead of an expense")
	f.StringVar(&r.note, "note", "", "Note")
	f.StringVar(&r.category, "category", "", "Category, see the categories command")
	f.Var(&r.items, "item", "Item as name;price[;category[;description]], repeatable")
}

// apply copies the flags named in set onto fields.
func (r *recordFlags) apply(fields *models.RecordFields, set map[string]bool, loc *time.Location) error {
	var err error
	if set["title"] {
		fields.Title = r.title
	}
	if set["date"] {
		if fields.Date, err = parseDate(r.date, loc); err != nil {
			return err
		}
	}
	if set["amount"] {
		if fields.Amount, err = parseAmount(r.amount); err != nil {
			return err
		}
	}
	if set["income"] {
		fields.Direction = models.Expense
		if r.income {
			fields.Direction = models.Income
		}
	}
	if set["note"] {
		fields.Note = r.note
	}
	if set["category"] {
		if fields.Category, err = models.ParseCategory(r.category); err != nil {
			return err
		}
	}
	return nil
}

// setFlags returns the names of the flags given on the command line.
func setFlags(f *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return set
}

// filterFlags select which records a command works on. At most one
// filter applies.
type filterFlags struct {
	month    bool
	incomes  bool
	expenses bool
	title    string
	category string
	from, to string
	min, max string
	itemsMin int
	itemsMax int
}

func (ff *filterFlags) setFlags(f *flag.FlagSet) {
	f.BoolVar(&ff.month, "month", false, "Only records of the current month")
	f.BoolVar(&ff.incomes, "incomes", false, "Only incomes")
	f.BoolVar(&ff.expenses, "expenses", false, "Only expenses")
	f.StringVar(&ff.title, "title", "", "Only records with exactly this title")
	f.StringVar(&ff.category, "category", "", "Only records of this category")
	f.StringVar(&ff.from, "from", "", "Only records dated on or after this date")
	f.StringVar(&ff.to, "to", "", "Only records dated on or before this date")
	f.StringVar(&ff.min, "min", "", "Only records with at least this amount")
	f.StringVar(&ff.max, "max", "", "Only records with at most this amount")
	f.IntVar(&ff.itemsMin, "items-min", -1, "Only records with at least this many items")
	f.IntVar(&ff.itemsMax, "items-max", -1, "Only records with at most this many items")
}

var errTooManyFilters = errors.New("use one filter at a time")

// filter returns the filter selected by the flags, or nil.
func (ff *filterFlags) filter(loc *time.Location) (func(*app.App) error, error) {
	var filters []func(*app.App) error
	add := func(f func(*app.App) error) { filters = append(filters, f) }

	if ff.month {
		add((*app.App).ShowCurrentMonth)
	}
	if ff.incomes {
		add((*app.App).FilterIncomes)
	}
	if ff.expenses {
		add((*app.App).FilterExpenses)
	}
	if ff.title != "" {
		title := ff.title
		add(func(a *app.App) error { return a.FilterTitle(title) })
	}
	if ff.category != "" {
		c, err := models.ParseCategory(ff.category)
		if err != nil {
			return nil, err
		}
		add(func(a *app.App) error { return a.FilterCategory(c) })
	}
	if ff.from != "" || ff.to != "" {
		lo, hi := time.Time{}, time.Date(9999, 12, 31, 0, 0, 0, 0, loc)
		var err error
		if ff.from != "" {
			if lo, err = parseDate(ff.from, loc); err != nil {
				return nil, err
			}
		}
		if ff.to != "" {
			if hi, err = parseDate(ff.to, loc); err != nil {
				return nil, err
			}
		}
		add(func(a *app.App) error { return a.FilterDateRange(lo, hi) })
	}
	if ff.min != "" || ff.max != "" {
		lo, hi := decimal.Zero, decimal.New(1, 18)
		var err error
		if ff.min != "" {
			if lo, err = parseAmount(ff.min); err != nil {
				return nil, err
			}
		}
		if ff.max != "" {
			if hi, err = parseAmount(ff.max); err != nil {
				return nil, err
			}
		}
		add(func(a *app.App) error { return a.FilterAmountRange(lo, hi) })
	}
	if ff.itemsMin >= 0 || ff.itemsMax >= 0 {
		lo, hi := max(ff.itemsMin, 0), ff.itemsMax
		if hi < 0 {
			hi = math.MaxInt
		}
		add(func(a *app.App) error { return a.FilterItemCount(lo, hi) })
	}

	switch len(filters) {
	case 0:
		return nil, nil
	case 1:
		return filters[0], nil
	default:
		return nil, errTooManyFilters
	}
}

// applyFilter runs the filter. When nothing matches the app shows every
// record again, which is reported as a warning.
func (e *env) applyFilter(a *app.App, f func(*app.App) error) error {
	if f == nil {
		return nil
	}
	err := f(a)
	var noMatch *apperr.NoMatchError
	if errors.As(err, &noMatch) {
		e.warn("no records match the %s filter, showing all records", noMatch.Filter)
		return nil
	}
	return err
}
