// Package app is the context a front end drives: it wraps the account
// store with the displayed record set, the selected record and the record
// being edited. Views register an OnRefresh hook and re-read Displayed
// when it fires.
package app

import (
	"time"

	"finance-manager/internal/apperr"
	"finance-manager/internal/auth"
	"finance-manager/internal/codec"
	"finance-manager/internal/models"
	"finance-manager/internal/search"
	"finance-manager/internal/store"

	"github.com/shopspring/decimal"
)

// App holds the state of one front end session.
type App struct {
	store     *store.Store
	now       func() time.Time
	onRefresh func()

	displayed []*models.Record
	selected  *models.Record
}

// Option configures an App.
type Option func(*App)

// WithClock sets the clock used for "current month" views and new drafts.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// OnRefresh sets the hook called whenever the displayed set changes.
func OnRefresh(f func()) Option {
	return func(a *App) { a.onRefresh = f }
}

// New returns an App on top of st.
func New(st *store.Store, opts ...Option) *App {
	a := &App{store: st, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Store returns the underlying account store.
func (a *App) Store() *store.Store {
	return a.store
}

func (a *App) refresh() {
	if a.onRefresh != nil {
		a.onRefresh()
	}
}

// CheckPassword rates a password the way Register does.
func (a *App) CheckPassword(password string) auth.Strength {
	return auth.CheckStrength(password)
}

// Register creates an account once the password is strong enough.
func (a *App) Register(name, password string) error {
	if s := auth.CheckStrength(password); !s.OK {
		return &apperr.WeakPasswordError{Satisfied: s.Satisfied, Total: s.Total, Message: s.Message}
	}
	return a.store.Register(name, password)
}

// Login starts a session and displays all records of the account.
func (a *App) Login(name, password string) error {
	if err := a.store.Login(name, password); err != nil {
		return err
	}
	if !a.store.IsActiveAccount(name) {
		return apperr.ErrUserNotFound
	}
	a.selected = nil
	a.ResetDisplayed()
	return nil
}

// Logout saves the store and clears the view state.
func (a *App) Logout() error {
	err := a.store.Logout()
	a.displayed = nil
	a.selected = nil
	a.refresh()
	return err
}

// Save writes the store without ending the session.
func (a *App) Save() error {
	return a.store.Save()
}

// Displayed returns the records currently shown.
func (a *App) Displayed() []*models.Record {
	return a.displayed
}

// ResetDisplayed shows every record of the account.
func (a *App) ResetDisplayed() {
	a.displayed = a.store.Records()
	a.refresh()
}

// show displays result, or falls back to every record and reports which
// filter found nothing.
func (a *App) show(filter string, result []*models.Record) error {
	if len(result) == 0 {
		a.ResetDisplayed()
		return &apperr.NoMatchError{Filter: filter}
	}
	a.displayed = result
	a.refresh()
	return nil
}

func (a *App) records() ([]*models.Record, error) {
	if a.store.ActiveName() == "" {
		return nil, apperr.ErrNoSession
	}
	return a.store.Records(), nil
}

func (a *App) filter(name string, f func([]*models.Record) []*models.Record) error {
	records, err := a.records()
	if err != nil {
		return err
	}
	return a.show(name, f(records))
}

// ShowCurrentMonth displays the records dated in the current month,
// newest first.
func (a *App) ShowCurrentMonth() error {
	return a.filter("current month", func(r []*models.Record) []*models.Record {
		return search.CurrentMonth(r, a.now())
	})
}

func (a *App) FilterIncomes() error {
	return a.filter("incomes", search.Incomes)
}

func (a *App) FilterExpenses() error {
	return a.filter("expenses", search.Expenses)
}

func (a *App) FilterTitle(title string) error {
	return a.filter("title", func(r []*models.Record) []*models.Record {
		return search.ByTitle(r, title)
	})
}

func (a *App) FilterCategory(c models.Category) error {
	return a.filter("category", func(r []*models.Record) []*models.Record {
		return search.ByCategory(r, c)
	})
}

func (a *App) FilterDateRange(lo, hi time.Time) error {
	return a.filter("date range", func(r []*models.Record) []*models.Record {
		return search.ByDateRange(r, lo, hi)
	})
}

func (a *App) FilterAmountRange(lo, hi decimal.Decimal) error {
	return a.filter("amount range", func(r []*models.Record) []*models.Record {
		return search.ByAmountRange(r, lo, hi)
	})
}

func (a *App) FilterItemCount(lo, hi int) error {
	return a.filter("item count", func(r []*models.Record) []*models.Record {
		return search.ByItemCount(r, lo, hi)
	})
}

// Totals sums the displayed records by direction.
func (a *App) Totals() (income, expense decimal.Decimal) {
	return search.Totals(a.displayed)
}

// MonthOverview sums the account's records of the current month.
func (a *App) MonthOverview() (income, expense decimal.Decimal) {
	return search.Totals(search.CurrentMonth(a.store.Records(), a.now()))
}

// CategoryChoices lists the categories a user may pick.
func (a *App) CategoryChoices() []models.Category {
	return models.Selectable()
}

// Select marks r as the record further actions apply to.
func (a *App) Select(r *models.Record) error {
	if r == nil {
		return apperr.ErrArgumentMissing
	}
	a.selected = r
	return nil
}

func (a *App) Selected() *models.Record {
	return a.selected
}

func (a *App) ClearSelection() {
	a.selected = nil
}

// DeleteSelected removes the selected record from the account and from
// the displayed set.
func (a *App) DeleteSelected() error {
	if a.selected == nil {
		return apperr.ErrArgumentMissing
	}
	if err := a.store.DeleteRecord(a.selected); err != nil {
		return err
	}
	a.displayed = dropRecord(a.displayed, a.selected)
	a.selected = nil
	a.refresh()
	return nil
}

func dropRecord(records []*models.Record, r *models.Record) []*models.Record {
	out := make([]*models.Record, 0, len(records))
	for _, x := range records {
		if x != r {
			out = append(out, x)
		}
	}
	return out
}

// Export writes the displayed records to path.
func (a *App) Export(path string, format codec.Format) error {
	return codec.ExportRecords(path, a.displayed, format)
}

// Import merges records from a structured export into the account and
// displays the result.
func (a *App) Import(path string, replace bool) (added, total int, err error) {
	added, total, err = a.store.ImportRecords(path, replace)
	if err != nil {
		return 0, 0, err
	}
	a.selected = nil
	a.ResetDisplayed()
	return added, total, nil
}
