package app

import (
	"fmt"
	"slices"
	"time"

	"finance-manager/internal/apperr"
	"finance-manager/internal/models"
)

// Draft is a record being created or edited. Nothing reaches the store
// before Commit.
type Draft struct {
	target *models.Record // nil for a new record
	fields models.RecordFields
	items  []models.Item
	item   int // selected item, -1 for none
}

// NewDraft starts a new expense dated today.
func (a *App) NewDraft() *Draft {
	now := a.now()
	return &Draft{
		fields: models.RecordFields{
			Date:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
			Direction: models.Expense,
		},
		item: -1,
	}
}

// EditSelected starts editing a copy of the selected record.
func (a *App) EditSelected() (*Draft, error) {
	if a.selected == nil {
		return nil, apperr.ErrArgumentMissing
	}
	return &Draft{
		target: a.selected,
		fields: a.selected.Fields(),
		items:  slices.Clone(a.selected.Items),
		item:   -1,
	}, nil
}

// IsNew reports whether committing d adds a record.
func (d *Draft) IsNew() bool { return d.target == nil }

func (d *Draft) Fields() models.RecordFields { return d.fields }

func (d *Draft) Set(f models.RecordFields) { d.fields = f }

// Items returns a copy of the draft's items.
func (d *Draft) Items() []models.Item { return slices.Clone(d.items) }

func (d *Draft) AddItem(it models.Item) {
	d.items = append(d.items, it)
}

// SelectItem selects the i-th item.
func (d *Draft) SelectItem(i int) error {
	if i < 0 || i >= len(d.items) {
		return apperr.ErrArgumentMissing
	}
	d.item = i
	return nil
}

// RemoveSelectedItem removes the selected item.
func (d *Draft) RemoveSelectedItem() error {
	if d.item < 0 {
		return apperr.ErrArgumentMissing
	}
	d.items = slices.Delete(d.items, d.item, d.item+1)
	d.item = -1
	return nil
}

func (d *Draft) checkText() error {
	if err := d.fields.CheckText(); err != nil {
		return err
	}
	for i, it := range d.items {
		if err := it.CheckText(); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return nil
}

// Commit stores the draft: a new record is appended to the account and to
// the displayed set, an edited one is overwritten in place.
func (a *App) Commit(d *Draft) (*models.Record, error) {
	if d == nil {
		return nil, apperr.ErrArgumentMissing
	}
	if err := d.checkText(); err != nil {
		return nil, err
	}
	if d.IsNew() {
		r := a.store.NewRecord()
		r.Apply(d.fields)
		r.Items = slices.Clone(d.items)
		if err := a.store.AddRecordAsNew(r); err != nil {
			return nil, err
		}
		a.displayed = append(slices.Clip(a.displayed), r)
		a.refresh()
		return r, nil
	}

	if err := a.store.UpdateRecord(d.target, d.fields); err != nil {
		return nil, err
	}
	d.target.Items = slices.Clone(d.items)
	a.refresh()
	return d.target, nil
}
