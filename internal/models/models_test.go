package models

import (
	"testing"
	"time"

	"finance-manager/internal/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectableCategories(t *testing.T) {
	list := Selectable()
	require.Len(t, list, 32)

	seen := make(map[Category]bool)
	for i, c := range list {
		assert.NotEqual(t, Unselected, c, "unselected category must not be offered")
		assert.Equal(t, Category(i+1), c, "categories must follow table order")
		assert.False(t, seen[c], "category %s listed twice", c)
		seen[c] = true
	}
}

func TestCategoryNames(t *testing.T) {
	assert.Equal(t, "Jidlo", Jidlo.String())
	assert.Equal(t, "Jídlo", Jidlo.DisplayName())
	assert.Equal(t, "Zdravi", Zdravi.String())
	assert.False(t, Category(200).Valid())
	assert.Equal(t, "Category(200)", Category(200).String())
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"Jidlo", Jidlo},
		{"jidlo", Jidlo},
		{"Jídlo", Jidlo},
		{"Telefon / Mobil", Telefon},
		{" PC ", PC},
		{"Nevybrano", Unselected},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseCategory("Groceries")
	assert.Error(t, err)
}

func TestDirectionText(t *testing.T) {
	var d Direction
	require.NoError(t, d.UnmarshalText([]byte("Expense")))
	assert.Equal(t, Expense, d)

	text, err := Income.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Income", string(text))

	assert.Error(t, d.UnmarshalText([]byte("Refund")))
	_, err = Direction(7).MarshalText()
	assert.Error(t, err)
}

func TestRecordApplyKeepsIdentity(t *testing.T) {
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	r := NewRecord(created)
	r.Items = []Item{{Name: "Milk", Price: decimal.NewFromInt(25)}}
	id := r.ID
	require.NotEqual(t, uuid.Nil, id)

	r.Apply(RecordFields{
		Title:     "Groceries",
		Date:      time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString("-120.5"),
		Direction: Expense,
		Category:  Jidlo,
	})

	assert.Equal(t, id, r.ID)
	assert.Equal(t, created, r.CreatedAt)
	assert.Len(t, r.Items, 1)
	assert.True(t, r.Amount.Equal(decimal.RequireFromString("120.5")), "amount is stored as a magnitude")
	assert.True(t, r.Signed().Equal(decimal.RequireFromString("-120.5")))
	assert.Equal(t, "Groceries", r.Fields().Title)
}

func TestItemEqual(t *testing.T) {
	a := Item{Name: "Bread", Price: decimal.RequireFromString("30.0"), Category: Jidlo}
	b := Item{Name: "Bread", Price: decimal.RequireFromString("30"), Category: Jidlo}
	assert.True(t, a.Equal(b))

	b.Description = "rye"
	assert.False(t, a.Equal(b))
}

func TestNewAccount(t *testing.T) {
	a := NewAccount("Ana", "pw1")
	assert.Equal(t, "Ana", a.Name)
	assert.Empty(t, a.Records)
	assert.Empty(t, a.Note)
	assert.False(t, a.NoteVisible)
}

func TestAccountEqual(t *testing.T) {
	build := func() *Account {
		a := NewAccount("Ana", "pw1")
		r := NewRecord(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
		r.Title = "Coffee"
		r.Amount = decimal.RequireFromString("3.5")
		a.Records = append(a.Records, r)
		return a
	}
	a, b := build(), build()
	b.Records[0].ID = a.Records[0].ID
	assert.True(t, a.Equal(b))

	// Items nil or empty make no difference.
	b.Records[0].Items = []Item{}
	assert.True(t, a.Equal(b))

	b.Records[0].Amount = decimal.RequireFromString("3.50")
	assert.True(t, a.Equal(b), "amounts are compared by value")

	b.Records[0].Note = "changed"
	assert.False(t, a.Equal(b))

	assert.True(t, (*Account)(nil).Equal(nil))
	assert.False(t, a.Equal(nil))
}

func TestStorableText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"plain", "Nákup v Lidlu", true},
		{"whitespace", "a\tb\r\nc", true},
		{"emoji", "kafe ☕ 🍰", true},
		{"empty", "", true},
		{"control", "a\x01b", false},
		{"nul", "a\x00b", false},
		{"invalid utf8", "a\xffb", false},
		{"noncharacter", "a\uFFFEb", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StorableText(tt.in))
		})
	}
}

func TestAccountCheckText(t *testing.T) {
	a := NewAccount("Ana", "pw")
	r := NewRecord(time.Now())
	r.Title = "Coffee"
	r.Items = []Item{{Name: "Cup"}}
	a.Records = append(a.Records, r)
	require.NoError(t, a.CheckText())

	r.Items[0].Description = "big\x02"
	err := a.CheckText()
	require.ErrorIs(t, err, apperr.ErrInvalidText)
	assert.Contains(t, err.Error(), "item description")

	r.Items[0].Description = ""
	a.Password = "p\xffw"
	err = a.CheckText()
	require.ErrorIs(t, err, apperr.ErrInvalidText)
	assert.Contains(t, err.Error(), "password")
}
