package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction tells whether a record is money coming in or going out.
type Direction uint8

const (
	Income Direction = iota
	Expense
)

func (d Direction) String() string {
	switch d {
	case Income:
		return "Income"
	case Expense:
		return "Expense"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// ParseDirection parses "Income" or "Expense".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "Income", "income":
		return Income, nil
	case "Expense", "expense":
		return Expense, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if d > Expense {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Item is a line of a record. Items have no identity of their own.
type Item struct {
	Name        string          `xml:"Name"`
	Price       decimal.Decimal `xml:"Price"`
	Category    Category        `xml:"Category"`
	Description string          `xml:"Description"`
}

// Equal reports whether both items hold the same values.
func (i Item) Equal(o Item) bool {
	return i.Name == o.Name &&
		i.Price.Equal(o.Price) &&
		i.Category == o.Category &&
		i.Description == o.Description
}

// Record represents a single income or expense transaction.
type Record struct {
	ID        uuid.UUID       `xml:"ID"`
	Title     string          `xml:"Title"`
	CreatedAt time.Time       `xml:"CreatedAt"`
	Date      time.Time       `xml:"Date"`
	Amount    decimal.Decimal `xml:"Amount"` // magnitude, the sign is carried by Direction
	Direction Direction       `xml:"Direction"`
	Note      string          `xml:"Note"`
	Category  Category        `xml:"Category"`
	Items     []Item          `xml:"Items>Item"`
}

// NewRecord creates an empty record stamped with its creation time.
func NewRecord(createdAt time.Time) *Record {
	return &Record{
		ID:        uuid.New(),
		CreatedAt: createdAt,
		Direction: Expense,
	}
}

// RecordFields holds the user editable fields of a record, items aside.
type RecordFields struct {
	Title     string
	Date      time.Time
	Amount    decimal.Decimal
	Direction Direction
	Note      string
	Category  Category
}

// Fields returns the editable fields of r.
func (r *Record) Fields() RecordFields {
	return RecordFields{
		Title:     r.Title,
		Date:      r.Date,
		Amount:    r.Amount,
		Direction: r.Direction,
		Note:      r.Note,
		Category:  r.Category,
	}
}

// Apply overwrites every editable field of r. CreatedAt, ID and Items are
// left alone.
func (r *Record) Apply(f RecordFields) {
	r.Title = f.Title
	r.Date = f.Date
	r.Amount = f.Amount.Abs()
	r.Direction = f.Direction
	r.Note = f.Note
	r.Category = f.Category
}

// Signed returns the amount with the sign given by the direction.
func (r *Record) Signed() decimal.Decimal {
	if r.Direction == Expense {
		return r.Amount.Neg()
	}
	return r.Amount
}

// Equal reports whether both records hold the same values, ID, creation
// time and items included. Times are compared as instants.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.ID == o.ID &&
		r.CreatedAt.Equal(o.CreatedAt) &&
		r.Fields().equal(o.Fields()) &&
		slices.EqualFunc(r.Items, o.Items, Item.Equal)
}

func (f RecordFields) equal(o RecordFields) bool {
	return f.Title == o.Title &&
		f.Date.Equal(o.Date) &&
		f.Amount.Equal(o.Amount) &&
		f.Direction == o.Direction &&
		f.Note == o.Note &&
		f.Category == o.Category
}

func (r *Record) String() string {
	return fmt.Sprintf("%s; %s: %s Kč (%d items)", r.Title, r.Date.Format("02.01.2006"), r.Amount, len(r.Items))
}

// Account represents a registered user and the records it owns.
type Account struct {
	Name        string    `xml:"Name"`
	Password    string    `xml:"Password"`
	Note        string    `xml:"Note"`
	NoteVisible bool      `xml:"NoteVisible"`
	Records     []*Record `xml:"Records>Record"`
}

// NewAccount creates an account with no records and a hidden empty note.
func NewAccount(name, password string) *Account {
	return &Account{
		Name:     name,
		Password: password,
		Records:  make([]*Record, 0),
	}
}

// Equal reports whether both accounts hold the same values and equal
// records in the same order.
func (a *Account) Equal(o *Account) bool {
	if a == nil || o == nil {
		return a == o
	}
	return a.Name == o.Name &&
		a.Password == o.Password &&
		a.Note == o.Note &&
		a.NoteVisible == o.NoteVisible &&
		slices.EqualFunc(a.Records, o.Records, (*Record).Equal)
}
