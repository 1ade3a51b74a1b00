package models

import (
	"fmt"
	"strings"
)

// Category tags a record or an item. The zero value means no category was
// chosen and is never offered for selection.
type Category uint8

const (
	Unselected Category = iota
	Alkohol
	Auto
	Brigada
	Cestovani
	Dar
	Divadlo
	DomaciMazlicek
	Domacnost
	Domov
	Drogerie
	Elektronika
	Hobby
	Inkaso
	Jidlo
	Kino
	Kosmetika
	Kultura
	Najem
	Napoje
	Nezarazeno
	Obleceni
	Partner
	PC
	Restaurace
	Rodina
	Sport
	Skola
	Telefon
	Vyplata
	Vzdelani
	Zamestnani
	Zdravi

	categoryCount
)

// CategoryDef pairs the identifier of a category with its display name.
type CategoryDef struct {
	ID   string
	Name string
}

// categories is indexed by Category.
var categories = [categoryCount]CategoryDef{
	{"Nevybrano", "Nevybráno"},
	{"Alkohol", "Alkohol"},
	{"Auto", "Auto"},
	{"Brigada", "Brigáda"},
	{"Cestovani", "Cestování"},
	{"Dar", "Dar"},
	{"Divadlo", "Divadlo"},
	{"DomaciMazlicek", "Domácí mazlíček"},
	{"Domacnost", "Domácnost"},
	{"Domov", "Domov"},
	{"Drogerie", "Drogerie"},
	{"Elektronika", "Elektronika"},
	{"Hobby", "Hobby"},
	{"Inkaso", "Inkaso"},
	{"Jidlo", "Jídlo"},
	{"Kino", "Kino"},
	{"Kosmetika", "Kosmetika"},
	{"Kultura", "Kultura"},
	{"Najem", "Nájem"},
	{"Napoje", "Nápoje"},
	{"Nezarazeno", "Nezařazeno"},
	{"Obleceni", "Oblečení"},
	{"Partner", "Partner / Partnerka"},
	{"PC", "Pc"},
	{"Restaurace", "Restaurace"},
	{"Rodina", "Rodina"},
	{"Sport", "Sport"},
	{"Skola", "Škola"},
	{"Telefon", "Telefon / Mobil"},
	{"Vyplata", "Výplata"},
	{"Vzdelani", "Vzdělání"},
	{"Zamestnani", "Zaměstnání / Práce"},
	{"Zdravi", "Zdraví"},
}

// Valid reports whether c is a known category, Unselected included.
func (c Category) Valid() bool { return c < categoryCount }

// String returns the identifier used in exports and in the store file.
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categories[c].ID
}

// DisplayName returns the localized name shown to the user.
func (c Category) DisplayName() string {
	if !c.Valid() {
		return c.String()
	}
	return categories[c].Name
}

// ParseCategory accepts a category identifier (case-insensitive) or its
// display name.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for i, def := range categories {
		if strings.EqualFold(def.ID, s) || def.Name == s {
			return Category(i), nil
		}
	}
	return Unselected, fmt.Errorf("unknown category %q", s)
}

// Selectable returns the categories a user can pick, in table order.
func Selectable() []Category {
	list := make([]Category, 0, categoryCount-1)
	for c := Category(1); c < categoryCount; c++ {
		list = append(list, c)
	}
	return list
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	v, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
