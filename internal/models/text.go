package models

import (
	"fmt"
	"unicode/utf8"

	"finance-manager/internal/apperr"
)

// StorableText reports whether s is valid UTF-8 made only of characters
// an XML 1.0 document can carry. Anything else would not survive a save.
func StorableText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= utf8.MaxRune:
		default:
			return false
		}
	}
	return true
}

// CheckText returns an ErrInvalidText error naming field unless s is
// storable.
func CheckText(field, s string) error {
	if !StorableText(s) {
		return fmt.Errorf("%s: %w", field, apperr.ErrInvalidText)
	}
	return nil
}

func checkTexts(fields ...string) error {
	for i := 0; i < len(fields); i += 2 {
		if err := CheckText(fields[i], fields[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func (f RecordFields) CheckText() error {
	return checkTexts("title", f.Title, "note", f.Note)
}

func (i Item) CheckText() error {
	return checkTexts("item name", i.Name, "item description", i.Description)
}

// CheckText checks the fields and items of r.
func (r *Record) CheckText() error {
	if err := r.Fields().CheckText(); err != nil {
		return err
	}
	for _, it := range r.Items {
		if err := it.CheckText(); err != nil {
			return err
		}
	}
	return nil
}

// CheckText checks every text of a, records included.
func (a *Account) CheckText() error {
	if err := checkTexts("account name", a.Name, "password", a.Password, "note", a.Note); err != nil {
		return err
	}
	for _, r := range a.Records {
		if err := r.CheckText(); err != nil {
			return fmt.Errorf("account %s: %w", a.Name, err)
		}
	}
	return nil
}
