// Package auth handles account passwords.
package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Passwords turns a password into its stored form and checks a given
// password against a stored one.
type Passwords interface {
	Seal(password string) (string, error)
	Match(stored, given string) bool
}

// Plain stores passwords as typed and compares them verbatim.
type Plain struct{}

func (Plain) Seal(password string) (string, error) { return password, nil }
func (Plain) Match(stored, given string) bool      { return stored == given }

// Bcrypt stores bcrypt hashes of passwords.
type Bcrypt struct {
	Cost int // bcrypt.DefaultCost when zero
}

func (b Bcrypt) Seal(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (Bcrypt) Match(stored, given string) bool { return CheckPassword(given, stored) }

// ParseMode returns the Passwords implementation named by mode: "plain"
// (or empty) or "bcrypt".
func ParseMode(mode string) (Passwords, error) {
	switch strings.ToLower(mode) {
	case "", "plain":
		return Plain{}, nil
	case "bcrypt":
		return Bcrypt{}, nil
	default:
		return nil, fmt.Errorf("unknown password mode %q", mode)
	}
}

// CheckPassword compares a password with a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
