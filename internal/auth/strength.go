package auth

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinLength is the shortest password accepted at registration.
const MinLength = 8

// minSatisfied is how many rules an acceptable password meets.
const minSatisfied = 4

type rule struct {
	hint string
	ok   func(string) bool
}

var rules = []rule{
	{"use at least 8 characters", func(s string) bool { return utf8.RuneCountInString(s) >= MinLength }},
	{"add a lowercase letter", hasRune(unicode.IsLower)},
	{"add an uppercase letter", hasRune(unicode.IsUpper)},
	{"add a digit", hasRune(unicode.IsDigit)},
	{"add a symbol", hasRune(func(r rune) bool { return unicode.IsPunct(r) || unicode.IsSymbol(r) })},
	{"use at least 12 characters", func(s string) bool { return utf8.RuneCountInString(s) >= 12 }},
}

func hasRune(f func(rune) bool) func(string) bool {
	return func(s string) bool { return strings.IndexFunc(s, f) >= 0 }
}

// Strength is the outcome of CheckStrength.
type Strength struct {
	OK        bool
	Satisfied int
	Total     int
	Message   string
}

// CheckStrength rates a password against a fixed set of rules. The
// password is acceptable when it is long enough and meets at least four
// rules. Message lists the hints for the rules not met.
func CheckStrength(password string) Strength {
	s := Strength{Total: len(rules)}
	var hints []string
	for _, r := range rules {
		if r.ok(password) {
			s.Satisfied++
		} else {
			hints = append(hints, r.hint)
		}
	}
	s.OK = rules[0].ok(password) && s.Satisfied >= minSatisfied
	switch {
	case len(hints) == 0:
		s.Message = "strong password"
	case s.OK:
		s.Message = "acceptable, to improve: " + strings.Join(hints, ", ")
	default:
		s.Message = strings.Join(hints, ", ")
	}
	return s
}
