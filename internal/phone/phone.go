// Package phone formats phone numbers the way owners type them into a tag's
// contact details and assembles the E.164 form the API stores.
package phone

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownCountry = errors.New("unknown country")
	ErrInvalidNumber  = errors.New("invalid phone number")
)

// Country describes how national numbers are written in one country.
type Country struct {
	Code   string // ISO 3166-1 alpha-2
	Name   string
	Dial   string // calling code without '+'
	Length int    // digits in a national number, without trunk prefix
	Groups []int  // display grouping of the national number
	// Trunk is the domestic prefix dropped when dialing from abroad. National
	// numbers of countries with a trunk prefix never start with it.
	Trunk string
}

var countries = []Country{
	{Code: "US", Name: "United States", Dial: "1", Length: 10, Groups: []int{3, 3, 4}},
	{Code: "CA", Name: "Canada", Dial: "1", Length: 10, Groups: []int{3, 3, 4}},
	{Code: "GB", Name: "United Kingdom", Dial: "44", Length: 10, Groups: []int{4, 6}, Trunk: "0"},
	{Code: "IN", Name: "India", Dial: "91", Length: 10, Groups: []int{5, 5}, Trunk: "0"},
	{Code: "DE", Name: "Germany", Dial: "49", Length: 11, Groups: []int{4, 7}, Trunk: "0"},
	{Code: "FR", Name: "France", Dial: "33", Length: 9, Groups: []int{1, 2, 2, 2, 2}, Trunk: "0"},
	{Code: "ES", Name: "Spain", Dial: "34", Length: 9, Groups: []int{3, 3, 3}},
	{Code: "AU", Name: "Australia", Dial: "61", Length: 9, Groups: []int{1, 4, 4}, Trunk: "0"},
	{Code: "BR", Name: "Brazil", Dial: "55", Length: 11, Groups: []int{2, 5, 4}, Trunk: "0"},
	{Code: "LV", Name: "Latvia", Dial: "371", Length: 8, Groups: []int{2, 3, 3}},
}

var byCode = func() map[string]Country {
	m := make(map[string]Country, len(countries))
	for _, c := range countries {
		m[c.Code] = c
	}
	return m
}()

// Lookup finds a country by its ISO code, case-insensitively.
func Lookup(code string) (Country, bool) {
	c, ok := byCode[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// Countries returns the supported countries ordered by code.
func Countries() []Country {
	out := make([]Country, len(countries))
	copy(out, countries)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Digits strips everything but ASCII digits from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Detect resolves an international number ("+44 20...") to its country and
// national digits, picking the longest matching calling code. Countries that
// share a calling code resolve to the first one in the table.
func Detect(input string) (Country, string, bool) {
	if !strings.HasPrefix(strings.TrimSpace(input), "+") {
		return Country{}, "", false
	}
	digits := Digits(input)
	var best Country
	for _, c := range countries {
		if strings.HasPrefix(digits, c.Dial) && len(c.Dial) > len(best.Dial) {
			best = c
		}
	}
	if best.Code == "" {
		return Country{}, "", false
	}
	return best, digits[len(best.Dial):], true
}

// Format groups input for display as it is being typed. Partial input is
// grouped as far as it goes and digits beyond the national length are
// dropped. International input ("+...") keeps its calling code in front,
// and keeps its '+' while the calling code is still incomplete.
func Format(country, input string) string {
	if c, national, ok := Detect(input); ok {
		grouped := group(c, national)
		if grouped == "" {
			return "+" + c.Dial
		}
		return "+" + c.Dial + " " + grouped
	}
	if strings.HasPrefix(strings.TrimSpace(input), "+") {
		return "+" + Digits(input)
	}

	c, ok := Lookup(country)
	if !ok {
		return Digits(input)
	}
	return group(c, stripTrunk(c, Digits(input)))
}

// E164 assembles "+<dial><national>" from what the user typed. Input starting
// with '+' is taken as already international; otherwise it is read as a
// national number of country, with an optional trunk prefix.
func E164(country, input string) (string, error) {
	if c, national, ok := Detect(input); ok {
		if len(national) != c.Length {
			return "", fmt.Errorf("%w: %s expects %d digits after +%s", ErrInvalidNumber, c.Name, c.Length, c.Dial)
		}
		return "+" + c.Dial + national, nil
	}
	if strings.HasPrefix(strings.TrimSpace(input), "+") {
		return "", fmt.Errorf("%w: unsupported calling code", ErrInvalidNumber)
	}

	c, ok := Lookup(country)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCountry, country)
	}
	national := stripTrunk(c, Digits(input))
	if len(national) != c.Length {
		return "", fmt.Errorf("%w: %s numbers have %d digits", ErrInvalidNumber, c.Name, c.Length)
	}
	return "+" + c.Dial + national, nil
}

func stripTrunk(c Country, digits string) string {
	if c.Trunk != "" && strings.HasPrefix(digits, c.Trunk) {
		return digits[len(c.Trunk):]
	}
	return digits
}

func group(c Country, digits string) string {
	if len(digits) > c.Length {
		digits = digits[:c.Length]
	}
	parts := make([]string, 0, len(c.Groups))
	for _, n := range c.Groups {
		if digits == "" {
			break
		}
		if n > len(digits) {
			n = len(digits)
		}
		parts = append(parts, digits[:n])
		digits = digits[n:]
	}
	return strings.Join(parts, " ")
}
