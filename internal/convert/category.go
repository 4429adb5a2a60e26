package convert

import (
	"errors"
	"fmt"
	"strings"
)

// Category selects which unit set and which conversion rule apply.
type Category string

const (
	Length      Category = "Length"
	Weight      Category = "Weight"
	Temperature Category = "Temperature"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownUnit     = errors.New("unknown unit")
)

// factors holds multipliers relative to the base unit of each category
// (meter, gram). Temperature is affine and lives in temperature.go instead.
var factors = map[Category]map[string]float64{
	Length: {
		"meter":     1,
		"kilometer": 0.001,
		"mile":      0.000621371,
		"foot":      3.28084,
	},
	Weight: {
		"gram":     1,
		"kilogram": 0.001,
		"pound":    0.00220462,
		"ounce":    0.035274,
	},
}

// units lists the selectable units per category in display order.
var units = map[Category][]string{
	Length:      {"meter", "kilometer", "mile", "foot"},
	Weight:      {"gram", "kilogram", "pound", "ounce"},
	Temperature: {"Celsius", "Fahrenheit", "Kelvin"},
}

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{Length, Weight, Temperature}
}

// ParseCategory matches s against the known categories, ignoring case.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Units returns the selectable units of c. The slice is a copy.
func Units(c Category) []string {
	list := units[c]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// HasUnit reports whether unit belongs to c.
func HasUnit(c Category, unit string) bool {
	for _, u := range units[c] {
		if u == unit {
			return true
		}
	}
	return false
}

// CategoryOf finds the category a unit name belongs to.
func CategoryOf(unit string) (Category, bool) {
	for _, c := range Categories() {
		if HasUnit(c, unit) {
			return c, true
		}
	}
	return "", false
}

func factor(c Category, unit string) (float64, error) {
	f, ok := factors[c][unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q in %s", ErrUnknownUnit, unit, c)
	}
	return f, nil
}
