// Package convert implements unit conversion for length, weight and
// temperature. Everything here is a pure function of its inputs.
package convert

import (
	"errors"
	"fmt"
	"math"
)

// Request is one conversion as entered in the widget.
type Request struct {
	Value    float64
	From     string
	To       string
	Category Category
}

// Convert converts value from one unit to another within category.
//
// Length and weight go through the factor table; an unknown unit there is an
// error. Temperature uses explicit formulas and returns value unchanged for
// identical or unrecognized unit pairs.
func Convert(value float64, from, to string, category Category) (float64, error) {
	switch category {
	case Temperature:
		return temperature(value, from, to), nil
	case Length, Weight:
		toFactor, err := factor(category, to)
		if err != nil {
			return 0, err
		}
		fromFactor, err := factor(category, from)
		if err != nil {
			return 0, err
		}
		return value * toFactor / fromFactor, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
}

// Convert runs the request through Convert.
func (r Request) Convert() (float64, error) {
	return Convert(r.Value, r.From, r.To, r.Category)
}

// Validate applies the input constraints of the selection widgets: a
// finite non-negative value and units taken from the category's list.
func (r Request) Validate() error {
	if _, err := ParseCategory(string(r.Category)); err != nil {
		return err
	}
	if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return errors.New("value must be a finite number")
	}
	if r.Value < 0 {
		return errors.New("value must not be negative")
	}
	for _, u := range []string{r.From, r.To} {
		if !HasUnit(r.Category, u) {
			return fmt.Errorf("%w: %q in %s", ErrUnknownUnit, u, r.Category)
		}
	}
	return nil
}
