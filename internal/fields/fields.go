package fields

import (
	"math"
	"strconv"
	"strings"
)

// Count is the number of fields on the lead form
const Count = 7

const (
	Age = iota
	Income
	Children
	Married
	Homeowner
	CampaignContacts
	RecencyScore
)

// Spec describes one form field. The table is built once and never mutated.
type Spec struct {
	Name        string // short key used by flags and HTML form names
	Label       string // display label
	Placeholder string
	check       func(v float64, ok bool) bool
	message     string
}

// Validate returns an empty string when raw satisfies the field's rule
func (s Spec) Validate(raw string) string {
	v, ok := ParseNumber(raw)
	if s.check(v, ok) {
		return ""
	}
	return s.message
}

var specs = [Count]Spec{
	{
		Name:    "age",
		Label:   "Age",
		check:   func(v float64, ok bool) bool { return ok && v >= 18 && v <= 100 },
		message: "Age must be 18–100",
	},
	{
		Name:    "income",
		Label:   "Income",
		check:   func(v float64, ok bool) bool { return ok && v > 0 },
		message: "Income must be > 0",
	},
	{
		Name:    "children",
		Label:   "Children",
		check:   func(v float64, ok bool) bool { return ok && v >= 0 },
		message: "Children must be ≥ 0",
	},
	{
		Name:    "married",
		Label:   "Married (1 = Married/Together, 0 = Other)",
		check:   binary,
		message: "Must be 0 or 1",
	},
	{
		Name:    "homeowner",
		Label:   "Homeowner (1 = Yes, 0 = No)",
		check:   binary,
		message: "Must be 0 or 1",
	},
	{
		Name:    "contacts",
		Label:   "Campaign Contacts",
		check:   func(v float64, ok bool) bool { return ok && v >= 0 && v == math.Trunc(v) },
		message: "Contacts must be a whole number ≥ 0",
	},
	{
		Name:    "recency",
		Label:   "Recency Score (0.0 - 1.0)",
		check:   func(v float64, ok bool) bool { return ok && v >= 0 && v <= 1 },
		message: "Recency Score must be between 0.0 and 1.0",
	},
}

func init() {
	for i := range specs {
		specs[i].Placeholder = "Enter " + specs[i].Label
	}
}

func binary(v float64, ok bool) bool {
	return ok && (v == 0 || v == 1)
}

// Specs returns a copy of the field table in form order
func Specs() [Count]Spec {
	return specs
}

// Get returns the spec for index and false when index is out of range
func Get(index int) (Spec, bool) {
	if index < 0 || index >= Count {
		return Spec{}, false
	}
	return specs[index], true
}

// ParseNumber converts raw input to a float. It is total: the second
// result is false for empty, non-numeric, infinite or NaN input.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	// ParseFloat accepts hex floats and "inf"/"nan" spellings, the form does not
	lower := strings.ToLower(s)
	if strings.Contains(lower, "0x") || strings.Contains(lower, "inf") || strings.Contains(lower, "nan") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Validate checks the raw value of the field at index. Unknown indices are
// treated as valid.
func Validate(index int, raw string) string {
	spec, ok := Get(index)
	if !ok {
		return ""
	}
	return spec.Validate(raw)
}

func ValidateAll(values [Count]string) [Count]string {
	var errs [Count]string
	for i, v := range values {
		errs[i] = specs[i].Validate(v)
	}
	return errs
}

func HasErrors(errs [Count]string) bool {
	for _, e := range errs {
		if e != "" {
			return true
		}
	}
	return false
}

// Features coerces every value to a number in field order. Values that are
// not numbers become 0; callers only transmit the vector after validation.
func Features(values [Count]string) [Count]float64 {
	var out [Count]float64
	for i, raw := range values {
		if v, ok := ParseNumber(raw); ok {
			out[i] = v
		}
	}
	return out
}
