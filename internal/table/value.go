package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the dynamic type held by a Value.
type Kind uint8

const (
	Absent Kind = iota
	Text
	Number
	Bool
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Number:
		return "number"
	case Bool:
		return "bool"
	default:
		return "absent"
	}
}

// Value is a single cell. The zero Value is Absent, which is distinct from
// empty text and from zero.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// Missing returns the absent marker.
func Missing() Value { return Value{} }

// String wraps s as a text value. Empty text stays text; see Clean.
func String(s string) Value { return Value{kind: Text, str: s} }

// Float wraps f as a numeric value.
func Float(f float64) Value { return Value{kind: Number, num: f} }

// Boolean wraps b as a boolean value.
func Boolean(b bool) Value { return Value{kind: Bool, b: b} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsAbsent() bool  { return v.kind == Absent }
func (v Value) IsPresent() bool { return v.kind != Absent }

// Float returns the numeric payload and whether v is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != Number {
		return 0, false
	}
	return v.num, true
}

// Bool returns the boolean payload and whether v is a bool.
func (v Value) Bool() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.b, true
}

// Text returns the textual form used for matching and for CSV output.
// Absent renders as "".
func (v Value) Text() string {
	switch v.kind {
	case Text:
		return v.str
	case Number:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case Bool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Text:
		return v.str == o.str
	case Number:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	case Bool:
		return v.b == o.b
	default:
		return true
	}
}

// key is a kind-tagged encoding used to detect duplicate rows.
func (v Value) key() string {
	return string(rune('0'+v.kind)) + v.Text()
}

// ParseFloat coerces the textual form of v into a finite float. Anything that
// does not parse (or is NaN/Inf) reports false.
func ParseFloat(v Value) (float64, bool) {
	if f, ok := v.Float(); ok {
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	if v.kind != Text {
		return 0, false
	}
	s := strings.TrimSpace(v.str)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
