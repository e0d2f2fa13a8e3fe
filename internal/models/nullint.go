package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// NullInt is an integer that can also be null (absent) or NaN (present but
// unparseable). JSON encodes both null and NaN as null.
type NullInt struct {
	Int   int
	Valid bool
	NaN   bool
}

// NaN is the value produced by parsing a malformed integer field.
var NaN = NullInt{NaN: true}

// IntOf returns a valid NullInt holding v.
func IntOf(v int) NullInt {
	return NullInt{Int: v, Valid: true}
}

// IsNull reports whether the value is absent (neither a number nor NaN).
func (n NullInt) IsNull() bool {
	return !n.Valid && !n.NaN
}

// Or returns the integer, or def when the value is null or NaN.
func (n NullInt) Or(def int) int {
	if n.Valid {
		return n.Int
	}
	return def
}

// String renders the CSV/raw form: digits, "NaN", or "" for null.
func (n NullInt) String() string {
	switch {
	case n.Valid:
		return strconv.Itoa(n.Int)
	case n.NaN:
		return "NaN"
	default:
		return ""
	}
}

// ParseInt parses s as an integer field. Empty or malformed input yields NaN.
func ParseInt(s string) NullInt {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return NaN
	}
	return IntOf(v)
}

// ParseOptionalInt is ParseInt, except that an empty string yields null.
func ParseOptionalInt(s string) NullInt {
	if strings.TrimSpace(s) == "" {
		return NullInt{}
	}
	return ParseInt(s)
}

func (n NullInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(n.Int)), nil
}

func (n *NullInt) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = NullInt{}
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = IntOf(v)
	return nil
}
