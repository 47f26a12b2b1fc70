package record

import (
	"fmt"
	"strings"
)

// Delimiters of the normalized PICA+ line format.
const (
	UnitSeparator   byte = 0x1F // introduces a subfield
	FieldTerminator byte = 0x1E // ends a field
	LineFeed        byte = 0x0A // ends a record
)

// SubfieldCode is the single alphanumeric character naming a subfield.
type SubfieldCode byte

// NewSubfieldCode validates c and returns it as a SubfieldCode.
func NewSubfieldCode(c byte) (SubfieldCode, error) {
	if !IsValidSubfieldCode(c) {
		return 0, fmt.Errorf("invalid subfield code %q", c)
	}
	return SubfieldCode(c), nil
}

// IsValidSubfieldCode reports whether c is an ASCII letter or digit.
func IsValidSubfieldCode(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func (c SubfieldCode) String() string {
	return string(rune(c))
}

// SubfieldValue is the content of a subfield. It never contains a unit
// separator or a field terminator; it may be empty.
type SubfieldValue string

// NewSubfieldValue validates s and returns it as a SubfieldValue.
func NewSubfieldValue(s string) (SubfieldValue, error) {
	if !IsValidSubfieldValue(s) {
		return "", fmt.Errorf("invalid subfield value %q", s)
	}
	return SubfieldValue(s), nil
}

// IsValidSubfieldValue reports whether s is free of delimiter bytes.
func IsValidSubfieldValue(s string) bool {
	return strings.IndexByte(s, UnitSeparator) < 0 && strings.IndexByte(s, FieldTerminator) < 0
}

// Subfield is a (code, value) pair.
type Subfield struct {
	code  SubfieldCode
	value SubfieldValue
}

// NewSubfield validates code and value and builds a Subfield.
func NewSubfield(code byte, value string) (Subfield, error) {
	c, err := NewSubfieldCode(code)
	if err != nil {
		return Subfield{}, err
	}
	v, err := NewSubfieldValue(value)
	if err != nil {
		return Subfield{}, err
	}
	return Subfield{code: c, value: v}, nil
}

// SubfieldUnchecked builds a Subfield without validation.
func SubfieldUnchecked(code byte, value string) Subfield {
	return Subfield{code: SubfieldCode(code), value: SubfieldValue(value)}
}

// Code returns the subfield code.
func (s Subfield) Code() SubfieldCode {
	return s.code
}

// Value returns the subfield value as a string.
func (s Subfield) Value() string {
	return string(s.value)
}
