package record

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

var ppnTag = TagUnchecked("003@")

// Record is an ordered list of fields.
type Record struct {
	fields []Field
}

// New builds a record from fields.
func New(fields ...Field) *Record {
	return &Record{fields: fields}
}

// Fields returns the record's fields in order. The slice is shared with
// the record and must not be modified.
func (r *Record) Fields() []Field {
	return r.fields
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.fields)
}

// IsEmpty reports whether the record has no fields.
func (r *Record) IsEmpty() bool {
	return len(r.fields) == 0
}

// FieldsByTag returns every field carrying the given tag.
func (r *Record) FieldsByTag(tag Tag) []*Field {
	var out []*Field
	for i := range r.fields {
		if r.fields[i].tag == tag {
			out = append(out, &r.fields[i])
		}
	}
	return out
}

// PPN returns the record identifier stored in 003@ $0.
func (r *Record) PPN() (string, bool) {
	for i := range r.fields {
		if r.fields[i].tag == ppnTag {
			return r.fields[i].First('0')
		}
	}
	return "", false
}

// Validate checks every field; a valid record also needs at least one
// field since the line grammar cannot express an empty record.
func (r *Record) Validate() error {
	if len(r.fields) == 0 {
		return &ValidationError{Reason: "record has no fields"}
	}
	for i := range r.fields {
		if err := r.fields[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Hash returns the hex encoded SHA-256 digest of the serialized record.
func (r *Record) Hash() string {
	sum := sha256.Sum256(r.Bytes())
	return hex.EncodeToString(sum[:])
}

// Display returns the human readable form of the record, one field per
// line:
//
//	003@ $0123456789
//	021A $aDie Geschichte$hvon Ada
//
// A literal '$' inside a value is written as "$$".
func (r *Record) Display() string {
	var b strings.Builder
	for i := range r.fields {
		r.fields[i].writeDisplay(&b)
		b.WriteByte('\n')
	}
	return b.String()
}

// Display returns the human readable form of a single field.
func (f *Field) Display() string {
	var b strings.Builder
	f.writeDisplay(&b)
	return b.String()
}

func (f *Field) writeDisplay(b *strings.Builder) {
	b.WriteString(f.tag.String())
	if f.hasOcc {
		b.WriteByte('/')
		b.WriteString(f.occurrence.s)
	}
	b.WriteByte(' ')
	for _, sf := range f.subfields {
		b.WriteByte('$')
		b.WriteByte(byte(sf.code))
		b.WriteString(strings.ReplaceAll(string(sf.value), "$", "$$"))
	}
}

// ValidationError reports a record assembled with unchecked constructors
// that violates the record grammar.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid record: " + e.Reason
}

func quote(s string) string {
	return strconv.Quote(s)
}
