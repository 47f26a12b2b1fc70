package record

// Field is a tagged, optionally numbered list of subfields. Subfield order
// is significant and codes may repeat.
type Field struct {
	tag        Tag
	occurrence Occurrence
	hasOcc     bool
	subfields  []Subfield
}

// NewField builds a field. A nil occurrence means the field has none.
func NewField(tag Tag, occurrence *Occurrence, subfields ...Subfield) Field {
	f := Field{tag: tag, subfields: subfields}
	if occurrence != nil {
		f.occurrence = *occurrence
		f.hasOcc = true
	}
	return f
}

// Tag returns the field's tag.
func (f *Field) Tag() Tag {
	return f.tag
}

// Occurrence returns the field's occurrence and whether it has one.
func (f *Field) Occurrence() (Occurrence, bool) {
	return f.occurrence, f.hasOcc
}

// Subfields returns the field's subfields in order. The slice is shared
// with the field and must not be modified.
func (f *Field) Subfields() []Subfield {
	return f.subfields
}

// First returns the value of the first subfield with the given code.
func (f *Field) First(code SubfieldCode) (string, bool) {
	for _, sf := range f.subfields {
		if sf.code == code {
			return string(sf.value), true
		}
	}
	return "", false
}

// All returns the values of every subfield with the given code.
func (f *Field) All(code SubfieldCode) []string {
	var values []string
	for _, sf := range f.subfields {
		if sf.code == code {
			values = append(values, string(sf.value))
		}
	}
	return values
}

// Contains reports whether the field has a subfield with the given code.
func (f *Field) Contains(code SubfieldCode) bool {
	_, ok := f.First(code)
	return ok
}

// Validate checks every component of the field. Fields built from parsed
// input are always valid; fields assembled with *Unchecked constructors
// may not be.
func (f *Field) Validate() error {
	if !IsValidTag(f.tag.String()) {
		return &ValidationError{Reason: "invalid tag " + quote(f.tag.String())}
	}
	if f.hasOcc && !IsValidOccurrence(f.occurrence.s) {
		return &ValidationError{Reason: "invalid occurrence " + quote(f.occurrence.s)}
	}
	for _, sf := range f.subfields {
		if !IsValidSubfieldCode(byte(sf.code)) {
			return &ValidationError{Reason: "invalid subfield code " + quote(sf.code.String())}
		}
		if !IsValidSubfieldValue(string(sf.value)) {
			return &ValidationError{Reason: "invalid subfield value " + quote(string(sf.value))}
		}
	}
	return nil
}
