package record

import (
	"bytes"
	"errors"
	"fmt"
)

// ParseError reports a line that does not follow the record grammar.
type ParseError struct {
	// Line is the 1-based input line, or 0 if the error did not come from
	// a Reader.
	Line int

	// Offset is the byte offset within the line where parsing failed.
	Offset int

	// Reason describes what was expected.
	Reason string

	// Data holds a copy of the offending line.
	Data []byte
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid record on line %d: %s (offset %d)", e.Line, e.Reason, e.Offset)
	}
	return fmt.Sprintf("invalid record: %s (offset %d)", e.Reason, e.Offset)
}

// IsParseError returns true if err is (or wraps) a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Parse decodes one serialized record. The input must be exactly one
// record including its terminating line feed.
func Parse(data []byte) (*Record, error) {
	p := lineParser{data: data}
	rec, err := p.parseRecord()
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Data = bytes.Clone(data)
		}
		return nil, err
	}
	return rec, nil
}

type lineParser struct {
	data []byte
	pos  int
}

func (p *lineParser) errorf(format string, args ...any) error {
	return &ParseError{Offset: p.pos, Reason: fmt.Sprintf(format, args...)}
}

func (p *lineParser) eof() bool {
	return p.pos >= len(p.data)
}

func (p *lineParser) parseRecord() (*Record, error) {
	var fields []Field
	for {
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)

		if p.eof() {
			return nil, p.errorf("unexpected end of input, expected line feed")
		}
		if p.data[p.pos] == LineFeed {
			p.pos++
			break
		}
	}
	if !p.eof() {
		return nil, p.errorf("unexpected data after line feed")
	}
	return &Record{fields: fields}, nil
}

func (p *lineParser) parseField() (Field, error) {
	var f Field

	if len(p.data)-p.pos < 4 {
		return f, p.errorf("unexpected end of input, expected tag")
	}
	for i := 0; i < 4; i++ {
		if !isTagByte(i, p.data[p.pos+i]) {
			p.pos += i
			return f, p.errorf("invalid tag")
		}
	}
	f.tag = TagUnchecked(string(p.data[p.pos : p.pos+4]))
	p.pos += 4

	if !p.eof() && p.data[p.pos] == '/' {
		p.pos++
		start := p.pos
		for !p.eof() && isDigit(p.data[p.pos]) {
			p.pos++
		}
		if n := p.pos - start; n < 2 || n > 3 {
			p.pos = start
			return f, p.errorf("invalid occurrence")
		}
		f.occurrence = Occurrence{s: string(p.data[start:p.pos])}
		f.hasOcc = true
	}

	if p.eof() || p.data[p.pos] != ' ' {
		return f, p.errorf("expected space after tag")
	}
	p.pos++

	for {
		if p.eof() {
			return f, p.errorf("unexpected end of input, expected field terminator")
		}
		switch p.data[p.pos] {
		case FieldTerminator:
			p.pos++
			return f, nil
		case UnitSeparator:
			p.pos++
			sf, err := p.parseSubfield()
			if err != nil {
				return f, err
			}
			f.subfields = append(f.subfields, sf)
		default:
			return f, p.errorf("expected unit separator or field terminator")
		}
	}
}

func (p *lineParser) parseSubfield() (Subfield, error) {
	if p.eof() || !IsValidSubfieldCode(p.data[p.pos]) {
		return Subfield{}, p.errorf("invalid subfield code")
	}
	code := SubfieldCode(p.data[p.pos])
	p.pos++

	start := p.pos
	for !p.eof() {
		c := p.data[p.pos]
		if c == UnitSeparator || c == FieldTerminator {
			break
		}
		p.pos++
	}
	return Subfield{code: code, value: SubfieldValue(p.data[start:p.pos])}, nil
}
