package lint

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
)

// CSVSink writes findings as CSV rows "ppn,rule,level,message" after a
// header row.
type CSVSink struct {
	w      *csv.Writer
	header bool
}

func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w)}
}

func (s *CSVSink) Emit(_ context.Context, f Finding) error {
	if !s.header {
		s.header = true
		if err := s.w.Write([]string{"ppn", "rule", "level", "message"}); err != nil {
			return err
		}
	}
	return s.w.Write([]string{f.PPN, f.RuleID, string(f.Level), f.Message})
}

// Flush writes buffered rows.
func (s *CSVSink) Flush() error {
	s.w.Flush()
	return s.w.Error()
}

// JSONSink writes one JSON object per finding and line.
type JSONSink struct {
	enc *json.Encoder
}

func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{enc: json.NewEncoder(w)}
}

func (s *JSONSink) Emit(_ context.Context, f Finding) error {
	return s.enc.Encode(f)
}
