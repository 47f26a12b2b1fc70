package record

import (
	"bufio"
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Bytes returns the serialized record including its line feed.
func (r *Record) Bytes() []byte {
	var buf bytes.Buffer
	r.writeTo(&buf)
	return buf.Bytes()
}

// WriteTo writes the serialized record to w.
func (r *Record) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	r.writeTo(&buf)
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

func (r *Record) writeTo(buf *bytes.Buffer) {
	for i := range r.fields {
		r.fields[i].writeTo(buf)
	}
	buf.WriteByte(LineFeed)
}

func (f *Field) writeTo(buf *bytes.Buffer) {
	buf.WriteString(f.tag.String())
	if f.hasOcc {
		buf.WriteByte('/')
		buf.WriteString(f.occurrence.s)
	}
	buf.WriteByte(' ')
	for _, sf := range f.subfields {
		buf.WriteByte(UnitSeparator)
		buf.WriteByte(byte(sf.code))
		buf.WriteString(string(sf.value))
	}
	buf.WriteByte(FieldTerminator)
}

// Writer serializes records to an underlying stream, optionally gzip
// compressed. Close must be called to flush buffered data.
type Writer struct {
	bw     *bufio.Writer
	gz     *gzip.Writer
	closer io.Closer
}

// NewWriter returns a Writer on w. If compress is true the output is a
// gzip stream.
func NewWriter(w io.Writer, compress bool) *Writer {
	wr := &Writer{}
	if c, ok := w.(io.Closer); ok {
		wr.closer = c
	}
	if compress {
		wr.gz = gzip.NewWriter(w)
		wr.bw = bufio.NewWriter(wr.gz)
	} else {
		wr.bw = bufio.NewWriter(w)
	}
	return wr
}

// Write serializes one record.
func (w *Writer) Write(r *Record) error {
	_, err := r.WriteTo(w.bw)
	return err
}

// WriteRaw writes pre-serialized bytes, e.g. an invalid input line.
func (w *Writer) WriteRaw(b []byte) error {
	_, err := w.bw.Write(b)
	return err
}

// Flush flushes buffered data without closing the stream.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// Close flushes buffered data, finishes the gzip stream and closes the
// underlying writer if it is closable.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		return err
	}
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			return err
		}
	}
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}
