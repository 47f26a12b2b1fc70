package record

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

var gzipMagic = []byte{0x1f, 0x8b}

// Reader reads records line by line from an input stream.
//
// Read returns io.EOF after the last record. A line that fails to parse
// yields a *ParseError with Line and Data set; the reader stays usable and
// the next call continues with the following line.
type Reader struct {
	br     *bufio.Reader
	closer io.Closer
	line   int
}

// NewReader returns a Reader on r. Gzip compressed input is detected by
// its magic bytes and decompressed transparently.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	rd := &Reader{br: br}

	magic, err := br.Peek(2)
	if err == nil && bytes.Equal(magic, gzipMagic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		rd.br = bufio.NewReaderSize(gz, 64*1024)
		rd.closer = gz
	}
	return rd, nil
}

// Open opens the named file for reading. The path "-" denotes stdin.
func Open(path string) (*Reader, error) {
	if path == "-" {
		return NewReader(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rd, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rd.closer = multiCloser{rd.closer, f}
	return rd, nil
}

// Read returns the next record.
func (r *Reader) Read() (*Record, error) {
	data, err := r.br.ReadBytes(LineFeed)
	if len(data) == 0 {
		if err == nil {
			err = io.EOF
		}
		return nil, err
	}
	if err != nil && err != io.EOF {
		return nil, err
	}
	r.line++

	rec, perr := Parse(data)
	if perr != nil {
		if pe, ok := perr.(*ParseError); ok {
			pe.Line = r.line
		}
		return nil, perr
	}
	return rec, nil
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int {
	return r.line
}

// Close releases the underlying file and decompressor, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Create opens the named file for writing. The path "-" denotes stdout.
// Output is gzip compressed if compress is set or the path ends in ".gz".
func Create(path string, compress bool) (*Writer, error) {
	if path == "" || path == "-" {
		return NewWriter(struct{ io.Writer }{os.Stdout}, compress), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return NewWriter(f, compress || strings.HasSuffix(path, ".gz")), nil
}

// ForEach reads every record of r and calls fn for it. Invalid lines are
// passed to onInvalid; if onInvalid is nil or returns an error, iteration
// stops with that error.
func ForEach(r *Reader, fn func(*Record) error, onInvalid func(*ParseError) error) error {
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			pe, ok := err.(*ParseError)
			if !ok || onInvalid == nil {
				return err
			}
			if err := onInvalid(pe); err != nil {
				return err
			}
			continue
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var first error
	for _, c := range m {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
