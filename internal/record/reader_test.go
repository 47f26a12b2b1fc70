package record_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pica/internal/record"
)

const twoRecords = "003@ \x1f0123\x1e\n003@ \x1f0456\x1e\n"

func TestReader_ReadsAllRecords(t *testing.T) {
	rd, err := record.NewReader(strings.NewReader(twoRecords))
	require.NoError(t, err)

	var ppns []string
	err = record.ForEach(rd, func(r *record.Record) error {
		ppn, _ := r.PPN()
		ppns = append(ppns, ppn)
		return nil
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"123", "456"}, ppns)
	assert.Equal(t, 2, rd.Line())
}

func TestReader_InvalidLineCarriesLineNumber(t *testing.T) {
	input := "003@ \x1f0123\x1e\nbroken\n003@ \x1f0456\x1e\n"
	rd, err := record.NewReader(strings.NewReader(input))
	require.NoError(t, err)

	_, err = rd.Read()
	require.NoError(t, err)

	_, err = rd.Read()
	var pe *record.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, []byte("broken\n"), pe.Data)
	assert.Contains(t, err.Error(), "invalid record on line 2")

	rec, err := rd.Read()
	require.NoError(t, err, "reader must continue after an invalid line")
	ppn, _ := rec.PPN()
	assert.Equal(t, "456", ppn)

	_, err = rd.Read()
	assert.Equal(t, io.EOF, err)
}

func TestForEach_SkipsOrAborts(t *testing.T) {
	input := "broken\n003@ \x1f0456\x1e\n"

	rd, err := record.NewReader(strings.NewReader(input))
	require.NoError(t, err)
	err = record.ForEach(rd, func(*record.Record) error { return nil }, nil)
	assert.True(t, record.IsParseError(err))

	rd, err = record.NewReader(strings.NewReader(input))
	require.NoError(t, err)
	var invalid, valid int
	err = record.ForEach(rd,
		func(*record.Record) error { valid++; return nil },
		func(*record.ParseError) error { invalid++; return nil },
	)
	require.NoError(t, err)
	assert.Equal(t, 1, valid)
	assert.Equal(t, 1, invalid)
}

func TestWriterAndReader_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dat.gz")

	w, err := record.Create(path, false)
	require.NoError(t, err)

	rd, err := record.NewReader(strings.NewReader(twoRecords))
	require.NoError(t, err)
	require.NoError(t, record.ForEach(rd, w.Write, nil))
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2], "output must be gzip compressed")

	in, err := record.Open(path)
	require.NoError(t, err)
	defer in.Close()

	var out bytes.Buffer
	require.NoError(t, record.ForEach(in, func(r *record.Record) error {
		_, err := r.WriteTo(&out)
		return err
	}, nil))
	assert.Equal(t, twoRecords, out.String())
}

func TestWriter_Plain(t *testing.T) {
	var buf bytes.Buffer
	w := record.NewWriter(&buf, false)

	rec, err := record.Parse([]byte("003@ \x1f0123\x1e\n"))
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.WriteRaw([]byte("raw\n")))
	require.NoError(t, w.Close())

	assert.Equal(t, "003@ \x1f0123\x1e\nraw\n", buf.String())
}
