package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pica/internal/record"
	"github.com/roach88/pica/internal/testutil"
)

func TestParse_SimpleRecord(t *testing.T) {
	data := []byte("003@ \x1f0123456789X\x1e012A/01 \x1faabc\x1fbdef\x1e\n")

	rec, err := record.Parse(data)
	require.NoError(t, err)
	require.Equal(t, 2, rec.Len())

	ppn, ok := rec.PPN()
	assert.True(t, ok)
	assert.Equal(t, "123456789X", ppn)

	f := rec.Fields()[1]
	assert.Equal(t, "012A", f.Tag().String())
	occ, ok := f.Occurrence()
	assert.True(t, ok)
	assert.Equal(t, "01", occ.String())
	require.Len(t, f.Subfields(), 2)
	assert.Equal(t, record.SubfieldCode('b'), f.Subfields()[1].Code())
	assert.Equal(t, "def", f.Subfields()[1].Value())
}

func TestParse_EmptyValuesAndFields(t *testing.T) {
	rec, err := record.Parse([]byte("002@ \x1e003@ \x1f0\x1e\n"))
	require.NoError(t, err)
	require.Equal(t, 2, rec.Len())

	assert.Empty(t, rec.Fields()[0].Subfields())
	v, ok := rec.Fields()[1].First('0')
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int
	}{
		{"empty input", "", 0},
		{"only line feed", "\n", 0},
		{"invalid tag level", "303@ \x1f0123\x1e\n", 0},
		{"invalid tag suffix", "003a \x1f0123\x1e\n", 3},
		{"occurrence too short", "012A/1 \x1faabc\x1e\n", 5},
		{"occurrence too long", "012A/0001 \x1faabc\x1e\n", 5},
		{"missing space", "003@\x1f0123\x1e\n", 4},
		{"invalid subfield code", "003@ \x1f!123\x1e\n", 6},
		{"missing field terminator", "003@ \x1f0123\n", 11},
		{"missing line feed", "003@ \x1f0123\x1e", 11},
		{"trailing data", "003@ \x1f0123\x1e\nxyz", 12},
		{"garbage between fields", "003@ \x1f0123\x1ex\n", 11},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := record.Parse([]byte(tc.input))
			require.Error(t, err)
			assert.Nil(t, rec)
			assert.True(t, record.IsParseError(err))

			var pe *record.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tc.offset, pe.Offset)
			assert.Equal(t, []byte(tc.input), pe.Data)
			assert.Contains(t, err.Error(), "invalid record")
		})
	}
}

func TestParse_ErrorDataIsCopy(t *testing.T) {
	input := []byte("003@ \x1f0123\n")
	_, err := record.Parse(input)

	var pe *record.ParseError
	require.ErrorAs(t, err, &pe)
	input[0] = 'x'
	assert.Equal(t, []byte("003@ \x1f0123\n"), pe.Data)

	_, err = record.Parse([]byte{})
	require.ErrorAs(t, err, &pe)
	assert.NotNil(t, pe.Data)
	assert.Empty(t, pe.Data)
}

func TestParse_RoundTrip(t *testing.T) {
	records := []string{
		"003@ $0123456789X",
		"003@ $0123\n012A/01 $aabc$bdef\n012A/02 $a$b",
		"001@ $a5$01-2\n101@ $a1\n201A/001 $0ab$$c",
		"045E $e100$Ei$Hdnb\n045E $e110$Ei$Hdnb",
		"002@ ",
	}

	for _, display := range records {
		t.Run(display, func(t *testing.T) {
			rec := testutil.MustRecord(display)

			parsed, err := record.Parse(rec.Bytes())
			require.NoError(t, err)
			assert.Equal(t, rec, parsed)
			assert.Equal(t, rec.Bytes(), parsed.Bytes())
			assert.Equal(t, rec.Display(), parsed.Display())
		})
	}
}

func TestParse_CopiesInput(t *testing.T) {
	data := []byte("003@ \x1f0123\x1e\n")
	rec, err := record.Parse(data)
	require.NoError(t, err)

	data[7] = 'X'
	ppn, _ := rec.PPN()
	assert.Equal(t, "123", ppn, "parsed record must not alias the input buffer")
}
