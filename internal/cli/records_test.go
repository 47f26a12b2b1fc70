package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pica/internal/matcher"
	"github.com/roach88/pica/internal/record"
	"github.com/roach88/pica/internal/testutil"
)

func readAll(t *testing.T, path string) []*record.Record {
	t.Helper()
	rd, err := record.Open(path)
	require.NoError(t, err)
	defer rd.Close()

	var out []*record.Record
	for {
		r, err := rd.Read()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, r)
	}
}

func TestCatCommand(t *testing.T) {
	a := writeRecords(t, adaRecord, babbageRecord)
	b := writeRecords(t, tolkienRecord, adaRecord)

	out, err := execute(t, NewCatCommand(textOpts()), a, b)
	require.NoError(t, err)
	assert.Equal(t, string(serialize(t, adaRecord, babbageRecord, tolkienRecord, adaRecord)), out)

	out, err = execute(t, NewCatCommand(textOpts()), "--unique", a, b)
	require.NoError(t, err)
	assert.Equal(t, string(serialize(t, adaRecord, babbageRecord, tolkienRecord)), out)
}

func TestCatCommand_GzipOutput(t *testing.T) {
	in := writeRecords(t, adaRecord, babbageRecord)
	outPath := filepath.Join(t.TempDir(), "out.dat.gz")

	_, err := execute(t, NewCatCommand(textOpts()), "-o", outPath, in)
	require.NoError(t, err)

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2])

	recs := readAll(t, outPath)
	require.Len(t, recs, 2)
	ppn, _ := recs[1].PPN()
	assert.Equal(t, "987654321", ppn)
}

func TestCountCommand(t *testing.T) {
	a := writeRecords(t, adaRecord, babbageRecord)
	b := writeRecords(t, tolkienRecord)

	out, err := execute(t, NewCountCommand(textOpts()), a, b)
	require.NoError(t, err)
	assert.Equal(t, "records:   3\nfields:    11\nsubfields: 15\n", out)

	out, err = execute(t, NewCountCommand(textOpts()), "--records", a, b)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	out, err = execute(t, NewCountCommand(textOpts()), "--subfields", "-j", "1", a, b)
	require.NoError(t, err)
	assert.Equal(t, "15\n", out)

	_, err = execute(t, NewCountCommand(textOpts()), "--records", "--fields", a)
	require.Error(t, err)
}

func TestCountCommand_JSON(t *testing.T) {
	in := writeRecords(t, adaRecord)
	out, err := execute(t, NewCountCommand(jsonOpts()), in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"records":1,"fields":4,"subfields":7,"invalid":0}}`, out)
}

func TestCountAll_Concurrent(t *testing.T) {
	var paths []string
	for i := 0; i < 8; i++ {
		paths = append(paths, writeRecords(t, adaRecord, babbageRecord))
	}
	total, err := countAll(context.Background(), paths, false, 3)
	require.NoError(t, err)
	assert.Equal(t, 16, total.Records)
	assert.Equal(t, 64, total.Fields)
}

func TestFilterCommand(t *testing.T) {
	in := writeRecords(t, adaRecord, babbageRecord, tolkienRecord)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"match", []string{"002@.0 == 'Tp1'"}, []string{adaRecord, babbageRecord}},
		{"invert", []string{"--invert", "002@.0 == 'Tp1'"}, []string{tolkienRecord}},
		{"limit", []string{"-l", "1", "002@.0 == 'Tp1'"}, []string{adaRecord}},
		{"ignore case", []string{"-i", "028A.a == 'BABBAGE'"}, []string{babbageRecord}},
		{"and", []string{"002@.0 == 'Tp1'", "--and", "044H.a == 'Informatik'"}, []string{adaRecord}},
		{"or", []string{"021A?", "--or", "028A.a == 'Babbage'"}, []string{babbageRecord, tolkienRecord}},
		{"similarity", []string{"--strsim-threshold", "0.5", "028A.a =* 'Lovelock'"}, []string{adaRecord}},
		{"no match", []string{"045E?"}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, NewFilterCommand(textOpts()), append(tc.args, in)...)
			require.NoError(t, err)
			assert.Equal(t, string(serialize(t, tc.want...)), out)
		})
	}
}

func TestFilterCommand_Errors(t *testing.T) {
	in := writeRecords(t, adaRecord)

	_, err := execute(t, NewFilterCommand(textOpts()), "003@.0 ==", in)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.True(t, matcher.IsCompileError(err))

	_, err = execute(t, NewFilterCommand(textOpts()), "--strsim-threshold", "2", "003@?", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strsim-threshold")

	_, err = execute(t, NewFilterCommand(textOpts()), "003@?", filepath.Join(t.TempDir(), "missing.dat"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input")
}

func TestFilterCommand_InvalidInput(t *testing.T) {
	data := append(serialize(t, adaRecord), []byte("not a record\n")...)
	data = append(data, serialize(t, babbageRecord)...)
	in := writeFile(t, "mixed.dat", data)

	_, err := execute(t, NewFilterCommand(textOpts()), "003@?", in)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.True(t, record.IsParseError(err))
	assert.Contains(t, err.Error(), "line 2")

	out, err := execute(t, NewFilterCommand(textOpts()), "-s", "003@?", in)
	require.NoError(t, err)
	assert.Equal(t, string(serialize(t, adaRecord, babbageRecord)), out)
}

func TestInvalidCommand(t *testing.T) {
	data := append(serialize(t, adaRecord), []byte("not a record\n")...)
	data = append(data, serialize(t, babbageRecord)...)
	data = append(data, []byte("003@ \x1f0")...)
	in := writeFile(t, "mixed.dat", data)

	out, err := execute(t, NewInvalidCommand(textOpts()), in)
	require.NoError(t, err)
	assert.Equal(t, "not a record\n003@ \x1f0\n", out)
}

func TestPrintCommand(t *testing.T) {
	in := writeRecords(t, adaRecord, tolkienRecord)

	out, err := execute(t, NewPrintCommand(textOpts()), in)
	require.NoError(t, err)

	want := testutil.MustRecord(adaRecord).Display() + "\n" + testutil.MustRecord(tolkienRecord).Display() + "\n"
	assert.Equal(t, want, out)
	assert.Contains(t, out, "021A $aDer @Herr der Ringe\n")

	out, err = execute(t, NewPrintCommand(textOpts()), "--limit", "1", in)
	require.NoError(t, err)
	assert.Equal(t, testutil.MustRecord(adaRecord).Display()+"\n", out)
}

func TestHashCommand(t *testing.T) {
	in := writeRecords(t, adaRecord, babbageRecord)
	ada := testutil.MustRecord(adaRecord)
	babbage := testutil.MustRecord(babbageRecord)

	out, err := execute(t, NewHashCommand(textOpts()), in)
	require.NoError(t, err)
	assert.Equal(t, "ppn,hash\n123456789X,"+ada.Hash()+"\n987654321,"+babbage.Hash()+"\n", out)

	out, err = execute(t, NewHashCommand(textOpts()), "--tsv", in)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "ppn\thash\n123456789X\t"))
}

func TestPartitionCommand(t *testing.T) {
	in := writeRecords(t, adaRecord, babbageRecord, tolkienRecord)
	dir := filepath.Join(t.TempDir(), "parts")

	_, err := execute(t, NewPartitionCommand(textOpts()), "002@.0", "--outdir", dir, in)
	require.NoError(t, err)

	assert.Len(t, readAll(t, filepath.Join(dir, "Tp1.dat")), 2)
	assert.Len(t, readAll(t, filepath.Join(dir, "Ts1.dat")), 1)

	_, err = execute(t, NewPartitionCommand(textOpts()), "044H.a", "--outdir", dir, "--gzip", in)
	require.NoError(t, err)
	assert.Len(t, readAll(t, filepath.Join(dir, "Mathematik.dat.gz")), 2)
	assert.Len(t, readAll(t, filepath.Join(dir, "Informatik.dat.gz")), 1)

	_, err = execute(t, NewPartitionCommand(textOpts()), "002@.0", "--outdir", dir, "--template", "x.dat", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must contain {}")
}

func TestPartitionFile(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "a_b.dat"), partitionFile("out", "{}.dat", "a/b"))
	assert.Equal(t, filepath.Join("out", "__.dat"), partitionFile("out", "{}.dat", ".."))
}
