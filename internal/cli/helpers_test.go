package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pica/internal/testutil"
)

const (
	adaRecord = `
003@ $0123456789X
002@ $0Tp1
028A $aLovelace$dAda$dKing
044H $aMathematik$aInformatik
`
	babbageRecord = `
003@ $0987654321
002@ $0Tp1
028A $aBabbage$dCharles
044H $aMathematik
`
	tolkienRecord = `
003@ $0111111111
002@ $0Ts1
021A $aDer @Herr der Ringe
`
)

// serialize returns the binary form of records given in display form.
func serialize(t *testing.T, records ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, r := range records {
		rec, err := testutil.ParseDisplay(r)
		require.NoError(t, err)
		buf.Write(rec.Bytes())
	}
	return buf.Bytes()
}

// writeFile writes data to a new file in a temp dir and returns its path.
func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

// writeRecords writes the records to a temp file and returns its path.
func writeRecords(t *testing.T, records ...string) string {
	t.Helper()
	return writeFile(t, "records.dat", serialize(t, records...))
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func textOpts() *RootOptions {
	return &RootOptions{Format: "text"}
}

func jsonOpts() *RootOptions {
	return &RootOptions{Format: "json"}
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
