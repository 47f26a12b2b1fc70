package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCommand(t *testing.T) {
	in := writeRecords(t, adaRecord, babbageRecord, tolkienRecord)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"and then", []string{"028A{ a <$> ', ' d }"}, "Lovelace, Ada\nBabbage, Charles\n"},
		{"modifier", []string{"028A{ (?u a) <*> ', ' d }"}, "LOVELACE, Ada\nBABBAGE, Charles\n"},
		{"overread stripped", []string{"021A{ a }"}, "Der Herr der Ringe\n"},
		{"overread kept", []string{"--keep-overread", "021A{ a }"}, "Der @Herr der Ringe\n"},
		{"where", []string{"--where", "044H.a == 'Informatik'", "028A{ a }"}, "Lovelace\n"},
		{"filter case ignore", []string{"-i", "028A{ a | d == 'charles' }"}, "Babbage\n"},
		{"limit", []string{"-l", "1", "028A{ a }"}, "Lovelace\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, NewFormatCommand(textOpts()), append(tc.args, in)...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}

	_, err := execute(t, NewFormatCommand(textOpts()), "028A{a <$> d <*> c}", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot mix")
}

func TestFrequencyCommand_Golden(t *testing.T) {
	in := writeRecords(t, adaRecord, babbageRecord, tolkienRecord)

	out, err := execute(t, NewFrequencyCommand(textOpts()), "-H", "value,count", "002@.0", in)
	require.NoError(t, err)

	g := newGoldie(t)
	g.Assert(t, "frequency", []byte(out))
}

func TestFrequencyCommand(t *testing.T) {
	in := writeRecords(t, adaRecord, babbageRecord, tolkienRecord, adaRecord)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"counts once per record", []string{"044H.a"}, "Mathematik,3\nInformatik,2\n"},
		{"reverse", []string{"--reverse", "044H.a"}, "Informatik,2\nMathematik,3\n"},
		{"threshold", []string{"--threshold", "3", "044H.a"}, "Mathematik,3\n"},
		{"limit", []string{"--limit", "1", "002@.0"}, "Tp1,3\n"},
		{"sorted by count", []string{"028A.a"}, "Lovelace,2\nBabbage,1\n"},
		{"tsv", []string{"--tsv", "--where", "021A?", "002@.0"}, "Ts1\t1\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, NewFrequencyCommand(textOpts()), append(tc.args, in)...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestFrequencyCommand_JSON(t *testing.T) {
	in := writeRecords(t, adaRecord, babbageRecord)

	out, err := execute(t, NewFrequencyCommand(jsonOpts()), "044H.a", in)
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   []Frequency `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []Frequency{{"Mathematik", 2}, {"Informatik", 1}}, resp.Data)
}
