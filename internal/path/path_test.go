package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pica/internal/matcher"
	"github.com/roach88/pica/internal/testutil"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		input string
		width int
		str   string
	}{
		{"003@.0", 1, "003@.0"},
		{"012A/*.[ab]", 1, "012A/*.[ab]"},
		{"028A{a, d}", 2, "028A{a, d}"},
		{"  028A { (a,d) | a? }", 2, "028A { (a,d) | a? }"},
		{"0[12]2A/01-03{a}", 1, "0[12]2A/01-03{a}"},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			p, err := ParsePath(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.width, p.Width())
			assert.Equal(t, tc.str, p.String())
		})
	}
}

func TestParsePath_Errors(t *testing.T) {
	tests := []struct {
		input   string
		snippet string
	}{
		{"003@", "end of input"},
		{"003@.", "end of input"},
		{"012A{}", `"}"`},
		{"012A{a | b}", `"}"`},
		{"012A{(a, b}", `"}"`},
		{"012A{a, b", "end of input"},
		{"X12A.a", `"X12A.a"`},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			_, err := ParsePath(tc.input)
			require.Error(t, err)

			var ce *matcher.CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "path", ce.Kind)
			assert.Equal(t, tc.snippet, ce.Snippet())
		})
	}
}

func TestPath_Eval(t *testing.T) {
	rec := testutil.MustRecord(`
003@ $0123456789X
012A $as$az$af
028A $aLovelace$dAda$dKing
028C/01 $aBabbage$dCharles$4aut
028C/02 $aByron$dGeorge$4oth
`)

	tests := []struct {
		name string
		path string
		opts *Options
		want [][]string
	}{
		{"single value", "003@.0", nil, [][]string{{"123456789X"}}},
		{"repeated values", "012A.a", nil, [][]string{{"s"}, {"z"}, {"f"}}},
		{"squashed values", "012A.a", &Options{Separator: "|", Squash: true}, [][]string{{"s|z|f"}}},
		{"two groups", "028A{a, d}", nil, [][]string{{"Lovelace", "Ada"}, {"Lovelace", "King"}}},
		{"two groups squashed", "028A{a, d}", &Options{Separator: "; ", Squash: true}, [][]string{{"Lovelace", "Ada; King"}}},
		{"group with code set", "028A{[ad]}", nil, [][]string{{"Lovelace"}, {"Ada"}, {"King"}}},
		{"missing group", "028A{a, c}", nil, [][]string{{"Lovelace", ""}}},
		{"missing field", "004@.0", nil, [][]string{{""}}},
		{"missing field two groups", "004@{0, 1}", nil, [][]string{{"", ""}}},
		{"occurrence wildcard", "028C/*.a", nil, [][]string{{"Babbage"}, {"Byron"}}},
		{"occurrence none", "028C.a", nil, [][]string{{""}}},
		{"filter", "028C/*{a, d | 4 == 'aut'}", nil, [][]string{{"Babbage", "Charles"}}},
		{"filter no match", "028C/*{a | 4 == 'AUT'}", nil, [][]string{{""}}},
		{"filter case ignore", "028C/*{a | 4 == 'AUT'}", &Options{Options: matcher.Options{CaseIgnore: true}}, [][]string{{"Babbage"}}},
		{"filter on other code", "028C/*{(a) | d =^ 'G'}", nil, [][]string{{"Byron"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := MustParsePath(tc.path)
			assert.Equal(t, tc.want, p.Eval(rec, tc.opts))
		})
	}
}

func TestPath_Values(t *testing.T) {
	rec := testutil.MustRecord(`
003@ $0123
041A/01 $9040001234$aFoo
041A/02 $9040005678
041A/03 $aBar
`)
	p := MustParsePath("041A/*.9")
	assert.Equal(t, []string{"040001234", "040005678"}, p.Values(rec, nil))

	p = MustParsePath("041A/*{9, a}")
	assert.Equal(t, []string{"040001234", "Foo", "040005678", "Bar"}, p.Values(rec, nil))

	assert.Len(t, MustParsePath("041A/*{a | 9?}").Fields(rec, nil), 2)
}
