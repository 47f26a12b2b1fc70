package matcher

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pica/internal/testutil"
)

const adaRecord = `
003@ $0123456789X
002@ $0Tp1
012A/01 $aabc$bdef
012A/02 $aABC
028A $aLovelace$dAda$dKing
044H $aCMS$aFoo
`

func TestRecordMatcher_Matches(t *testing.T) {
	rec := testutil.MustRecord(adaRecord)

	tests := []struct {
		expr string
		want bool
	}{
		{"003@?", true},
		{"004@?", false},
		{"003@.0 == '123456789X'", true},
		{"003@.0 =^ '9'", false},
		{"012A/*.a == 'ABC'", true},
		{"012A.a == 'abc'", false},
		{"012A/01.a == 'abc'", true},
		{"012A/01-02{a? && b?}", true},
		{"012A/02{a? && b?}", false},
		{"012A/* {b == 'def'}", true},
		{"01[23]A/*.a?", true},
		{"028A{a == 'Lovelace' && d == 'King'}", true},
		{"028A{ALL d =^ 'A'}", true},
		{"028A{ALL [ad] =^ 'K'}", false},
		{"028A.#d == 2", true},
		{"#012A/* == 2", true},
		{"#012A == 0", true},
		{"#028A{d?} == 1", true},
		{"#012A/*{b?} > 1", false},
		{"#044H >= 1", true},
		{"!004@?", true},
		{"!003@?", false},
		{"003@? && 004@?", false},
		{"004@? || 002@.0 =^ 'Tp'", true},
		{"003@? ^ 002@?", false},
		{"003@? ^ 004@?", true},
		{"004@? && 003@? || 002@?", true},
		{"004@? && (003@? || 002@?)", false},
		{"!(004@? || 005@?)", true},
	}

	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			m, err := ParseRecordMatcher(tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.want, m.Matches(rec, nil))
		})
	}
}

func TestRecordMatcher_CaseIgnore(t *testing.T) {
	rec := testutil.MustRecord(adaRecord)
	m := MustParseRecordMatcher("012A/01.a == 'ABC'")

	assert.False(t, m.Matches(rec, DefaultOptions()))
	assert.True(t, m.Matches(rec, &Options{CaseIgnore: true, StrsimThreshold: DefaultStrsimThreshold}))
}

func TestRecordMatcher_Similarity(t *testing.T) {
	rec := testutil.MustRecord(adaRecord)
	m := MustParseRecordMatcher("028A.a =* 'Lovelase'")

	assert.True(t, m.Matches(rec, nil))
	assert.False(t, m.Matches(rec, &Options{StrsimThreshold: 0.95}))
}

func TestRecordMatcher_Tree(t *testing.T) {
	m := MustParseRecordMatcher("003@? && !004@?")

	root, ok := m.Root().(*CompositeNode)
	require.True(t, ok)
	assert.Equal(t, And, root.Op)

	_, ok = root.Lhs.(*FieldNode)
	assert.True(t, ok)
	not, ok := root.Rhs.(*NotNode)
	require.True(t, ok)
	assert.Equal(t, "004@?", not.Inner.String())

	card := MustParseRecordMatcher("#012A/*{b?} > 1").Root()
	assert.Equal(t, "#012A/*{b?} > 1", card.String())
}

func TestRecordMatcher_Reparse(t *testing.T) {
	rec := testutil.MustRecord(adaRecord)

	for _, expr := range []string{
		"003@? && 012A/01{a == 'abc' || b? }",
		"  !  028A.a =^ 'Love'",
		"#012A/* >= 2 ^ 044H?",
	} {
		m := MustParseRecordMatcher(expr)
		again, err := ParseRecordMatcher(m.Root().String())
		require.NoError(t, err, m.Root().String())
		assert.Equal(t, m.Matches(rec, nil), again.Matches(rec, nil))
		assert.Equal(t, m.Root().String(), again.Root().String())
	}
}

func TestRecordMatcher_ConcurrentUse(t *testing.T) {
	rec := testutil.MustRecord(adaRecord)
	m := MustParseRecordMatcher("028A{a =~ '^Love' && d in ['King', 'Byron']}")
	opts := &Options{CaseIgnore: true, StrsimThreshold: DefaultStrsimThreshold}

	var wg sync.WaitGroup
	results := make([]bool, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = m.Matches(rec, opts)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.True(t, got)
	}
}

func TestFieldMatcher(t *testing.T) {
	f := testutil.MustField("012A/01 $aabc$bdef")

	tests := []struct {
		expr   string
		want   bool
		String string
	}{
		{"012A/01?", true, "012A/01?"},
		{"012A?", false, "012A?"},
		{"012A/*.b == \"def\"", true, "012A/*.b == 'def'"},
		{"012A/01 {a? && !c?}", true, "012A/01{a? && !c?}"},
		{"0.2A/01.a?", true, "0.2A/01.a?"},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			m, err := ParseFieldMatcher(tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.want, m.Matches(f, nil))
			assert.Equal(t, tc.String, m.String())
		})
	}
}

func TestParseRecordMatcher_Errors(t *testing.T) {
	tests := []struct {
		input   string
		snippet string
	}{
		{"003@", "end of input"},
		{"003@? &&", "end of input"},
		{"003@? 002@?", `"002@?"`},
		{"#003@ =^ 1", `"=^ 1"`},
		{"(003@?", "end of input"},
		{"003@.a? && b?", `"b?"`},
		{"03@?", `"@?"`},
		{"003@{a?", "end of input"},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			_, err := ParseRecordMatcher(tc.input)
			require.Error(t, err)
			assert.True(t, IsCompileError(err))

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "record matcher", ce.Kind)
			assert.Equal(t, tc.input, ce.Input)
			assert.Equal(t, tc.snippet, ce.Snippet())
		})
	}

	assert.Panics(t, func() { MustParseRecordMatcher("003@") })
}
