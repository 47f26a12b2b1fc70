package lint

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pica/internal/matcher"
	"github.com/roach88/pica/internal/path"
	"github.com/roach88/pica/internal/record"
	"github.com/roach88/pica/internal/testutil"
)

func writeRecords(t *testing.T, lines ...[]byte) Source {
	t.Helper()
	file := filepath.Join(t.TempDir(), "records.dat")
	require.NoError(t, os.WriteFile(file, bytes.Join(lines, nil), 0o644))
	return func() (*record.Reader, error) {
		return record.Open(file)
	}
}

type collectSink struct {
	findings []Finding
}

func (s *collectSink) Emit(_ context.Context, f Finding) error {
	s.findings = append(s.findings, f)
	return nil
}

func TestRunner_TwoPhase(t *testing.T) {
	src := writeRecords(t,
		testutil.MustRecord("003@ $0A\n028A $9B").Bytes(),
		testutil.MustRecord("003@ $0B\n028A $9C").Bytes(),
		testutil.MustRecord("003@ $0D\n010@ $axyz").Bytes(),
	)

	runner := &Runner{Rules: []Rule{
		{
			ID:    "link",
			Level: LevelError,
			Check: &Link{Source: path.MustParsePath("003@.0"), Target: path.MustParsePath("028A.9")},
		},
		{
			ID:    "lang",
			Level: LevelWarning,
			Check: &ISO639{Path: path.MustParsePath("010@.a")},
		},
		{
			ID:    "no-links",
			Level: LevelInfo,
			Check: &Filter{Matcher: matcher.MustParseRecordMatcher("!028A?")},
		},
	}}

	sink := &collectSink{}
	summary, err := runner.Run(context.Background(), src, sink)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Records)
	assert.Equal(t, 3, summary.Total())
	assert.Equal(t, []Finding{
		{PPN: "B", RuleID: "link", Level: LevelError, Message: "unresolved: C"},
		{PPN: "D", RuleID: "lang", Level: LevelWarning, Message: "invalid language code: xyz"},
		{PPN: "D", RuleID: "no-links", Level: LevelInfo},
	}, sink.findings)
}

func TestRunner_InvalidInput(t *testing.T) {
	src := writeRecords(t,
		testutil.MustRecord("003@ $0A").Bytes(),
		[]byte("garbage\n"),
		testutil.MustRecord("003@ $0B").Bytes(),
	)
	rules := []Rule{{
		ID:    "all",
		Level: LevelInfo,
		Check: &Filter{Matcher: matcher.MustParseRecordMatcher("003@?")},
	}}

	_, err := (&Runner{Rules: rules}).Run(context.Background(), src, &collectSink{})
	require.Error(t, err)
	assert.True(t, record.IsParseError(err))

	sink := &collectSink{}
	summary, err := (&Runner{Rules: rules, SkipInvalid: true}).Run(context.Background(), src, sink)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, 1, summary.Invalid)
	assert.Len(t, sink.findings, 2)
}

func TestRunner_Canceled(t *testing.T) {
	src := writeRecords(t, testutil.MustRecord("003@ $0A").Bytes())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rules := []Rule{{ID: "r", Level: LevelError, Check: &Filter{Matcher: matcher.MustParseRecordMatcher("003@?")}}}
	_, err := (&Runner{Rules: rules}).Run(ctx, src, &collectSink{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSinks(t *testing.T) {
	ctx := context.Background()
	f := Finding{PPN: "123", RuleID: "R1", Level: LevelError, Message: "a, b"}

	var buf bytes.Buffer
	csv := NewCSVSink(&buf)
	require.NoError(t, MultiSink{csv}.Emit(ctx, f))
	require.NoError(t, csv.Flush())
	assert.Equal(t, "ppn,rule,level,message\n123,R1,error,\"a, b\"\n", buf.String())

	buf.Reset()
	require.NoError(t, NewJSONSink(&buf).Emit(ctx, f))
	assert.JSONEq(t, `{"ppn":"123","rule":"R1","level":"error","message":"a, b"}`, buf.String())

	var got []Finding
	sink := SinkFunc(func(_ context.Context, f Finding) error {
		got = append(got, f)
		return nil
	})
	require.NoError(t, sink.Emit(ctx, f))
	assert.Equal(t, []Finding{f}, got)
}
