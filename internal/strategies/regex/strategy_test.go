package regex

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/logger"
	"github.com/custodia-labs/verdict-cli/internal/patterns"
)

const labelled = "בית המשפט המחוזי בתל אביב\nכבוד השופט דוד כהן\nתיק 12345/23\nתאריך: 15/12/2023"

const sample = `
        בית המשפט המחוזי בתל אביב
        כבוד השופט דוד כהן
        תיק 12345/23
        בין התובע: ישראל ישראלי
        לבין הנתבע: משה כהן
        תאריך: 15/12/2023
        `

func newStrategy() *Strategy {
	return New(patterns.Default(), DefaultWindow)
}

func value(t *testing.T, r domain.RawFields, f domain.FieldName) string {
	t.Helper()
	v, ok := r.Get(string(f))
	require.True(t, ok, "expected %s", f)
	return v.String()
}

func TestStrategy_Name(t *testing.T) {
	s := newStrategy()
	assert.Equal(t, domain.StrategyRegex, s.Name())
	assert.Equal(t, DefaultWindow, s.Window())
	assert.Equal(t, DefaultWindow, New(patterns.Default(), 0).Window())
}

func TestStrategy_Extract_Labelled(t *testing.T) {
	got, err := newStrategy().Extract(context.Background(), "doc-1", labelled)
	require.NoError(t, err)

	assert.Equal(t, "בית המשפט המחוזי בתל אביב", value(t, got, domain.FieldCourtName))
	assert.Equal(t, "כבוד השופט דוד כהן", value(t, got, domain.FieldJudgeName))
	assert.Equal(t, "12345/23", value(t, got, domain.FieldCaseNumber))
	assert.Equal(t, "12345/23", value(t, got, domain.FieldVerdictID))
	assert.Equal(t, "15/12/2023", value(t, got, domain.FieldVerdictDate))
	assert.Equal(t, "תל אביב", value(t, got, domain.FieldLocation))

	_, ok := got.Get(string(domain.FieldVerdictType))
	assert.False(t, ok)
}

func TestStrategy_Extract_Parties(t *testing.T) {
	got, err := newStrategy().Extract(context.Background(), "doc-2", sample)
	require.NoError(t, err)

	parties := value(t, got, domain.FieldParties)
	assert.Contains(t, parties, "ישראל ישראלי")
	assert.Contains(t, parties, "משה כהן")
	assert.Equal(t, "ישראל ישראלי", value(t, got, domain.FieldPetitioners))
	assert.Equal(t, "משה כהן", value(t, got, domain.FieldRespondents))

	_, ok := got.Get(string(domain.FieldVerdictType))
	assert.False(t, ok)
}

func TestStrategy_Extract_MissingJudge(t *testing.T) {
	text := "בית המשפט המחוזי בחיפה\nתיק 555/22\nתאריך: 01/02/2022"

	got, err := newStrategy().Extract(context.Background(), "doc-3", text)
	require.NoError(t, err)

	_, ok := got.Get(string(domain.FieldJudgeName))
	assert.False(t, ok)
	assert.Equal(t, "בית המשפט המחוזי בחיפה", value(t, got, domain.FieldCourtName))
	assert.Equal(t, "555/22", value(t, got, domain.FieldCaseNumber))
	assert.Equal(t, "01/02/2022", value(t, got, domain.FieldVerdictDate))
}

func TestStrategy_Extract_LineScanFallback(t *testing.T) {
	text := "בית המשפט המחוזי\nלפני: השופט א. לוי"

	got, err := newStrategy().Extract(context.Background(), "doc-4", text)
	require.NoError(t, err)
	assert.Equal(t, "לפני: השופט א. לוי", value(t, got, domain.FieldJudgeName))
}

func TestStrategy_Extract_KeywordOutsideWindow(t *testing.T) {
	text := "בית המשפט המחוזי\n" + strings.Repeat("שורה\n", 30) + "לפני: השופט א. לוי"

	got, err := newStrategy().Extract(context.Background(), "doc-5", text)
	require.NoError(t, err)

	_, ok := got.Get(string(domain.FieldJudgeName))
	assert.False(t, ok)
}

func TestStrategy_Extract_Blank(t *testing.T) {
	for _, text := range []string{"", "   \n\t  "} {
		got, err := newStrategy().Extract(context.Background(), "blank", text)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestStrategy_Extract_LargeContent(t *testing.T) {
	text := strings.Repeat("בית המשפט המחוזי\n", 1000) + strings.Repeat("כבוד השופט דוד כהן\n", 1000)

	got, err := newStrategy().Extract(context.Background(), "large", text)
	require.NoError(t, err)
	assert.Equal(t, "בית המשפט המחוזי", value(t, got, domain.FieldCourtName))
	assert.Equal(t, "כבוד השופט דוד כהן", value(t, got, domain.FieldJudgeName))
}

func TestStrategy_Extract_FieldFailureIsIsolated(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	logger.SetVerbose(true)
	original := primaryMatch
	defer func() {
		primaryMatch = original
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	}()

	primaryMatch = func(text string, f *patterns.Field) (string, bool) {
		if f.Name() == domain.FieldJudgeName {
			panic("boom")
		}
		return Match(text, f)
	}

	got, err := newStrategy().Extract(context.Background(), "doc-6", labelled)
	require.NoError(t, err)

	_, ok := got.Get(string(domain.FieldJudgeName))
	assert.False(t, ok)
	assert.Equal(t, "בית המשפט המחוזי בתל אביב", value(t, got, domain.FieldCourtName))
	assert.Contains(t, buf.String(), "extract judge_name for doc-6: boom")
}

func TestStrategy_Extract_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newStrategy().Extract(ctx, "doc-7", labelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStrategy_Extract_Concurrent(t *testing.T) {
	s := newStrategy()
	want, err := s.Extract(context.Background(), "ref", sample)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.Extract(context.Background(), "doc", sample)
			assert.NoError(t, err)
			assert.True(t, want.Equal(got))
		}()
	}
	wg.Wait()
}
