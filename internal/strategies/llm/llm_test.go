package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
)

type fakeLLM struct {
	reply    string
	err      error
	messages []driven.ChatMessage
	calls    int
}

func (f *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	f.calls++
	f.messages = messages
	return f.reply, f.err
}

func (f *fakeLLM) ModelName() string            { return "fake" }
func (f *fakeLLM) Ping(_ context.Context) error { return nil }
func (f *fakeLLM) Close() error                 { return nil }

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"bare", `{"a":"b"}`, `{"a":"b"}`},
		{"fenced", "```json\n{\"a\":\"b\"}\n```", `{"a":"b"}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Here you go:\n{\"a\":{\"b\":1}}\nThanks", `{"a":{"b":1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestExtractJSON_NoObject(t *testing.T) {
	_, err := ExtractJSON("I could not find anything.")
	assert.ErrorIs(t, err, domain.ErrSchemaViolation)
}

func TestDecodeFields_KeepsOrder(t *testing.T) {
	got, err := DecodeFields([]byte(`{"judge_name":"דוד כהן","court_name":null,"parties":["א","ב"],"case_number":12345}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"judge_name", "parties", "case_number"}, got.Names())
	v, _ := got.Get("parties")
	assert.Equal(t, []string{"א", "ב"}, v.Items())
	v, _ = got.Get("case_number")
	assert.Equal(t, "12345", v.String())
}

func TestDecodeFields_NotObject(t *testing.T) {
	_, err := DecodeFields([]byte(`["a"]`))
	assert.ErrorIs(t, err, domain.ErrSchemaViolation)
}

func TestBuildMessages(t *testing.T) {
	msgs := BuildMessages(strings.Repeat("א", 50), 10)

	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "court_name")
	assert.Contains(t, msgs[0].Content, "law_references")
	assert.Equal(t, "Document:\n"+strings.Repeat("א", 10), msgs[1].Content)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(domain.StrategyRegex, &fakeLLM{}, nil)
	assert.ErrorIs(t, err, domain.ErrUnknownStrategy)

	_, err = New(domain.StrategyOpenAI, nil, nil)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestStrategy_Extract(t *testing.T) {
	svc := &fakeLLM{reply: "```json\n{\"court_name\": \"בית המשפט העליון\", \"נתבעים\": [\"משה\"], \"summary\": null}\n```"}
	s, err := New(domain.StrategyAnthropic, svc, rate.NewLimiter(rate.Inf, 0))
	require.NoError(t, err)

	got, err := s.Extract(context.Background(), "doc", "טקסט פסק הדין")
	require.NoError(t, err)

	assert.Equal(t, domain.StrategyAnthropic, s.Name())
	assert.Equal(t, []string{"court_name", "נתבעים"}, got.Names())
	assert.Contains(t, svc.messages[1].Content, "טקסט פסק הדין")
}

func TestStrategy_Extract_Blank(t *testing.T) {
	svc := &fakeLLM{}
	s, err := New(domain.StrategyOllama, svc, nil)
	require.NoError(t, err)

	got, err := s.Extract(context.Background(), "doc", " ")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, svc.calls)
}

func TestStrategy_Extract_ServiceError(t *testing.T) {
	s, err := New(domain.StrategyOpenAI, &fakeLLM{err: errors.New("status 500")}, nil)
	require.NoError(t, err)

	_, err = s.Extract(context.Background(), "doc", "טקסט")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestStrategy_Extract_SchemaViolation(t *testing.T) {
	s, err := New(domain.StrategyOpenAI, &fakeLLM{reply: `{"court_name": {"nested": true}}`}, nil)
	require.NoError(t, err)

	_, err = s.Extract(context.Background(), "doc", "טקסט")
	assert.ErrorIs(t, err, domain.ErrSchemaViolation)
}

func TestStrategy_Extract_RateLimitCancelled(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(1e12), 1)
	require.True(t, limiter.Allow())

	s, err := New(domain.StrategyOpenAI, &fakeLLM{reply: `{}`}, limiter)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Extract(ctx, "doc", "טקסט")
	assert.Error(t, err)
}

type mapPrompts map[string]string

func (m mapPrompts) Load(name string) (string, error) {
	if p, ok := m[name]; ok {
		return p, nil
	}
	return "", errors.New("no prompt")
}

func (mapPrompts) Reload() {}

func TestBuildMessagesWith_Template(t *testing.T) {
	msgs := BuildMessagesWith("Keys:\n%s\nLists: %s", "text", 0)
	assert.Contains(t, msgs[0].Content, "- court_name (Court)")
	assert.Contains(t, msgs[0].Content, "Lists: parties, law_references")

	plain := BuildMessagesWith("Return JSON with 100% accuracy", "text", 0)
	assert.Equal(t, "Return JSON with 100% accuracy", plain[0].Content)
}

func TestStrategy_Extract_CustomPrompt(t *testing.T) {
	svc := &fakeLLM{reply: `{}`}
	s, err := New(domain.StrategyOpenAI, svc, nil, WithPrompts(mapPrompts{driven.PromptFieldExtraction: "Extract fields."}))
	require.NoError(t, err)

	_, err = s.Extract(context.Background(), "doc", "טקסט")
	require.NoError(t, err)
	assert.Equal(t, "Extract fields.", svc.messages[0].Content)
}

func TestStrategy_Extract_PromptFallback(t *testing.T) {
	svc := &fakeLLM{reply: `{}`}
	s, err := New(domain.StrategyOpenAI, svc, nil, WithPrompts(mapPrompts{}))
	require.NoError(t, err)

	_, err = s.Extract(context.Background(), "doc", "טקסט")
	require.NoError(t, err)
	assert.Contains(t, svc.messages[0].Content, "Hebrew court verdicts")
}
