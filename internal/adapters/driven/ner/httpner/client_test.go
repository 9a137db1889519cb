package httpner

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(domain.NERSettings{Endpoint: srv.URL, Token: "hf-secret"})
	require.NoError(t, err)
	return c
}

func TestNew_RequiresEndpoint(t *testing.T) {
	_, err := New(domain.NERSettings{})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestRecognize(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer hf-secret", r.Header.Get("Authorization"))

		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "simple", req.Parameters.AggregationStrategy)
		assert.Contains(t, req.Inputs, "כהן")

		_, _ = w.Write([]byte(`[
			{"entity_group":"PER","word":"משה כהן","score":0.98,"start":0,"end":7},
			{"entity_group":"ORG","word":"בית המשפט המחוזי","score":0.91},
			{"entity":"B-LOC","word":"##ירושלים","score":0.8},
			{"entity_group":"MISC","word":"  ","score":0.1}
		]`))
	})

	got, err := c.Recognize(context.Background(), "השופט משה כהן")
	require.NoError(t, err)
	assert.Equal(t, []domain.Entity{
		{Group: domain.EntityPerson, Text: "משה כהן", Score: 0.98},
		{Group: domain.EntityOrganization, Text: "בית המשפט המחוזי", Score: 0.91},
		{Group: domain.EntityLocation, Text: "ירושלים", Score: 0.8},
	}, got)
}

func TestRecognize_BlankTextSkipsCall(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("service should not be called")
	})
	got, err := c.Recognize(context.Background(), "  \n")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecognize_ServiceError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad input"}`))
	})
	_, err := c.Recognize(context.Background(), "טקסט")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNERUnavailable))
	assert.Contains(t, err.Error(), "bad input")
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	assert.NoError(t, c.Ping(context.Background()))
}

func TestNormaliseGroup(t *testing.T) {
	tests := map[string]string{
		"PER":         "PER",
		"B-PER":       "PER",
		"i-org":       "ORG",
		"PERSON":      "PER",
		"LOCATION":    "LOC",
		"GPE":         "LOC",
		"TIMEX":       "DATE",
		"MISC":        "MISC",
		"WORK_OF_ART": "WORK_OF_ART",
	}
	for in, want := range tests {
		assert.Equal(t, want, normaliseGroup(in), in)
	}
}
