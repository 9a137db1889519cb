// Package httpner recognises entities through a token-classification
// service speaking the Hugging Face inference format.
package httpner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/verdict-cli/internal/adapters/driven/llm/transport"
	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.EntityRecognizer = (*Client)(nil)

// Defaults.
const (
	DefaultTimeout = 30 * time.Second

	// AggregationSimple merges sub-word tokens into whole entity spans.
	AggregationSimple = "simple"

	pingText = "בית המשפט העליון בירושלים"
)

// Client posts text to a token-classification endpoint.
type Client struct {
	http     *transport.Client
	endpoint string
}

type request struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type parameters struct {
	AggregationStrategy string `json:"aggregation_strategy"`
}

type span struct {
	EntityGroup string  `json:"entity_group"`
	Entity      string  `json:"entity"`
	Word        string  `json:"word"`
	Score       float64 `json:"score"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
}

// New creates a client from settings. An empty endpoint is an error.
func New(cfg domain.NERSettings) (*Client, error) {
	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("%w: ner endpoint is required", domain.ErrNotConfigured)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var opts []transport.Option
	if cfg.Token != "" {
		opts = append(opts, transport.WithHeader("Authorization", "Bearer "+cfg.Token))
	}

	return &Client{
		http:     transport.New("ner", timeout, opts...),
		endpoint: cfg.Endpoint,
	}, nil
}

// Recognize returns aggregated entity spans in the order the service
// reports them. Blank spans are dropped.
func (c *Client) Recognize(ctx context.Context, text string) ([]domain.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	req := request{
		Inputs:     text,
		Parameters: parameters{AggregationStrategy: AggregationSimple},
	}
	var spans []span
	if err := c.http.PostJSON(ctx, c.endpoint, req, &spans); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNERUnavailable, err)
	}

	entities := make([]domain.Entity, 0, len(spans))
	for _, s := range spans {
		word := cleanWord(s.Word)
		if word == "" {
			continue
		}
		label := s.EntityGroup
		if label == "" {
			label = s.Entity
		}
		entities = append(entities, domain.Entity{
			Group: normaliseGroup(label),
			Text:  word,
			Score: s.Score,
		})
	}
	return entities, nil
}

// Ping runs a short recognition to confirm the model is loaded.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Recognize(ctx, pingText)
	return err
}

// normaliseGroup strips IOB prefixes and maps long-form labels onto the
// short groups, so "B-PER" and "PERSON" both become "PER".
func normaliseGroup(label string) string {
	label = strings.ToUpper(strings.TrimSpace(label))
	if len(label) > 2 && (label[:2] == "B-" || label[:2] == "I-" || label[:2] == "E-" || label[:2] == "S-") {
		label = label[2:]
	}
	switch label {
	case "PERSON", "PERS":
		return domain.EntityPerson
	case "ORGANIZATION", "ORGANISATION":
		return domain.EntityOrganization
	case "LOCATION", "GPE", "FAC":
		return domain.EntityLocation
	case "TIMEX", "TIME":
		return domain.EntityDate
	}
	return label
}

// cleanWord removes word-piece markers left by some tokenizers.
func cleanWord(w string) string {
	w = strings.ReplaceAll(w, "##", "")
	return strings.TrimSpace(w)
}
