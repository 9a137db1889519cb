// Package ner implements the entity-recognition strategy. It asks an
// external model for entity spans and maps the first qualifying span of
// each group onto a field.
package ner

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
	"github.com/custodia-labs/verdict-cli/internal/logger"
)

var (
	courtMarkers   = []string{"בית", "דין"}
	judgeMarkers   = []string{"הרב", "שופט"}
	verdictMarkers = []string{"פסק", "החלטה", "צו"}
)

// Ensure Strategy implements the interface.
var _ driven.Strategy = (*Strategy)(nil)

// Strategy maps recognised entities onto fields.
type Strategy struct {
	recognizer driven.EntityRecognizer
}

// New creates an NER strategy over a recognizer.
func New(recognizer driven.EntityRecognizer) *Strategy {
	return &Strategy{recognizer: recognizer}
}

// Name returns the strategy name.
func (s *Strategy) Name() domain.StrategyName {
	return domain.StrategyNER
}

// Extract returns the mapped fields. Recognizer failures are returned
// wrapped in domain.ErrNERUnavailable.
func (s *Strategy) Extract(ctx context.Context, docID, text string) (domain.RawFields, error) {
	fields, _, err := s.Analyze(ctx, docID, text)
	return fields, err
}

// Analyze returns the mapped fields and the binary confidence: 1 when
// the model returned any entity at all, 0 otherwise.
func (s *Strategy) Analyze(ctx context.Context, docID, text string) (domain.RawFields, float64, error) {
	if strings.TrimSpace(text) == "" {
		return domain.RawFields{}, 0, nil
	}

	entities, err := s.recognizer.Recognize(ctx, text)
	if err != nil {
		return domain.RawFields{}, 0, fmt.Errorf("%w: %w", domain.ErrNERUnavailable, err)
	}
	logger.Debug("ner: %d entities in %s", len(entities), docID)

	return MapEntities(entities), Confidence(entities), nil
}

// Confidence is 1 when any entity was returned, else 0.
func Confidence(entities []domain.Entity) float64 {
	if len(entities) > 0 {
		return 1
	}
	return 0
}

// MapEntities picks at most one span per field. Spans are considered in
// encounter order and the first qualifying span wins:
//
//	ORG  containing a court marker  -> court_name
//	PER  containing a judge marker  -> judge_name
//	MISC all digits or with a slash -> case_number (and verdict_id)
//	DATE first span                 -> verdict_date
//	PER  first non-judge span       -> parties
//	MISC containing a ruling word   -> verdict_type
//	LOC  first span                 -> location
func MapEntities(entities []domain.Entity) domain.RawFields {
	found := make(map[domain.FieldName]string)
	set := func(f domain.FieldName, v string) {
		if _, ok := found[f]; !ok {
			found[f] = v
		}
	}

	for _, e := range entities {
		span := strings.TrimSpace(e.Text)
		if span == "" {
			continue
		}
		switch strings.ToUpper(e.Group) {
		case domain.EntityOrganization:
			if containsAny(span, courtMarkers) {
				set(domain.FieldCourtName, span)
			}
		case domain.EntityPerson:
			if containsAny(span, judgeMarkers) {
				set(domain.FieldJudgeName, span)
			} else {
				set(domain.FieldParties, span)
			}
		case domain.EntityMisc:
			if isCaseNumber(span) {
				set(domain.FieldCaseNumber, span)
			}
			if containsAny(span, verdictMarkers) {
				set(domain.FieldVerdictType, span)
			}
		case domain.EntityDate:
			set(domain.FieldVerdictDate, span)
		case domain.EntityLocation:
			set(domain.FieldLocation, span)
		}
	}
	if v, ok := found[domain.FieldCaseNumber]; ok {
		found[domain.FieldVerdictID] = v
	}

	out := make(domain.RawFields, 0, len(found))
	for _, f := range domain.AllFields() {
		v, ok := found[f]
		if !ok {
			continue
		}
		if f == domain.FieldParties {
			out = append(out, domain.RawField{Name: string(f), Value: domain.List(v)})
			continue
		}
		out = append(out, domain.RawField{Name: string(f), Value: domain.Text(v)})
	}
	return out
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func isCaseNumber(s string) bool {
	if strings.Contains(s, "/") {
		return true
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
