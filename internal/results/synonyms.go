package results

import (
	"strings"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// DefaultSynonyms returns the built-in label variants, Hebrew and English,
// keyed in lower case.
func DefaultSynonyms() map[string]domain.FieldName {
	return map[string]domain.FieldName{
		"מזהה פסק דין": domain.FieldVerdictID,
		"id":           domain.FieldVerdictID,

		"ערכאה":       domain.FieldCourtName,
		"בית משפט":    domain.FieldCourtName,
		"בית המשפט":   domain.FieldCourtName,
		"בית דין":     domain.FieldCourtName,
		"court":       domain.FieldCourtName,
		"court name":  domain.FieldCourtName,
		"courtname":   domain.FieldCourtName,
		"שופט":        domain.FieldJudgeName,
		"שופטת":       domain.FieldJudgeName,
		"שופטים":      domain.FieldJudgeName,
		"דיין":        domain.FieldJudgeName,
		"דיינים":      domain.FieldJudgeName,
		"judge":       domain.FieldJudgeName,
		"judges":      domain.FieldJudgeName,
		"מספר תיק":    domain.FieldCaseNumber,
		"תיק":         domain.FieldCaseNumber,
		"case":        domain.FieldCaseNumber,
		"case id":     domain.FieldCaseNumber,
		"case_id":     domain.FieldCaseNumber,
		"תאריך":       domain.FieldVerdictDate,
		"תאריך מתן":   domain.FieldVerdictDate,
		"date":        domain.FieldVerdictDate,
		"צדדים":       domain.FieldParties,
		"הצדדים":      domain.FieldParties,
		"סוג":         domain.FieldVerdictType,
		"סוג פסק דין": domain.FieldVerdictType,
		"type":        domain.FieldVerdictType,
		"חקיקה":       domain.FieldLawReferences,
		"חוקים":       domain.FieldLawReferences,
		"laws":        domain.FieldLawReferences,
		"statutes":    domain.FieldLawReferences,
		"עורכי דין":   domain.FieldLawyers,
		"באי כוח":     domain.FieldLawyers,
		"attorneys":   domain.FieldLawyers,
		"counsel":     domain.FieldLawyers,
		"נתבעים":      domain.FieldRespondents,
		"נתבע":        domain.FieldRespondents,
		"משיבים":      domain.FieldRespondents,
		"משיב":        domain.FieldRespondents,
		"defendants":  domain.FieldRespondents,
		"תובעים":      domain.FieldPetitioners,
		"תובע":        domain.FieldPetitioners,
		"עותרים":      domain.FieldPetitioners,
		"מבקשים":      domain.FieldPetitioners,
		"מערערים":     domain.FieldPetitioners,
		"plaintiffs":  domain.FieldPetitioners,
		"appellants":  domain.FieldPetitioners,
		"מיקום":       domain.FieldLocation,
		"מקום":        domain.FieldLocation,
		"עיר":         domain.FieldLocation,
		"city":        domain.FieldLocation,
		"מחלקה":       domain.FieldCourtSection,
		"section":     domain.FieldCourtSection,
		"תקציר":       domain.FieldSummary,
		"סיכום":       domain.FieldSummary,
		"abstract":    domain.FieldSummary,
	}
}

// Synonyms is the static table that maps raw label variants to
// canonical fields. It is read-only after construction.
type Synonyms struct {
	table map[string]domain.FieldName
}

// NewSynonyms builds the table from the defaults plus extra entries.
// Extra entries override defaults; entries naming an unknown field
// are rejected.
func NewSynonyms(extra map[string]domain.FieldName) (*Synonyms, error) {
	table := DefaultSynonyms()
	for label, field := range extra {
		if !field.IsValid() {
			return nil, &SynonymError{Label: label, Field: field}
		}
		table[key(label)] = field
	}
	return &Synonyms{table: table}, nil
}

// Canonical returns the canonical field for a raw label. Canonical
// names map to themselves.
func (s *Synonyms) Canonical(label string) (domain.FieldName, bool) {
	k := key(label)
	if f := domain.FieldName(k); f.IsValid() {
		return f, true
	}
	f, ok := s.table[k]
	return f, ok
}

// Len returns the number of variant entries.
func (s *Synonyms) Len() int {
	return len(s.table)
}

func key(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// SynonymError reports a synonym entry pointing at an unknown field.
type SynonymError struct {
	Label string
	Field domain.FieldName
}

func (e *SynonymError) Error() string {
	return "synonym " + e.Label + ": unknown field " + string(e.Field)
}

// Unwrap lets callers match on domain.ErrUnknownField.
func (e *SynonymError) Unwrap() error {
	return domain.ErrUnknownField
}
