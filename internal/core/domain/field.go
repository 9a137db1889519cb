package domain

const unknownDescription = "Unknown"

// FieldName identifies one piece of structured verdict metadata.
// The string value is the key used in serialised results.
type FieldName string

// Canonical fields.
const (
	// FieldVerdictID mirrors the case number; kept as its own key for consumers.
	FieldVerdictID FieldName = "verdict_id"

	// FieldCourtName is the issuing court, e.g. "בית המשפט המחוזי בתל אביב".
	FieldCourtName FieldName = "court_name"

	// FieldJudgeName is the presiding judge or rabbinical panel.
	FieldJudgeName FieldName = "judge_name"

	// FieldCaseNumber is the docket number, e.g. "12345/23".
	FieldCaseNumber FieldName = "case_number"

	// FieldVerdictDate is the date the verdict was given.
	FieldVerdictDate FieldName = "verdict_date"

	// FieldParties lists the parties to the proceeding.
	FieldParties FieldName = "parties"

	// FieldVerdictType is the kind of ruling (פסק דין, החלטה, צו).
	FieldVerdictType FieldName = "verdict_type"

	// FieldLawReferences lists statutes and regulations cited.
	FieldLawReferences FieldName = "law_references"

	// FieldLawyers lists counsel appearing for the parties.
	FieldLawyers FieldName = "lawyers"

	// FieldRespondents lists respondents and defendants.
	FieldRespondents FieldName = "respondents"

	// FieldPetitioners lists petitioners, appellants and plaintiffs.
	FieldPetitioners FieldName = "petitioners"

	// FieldLocation is the city or district of the court.
	FieldLocation FieldName = "location"

	// FieldCourtSection is the capacity the court sat in.
	FieldCourtSection FieldName = "court_section"

	// FieldSummary is a short abstract when the document carries one.
	FieldSummary FieldName = "summary"
)

// AllFields returns the canonical fields in result order.
func AllFields() []FieldName {
	return []FieldName{
		FieldVerdictID,
		FieldCourtName,
		FieldJudgeName,
		FieldCaseNumber,
		FieldVerdictDate,
		FieldParties,
		FieldVerdictType,
		FieldLawReferences,
		FieldLawyers,
		FieldRespondents,
		FieldPetitioners,
		FieldLocation,
		FieldCourtSection,
		FieldSummary,
	}
}

// IsValid returns true if the field is one of the canonical fields.
func (f FieldName) IsValid() bool {
	for _, known := range AllFields() {
		if f == known {
			return true
		}
	}
	return false
}

// IsMultiValued returns true for fields that hold an ordered list by default.
// A FieldSpec may override this.
func (f FieldName) IsMultiValued() bool {
	switch f {
	case FieldParties, FieldLawReferences, FieldLawyers, FieldRespondents, FieldPetitioners:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f FieldName) String() string {
	return string(f)
}

// Label returns a short human-readable label for the field.
func (f FieldName) Label() string {
	switch f {
	case FieldVerdictID:
		return "Verdict ID"
	case FieldCourtName:
		return "Court"
	case FieldJudgeName:
		return "Judge"
	case FieldCaseNumber:
		return "Case Number"
	case FieldVerdictDate:
		return "Date"
	case FieldParties:
		return "Parties"
	case FieldVerdictType:
		return "Verdict Type"
	case FieldLawReferences:
		return "Law References"
	case FieldLawyers:
		return "Lawyers"
	case FieldRespondents:
		return "Respondents"
	case FieldPetitioners:
		return "Petitioners"
	case FieldLocation:
		return "Location"
	case FieldCourtSection:
		return "Court Section"
	case FieldSummary:
		return "Summary"
	default:
		return unknownDescription
	}
}

// FieldSpec describes how one field is located in document text.
// Specs are loaded once at startup and never modified.
type FieldSpec struct {
	// Name is the canonical field this spec fills.
	Name FieldName

	// Primary are regular expressions applied to the full text, in order.
	// Earlier patterns are higher precision; the first match wins.
	Primary []string

	// Fallback are regular expressions applied to a single line once
	// the line-scan has picked a candidate line.
	Fallback []string

	// Keywords are substrings that qualify a line during the line-scan.
	Keywords []string

	// Multi marks the field as list-valued.
	Multi bool

	// FirstLine keeps only the first line of a primary match (title-like fields).
	FirstLine bool

	// Probe lets a fallback pattern qualify a line without a keyword hit.
	Probe bool
}

// Clone returns a deep copy of the spec.
func (s FieldSpec) Clone() FieldSpec {
	out := s
	out.Primary = append([]string(nil), s.Primary...)
	out.Fallback = append([]string(nil), s.Fallback...)
	out.Keywords = append([]string(nil), s.Keywords...)
	return out
}
