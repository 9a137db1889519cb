package domain

// Entity groups produced by token-classification models.
const (
	EntityPerson       = "PER"
	EntityOrganization = "ORG"
	EntityLocation     = "LOC"
	EntityDate         = "DATE"
	EntityMisc         = "MISC"
)

// Entity is one recognised span.
type Entity struct {
	// Group is the aggregated entity label, e.g. "PER" or "ORG".
	Group string

	// Text is the surface span as it appears in the document.
	Text string

	// Score is the model's confidence for the span, when reported.
	Score float64
}
