package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations return the registered
	// default or an error when there is none.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptFieldExtraction is the system prompt for LLM-backed strategies.
	// The template takes two %s placeholders: the field key list and the
	// comma-separated list-valued field names.
	PromptFieldExtraction = "field_extraction"
)
