package domain

// StrategyName identifies one complete field-extraction implementation.
type StrategyName string

// Built-in strategies.
const (
	// StrategyRegex is the primary-pattern plus line-scan pipeline.
	StrategyRegex StrategyName = "regex"

	// StrategyNER maps entities from a recognition model onto fields.
	StrategyNER StrategyName = "ner"

	// StrategyOpenAI asks an OpenAI model for the fields.
	StrategyOpenAI StrategyName = "openai"

	// StrategyAnthropic asks an Anthropic model for the fields.
	StrategyAnthropic StrategyName = "anthropic"

	// StrategyOllama asks a local Ollama model for the fields.
	StrategyOllama StrategyName = "ollama"
)

// String returns the string representation.
func (s StrategyName) String() string {
	return string(s)
}

// Provider returns the AI provider behind an LLM-backed strategy.
func (s StrategyName) Provider() (AIProvider, bool) {
	switch s {
	case StrategyOpenAI:
		return AIProviderOpenAI, true
	case StrategyAnthropic:
		return AIProviderAnthropic, true
	case StrategyOllama:
		return AIProviderOllama, true
	default:
		return "", false
	}
}

// AllStrategies returns the built-in strategies in their default declared order.
func AllStrategies() []StrategyName {
	return []StrategyName{
		StrategyRegex,
		StrategyOpenAI,
		StrategyAnthropic,
		StrategyOllama,
		StrategyNER,
	}
}

// ExtractionMode selects how a document is turned into a result.
type ExtractionMode string

// Available extraction modes.
const (
	// ModePipeline runs the regex pipeline alone.
	ModePipeline ExtractionMode = "pipeline"

	// ModeNER runs the NER strategy alone with binary confidence.
	ModeNER ExtractionMode = "ner"

	// ModeSelect runs every declared strategy and keeps the best mapping.
	ModeSelect ExtractionMode = "select"
)

// IsValid returns true if the mode is recognised.
func (m ExtractionMode) IsValid() bool {
	switch m {
	case ModePipeline, ModeNER, ModeSelect:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m ExtractionMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m ExtractionMode) Description() string {
	switch m {
	case ModePipeline:
		return "Pattern pipeline (regex + line scan)"
	case ModeNER:
		return "Entity recognition only"
	case ModeSelect:
		return "Best of all declared strategies"
	default:
		return unknownDescription
	}
}

// StrategyScore is one strategy's diagnostic outcome in a selection.
type StrategyScore struct {
	// Name is the strategy.
	Name StrategyName

	// Score is the number of non-empty fields it produced.
	Score int

	// Err holds the failure message when the strategy failed.
	Err string
}

// Selection is the outcome of running competing strategies over one text.
type Selection struct {
	// Fields is the winning raw mapping; empty when nothing won.
	Fields RawFields

	// Best is the winning strategy; empty when nothing won.
	Best StrategyName

	// BestScore is the winner's score, 0 when nothing won.
	BestScore int

	// Scores holds every evaluated strategy in declared order.
	Scores []StrategyScore
}

// Score returns the diagnostic score recorded for a strategy.
func (s *Selection) Score(name StrategyName) (int, bool) {
	for _, sc := range s.Scores {
		if sc.Name == name {
			return sc.Score, true
		}
	}
	return 0, false
}

// ScoreMap returns the per-strategy scores keyed by name.
func (s *Selection) ScoreMap() map[string]int {
	out := make(map[string]int, len(s.Scores))
	for _, sc := range s.Scores {
		out[string(sc.Name)] = sc.Score
	}
	return out
}

// AllExtractionModes returns the modes in menu order.
func AllExtractionModes() []ExtractionMode {
	return []ExtractionMode{ModePipeline, ModeNER, ModeSelect}
}

// StrategyForProvider returns the LLM-backed strategy for a provider.
func StrategyForProvider(p AIProvider) (StrategyName, bool) {
	for _, s := range AllStrategies() {
		if sp, ok := s.Provider(); ok && sp == p {
			return s, true
		}
	}
	return "", false
}
