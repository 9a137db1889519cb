// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Strategy: Turns document text into a raw field mapping
//   - Normaliser: Turns file bytes into plain text
//   - NormaliserRegistry: Selects the appropriate normaliser
//   - VerdictStore: Source document persistence
//   - ExtractionStore: Extraction result persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EntityRecognizer: Named-entity recognition. Without it, the NER strategy is disabled.
//   - LLMService: Language model operations. Without it, LLM-backed strategies are disabled.
//   - AnalysisStore: Analytics persistence. Without it, analytics are computed but not stored.
//   - DocumentSource: Batch input. Without it, only explicit files can be ingested.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, strategy, or normaliser package
package driven
