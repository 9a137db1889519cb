package llm

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/core/ports/driven"
)

// MaxPromptChars bounds how much document text is sent to the model.
const MaxPromptChars = 12000

// DefaultSystemPrompt is the built-in field-extraction prompt. It takes the
// field key list and the list-valued field names.
const DefaultSystemPrompt = `You extract structured metadata from Hebrew court verdicts.
Return ONLY a JSON object. Use exactly these keys:
%s
Copy values verbatim from the document. Use null when a field is not stated.
List fields (%s) are JSON arrays of strings; every other field is a string.
Do not translate, summarise or invent values.`

// BuildMessages returns the chat messages for one document using the
// built-in prompt.
func BuildMessages(text string, maxChars int) []driven.ChatMessage {
	return BuildMessagesWith(DefaultSystemPrompt, text, maxChars)
}

// BuildMessagesWith returns the chat messages for one document. Text
// longer than maxChars is cut, counted in characters. A template without
// exactly two %s placeholders is sent as is.
func BuildMessagesWith(template, text string, maxChars int) []driven.ChatMessage {
	if maxChars <= 0 {
		maxChars = MaxPromptChars
	}
	if r := []rune(text); len(r) > maxChars {
		text = string(r[:maxChars])
	}

	var keys, lists []string
	for _, f := range domain.AllFields() {
		keys = append(keys, fmt.Sprintf("- %s (%s)", f, f.Label()))
		if f.IsMultiValued() {
			lists = append(lists, string(f))
		}
	}

	system := template
	if strings.Count(template, "%s") == 2 && !strings.Contains(strings.ReplaceAll(template, "%s", ""), "%") {
		system = fmt.Sprintf(template, strings.Join(keys, "\n"), strings.Join(lists, ", "))
	}

	return []driven.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: "Document:\n" + text},
	}
}
