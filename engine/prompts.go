package engine

import (
	"fmt"

	"github.com/ZaguanLabs/quicklang"
)

// TranslationPrompt builds the instruction sent for a translation request.
func TranslationPrompt(req quicklang.TranslationRequest) string {
	return fmt.Sprintf(`You are a professional linguistic assistant.

Your task:
- Translate or adapt the following text, strictly respecting:
  - Languages: %s → %s
  - Formality: %s
  - Grammatical Context: general

Original text:
"%s"

Respond ONLY with the adapted/translated text.
Do NOT include explanations or additional comments.`,
		req.SourceLang,
		req.TargetLang,
		req.Formality,
		req.InputText,
	)
}

// ExercisePrompt builds the instruction sent for a grammar exercise.
func ExercisePrompt(req quicklang.ExerciseRequest) string {
	return fmt.Sprintf(`You are a language teacher writing practice material.

Write exactly three short sentences in %s that practice the %s.
- Replace the conjugated verb with a blank (____) and give its infinitive in parentheses after the blank.
- Number the sentences 1 to 3, one per line.

Respond ONLY with the three sentences.
Do NOT include answers, explanations or additional comments.`,
		req.Language.Name(),
		req.Grammar.PromptPhrase(),
	)
}
