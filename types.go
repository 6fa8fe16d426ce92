package quicklang

import (
	"strings"
	"time"
)

// Language is a language the helper can translate from or to.
type Language string

const (
	English    Language = "english"
	Spanish    Language = "spanish"
	French     Language = "french"
	German     Language = "german"
	Italian    Language = "italian"
	Portuguese Language = "portuguese"
	Dutch      Language = "dutch"
	Russian    Language = "russian"
	Japanese   Language = "japanese"
	Chinese    Language = "chinese"
	Korean     Language = "korean"
	Arabic     Language = "arabic"
)

// Formality controls the register of a translation or adaptation.
type Formality string

const (
	// FormalityCasual uses relaxed, conversational language.
	FormalityCasual Formality = "casual"
	// FormalityNeutral uses a neutral tone suitable for most messages.
	FormalityNeutral Formality = "neutral"
	// FormalityFormal uses polite, professional language.
	FormalityFormal Formality = "formal"
	// FormalityVeryFormal uses ceremonious language for official correspondence.
	FormalityVeryFormal Formality = "very_formal"
)

// Engine identifies an AI backend.
type Engine string

const (
	EngineOpenAI   Engine = "openai"
	EngineGemini   Engine = "gemini"
	EngineDeepSeek Engine = "deepseek"
)

// GrammarContext is a grammar construct exercises can be generated for.
type GrammarContext string

const (
	GrammarFuture    GrammarContext = "future"
	GrammarPast      GrammarContext = "past"
	GrammarImperfect GrammarContext = "imperfect"
)

// Fingerprint is the SHA-256 hex digest identifying one exact request.
type Fingerprint string

// Short returns the first 12 characters, for logs and notices.
func (f Fingerprint) Short() string {
	if len(f) > 12 {
		return string(f[:12])
	}
	return string(f)
}

// TranslationRequest is an immutable snapshot of the form at submission time.
type TranslationRequest struct {
	InputText  string    `json:"input_text"`
	SourceLang Language  `json:"source_lang"`
	TargetLang Language  `json:"target_lang"`
	Formality  Formality `json:"formality"`
	Engine     Engine    `json:"engine"`
}

// Validate checks that the request can be fingerprinted and dispatched.
// Blank input is reported as ErrEmptyInput.
func (r TranslationRequest) Validate() error {
	if strings.TrimSpace(r.InputText) == "" {
		return ErrEmptyInput
	}
	if !r.SourceLang.Valid() {
		return invalidValue("source_lang", string(r.SourceLang))
	}
	if !r.TargetLang.Valid() {
		return invalidValue("target_lang", string(r.TargetLang))
	}
	if !r.Formality.Valid() {
		return invalidValue("formality", string(r.Formality))
	}
	if !r.Engine.Valid() {
		return invalidValue("engine", string(r.Engine))
	}
	return nil
}

// ExerciseRequest asks an engine for grammar practice sentences.
type ExerciseRequest struct {
	Grammar  GrammarContext `json:"grammar"`
	Language Language       `json:"language"`
	Engine   Engine         `json:"engine"`
}

// Validate checks the request's enumerated fields.
func (r ExerciseRequest) Validate() error {
	if !r.Grammar.Valid() {
		return invalidValue("grammar", string(r.Grammar))
	}
	if !r.Language.Valid() {
		return invalidValue("language", string(r.Language))
	}
	if !r.Engine.Valid() {
		return invalidValue("engine", string(r.Engine))
	}
	return nil
}

// TranslationResult is the outcome of a successful dispatch.
type TranslationResult struct {
	Text        string        `json:"text"`
	Fingerprint Fingerprint   `json:"fingerprint"`
	Engine      Engine        `json:"engine"`
	Elapsed     time.Duration `json:"elapsed"`
	Changed     []Field       `json:"changed,omitempty"` // Fields that differ from the previous successful request
}

// Exercise is a generated set of practice sentences.
type Exercise struct {
	Grammar  GrammarContext `json:"grammar"`
	Language Language       `json:"language"`
	Text     string         `json:"text"`
}

// DefaultLongTextThreshold is the input length above which a confirmation is requested.
const DefaultLongTextThreshold = 1000

// MinAPIKeyLength is the shortest API key accepted before any engine check.
const MinAPIKeyLength = 10
