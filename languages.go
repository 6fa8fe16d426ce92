package quicklang

import (
	"strings"

	"golang.org/x/text/language"
)

type languageInfo struct {
	name string
	tag  language.Tag
}

// languages lists the supported languages in display order.
var languages = []Language{
	English, Spanish, French, German, Italian, Portuguese,
	Dutch, Russian, Japanese, Chinese, Korean, Arabic,
}

var languageTable = map[Language]languageInfo{
	English:    {"English", language.English},
	Spanish:    {"Spanish", language.Spanish},
	French:     {"French", language.French},
	German:     {"German", language.German},
	Italian:    {"Italian", language.Italian},
	Portuguese: {"Portuguese", language.Portuguese},
	Dutch:      {"Dutch", language.Dutch},
	Russian:    {"Russian", language.Russian},
	Japanese:   {"Japanese", language.Japanese},
	Chinese:    {"Chinese", language.Chinese},
	Korean:     {"Korean", language.Korean},
	Arabic:     {"Arabic", language.Arabic},
}

// RTLLanguages contains languages written right-to-left.
var RTLLanguages = map[Language]bool{
	Arabic: true,
}

// Languages returns all supported languages in display order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	_, ok := languageTable[l]
	return ok
}

// Name returns the human-readable name, or the identifier if unknown.
func (l Language) Name() string {
	if info, ok := languageTable[l]; ok {
		return info.name
	}
	return string(l)
}

// Tag returns the BCP 47 tag of the language (language.Und if unknown).
func (l Language) Tag() language.Tag {
	if info, ok := languageTable[l]; ok {
		return info.tag
	}
	return language.Und
}

// Direction returns "rtl" for right-to-left languages, "ltr" otherwise.
func (l Language) Direction() string {
	if RTLLanguages[l] {
		return "rtl"
	}
	return "ltr"
}

// ParseLanguage resolves an identifier ("spanish"), a display name ("Spanish")
// or a BCP 47 tag ("es", "es-MX", "pt_BR") to a supported Language.
func ParseLanguage(s string) (Language, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if l := Language(key); l.Valid() {
		return l, nil
	}

	tag, err := language.Parse(strings.ReplaceAll(key, "_", "-"))
	if err == nil {
		base, conf := tag.Base()
		if conf != language.No {
			for _, l := range languages {
				if lb, _ := languageTable[l].tag.Base(); lb == base {
					return l, nil
				}
			}
		}
	}

	return "", invalidValue("language", s)
}

var formalities = []Formality{FormalityCasual, FormalityNeutral, FormalityFormal, FormalityVeryFormal}

var formalityLabels = map[Formality]string{
	FormalityCasual:     "Casual",
	FormalityNeutral:    "Neutral",
	FormalityFormal:     "Formal",
	FormalityVeryFormal: "Very Formal",
}

var formalityDescriptions = map[Formality]string{
	FormalityCasual:     "Conversational, as between friends",
	FormalityNeutral:    "Polite, for colleagues and acquaintances",
	FormalityFormal:     "Professional, with polite forms of address",
	FormalityVeryFormal: "Ceremonious, for official correspondence",
}

// Formalities returns the formality levels from least to most formal.
func Formalities() []Formality {
	out := make([]Formality, len(formalities))
	copy(out, formalities)
	return out
}

// Valid reports whether f is a known formality level.
func (f Formality) Valid() bool {
	_, ok := formalityLabels[f]
	return ok
}

// Label returns the display label ("Very Formal").
func (f Formality) Label() string {
	if label, ok := formalityLabels[f]; ok {
		return label
	}
	return string(f)
}

// Description returns a one-line hint describing the register.
func (f Formality) Description() string {
	if desc, ok := formalityDescriptions[f]; ok {
		return desc
	}
	return formalityDescriptions[FormalityNeutral]
}

// Index returns the slider position of f, or -1 if unknown.
func (f Formality) Index() int {
	for i, v := range formalities {
		if v == f {
			return i
		}
	}
	return -1
}

// FormalityAt returns the formality at a slider position.
func FormalityAt(i int) (Formality, error) {
	if i < 0 || i >= len(formalities) {
		return "", &ValidationError{Field: "formality", Message: "slider position out of range"}
	}
	return formalities[i], nil
}

// ParseFormality accepts identifiers and labels ("very_formal", "Very Formal", "very-formal").
func ParseFormality(s string) (Formality, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if f := Formality(key); f.Valid() {
		return f, nil
	}
	return "", invalidValue("formality", s)
}

var engines = []Engine{EngineOpenAI, EngineGemini, EngineDeepSeek}

var engineLabels = map[Engine]string{
	EngineOpenAI:   "OpenAI",
	EngineGemini:   "Gemini 2.0",
	EngineDeepSeek: "DeepSeek V3",
}

// Engines returns the selectable AI engines.
func Engines() []Engine {
	out := make([]Engine, len(engines))
	copy(out, engines)
	return out
}

// Valid reports whether e is a known engine.
func (e Engine) Valid() bool {
	_, ok := engineLabels[e]
	return ok
}

// Label returns the display label of the engine.
func (e Engine) Label() string {
	if label, ok := engineLabels[e]; ok {
		return label
	}
	return string(e)
}

// ParseEngine resolves an engine identifier, case-insensitively.
func ParseEngine(s string) (Engine, error) {
	e := Engine(strings.ToLower(strings.TrimSpace(s)))
	if e.Valid() {
		return e, nil
	}
	return "", invalidValue("engine", s)
}

var grammarContexts = []GrammarContext{GrammarFuture, GrammarPast, GrammarImperfect}

var grammarInfo = map[GrammarContext]struct{ label, prompt string }{
	GrammarFuture:    {"Future Tense", "future tense"},
	GrammarPast:      {"Past Tense", "past tense"},
	GrammarImperfect: {"Imperfect Tense", "imperfect tense"},
}

// GrammarContexts returns the grammar constructs exercises exist for.
func GrammarContexts() []GrammarContext {
	out := make([]GrammarContext, len(grammarContexts))
	copy(out, grammarContexts)
	return out
}

// Valid reports whether g is a known grammar context.
func (g GrammarContext) Valid() bool {
	_, ok := grammarInfo[g]
	return ok
}

// Label returns the display label ("Past Tense").
func (g GrammarContext) Label() string {
	if info, ok := grammarInfo[g]; ok {
		return info.label
	}
	return string(g)
}

// PromptPhrase returns the phrase used in exercise prompts ("past tense").
func (g GrammarContext) PromptPhrase() string {
	if info, ok := grammarInfo[g]; ok {
		return info.prompt
	}
	return string(g)
}

// ParseGrammarContext resolves a grammar context identifier.
func ParseGrammarContext(s string) (GrammarContext, error) {
	g := GrammarContext(strings.ToLower(strings.TrimSpace(s)))
	if g.Valid() {
		return g, nil
	}
	return "", invalidValue("grammar", s)
}
