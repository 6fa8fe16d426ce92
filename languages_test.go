package quicklang

import (
	"testing"

	"golang.org/x/text/language"
)

func TestLanguageName(t *testing.T) {
	tests := []struct {
		lang     Language
		expected string
	}{
		{English, "English"},
		{Spanish, "Spanish"},
		{Arabic, "Arabic"},
		{Language("klingon"), "klingon"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			if got := tt.lang.Name(); got != tt.expected {
				t.Errorf("Name() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLanguageDirection(t *testing.T) {
	if Arabic.Direction() != "rtl" {
		t.Error("Arabic should be rtl")
	}
	if Spanish.Direction() != "ltr" {
		t.Error("Spanish should be ltr")
	}
}

func TestLanguageTag(t *testing.T) {
	if English.Tag() != language.English {
		t.Errorf("English.Tag() = %v", English.Tag())
	}
	if Language("klingon").Tag() != language.Und {
		t.Error("unknown language should map to und")
	}
}

func TestLanguages(t *testing.T) {
	all := Languages()
	if len(all) != 12 {
		t.Fatalf("Languages() returned %d entries, want 12", len(all))
	}
	if all[0] != English || all[1] != Spanish {
		t.Errorf("unexpected order: %v", all[:2])
	}
	for _, l := range all {
		if !l.Valid() {
			t.Errorf("%s should be valid", l)
		}
	}

	all[0] = "mutated"
	if Languages()[0] != English {
		t.Error("Languages() should return a copy")
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected Language
		wantErr  bool
	}{
		{"spanish", Spanish, false},
		{"Spanish", Spanish, false},
		{"  FRENCH ", French, false},
		{"es", Spanish, false},
		{"es-MX", Spanish, false},
		{"pt_BR", Portuguese, false},
		{"zh-Hant", Chinese, false},
		{"ja", Japanese, false},
		{"klingon", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLanguage(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseLanguage(%q) should fail", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLanguage(%q) failed: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseLanguage(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormalities(t *testing.T) {
	levels := Formalities()
	want := []Formality{FormalityCasual, FormalityNeutral, FormalityFormal, FormalityVeryFormal}
	if len(levels) != len(want) {
		t.Fatalf("Formalities() = %v", levels)
	}
	for i, f := range want {
		if levels[i] != f {
			t.Errorf("position %d = %s, want %s", i, levels[i], f)
		}
		if f.Index() != i {
			t.Errorf("%s.Index() = %d, want %d", f, f.Index(), i)
		}
		at, err := FormalityAt(i)
		if err != nil || at != f {
			t.Errorf("FormalityAt(%d) = %s, %v", i, at, err)
		}
	}

	if _, err := FormalityAt(4); err == nil {
		t.Error("FormalityAt(4) should fail")
	}
	if Formality("rude").Index() != -1 {
		t.Error("unknown formality should have index -1")
	}
}

func TestFormalityLabelAndDescription(t *testing.T) {
	if FormalityVeryFormal.Label() != "Very Formal" {
		t.Errorf("Label() = %q", FormalityVeryFormal.Label())
	}
	if Formality("rude").Description() != FormalityNeutral.Description() {
		t.Error("unknown formality should fall back to the neutral description")
	}
}

func TestParseFormality(t *testing.T) {
	tests := []struct {
		input    string
		expected Formality
		wantErr  bool
	}{
		{"casual", FormalityCasual, false},
		{"Very Formal", FormalityVeryFormal, false},
		{"very-formal", FormalityVeryFormal, false},
		{"very_formal", FormalityVeryFormal, false},
		{"rude", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormality(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormality(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseFormality(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEngines(t *testing.T) {
	labels := map[Engine]string{
		EngineOpenAI:   "OpenAI",
		EngineGemini:   "Gemini 2.0",
		EngineDeepSeek: "DeepSeek V3",
	}
	for _, e := range Engines() {
		if e.Label() != labels[e] {
			t.Errorf("%s.Label() = %q, want %q", e, e.Label(), labels[e])
		}
	}

	if e, err := ParseEngine(" Gemini "); err != nil || e != EngineGemini {
		t.Errorf("ParseEngine = %q, %v", e, err)
	}
	if _, err := ParseEngine("claude"); !IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestGrammarContexts(t *testing.T) {
	tests := []struct {
		g      GrammarContext
		label  string
		phrase string
	}{
		{GrammarFuture, "Future Tense", "future tense"},
		{GrammarPast, "Past Tense", "past tense"},
		{GrammarImperfect, "Imperfect Tense", "imperfect tense"},
	}

	if len(GrammarContexts()) != len(tests) {
		t.Fatalf("GrammarContexts() = %v", GrammarContexts())
	}

	for _, tt := range tests {
		t.Run(string(tt.g), func(t *testing.T) {
			if tt.g.Label() != tt.label {
				t.Errorf("Label() = %q", tt.g.Label())
			}
			if tt.g.PromptPhrase() != tt.phrase {
				t.Errorf("PromptPhrase() = %q", tt.g.PromptPhrase())
			}
			parsed, err := ParseGrammarContext(string(tt.g))
			if err != nil || parsed != tt.g {
				t.Errorf("ParseGrammarContext = %q, %v", parsed, err)
			}
		})
	}

	if _, err := ParseGrammarContext("conditional"); err == nil {
		t.Error("unknown grammar context should fail")
	}
}
