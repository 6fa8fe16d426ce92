package quicklang

import "testing"

func TestHashText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple text",
			input:    "Hello World",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:     "text with both whitespace",
			input:    "  Hello World  ",
			expected: "a591a6d40bf420404a011733cfb7b190d62c65bf0bcda32b57b277d9ad9f146e",
		},
		{
			name:  "empty string",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := HashText(tt.input)
			if tt.expected != "" && result != tt.expected {
				t.Errorf("HashText(%q) = %q, want %q", tt.input, result, tt.expected)
			}
			if len(result) != 64 {
				t.Errorf("HashText(%q) length = %d, want 64", tt.input, len(result))
			}
		})
	}
}

func baseRequest() TranslationRequest {
	return TranslationRequest{
		InputText:  "Hello",
		SourceLang: English,
		TargetLang: Spanish,
		Formality:  FormalityNeutral,
		Engine:     EngineOpenAI,
	}
}

func TestCanonicalRequest(t *testing.T) {
	got := CanonicalRequest(baseRequest())
	if got != "Hello|english|spanish|neutral|openai" {
		t.Errorf("CanonicalRequest() = %q", got)
	}
}

func TestComputeFingerprint(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*TranslationRequest)
		expected Fingerprint
	}{
		{
			name:     "defaults",
			mutate:   func(*TranslationRequest) {},
			expected: "1c5fc87cbcf130061068963a52ef944b0cfe8e950774ca04b8b6919dc3a40300",
		},
		{
			name:     "formal",
			mutate:   func(r *TranslationRequest) { r.Formality = FormalityFormal },
			expected: "7ded728e2a32ab79987b2ac222f2282d33f72521e29c0e76aa3db9236d0e0226",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(&req)
			if got := ComputeFingerprint(req); got != tt.expected {
				t.Errorf("ComputeFingerprint() = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestComputeFingerprint_Deterministic(t *testing.T) {
	a := ComputeFingerprint(baseRequest())
	b := ComputeFingerprint(baseRequest())
	if a != b {
		t.Errorf("same request produced %s and %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length = %d, want 64", len(a))
	}
}

func TestComputeFingerprint_EveryFieldMatters(t *testing.T) {
	base := ComputeFingerprint(baseRequest())

	mutations := map[Field]func(*TranslationRequest){
		FieldInputText:  func(r *TranslationRequest) { r.InputText = "Hello!" },
		FieldSourceLang: func(r *TranslationRequest) { r.SourceLang = French },
		FieldTargetLang: func(r *TranslationRequest) { r.TargetLang = German },
		FieldFormality:  func(r *TranslationRequest) { r.Formality = FormalityCasual },
		FieldEngine:     func(r *TranslationRequest) { r.Engine = EngineGemini },
	}

	for field, mutate := range mutations {
		t.Run(string(field), func(t *testing.T) {
			req := baseRequest()
			mutate(&req)
			if ComputeFingerprint(req) == base {
				t.Errorf("changing %s should change the fingerprint", field)
			}
		})
	}
}

func TestComputeFingerprint_WhitespaceSignificant(t *testing.T) {
	req := baseRequest()
	padded := baseRequest()
	padded.InputText = "Hello "

	if ComputeFingerprint(req) == ComputeFingerprint(padded) {
		t.Error("trailing whitespace should change the fingerprint")
	}
}

func TestComputeFingerprint_DelimiterInInput(t *testing.T) {
	// Input text containing the delimiter cannot be confused with another
	// request because the trailing fields are closed enumerations.
	a := baseRequest()
	a.InputText = "Hello|english"
	b := baseRequest()
	b.InputText = "Hello"

	if ComputeFingerprint(a) == ComputeFingerprint(b) {
		t.Error("delimiter in input must not collide")
	}
}

func TestFingerprintShort(t *testing.T) {
	fp := ComputeFingerprint(baseRequest())
	if fp.Short() != "1c5fc87cbcf1" {
		t.Errorf("Short() = %q", fp.Short())
	}
	if Fingerprint("abc").Short() != "abc" {
		t.Error("short fingerprints should be returned unchanged")
	}
}

func TestSessionKey(t *testing.T) {
	if got := SessionKey("abc"); got != "last:abc" {
		t.Errorf("SessionKey() = %q", got)
	}
}
