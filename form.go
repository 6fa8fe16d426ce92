package quicklang

import "sync"

// Form holds the user's current selections. It has no logic beyond
// validation of enumerated values at the point they are set; Snapshot
// freezes it into a TranslationRequest.
type Form struct {
	mu         sync.RWMutex
	inputText  string
	sourceLang Language
	targetLang Language
	formality  Formality
	engine     Engine
}

// NewForm returns a form with the defaults of a fresh session:
// English to Spanish, neutral formality, OpenAI.
func NewForm() *Form {
	return &Form{
		sourceLang: English,
		targetLang: Spanish,
		formality:  FormalityNeutral,
		engine:     EngineOpenAI,
	}
}

// SetInputText replaces the free-text input.
func (f *Form) SetInputText(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputText = text
}

// SetSourceLang selects the source language.
func (f *Form) SetSourceLang(l Language) error {
	if !l.Valid() {
		return invalidValue("source_lang", string(l))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sourceLang = l
	return nil
}

// SetTargetLang selects the target language.
func (f *Form) SetTargetLang(l Language) error {
	if !l.Valid() {
		return invalidValue("target_lang", string(l))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targetLang = l
	return nil
}

// SetFormality selects the formality level.
func (f *Form) SetFormality(level Formality) error {
	if !level.Valid() {
		return invalidValue("formality", string(level))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.formality = level
	return nil
}

// SetEngine selects the AI engine.
func (f *Form) SetEngine(e Engine) error {
	if !e.Valid() {
		return invalidValue("engine", string(e))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.engine = e
	return nil
}

// Apply copies every field of req into the form, validating the enums first.
func (f *Form) Apply(req TranslationRequest) error {
	for _, check := range []struct {
		ok    bool
		field string
		value string
	}{
		{req.SourceLang.Valid(), "source_lang", string(req.SourceLang)},
		{req.TargetLang.Valid(), "target_lang", string(req.TargetLang)},
		{req.Formality.Valid(), "formality", string(req.Formality)},
		{req.Engine.Valid(), "engine", string(req.Engine)},
	} {
		if !check.ok {
			return invalidValue(check.field, check.value)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputText = req.InputText
	f.sourceLang = req.SourceLang
	f.targetLang = req.TargetLang
	f.formality = req.Formality
	f.engine = req.Engine
	return nil
}

// Snapshot returns the current state as an immutable request.
func (f *Form) Snapshot() TranslationRequest {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return TranslationRequest{
		InputText:  f.inputText,
		SourceLang: f.sourceLang,
		TargetLang: f.targetLang,
		Formality:  f.formality,
		Engine:     f.engine,
	}
}
