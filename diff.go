package quicklang

// Field names a fingerprinted request field.
type Field string

// Request fields, in fingerprint order.
const (
	FieldInputText  Field = "input_text"
	FieldSourceLang Field = "source_lang"
	FieldTargetLang Field = "target_lang"
	FieldFormality  Field = "formality"
	FieldEngine     Field = "engine"
)

// Fields returns every fingerprinted field in fingerprint order.
func Fields() []Field {
	return []Field{FieldInputText, FieldSourceLang, FieldTargetLang, FieldFormality, FieldEngine}
}

// RequestDiff describes how a request differs from the previous one.
type RequestDiff struct {
	// Changed lists the differing fields in fingerprint order.
	Changed []Field
}

// HasChanges returns true if any field differs. Two requests with no changes
// have the same fingerprint.
func (d RequestDiff) HasChanges() bool {
	return len(d.Changed) > 0
}

// Has reports whether f is among the changed fields.
func (d RequestDiff) Has(f Field) bool {
	for _, c := range d.Changed {
		if c == f {
			return true
		}
	}
	return false
}

// DiffRequests compares two requests field by field. The input text is
// compared verbatim, the same way it is fingerprinted.
func DiffRequests(prev, next TranslationRequest) RequestDiff {
	var d RequestDiff
	if prev.InputText != next.InputText {
		d.Changed = append(d.Changed, FieldInputText)
	}
	if prev.SourceLang != next.SourceLang {
		d.Changed = append(d.Changed, FieldSourceLang)
	}
	if prev.TargetLang != next.TargetLang {
		d.Changed = append(d.Changed, FieldTargetLang)
	}
	if prev.Formality != next.Formality {
		d.Changed = append(d.Changed, FieldFormality)
	}
	if prev.Engine != next.Engine {
		d.Changed = append(d.Changed, FieldEngine)
	}
	return d
}
