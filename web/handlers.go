package web

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ZaguanLabs/quicklang"
	"github.com/go-chi/chi/v5"
)

type option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Dir   string `json:"dir,omitempty"`
	Hint  string `json:"hint,omitempty"`
}

type optionsResponse struct {
	Languages         []option `json:"languages"`
	Formalities       []option `json:"formalities"`
	Engines           []option `json:"engines"`
	Grammars          []option `json:"grammars"`
	LongTextThreshold int      `json:"long_text_threshold"`
}

func (s *Server) options(w http.ResponseWriter, r *http.Request) {
	resp := optionsResponse{LongTextThreshold: s.opts.LongTextThreshold}
	for _, l := range quicklang.Languages() {
		resp.Languages = append(resp.Languages, option{Value: string(l), Label: l.Name(), Dir: l.Direction()})
	}
	for _, f := range quicklang.Formalities() {
		resp.Formalities = append(resp.Formalities, option{Value: string(f), Label: f.Label(), Hint: f.Description()})
	}
	for _, e := range quicklang.Engines() {
		resp.Engines = append(resp.Engines, option{Value: string(e), Label: e.Label()})
	}
	for _, g := range quicklang.GrammarContexts() {
		resp.Grammars = append(resp.Grammars, option{Value: string(g), Label: g.Label()})
	}
	writeJSON(w, http.StatusOK, resp)
}

type stateResponse struct {
	Form            quicklang.TranslationRequest `json:"form"`
	Output          string                       `json:"output"`
	HasKey          bool                         `json:"has_key"`
	Busy            bool                         `json:"busy"`
	LastFingerprint quicklang.Fingerprint        `json:"last_fingerprint,omitempty"`
}

func stateOf(session *quicklang.Session) stateResponse {
	fp, _ := session.LastFingerprint()
	return stateResponse{
		Form:            session.Form().Snapshot(),
		Output:          session.Output(),
		HasKey:          session.HasAPIKey(),
		Busy:            session.Busy(),
		LastFingerprint: fp,
	}
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateOf(sessionFrom(r)))
}

type keyRequest struct {
	APIKey string           `json:"api_key"`
	Engine quicklang.Engine `json:"engine,omitempty"`
}

func (s *Server) setKey(w http.ResponseWriter, r *http.Request) {
	var body keyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	session := sessionFrom(r)
	if body.Engine != "" {
		if err := session.Form().SetEngine(body.Engine); err != nil {
			s.writeFailure(w, err)
			return
		}
	}
	if err := session.SetAPIKey(r.Context(), body.APIKey); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearKey(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).ClearAPIKey()
	w.WriteHeader(http.StatusNoContent)
}

type translateRequest struct {
	quicklang.TranslationRequest
	ConfirmLong bool `json:"confirm_long"`
}

type translateResponse struct {
	Text        string                `json:"text"`
	Fingerprint quicklang.Fingerprint `json:"fingerprint"`
	Engine      quicklang.Engine      `json:"engine"`
	ElapsedMS   int64                 `json:"elapsed_ms"`
	Changed     []quicklang.Field     `json:"changed,omitempty"`
}

type confirmResponse struct {
	errorBody
	Chars     int `json:"chars"`
	Threshold int `json:"threshold"`
}

func (s *Server) translate(w http.ResponseWriter, r *http.Request) {
	var body translateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	// Omitted selections keep their current form values.
	session := sessionFrom(r)
	req := session.Form().Snapshot()
	req.InputText = body.InputText
	if body.SourceLang != "" {
		req.SourceLang = body.SourceLang
	}
	if body.TargetLang != "" {
		req.TargetLang = body.TargetLang
	}
	if body.Formality != "" {
		req.Formality = body.Formality
	}
	if body.Engine != "" {
		req.Engine = body.Engine
	}
	if err := session.Form().Apply(req); err != nil {
		s.writeFailure(w, err)
		return
	}

	// The confirmation round trip happens in the browser: a long text is
	// bounced once and resent with confirm_long set.
	if chars := utf8.RuneCountInString(req.InputText); chars > s.opts.LongTextThreshold && !body.ConfirmLong {
		writeJSON(w, http.StatusUnprocessableEntity, confirmResponse{
			errorBody: errorBody{Error: "the text is long and may consume more tokens", Code: "confirm_required"},
			Chars:     chars,
			Threshold: s.opts.LongTextThreshold,
		})
		return
	}

	res, err := session.Translate(r.Context(), req)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, translateResponse{
		Text:        res.Text,
		Fingerprint: res.Fingerprint,
		Engine:      res.Engine,
		ElapsedMS:   res.Elapsed.Milliseconds(),
		Changed:     res.Changed,
	})
}

type exerciseBody struct {
	TargetLang quicklang.Language `json:"target_lang,omitempty"`
	Engine     quicklang.Engine   `json:"engine,omitempty"`
}

func (s *Server) exercises(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	var body exerciseBody
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
			return
		}
	}
	if body.TargetLang != "" {
		if err := session.Form().SetTargetLang(body.TargetLang); err != nil {
			s.writeFailure(w, err)
			return
		}
	}
	if body.Engine != "" {
		if err := session.Form().SetEngine(body.Engine); err != nil {
			s.writeFailure(w, err)
			return
		}
	}

	var grammars []quicklang.GrammarContext
	if g := chi.URLParam(r, "grammar"); g != "" {
		grammar, err := quicklang.ParseGrammarContext(g)
		if err != nil {
			s.writeFailure(w, err)
			return
		}
		grammars = append(grammars, grammar)
	}

	exercises, err := session.GenerateExercises(r.Context(), grammars...)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]quicklang.Exercise{"exercises": exercises})
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	content, err := quicklang.ExportContent(session.Output(), session.Form().Snapshot().InputText)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+quicklang.DefaultExportFilename+`"`)
	_, _ = w.Write([]byte(content))
}

func (s *Server) importText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, quicklang.MaxImportSize+64<<10)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "expected a multipart field named file")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".txt") {
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_file", "only .txt files can be imported")
		return
	}

	text, err := quicklang.ImportText(file)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	session := sessionFrom(r)
	session.Form().SetInputText(text)
	writeJSON(w, http.StatusOK, map[string]string{"input_text": text})
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	if err := sessionFrom(r).Reset(); err != nil {
		s.writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
