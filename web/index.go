package web

import (
	"html/template"
	"net/http"

	"github.com/ZaguanLabs/quicklang"
)

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

type indexData struct {
	Languages         []quicklang.Language
	Formalities       []quicklang.Formality
	Engines           []quicklang.Engine
	Grammars          []quicklang.GrammarContext
	State             stateResponse
	OutputDir         string
	LongTextThreshold int
	Version           string
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	st := stateOf(sessionFrom(r))
	data := indexData{
		Languages:         quicklang.Languages(),
		Formalities:       quicklang.Formalities(),
		Engines:           quicklang.Engines(),
		Grammars:          quicklang.GrammarContexts(),
		State:             st,
		OutputDir:         st.Form.TargetLang.Direction(),
		LongTextThreshold: s.opts.LongTextThreshold,
		Version:           quicklang.Version,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("rendering index", "error", err)
	}
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Quick Language Helper</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; }
        textarea { width: 100%; min-height: 8rem; }
        .row { display: flex; gap: 1rem; margin: .5rem 0; align-items: center; }
        #notice { min-height: 1.5rem; }
        #notice.error { color: #b00020; }
        #output { white-space: pre-wrap; border: 1px solid #ccc; padding: .5rem; min-height: 6rem; }
    </style>
</head>
<body>
<h1>Quick Language Helper</h1>

<section id="key-section">
    <div class="row">
        <label for="api-key">API key</label>
        <input id="api-key" type="password" autocomplete="off" />
        <button id="save-key" type="button">Save</button>
        <span id="key-status" data-has-key="{{.State.HasKey}}">{{if .State.HasKey}}Key active{{else}}No key{{end}}</span>
    </div>
</section>

<form id="translate-form" data-threshold="{{.LongTextThreshold}}">
    <div class="row">
        <select id="source-lang" name="source_lang">
            {{- range .Languages}}
            <option value="{{.}}"{{if eq . $.State.Form.SourceLang}} selected{{end}}>{{.Name}}</option>
            {{- end}}
        </select>
        <select id="target-lang" name="target_lang">
            {{- range .Languages}}
            <option value="{{.}}"{{if eq . $.State.Form.TargetLang}} selected{{end}}>{{.Name}}</option>
            {{- end}}
        </select>
        <select id="formality" name="formality">
            {{- range .Formalities}}
            <option value="{{.}}" title="{{.Description}}"{{if eq . $.State.Form.Formality}} selected{{end}}>{{.Label}}</option>
            {{- end}}
        </select>
        <select id="engine" name="engine">
            {{- range .Engines}}
            <option value="{{.}}"{{if eq . $.State.Form.Engine}} selected{{end}}>{{.Label}}</option>
            {{- end}}
        </select>
    </div>
    <textarea id="input-text" name="input_text" placeholder="Enter text to translate">{{.State.Form.InputText}}</textarea>
    <div class="row">
        <button id="translate" type="submit">Translate</button>
        <a href="/api/export" id="export">Export</a>
        <input id="import" type="file" accept=".txt" />
    </div>
</form>

<div id="notice" role="status"></div>
<div id="output" dir="{{.OutputDir}}">{{.State.Output}}</div>

<section id="exercises">
    <h2>Grammar practice</h2>
    <div class="row">
        {{- range .Grammars}}
        <button type="button" class="exercise" data-grammar="{{.}}">{{.Label}}</button>
        {{- end}}
    </div>
    <div id="exercise-output"></div>
</section>

<footer><small>quicklang {{.Version}}</small></footer>

<script>
const $ = (id) => document.getElementById(id);
const notice = (msg, isError) => { $("notice").textContent = msg; $("notice").className = isError ? "error" : ""; };

async function call(method, url, body) {
    const opts = { method, headers: {} };
    if (body !== undefined) { opts.headers["Content-Type"] = "application/json"; opts.body = JSON.stringify(body); }
    const resp = await fetch(url, opts);
    const text = await resp.text();
    return { status: resp.status, data: text ? JSON.parse(text) : {} };
}

function formBody(confirmLong) {
    return {
        input_text: $("input-text").value,
        source_lang: $("source-lang").value,
        target_lang: $("target-lang").value,
        formality: $("formality").value,
        engine: $("engine").value,
        confirm_long: confirmLong,
    };
}

async function translate(confirmLong) {
    $("translate").disabled = true;
    notice("Translating...", false);
    try {
        let { status, data } = await call("POST", "/api/translate", formBody(confirmLong));
        if (status === 422 && data.code === "confirm_required") {
            if (!confirm("Your text is " + data.chars + " characters long and may consume more tokens. Continue?")) {
                notice("Translation cancelled.", false);
                return;
            }
            return translate(true);
        }
        if (status !== 200) { notice(data.error, true); return; }
        $("output").textContent = data.text;
        notice("Translated with " + data.engine + " in " + data.elapsed_ms + " ms.", false);
    } finally {
        $("translate").disabled = false;
    }
}

$("translate-form").addEventListener("submit", (e) => { e.preventDefault(); translate(false); });

$("save-key").addEventListener("click", async () => {
    const { status, data } = await call("POST", "/api/key", { api_key: $("api-key").value, engine: $("engine").value });
    if (status !== 204) { notice(data.error, true); return; }
    $("api-key").value = "";
    $("key-status").textContent = "Key active";
    notice("API key saved.", false);
});

$("import").addEventListener("change", async (e) => {
    const file = e.target.files[0];
    if (!file) return;
    const fd = new FormData();
    fd.append("file", file);
    const resp = await fetch("/api/import", { method: "POST", body: fd });
    const data = await resp.json();
    if (resp.status !== 200) { notice(data.error, true); return; }
    $("input-text").value = data.input_text;
});

for (const btn of document.querySelectorAll("button.exercise")) {
    btn.addEventListener("click", async () => {
        notice("Generating exercises...", false);
        const { status, data } = await call("POST", "/api/exercises/" + btn.dataset.grammar,
            { target_lang: $("target-lang").value, engine: $("engine").value });
        if (status !== 200) { notice(data.error, true); return; }
        $("exercise-output").textContent = data.exercises.map((x) => x.text).join("\n\n");
        notice("", false);
    });
}
</script>
</body>
</html>
`
