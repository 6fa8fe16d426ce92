// Package quicklang provides an AI-assisted translation and language helper.
//
// A Session holds one user's form selections, an in-memory API key and the
// fingerprint of the last successfully processed request. Submitting a
// request whose fingerprint matches that last one is rejected without
// contacting the engine, so a double click or an unchanged resubmission
// never costs a second API call. Failed dispatches leave the fingerprint
// untouched and can be retried as-is.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/quicklang"
//	    "github.com/ZaguanLabs/quicklang/engine"
//	)
//
//	func main() {
//	    factory := engine.NewFactory(engine.Config{})
//	    s := quicklang.NewSession("local", factory)
//
//	    if err := s.SetAPIKey(ctx, os.Getenv("OPENAI_API_KEY")); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    result, err := s.Translate(ctx, quicklang.TranslationRequest{
//	        InputText:  "Hello",
//	        SourceLang: quicklang.English,
//	        TargetLang: quicklang.Spanish,
//	        Formality:  quicklang.FormalityNeutral,
//	        Engine:     quicklang.EngineOpenAI,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Text) // Hola
//	}
package quicklang
