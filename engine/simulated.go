package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ZaguanLabs/quicklang"
)

// Canned practice sentences returned by the simulated engine.
var cannedExercises = map[quicklang.GrammarContext]string{
	quicklang.GrammarFuture: "1. Tomorrow, I ____ (go) to the store.\n" +
		"2. Next week, they ____ (travel) to Paris.\n" +
		"3. She ____ (call) you later tonight.",
	quicklang.GrammarPast: "1. Yesterday, I ____ (visit) my grandmother.\n" +
		"2. Last month, we ____ (buy) a new car.\n" +
		"3. They ____ (eat) dinner at 8pm last night.",
	quicklang.GrammarImperfect: "1. When I was a child, I ____ (play) in the park every day.\n" +
		"2. He ____ (walk) to school every morning.\n" +
		"3. We ____ (live) in Spain for five years.",
}

// SimulatedConfig configures a SimulatedEngine.
type SimulatedConfig struct {
	Delay time.Duration // Latency of every call
	Err   error         // When set, every call fails with this error
}

// SimulatedEngine answers without network access: translations echo the
// input with a note, exercises come from a fixed set. It is used for demos,
// offline runs and tests.
type SimulatedEngine struct {
	delay time.Duration

	mu           sync.Mutex
	err          error
	translations int
	exercises    int
	lastRequest  *quicklang.TranslationRequest
}

// NewSimulatedEngine creates a simulated engine.
func NewSimulatedEngine(cfg SimulatedConfig) *SimulatedEngine {
	return &SimulatedEngine{delay: cfg.Delay, err: cfg.Err}
}

// SimulatedTranslation returns the demo output for req. Spanish and French
// are spelled out; other targets use their identifier.
func SimulatedTranslation(req quicklang.TranslationRequest) string {
	target := string(req.TargetLang)
	switch req.TargetLang {
	case quicklang.Spanish, quicklang.French:
		target = req.TargetLang.Name()
	}
	return fmt.Sprintf("%s [Translated to %s with %s formality]",
		req.InputText, target, req.Formality)
}

// Translate returns the demo output after the configured delay.
func (e *SimulatedEngine) Translate(ctx context.Context, req quicklang.TranslationRequest) (string, error) {
	e.mu.Lock()
	e.translations++
	e.lastRequest = &req
	injected := e.err
	e.mu.Unlock()

	if err := e.wait(ctx); err != nil {
		return "", err
	}
	if injected != nil {
		return "", injected
	}
	return SimulatedTranslation(req), nil
}

// GenerateExercise returns the canned exercise for the grammar context.
func (e *SimulatedEngine) GenerateExercise(ctx context.Context, req quicklang.ExerciseRequest) (string, error) {
	e.mu.Lock()
	e.exercises++
	injected := e.err
	e.mu.Unlock()

	if err := e.wait(ctx); err != nil {
		return "", err
	}
	if injected != nil {
		return "", injected
	}

	text, ok := cannedExercises[req.Grammar]
	if !ok {
		return "", &quicklang.ProviderError{
			Message: fmt.Sprintf("no exercises for %q", req.Grammar),
			Engine:  req.Engine,
		}
	}
	return text, nil
}

// ValidateKey accepts any key.
func (e *SimulatedEngine) ValidateKey(ctx context.Context) error {
	return ctx.Err()
}

// SetError makes subsequent calls fail with err (nil to recover).
func (e *SimulatedEngine) SetError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
}

// Calls returns the number of translation and exercise calls received.
func (e *SimulatedEngine) Calls() (translations, exercises int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.translations, e.exercises
}

// LastRequest returns the last translation request received.
func (e *SimulatedEngine) LastRequest() *quicklang.TranslationRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastRequest
}

func (e *SimulatedEngine) wait(ctx context.Context) error {
	if e.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(e.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ AIEngine = (*SimulatedEngine)(nil)
var _ quicklang.KeyValidator = (*SimulatedEngine)(nil)
