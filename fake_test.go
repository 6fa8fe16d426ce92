package quicklang

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// fakeEngine is a scriptable AIEngine for tests. Without hooks it answers
// "<input> (<target>)" for translations and "<grammar> in <language>" for
// exercises.
type fakeEngine struct {
	mu             sync.Mutex
	translateCalls int
	exerciseCalls  int
	lastRequest    TranslationRequest

	translate   func(ctx context.Context, req TranslationRequest) (string, error)
	exercise    func(ctx context.Context, req ExerciseRequest) (string, error)
	validateErr error
}

func (f *fakeEngine) Translate(ctx context.Context, req TranslationRequest) (string, error) {
	f.mu.Lock()
	f.translateCalls++
	f.lastRequest = req
	hook := f.translate
	f.mu.Unlock()

	if hook != nil {
		return hook(ctx, req)
	}
	return fmt.Sprintf("%s (%s)", req.InputText, req.TargetLang), nil
}

func (f *fakeEngine) GenerateExercise(ctx context.Context, req ExerciseRequest) (string, error) {
	f.mu.Lock()
	f.exerciseCalls++
	hook := f.exercise
	f.mu.Unlock()

	if hook != nil {
		return hook(ctx, req)
	}
	return fmt.Sprintf("%s in %s", req.Grammar, req.Language), nil
}

func (f *fakeEngine) ValidateKey(ctx context.Context) error {
	return f.validateErr
}

func (f *fakeEngine) calls() (translations, exercises int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.translateCalls, f.exerciseCalls
}

func (f *fakeEngine) setTranslate(hook func(ctx context.Context, req TranslationRequest) (string, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.translate = hook
}

// factoryFor returns an EngineFactory handing out eng for every kind and
// recording the keys it was called with.
func factoryFor(eng AIEngine) (EngineFactory, *[]string) {
	var mu sync.Mutex
	keys := []string{}
	return func(kind Engine, apiKey string) (AIEngine, error) {
		mu.Lock()
		keys = append(keys, apiKey)
		mu.Unlock()
		return eng, nil
	}, &keys
}

// recordingRecorder collects Recorder events.
type recordingRecorder struct {
	mu         sync.Mutex
	rejections []string
	dispatches []error
	exercises  []GrammarContext
}

func (r *recordingRecorder) RequestRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejections = append(r.rejections, reason)
}

func (r *recordingRecorder) DispatchCompleted(_ Engine, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatches = append(r.dispatches, err)
}

func (r *recordingRecorder) ExerciseGenerated(_ Engine, g GrammarContext, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exercises = append(r.exercises, g)
}
