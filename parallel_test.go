package quicklang

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func exerciseRequests(lang Language) []ExerciseRequest {
	var reqs []ExerciseRequest
	for _, g := range GrammarContexts() {
		reqs = append(reqs, ExerciseRequest{Grammar: g, Language: lang, Engine: EngineOpenAI})
	}
	return reqs
}

func TestParallelExercises_PreservesOrder(t *testing.T) {
	eng := &fakeEngine{}
	// Finish in reverse order.
	eng.exercise = func(ctx context.Context, req ExerciseRequest) (string, error) {
		delay := map[GrammarContext]time.Duration{
			GrammarFuture:    30 * time.Millisecond,
			GrammarPast:      15 * time.Millisecond,
			GrammarImperfect: 0,
		}[req.Grammar]
		time.Sleep(delay)
		return string(req.Grammar), nil
	}

	got, err := ParallelExercises(context.Background(), eng, exerciseRequests(French), nil)
	if err != nil {
		t.Fatalf("ParallelExercises failed: %v", err)
	}

	for i, g := range GrammarContexts() {
		if got[i].Grammar != g || got[i].Text != string(g) {
			t.Errorf("result %d = %+v, want grammar %s", i, got[i], g)
		}
		if got[i].Language != French {
			t.Errorf("result %d language = %s", i, got[i].Language)
		}
	}
}

func TestParallelExercises_RunsConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int32
	eng := &fakeEngine{}
	eng.exercise = func(ctx context.Context, req ExerciseRequest) (string, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
		inFlight.Add(-1)
		return "ok", nil
	}

	if _, err := ParallelExercises(context.Background(), eng, exerciseRequests(Spanish), nil); err != nil {
		t.Fatal(err)
	}
	if peak.Load() < 2 {
		t.Errorf("expected concurrent calls, peak was %d", peak.Load())
	}
}

func TestParallelExercises_FirstErrorWins(t *testing.T) {
	boom := errors.New("boom")
	eng := &fakeEngine{}
	eng.exercise = func(ctx context.Context, req ExerciseRequest) (string, error) {
		if req.Grammar == GrammarPast {
			return "", boom
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Second):
			return "late", nil
		}
	}

	rec := &recordingRecorder{}
	start := time.Now()
	_, err := ParallelExercises(context.Background(), eng, exerciseRequests(Spanish), rec)
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("remaining calls should be cancelled after the first failure")
	}
	if len(rec.exercises) != 3 {
		t.Errorf("every attempt should be recorded, got %v", rec.exercises)
	}
}

func TestParallelExercises_Empty(t *testing.T) {
	got, err := ParallelExercises(context.Background(), &fakeEngine{}, nil, nil)
	if err != nil || len(got) != 0 {
		t.Errorf("ParallelExercises(nil) = %v, %v", got, err)
	}
}
