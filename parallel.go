package quicklang

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// maxParallelExercises bounds concurrent engine calls for one batch.
const maxParallelExercises = 3

// ParallelExercises generates one exercise per request concurrently.
// Results are returned in request order. The first failure cancels the
// remaining calls and is returned. rec may be nil.
func ParallelExercises(ctx context.Context, engine AIEngine, reqs []ExerciseRequest, rec Recorder) ([]Exercise, error) {
	if rec == nil {
		rec = nopRecorder{}
	}

	exercises := make([]Exercise, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelExercises)

	for i, req := range reqs {
		g.Go(func() error {
			text, err := engine.GenerateExercise(ctx, req)
			rec.ExerciseGenerated(req.Engine, req.Grammar, err)
			if err != nil {
				return err
			}
			exercises[i] = Exercise{
				Grammar:  req.Grammar,
				Language: req.Language,
				Text:     text,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return exercises, nil
}
