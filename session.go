package quicklang

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ZaguanLabs/quicklang/internal/logging"
	"github.com/ZaguanLabs/quicklang/store"
)

// AIEngine is the interface for AI backends. Implementations must be safe
// for concurrent use.
type AIEngine interface {
	Translate(ctx context.Context, req TranslationRequest) (string, error)
	GenerateExercise(ctx context.Context, req ExerciseRequest) (string, error)
}

// KeyValidator is implemented by engines that can verify their API key with
// a lightweight call.
type KeyValidator interface {
	ValidateKey(ctx context.Context) error
}

// EngineFactory builds an engine of the given kind bound to an API key.
type EngineFactory func(kind Engine, apiKey string) (AIEngine, error)

// EngineDecorator wraps an engine (retry, rate limiting, ...).
type EngineDecorator func(AIEngine) AIEngine

// Rejection reasons reported to the Recorder.
const (
	RejectMissingKey = "missing_key"
	RejectEmpty      = "empty_input"
	RejectInvalid    = "invalid"
	RejectDeclined   = "declined"
	RejectBusy       = "busy"
	RejectDuplicate  = "duplicate"
)

// Recorder receives outcome events, typically to update metrics.
type Recorder interface {
	RequestRejected(reason string)
	DispatchCompleted(engine Engine, elapsed time.Duration, err error)
	ExerciseGenerated(engine Engine, grammar GrammarContext, err error)
}

type nopRecorder struct{}

func (nopRecorder) RequestRejected(string)                          {}
func (nopRecorder) DispatchCompleted(Engine, time.Duration, error)  {}
func (nopRecorder) ExerciseGenerated(Engine, GrammarContext, error) {}

// Session is the state of one user's helper: form selections, the in-memory
// API key, the busy flag and access to the last processed fingerprint.
type Session struct {
	id        string
	factory   EngineFactory
	gate      *Gate
	form      *Form
	logger    *slog.Logger
	recorder  Recorder
	confirm   func(chars int) bool
	threshold int
	decorate  []EngineDecorator
	now       func() time.Time

	mu      sync.Mutex
	apiKey  string
	engines map[Engine]AIEngine
	busy    bool
	last    *TranslationRequest
	lastAt  time.Time
	output  string
}

// SessionOption is a functional option for configuring the Session.
type SessionOption func(*Session)

// WithStore sets the store holding the last processed fingerprint.
func WithStore(s FingerprintStore) SessionOption {
	return func(sess *Session) {
		sess.gate = NewGate(s)
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithRecorder sets the outcome recorder.
func WithRecorder(r Recorder) SessionOption {
	return func(s *Session) {
		s.recorder = r
	}
}

// WithLongTextConfirm sets the callback asked before sending input longer
// than the long-text threshold. Returning false cancels the request.
func WithLongTextConfirm(confirm func(chars int) bool) SessionOption {
	return func(s *Session) {
		s.confirm = confirm
	}
}

// WithLongTextThreshold sets the input length, in characters, above which
// confirmation is requested.
func WithLongTextThreshold(chars int) SessionOption {
	return func(s *Session) {
		if chars > 0 {
			s.threshold = chars
		}
	}
}

// WithEngineDecorator wraps every engine the session builds. Decorators are
// applied in the order given, the last one outermost.
func WithEngineDecorator(d EngineDecorator) SessionOption {
	return func(s *Session) {
		s.decorate = append(s.decorate, d)
	}
}

// WithRetryPolicy retries retryable provider errors with exponential backoff.
func WithRetryPolicy(cfg RetryConfig) SessionOption {
	return WithEngineDecorator(func(e AIEngine) AIEngine {
		return NewRetryableEngine(e, cfg)
	})
}

// WithRateLimit limits dispatches of the session, across all engines. Each
// session the option is applied to gets its own bucket.
func WithRateLimit(cfg RateLimitConfig) SessionOption {
	return func(s *Session) {
		limiter := NewRateLimiter(cfg)
		s.decorate = append(s.decorate, func(e AIEngine) AIEngine {
			return &RateLimitedEngine{engine: e, limiter: limiter}
		})
	}
}

// WithClock sets the time source used for elapsed times.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession creates a session with the given id and engine factory.
func NewSession(id string, factory EngineFactory, opts ...SessionOption) *Session {
	s := &Session{
		id:        id,
		factory:   factory,
		form:      NewForm(),
		logger:    logging.NewNop(),
		recorder:  nopRecorder{},
		threshold: DefaultLongTextThreshold,
		now:       time.Now,
		engines:   make(map[Engine]AIEngine),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.gate == nil {
		s.gate = NewGate(store.NewInMemoryStore(0))
	}
	s.logger = s.logger.With("session", s.id)

	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Form returns the session's input state holder.
func (s *Session) Form() *Form {
	return s.form
}

// SetAPIKey validates key and, on success, makes it the session's active key.
// The key is only ever held in memory.
func (s *Session) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if len(key) < MinAPIKeyLength {
		return ErrInvalidAPIKey
	}

	kind := s.form.Snapshot().Engine
	eng, err := s.build(kind, key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
	}

	if v, ok := eng.(KeyValidator); ok {
		if err := v.ValidateKey(ctx); err != nil {
			s.logger.Warn("api key rejected by engine", "engine", kind, "error", err)
			return fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
		}
	}

	s.mu.Lock()
	s.apiKey = key
	s.engines = map[Engine]AIEngine{kind: eng}
	s.mu.Unlock()

	s.logger.Info("api key activated", "engine", kind)
	return nil
}

// HasAPIKey reports whether an API key is active.
func (s *Session) HasAPIKey() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKey != ""
}

// ClearAPIKey forgets the API key and every engine built with it.
func (s *Session) ClearAPIKey() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = ""
	s.engines = make(map[Engine]AIEngine)
}

// Busy reports whether a request is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Output returns the text of the last successful translation.
func (s *Session) Output() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.output
}

// LastFingerprint returns the fingerprint of the last successful request.
func (s *Session) LastFingerprint() (Fingerprint, bool) {
	return s.gate.Last(s.id)
}

// Submit translates the current form contents.
func (s *Session) Submit(ctx context.Context) (*TranslationResult, error) {
	return s.Translate(ctx, s.form.Snapshot())
}

// Translate validates req, rejects it if it is identical to the last
// successfully processed request, and otherwise dispatches it to the engine.
func (s *Session) Translate(ctx context.Context, req TranslationRequest) (*TranslationResult, error) {
	if !s.HasAPIKey() {
		s.reject(RejectMissingKey)
		return nil, ErrMissingAPIKey
	}

	if err := req.Validate(); err != nil {
		if errors.Is(err, ErrEmptyInput) {
			s.reject(RejectEmpty)
		} else {
			s.reject(RejectInvalid)
		}
		return nil, err
	}

	if chars := utf8.RuneCountInString(req.InputText); chars > s.threshold {
		if s.confirm != nil && !s.confirm(chars) {
			s.reject(RejectDeclined)
			return nil, ErrDeclined
		}
		s.logger.Warn("large input may consume more tokens", "chars", chars)
	}

	if !s.acquire() {
		s.reject(RejectBusy)
		return nil, ErrBusy
	}
	defer s.release()

	fp := ComputeFingerprint(req)
	var cacheErr *CacheError
	if err := s.gate.Check(s.id, fp); errors.As(err, &cacheErr) {
		s.logger.Warn("could not read last fingerprint, duplicate check skipped", "error", err)
	} else if err != nil {
		var dup *DuplicateRequestError
		if errors.As(err, &dup) {
			s.mu.Lock()
			dup.Since = s.lastAt
			s.mu.Unlock()
		}
		s.reject(RejectDuplicate)
		s.logger.Debug("duplicate request rejected", "fingerprint", fp.Short())
		return nil, err
	}
	input := HashText(req.InputText)[:12]

	eng, err := s.engineFor(req.Engine)
	if err != nil {
		return nil, err
	}

	start := s.now()
	text, err := eng.Translate(ctx, req)
	elapsed := s.now().Sub(start)
	s.recorder.DispatchCompleted(req.Engine, elapsed, err)

	if err != nil {
		s.logger.Warn("translation failed",
			"engine", req.Engine,
			"fingerprint", fp.Short(),
			"input", input,
			"error", err,
		)
		return nil, asProviderError(req.Engine, err)
	}

	if err := s.gate.Commit(s.id, fp); err != nil {
		// The translation succeeded; losing the record only means an
		// identical resubmission will not be caught.
		s.logger.Warn("could not record fingerprint", "error", err)
	}

	s.mu.Lock()
	var changed []Field
	if s.last != nil {
		changed = DiffRequests(*s.last, req).Changed
	}
	snapshot := req
	s.last = &snapshot
	s.lastAt = s.now()
	s.output = text
	s.mu.Unlock()

	s.logger.Info("translation completed",
		"engine", req.Engine,
		"source", req.SourceLang,
		"target", req.TargetLang,
		"formality", req.Formality,
		"fingerprint", fp.Short(),
		"input", input,
		"elapsed", elapsed,
	)

	return &TranslationResult{
		Text:        text,
		Fingerprint: fp,
		Engine:      req.Engine,
		Elapsed:     elapsed,
		Changed:     changed,
	}, nil
}

// GenerateExercise generates practice sentences for one grammar context in
// the form's target language, using the form's engine.
func (s *Session) GenerateExercise(ctx context.Context, grammar GrammarContext) (*Exercise, error) {
	exercises, err := s.GenerateExercises(ctx, grammar)
	if err != nil {
		return nil, err
	}
	return &exercises[0], nil
}

// GenerateExercises generates exercises for the given grammar contexts
// concurrently (all contexts when none are given). Results keep the order of
// the arguments.
func (s *Session) GenerateExercises(ctx context.Context, grammars ...GrammarContext) ([]Exercise, error) {
	if !s.HasAPIKey() {
		s.reject(RejectMissingKey)
		return nil, ErrMissingAPIKey
	}

	if len(grammars) == 0 {
		grammars = GrammarContexts()
	}

	form := s.form.Snapshot()
	reqs := make([]ExerciseRequest, len(grammars))
	for i, g := range grammars {
		reqs[i] = ExerciseRequest{Grammar: g, Language: form.TargetLang, Engine: form.Engine}
		if err := reqs[i].Validate(); err != nil {
			s.reject(RejectInvalid)
			return nil, err
		}
	}

	if !s.acquire() {
		s.reject(RejectBusy)
		return nil, ErrBusy
	}
	defer s.release()

	eng, err := s.engineFor(form.Engine)
	if err != nil {
		return nil, err
	}

	exercises, err := ParallelExercises(ctx, eng, reqs, s.recorder)
	if err != nil {
		s.logger.Warn("exercise generation failed", "engine", form.Engine, "error", err)
		return nil, asProviderError(form.Engine, err)
	}

	s.logger.Info("exercises generated", "engine", form.Engine, "language", form.TargetLang, "count", len(exercises))
	return exercises, nil
}

// Reset forgets the last processed request and output. The API key is kept.
func (s *Session) Reset() error {
	s.mu.Lock()
	s.last = nil
	s.lastAt = time.Time{}
	s.output = ""
	s.mu.Unlock()
	return s.gate.Reset(s.id)
}

func (s *Session) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *Session) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *Session) reject(reason string) {
	s.recorder.RequestRejected(reason)
}

// engineFor returns the session's engine of the given kind, building it with
// the active key on first use.
func (s *Session) engineFor(kind Engine) (AIEngine, error) {
	s.mu.Lock()
	key := s.apiKey
	eng, ok := s.engines[kind]
	s.mu.Unlock()

	if key == "" {
		return nil, ErrMissingAPIKey
	}
	if ok {
		return eng, nil
	}

	eng, err := s.build(kind, key)
	if err != nil {
		return nil, &ProviderError{Message: "creating engine", Engine: kind, Cause: err}
	}

	s.mu.Lock()
	if s.apiKey == key {
		s.engines[kind] = eng
	}
	s.mu.Unlock()

	return eng, nil
}

func (s *Session) build(kind Engine, key string) (AIEngine, error) {
	if s.factory == nil {
		return nil, errors.New("no engine factory configured")
	}
	eng, err := s.factory(kind, key)
	if err != nil {
		return nil, err
	}
	for _, d := range s.decorate {
		eng = d(eng)
	}
	return eng, nil
}

// asProviderError normalizes a dispatch failure into a *ProviderError.
func asProviderError(kind Engine, err error) error {
	var pe *ProviderError
	if errors.As(err, &pe) {
		if pe.Engine == "" {
			pe.Engine = kind
		}
		return err
	}
	return &ProviderError{Message: "request failed", Engine: kind, Cause: err}
}
