package planner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wanderplan/internal/ai"
	"wanderplan/internal/types"
)

// Quota limits how many generations a client may request.
type Quota interface {
	Use(ctx context.Context, client string) error
}

// QuotaReporter is implemented by quotas that can report the allowance left.
type QuotaReporter interface {
	Remaining(ctx context.Context, client string) (int, error)
}

// DestinationLookup finds map details for a destination.
type DestinationLookup interface {
	Lookup(ctx context.Context, destination string) (*types.Destination, error)
}

type Options struct {
	Quota   Quota             // nil disables quota checks
	Places  DestinationLookup // nil disables enrichment
	Timeout time.Duration     // 0 leaves the generation unbounded
	Now     func() time.Time
}

const enrichTimeout = 10 * time.Second

type inflight struct {
	attempt int
	cancel  context.CancelFunc
}

// Service runs the controller: one background generation per submission.
type Service struct {
	store   Store
	gen     ai.ItineraryGenerator
	log     *zap.Logger
	quota   Quota
	places  DestinationLookup
	timeout time.Duration
	now     func() time.Time

	mu      sync.Mutex
	running map[string]inflight
	wg      sync.WaitGroup
}

func NewService(store Store, gen ai.ItineraryGenerator, log *zap.Logger, opts Options) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:   store,
		gen:     gen,
		log:     log,
		quota:   opts.Quota,
		places:  opts.Places,
		timeout: opts.Timeout,
		now:     now,
		running: make(map[string]inflight),
	}
}

func (s *Service) Now() time.Time { return s.now() }

func (s *Service) CreateSession(ctx context.Context) (*Session, error) {
	sess := NewSession(uuid.NewString(), s.now())
	if err := s.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Remaining reports the generations left for client. ok is false when no
// quota is configured or it cannot report one.
func (s *Service) Remaining(ctx context.Context, client string) (remaining int, ok bool, err error) {
	r, ok := s.quota.(QuotaReporter)
	if !ok {
		return 0, false, nil
	}
	remaining, err = r.Remaining(ctx, client)
	if err != nil {
		return 0, false, err
	}
	return remaining, true, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

// Submit moves an idle session to submitting and launches exactly one
// generation. Invalid preferences, a busy session or an exhausted quota
// return an error without issuing a request. Quota is only charged once
// the session has been claimed, so a rejected submission never spends it.
func (s *Service) Submit(ctx context.Context, id, client string, prefs types.Preferences) (*Session, error) {
	sess, err := s.store.Update(ctx, id, func(sess *Session) error {
		return sess.Submit(prefs, s.now())
	})
	if err != nil {
		return nil, err
	}
	attempt := sess.Attempt

	if s.quota != nil {
		if err := s.quota.Use(ctx, client); err != nil {
			if _, rerr := s.store.Update(context.Background(), id, func(sess *Session) error {
				return sess.Abandon(attempt)
			}); rerr != nil && !errors.Is(rerr, ErrStale) {
				s.log.Error("failed to release session after quota check", zap.String("session", id), zap.Error(rerr))
			}
			return nil, err
		}
	}

	var (
		genCtx context.Context
		cancel context.CancelFunc
	)
	if s.timeout > 0 {
		genCtx, cancel = context.WithTimeout(context.Background(), s.timeout)
	} else {
		genCtx, cancel = context.WithCancel(context.Background())
	}
	s.mu.Lock()
	s.running[id] = inflight{attempt: attempt, cancel: cancel}
	s.mu.Unlock()

	// A start-over that landed before the registration above found nothing to cancel.
	if current, err := s.store.Get(ctx, id); err != nil || current.Attempt != attempt {
		s.release(id, attempt)
		if err != nil {
			return nil, err
		}
		return current, nil
	}

	s.log.Info("itinerary requested",
		zap.String("session", id),
		zap.Int("attempt", attempt),
		zap.String("destination", prefs.Destination),
		zap.Int("days", prefs.Days()),
	)

	s.wg.Add(1)
	go s.generate(genCtx, id, attempt, *sess.Preferences)
	return sess, nil
}

func (s *Service) generate(ctx context.Context, id string, attempt int, prefs types.Preferences) {
	defer s.wg.Done()
	defer s.release(id, attempt)

	started := s.now()
	it, err := s.gen.Generate(ctx, prefs)
	log := s.log.With(zap.String("session", id), zap.Int("attempt", attempt))

	// Results are applied with a fresh context: the generation context may be cancelled.
	storeCtx := context.Background()
	if err != nil {
		kind := ai.Classify(err)
		_, uerr := s.store.Update(storeCtx, id, func(sess *Session) error {
			return sess.Fail(attempt, kind)
		})
		if errors.Is(uerr, ErrStale) {
			log.Debug("discarding stale failure", zap.Error(err))
			return
		}
		if uerr != nil {
			log.Error("failed to record generation failure", zap.Error(uerr))
			return
		}
		log.Warn("itinerary generation failed", zap.String("kind", string(kind)), zap.Error(err))
		return
	}

	_, uerr := s.store.Update(storeCtx, id, func(sess *Session) error {
		return sess.Complete(attempt, it)
	})
	if errors.Is(uerr, ErrStale) {
		log.Debug("discarding stale itinerary")
		return
	}
	if uerr != nil {
		log.Error("failed to record itinerary", zap.Error(uerr))
		return
	}
	log.Info("itinerary generated",
		zap.Int("days", len(it.DailyPlan)),
		zap.Float64("total_cost", it.TotalCost),
		zap.Duration("took", s.now().Sub(started)),
	)

	s.enrich(id, attempt, it.Destination, log)
}

// enrich is best effort: lookup failures never affect the session state.
func (s *Service) enrich(id string, attempt int, destination string, log *zap.Logger) {
	if s.places == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), enrichTimeout)
	defer cancel()

	place, err := s.places.Lookup(ctx, destination)
	if err != nil {
		log.Warn("destination lookup failed", zap.String("destination", destination), zap.Error(err))
		return
	}
	if _, err := s.store.Update(ctx, id, func(sess *Session) error {
		return sess.Enrich(attempt, place)
	}); err != nil && !errors.Is(err, ErrStale) {
		log.Warn("failed to record destination", zap.Error(err))
	}
}

func (s *Service) release(id string, attempt int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.running[id]; ok && r.attempt == attempt {
		r.cancel()
		delete(s.running, id)
	}
}

// StartOver resets the session and aborts its in-flight request, if any.
func (s *Service) StartOver(ctx context.Context, id string) (*Session, error) {
	sess, err := s.store.Update(ctx, id, func(sess *Session) error {
		sess.StartOver()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if r, ok := s.running[id]; ok {
		r.cancel()
		delete(s.running, id)
	}
	s.mu.Unlock()

	s.log.Info("session reset", zap.String("session", id), zap.Int("attempt", sess.Attempt))
	return sess, nil
}

func (s *Service) ToggleDay(ctx context.Context, id string, day int) (*Session, error) {
	return s.store.Update(ctx, id, func(sess *Session) error {
		return sess.ToggleDay(day)
	})
}

// Close aborts every in-flight generation and waits for the workers to exit.
func (s *Service) Close() {
	s.mu.Lock()
	for id, r := range s.running {
		r.cancel()
		delete(s.running, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// Wait blocks until every launched generation has finished.
func (s *Service) Wait() {
	s.wg.Wait()
}
