package planner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wanderplan/internal/ai"
	"wanderplan/internal/modules/preference"
	"wanderplan/internal/modules/quota"
	"wanderplan/internal/types"
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls []types.Preferences
	fn    func(ctx context.Context, call int) (*types.Itinerary, error)
}

func (f *fakeGenerator) Generate(ctx context.Context, p types.Preferences) (*types.Itinerary, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	n := len(f.calls)
	f.mu.Unlock()
	return f.fn(ctx, n)
}

func (f *fakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeQuota struct{ err error }

func (q fakeQuota) Use(context.Context, string) error { return q.err }

type blockingQuota struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (q *blockingQuota) Use(context.Context, string) error {
	q.calls.Add(1)
	q.entered <- struct{}{}
	<-q.release
	return nil
}

// hookStore runs afterUpdate once, after the next successful Update.
type hookStore struct {
	Store
	afterUpdate func()
}

func (h *hookStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	sess, err := h.Store.Update(ctx, id, fn)
	if hook := h.afterUpdate; err == nil && hook != nil {
		h.afterUpdate = nil
		hook()
	}
	return sess, err
}

type fakePlaces struct {
	place *types.Destination
	err   error
}

func (f fakePlaces) Lookup(context.Context, string) (*types.Destination, error) {
	return f.place, f.err
}

type countingStore struct {
	Store
	updates atomic.Int32
}

func (c *countingStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	defer c.updates.Add(1)
	return c.Store.Update(ctx, id, fn)
}

func romeItinerary(t *testing.T) *types.Itinerary {
	t.Helper()
	raw, err := os.ReadFile("../../ai/testdata/rome_itinerary.json")
	require.NoError(t, err)
	it, err := ai.DecodeItinerary(string(raw))
	require.NoError(t, err)
	return it
}

func newTestService(gen ai.ItineraryGenerator, opts Options) (*Service, string) {
	svc := NewService(NewMemoryStore(time.Hour), gen, zap.NewNop(), opts)
	sess, err := svc.CreateSession(context.Background())
	if err != nil {
		panic(err)
	}
	return svc, sess.ID
}

func TestSubmitIssuesExactlyOneRequest(t *testing.T) {
	it := romeItinerary(t)
	gen := &fakeGenerator{fn: func(context.Context, int) (*types.Itinerary, error) { return it, nil }}
	svc, id := newTestService(gen, Options{})
	ctx := context.Background()

	sess, err := svc.Submit(ctx, id, "127.0.0.1", romePrefs())
	require.NoError(t, err)
	assert.Equal(t, StateSubmitting, sess.State)
	svc.Wait()

	assert.Equal(t, 1, gen.Calls())
	assert.Equal(t, romePrefs(), gen.calls[0])

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, got.State)

	snap := got.Snapshot(time.Now(), "k")
	require.NotNil(t, snap.Itinerary)
	assert.Len(t, snap.Itinerary.Days, 5)
	assert.Len(t, snap.Itinerary.Costs, len(it.CostBreakdown))
}

func TestSubmitEmptyInterestsNeverCallsModel(t *testing.T) {
	gen := &fakeGenerator{fn: func(context.Context, int) (*types.Itinerary, error) { return nil, nil }}
	svc, id := newTestService(gen, Options{})
	p := romePrefs()
	p.Interests = []string{}

	_, err := svc.Submit(context.Background(), id, "127.0.0.1", p)
	assert.ErrorIs(t, err, preference.ErrNoInterests)
	svc.Wait()

	assert.Zero(t, gen.Calls())
	got, _ := svc.Get(context.Background(), id)
	assert.Equal(t, StateIdle, got.State)
}

func TestMissingArraysFail(t *testing.T) {
	for name, body := range map[string]string{
		"no dailyPlan":     `{"tripTitle":"t","destination":"d","duration":"1 Day","totalCost":1,"costBreakdown":[{"category":"Food","amount":1}]}`,
		"no costBreakdown": `{"tripTitle":"t","destination":"d","duration":"1 Day","totalCost":1,"dailyPlan":[{"day":1,"date":"2025-06-01","theme":"x","activities":[{"time":"9","description":"y","type":"Other","cost":1}]}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			gen := &fakeGenerator{fn: func(context.Context, int) (*types.Itinerary, error) {
				return ai.DecodeItinerary(body)
			}}
			svc, id := newTestService(gen, Options{})
			_, err := svc.Submit(context.Background(), id, "127.0.0.1", romePrefs())
			require.NoError(t, err)
			svc.Wait()

			got, _ := svc.Get(context.Background(), id)
			assert.Equal(t, StateFailed, got.State)
			assert.Nil(t, got.Itinerary)
			assert.Equal(t, FailureMessage, got.Error)
			assert.Equal(t, ai.FailureInvalidItinerary, got.FailureKind)
		})
	}
}

func TestSubmitWhileSubmittingRejected(t *testing.T) {
	release := make(chan struct{})
	gen := &fakeGenerator{fn: func(context.Context, int) (*types.Itinerary, error) {
		<-release
		return nil, ai.ErrCommunication
	}}
	svc, id := newTestService(gen, Options{})
	ctx := context.Background()

	_, err := svc.Submit(ctx, id, "127.0.0.1", romePrefs())
	require.NoError(t, err)
	_, err = svc.Submit(ctx, id, "127.0.0.1", romePrefs())
	assert.ErrorIs(t, err, ErrNotIdle)

	close(release)
	svc.Wait()
	assert.Equal(t, 1, gen.Calls())

	got, _ := svc.Get(ctx, id)
	assert.Equal(t, ai.FailureCommunication, got.FailureKind)
}

// A late response from a request abandoned by start-over must never populate the session.
func TestStartOverDiscardsLateResponse(t *testing.T) {
	it := romeItinerary(t)
	releaseFirst := make(chan struct{})
	var firstCtxErr error
	gen := &fakeGenerator{fn: func(ctx context.Context, call int) (*types.Itinerary, error) {
		if call == 1 {
			<-releaseFirst
			firstCtxErr = ctx.Err()
			return it, nil // ignores cancellation on purpose
		}
		second := *it
		second.TripTitle = "Second attempt"
		return &second, nil
	}}
	svc, id := newTestService(gen, Options{})
	ctx := context.Background()

	_, err := svc.Submit(ctx, id, "127.0.0.1", romePrefs())
	require.NoError(t, err)

	reset, err := svc.StartOver(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, reset.State)

	close(releaseFirst)
	svc.Wait()

	assert.ErrorIs(t, firstCtxErr, context.Canceled)
	got, _ := svc.Get(ctx, id)
	assert.Equal(t, StateIdle, got.State)
	assert.Nil(t, got.Itinerary)
	assert.Nil(t, got.Preferences)

	// a fresh submission still works and only its own result lands
	_, err = svc.Submit(ctx, id, "127.0.0.1", romePrefs())
	require.NoError(t, err)
	svc.Wait()
	got, _ = svc.Get(ctx, id)
	require.Equal(t, StateSuccess, got.State)
	assert.Equal(t, "Second attempt", got.Itinerary.TripTitle)
	assert.Equal(t, 3, got.Attempt)
}

func TestOldAttemptCannotOverwriteNewOne(t *testing.T) {
	it := romeItinerary(t)
	releaseFirst := make(chan struct{})
	releaseSecond := make(chan struct{})
	gen := &fakeGenerator{fn: func(ctx context.Context, call int) (*types.Itinerary, error) {
		if call == 1 {
			<-releaseFirst
			return nil, fmt.Errorf("%w: late", ai.ErrCommunication)
		}
		<-releaseSecond
		return it, nil
	}}
	store := &countingStore{Store: NewMemoryStore(time.Hour)}
	svc := NewService(store, gen, zap.NewNop(), Options{})
	ctx := context.Background()
	sess, err := svc.CreateSession(ctx)
	require.NoError(t, err)
	id := sess.ID

	_, err = svc.Submit(ctx, id, "127.0.0.1", romePrefs())
	require.NoError(t, err)
	_, err = svc.StartOver(ctx, id)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, id, "127.0.0.1", romePrefs())
	require.NoError(t, err)
	require.EqualValues(t, 3, store.updates.Load())

	// the abandoned attempt reports its failure: one more (rejected) update
	close(releaseFirst)
	require.Eventually(t, func() bool { return store.updates.Load() == 4 }, time.Second, 5*time.Millisecond)

	got, _ := svc.Get(ctx, id)
	assert.Equal(t, StateSubmitting, got.State, "stale failure must be ignored")

	close(releaseSecond)
	svc.Wait()
	got, _ = svc.Get(ctx, id)
	assert.Equal(t, StateSuccess, got.State)
}

func TestQuotaExceededIssuesNoRequest(t *testing.T) {
	gen := &fakeGenerator{fn: func(context.Context, int) (*types.Itinerary, error) { return nil, nil }}
	svc, id := newTestService(gen, Options{Quota: fakeQuota{err: quota.ErrQuotaExceeded}})

	_, err := svc.Submit(context.Background(), id, "10.0.0.9", romePrefs())
	assert.True(t, errors.Is(err, quota.ErrQuotaExceeded))
	svc.Wait()
	assert.Zero(t, gen.Calls())

	got, _ := svc.Get(context.Background(), id)
	assert.Equal(t, StateIdle, got.State)
}

func TestQuotaRejectionReturnsSessionToIdle(t *testing.T) {
	it := romeItinerary(t)
	gen := &fakeGenerator{fn: func(context.Context, int) (*types.Itinerary, error) { return it, nil }}
	svc, id := newTestService(gen, Options{Quota: fakeQuota{err: quota.ErrQuotaExceeded}})
	ctx := context.Background()

	_, err := svc.Submit(ctx, id, "10.0.0.9", romePrefs())
	require.ErrorIs(t, err, quota.ErrQuotaExceeded)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, got.State)
	assert.Nil(t, got.Preferences)

	svc.quota = nil
	_, err = svc.Submit(ctx, id, "10.0.0.9", romePrefs())
	require.NoError(t, err)
	svc.Wait()
	assert.Equal(t, 1, gen.Calls())
}

func TestConcurrentSubmitChargesQuotaOnce(t *testing.T) {
	it := romeItinerary(t)
	gen := &fakeGenerator{fn: func(context.Context, int) (*types.Itinerary, error) { return it, nil }}
	q := &blockingQuota{entered: make(chan struct{}, 2), release: make(chan struct{})}
	svc, id := newTestService(gen, Options{Quota: q})

	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := svc.Submit(context.Background(), id, "127.0.0.1", romePrefs())
			results <- err
		}()
	}

	// The winner is parked in the quota call, so the first result is the loser's.
	assert.ErrorIs(t, <-results, ErrNotIdle)
	<-q.entered
	close(q.release)
	assert.NoError(t, <-results)
	svc.Wait()

	assert.EqualValues(t, 1, q.calls.Load())
	assert.Equal(t, 1, gen.Calls())
}

func TestStartOverBeforeRegistrationSkipsRequest(t *testing.T) {
	gen := &fakeGenerator{fn: func(context.Context, int) (*types.Itinerary, error) { return nil, nil }}
	store := &hookStore{Store: NewMemoryStore(time.Hour)}
	svc := NewService(store, gen, zap.NewNop(), Options{})
	ctx := context.Background()
	sess, err := svc.CreateSession(ctx)
	require.NoError(t, err)

	store.afterUpdate = func() {
		_, err := svc.StartOver(ctx, sess.ID)
		require.NoError(t, err)
	}

	got, err := svc.Submit(ctx, sess.ID, "127.0.0.1", romePrefs())
	require.NoError(t, err)
	assert.Equal(t, StateIdle, got.State)
	svc.Wait()
	assert.Zero(t, gen.Calls())
}

func TestTimeoutFailsAsCommunication(t *testing.T) {
	gen := &fakeGenerator{fn: func(ctx context.Context, _ int) (*types.Itinerary, error) {
		<-ctx.Done()
		return nil, fmt.Errorf("%w: %w", ai.ErrCommunication, ctx.Err())
	}}
	svc, id := newTestService(gen, Options{Timeout: 20 * time.Millisecond})

	_, err := svc.Submit(context.Background(), id, "127.0.0.1", romePrefs())
	require.NoError(t, err)
	svc.Wait()

	got, _ := svc.Get(context.Background(), id)
	assert.Equal(t, StateFailed, got.State)
	assert.Equal(t, ai.FailureCommunication, got.FailureKind)
}

func TestEnrichmentIsBestEffort(t *testing.T) {
	it := romeItinerary(t)
	gen := &fakeGenerator{fn: func(context.Context, int) (*types.Itinerary, error) { return it, nil }}

	place := &types.Destination{Query: "Rome, Italy", Lat: 41.9, Lng: 12.5}
	svc, id := newTestService(gen, Options{Places: fakePlaces{place: place}})
	_, err := svc.Submit(context.Background(), id, "127.0.0.1", romePrefs())
	require.NoError(t, err)
	svc.Wait()
	got, _ := svc.Get(context.Background(), id)
	assert.Equal(t, place, got.Place)

	svc, id = newTestService(gen, Options{Places: fakePlaces{err: errors.New("REQUEST_DENIED")}})
	_, err = svc.Submit(context.Background(), id, "127.0.0.1", romePrefs())
	require.NoError(t, err)
	svc.Wait()
	got, _ = svc.Get(context.Background(), id)
	assert.Equal(t, StateSuccess, got.State)
	assert.Nil(t, got.Place)
}

func TestUnknownSession(t *testing.T) {
	svc, _ := newTestService(&fakeGenerator{}, Options{})
	_, err := svc.Submit(context.Background(), "missing", "127.0.0.1", romePrefs())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.StartOver(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
