package table

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokerbirds/internal/game"
	"github.com/lox/pokerbirds/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var headsUp = game.Config{Seats: 2, BuyIn: 2000, SmallBlind: 50, BigBlind: 100}

// countingStore wraps the memory store so tests can count and fail saves.
type countingStore struct {
	*store.Memory
	saves atomic.Int32
	fail  atomic.Bool
}

func (s *countingStore) Save(ctx context.Context, gameID string, st *game.SessionState) error {
	if s.fail.Load() {
		return errors.New("disk full")
	}
	s.saves.Add(1)
	return s.Memory.Save(ctx, gameID, st)
}

type recordingSink struct {
	mu    sync.Mutex
	hands []game.HandRecord
}

func (r *recordingSink) WriteHands(_ string, records []game.HandRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hands = append(r.hands, records...)
	return nil
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newTestManager(t *testing.T, opts ...Option) (*Manager, *countingStore) {
	t.Helper()
	st := &countingStore{Memory: store.NewMemory()}
	opts = append([]Option{WithLogger(quietLogger()), WithSeed(1)}, opts...)
	m := NewManager(st, opts...)
	t.Cleanup(m.Close)
	return m, st
}

func turn(t *testing.T, m *Manager, id string) int {
	t.Helper()
	v, err := m.View(context.Background(), id, 0)
	require.NoError(t, err)
	require.True(t, v.GameUnderway)
	return v.Turn
}

func TestCreateStartAndAct(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t)

	id, view, err := m.Create(ctx, headsUp)
	require.NoError(t, err)
	assert.False(t, view.GameUnderway)
	assert.Equal(t, int32(1), st.saves.Load())

	out, err := m.Start(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, out.HandNumber)

	seat := turn(t, m, id)
	_, err = m.Act(ctx, id, game.ActionRequest{Seat: seat, Kind: game.ActionCall})
	require.NoError(t, err)
	assert.Equal(t, int32(3), st.saves.Load())

	// A second manager over the same store sees the same table.
	other := NewManager(st, WithLogger(quietLogger()))
	got, err := other.View(ctx, id, 0)
	require.NoError(t, err)
	want, err := m.View(ctx, id, 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRejectedActionIsNotSaved(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t)
	id, _, err := m.Create(ctx, headsUp)
	require.NoError(t, err)
	_, err = m.Start(ctx, id)
	require.NoError(t, err)
	saves := st.saves.Load()

	wrong := 3 - turn(t, m, id)
	_, err = m.Act(ctx, id, game.ActionRequest{Seat: wrong, Kind: game.ActionCall})
	require.ErrorIs(t, err, game.ErrNotYourTurn)
	assert.Equal(t, saves, st.saves.Load())
}

func TestSaveFailureDropsCachedSession(t *testing.T) {
	ctx := context.Background()
	m, st := newTestManager(t)
	id, _, err := m.Create(ctx, headsUp)
	require.NoError(t, err)
	_, err = m.Start(ctx, id)
	require.NoError(t, err)
	before, err := m.View(ctx, id, 0)
	require.NoError(t, err)

	st.fail.Store(true)
	_, err = m.Act(ctx, id, game.ActionRequest{Seat: before.Turn, Kind: game.ActionFold})
	require.Error(t, err)

	st.fail.Store(false)
	after, err := m.View(ctx, id, 0)
	require.NoError(t, err)
	assert.Equal(t, before, after, "unsaved fold is discarded")
}

func TestUnknownGame(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.View(context.Background(), "01h5n0et5q6mt3v7ms1234abcd", 0)
	assert.ErrorIs(t, err, game.ErrNotFound)
	_, err = m.Start(context.Background(), "01h5n0et5q6mt3v7ms1234abcd")
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func TestSubscribersReceiveUpdates(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	id, _, err := m.Create(ctx, headsUp)
	require.NoError(t, err)

	updates, cancel, err := m.Subscribe(ctx, id, 1)
	require.NoError(t, err)

	_, err = m.Start(ctx, id)
	require.NoError(t, err)

	u := <-updates
	assert.Equal(t, id, u.GameID)
	assert.Equal(t, EventStarted, u.Event)
	assert.True(t, u.State.GameUnderway)
	for _, p := range u.State.Players {
		if p.ID == 1 {
			assert.Len(t, p.Cards, 2)
		} else {
			assert.Empty(t, p.Cards)
		}
	}

	cancel()
	cancel()
	_, open := <-updates
	assert.False(t, open)
}

func TestEndAndReset(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	id, _, err := m.Create(ctx, headsUp)
	require.NoError(t, err)
	_, err = m.Start(ctx, id)
	require.NoError(t, err)

	out, err := m.End(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Game ended", out.Message)

	v, err := m.View(ctx, id, 0)
	require.NoError(t, err)
	assert.False(t, v.GameUnderway)
	for _, p := range v.Players {
		assert.Equal(t, int64(2000), p.Stack)
	}

	_, err = m.Reset(ctx, id)
	require.NoError(t, err)
	v, err = m.View(ctx, id, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, v.HandNumber)
}

func TestFinishedHandsGoToSink(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{}
	m, _ := newTestManager(t, WithHandSink(sink))
	id, _, err := m.Create(ctx, headsUp)
	require.NoError(t, err)
	_, err = m.Start(ctx, id)
	require.NoError(t, err)

	_, err = m.Act(ctx, id, game.ActionRequest{Seat: turn(t, m, id), Kind: game.ActionFold})
	require.NoError(t, err)

	require.Len(t, sink.hands, 1)
	assert.Equal(t, 1, sink.hands[0].Number)
	assert.Contains(t, sink.hands[0].Result, "won the pot of 1.50")
}

func TestActionTimeoutFoldsSeat(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	m, _ := newTestManager(t, WithClock(clock), WithActionTimeout(30*time.Second))

	id, _, err := m.Create(ctx, headsUp)
	require.NoError(t, err)
	updates, cancel, err := m.Subscribe(ctx, id, 0)
	require.NoError(t, err)
	defer cancel()

	_, err = m.Start(ctx, id)
	require.NoError(t, err)
	<-updates
	seat := turn(t, m, id)

	clock.Advance(30 * time.Second).MustWait(ctx)

	u := <-updates
	assert.Equal(t, EventTimeout, u.Event)
	assert.Equal(t, 2, u.State.HandNumber)
	assert.Contains(t, u.State.LastResult.Message, "won the pot")
	assert.NotContains(t, u.State.LastResult.Winners, seat)
}

func TestActingResetsTimeout(t *testing.T) {
	ctx := context.Background()
	clock := quartz.NewMock(t)
	m, _ := newTestManager(t, WithClock(clock), WithActionTimeout(30*time.Second))

	id, _, err := m.Create(ctx, headsUp)
	require.NoError(t, err)
	_, err = m.Start(ctx, id)
	require.NoError(t, err)

	clock.Advance(20 * time.Second).MustWait(ctx)
	_, err = m.Act(ctx, id, game.ActionRequest{Seat: turn(t, m, id), Kind: game.ActionCall})
	require.NoError(t, err)

	// The original deadline passes without a fold.
	clock.Advance(10 * time.Second).MustWait(ctx)
	v, err := m.View(ctx, id, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, v.HandNumber)
	assert.Equal(t, game.Preflop, v.Street)
}

func TestConcurrentRequestsAreSerialised(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)
	id, _, err := m.Create(ctx, game.Config{Seats: 6, BuyIn: 1000, SmallBlind: 5, BigBlind: 10})
	require.NoError(t, err)
	_, err = m.Start(ctx, id)
	require.NoError(t, err)

	// Every seat tries to call at once; only the seat to act succeeds each time.
	var g errgroup.Group
	var applied atomic.Int32
	for seat := 1; seat <= 6; seat++ {
		g.Go(func() error {
			for range 20 {
				_, err := m.Act(ctx, id, game.ActionRequest{Seat: seat, Kind: game.ActionCall})
				if err == nil {
					applied.Add(1)
				} else if !game.IsValidation(err) {
					return err
				}
				if _, err := m.View(ctx, id, seat); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Positive(t, applied.Load())

	v, err := m.View(ctx, id, 0)
	require.NoError(t, err)
	var total int64
	for _, p := range v.Players {
		total += p.Stack
	}
	assert.Equal(t, int64(6000), total+v.Pot)
}
