// Package table hosts game sessions for network clients. It serialises
// access to each table, persists every change and fans updates out to
// subscribers.
package table

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokerbirds/internal/game"
	"github.com/lox/pokerbirds/internal/gameid"
	"github.com/lox/pokerbirds/internal/randutil"
	"golang.org/x/sync/singleflight"
)

// HandSink receives hands as they finish.
type HandSink interface {
	WriteHands(gameID string, records []game.HandRecord) error
}

// Event names carried by updates.
const (
	EventCreated = "created"
	EventStarted = "started"
	EventAction  = "action"
	EventTimeout = "timeout"
	EventEnded   = "ended"
	EventReset   = "reset"
)

// Update is pushed to subscribers after every change to a table.
type Update struct {
	GameID string          `json:"gameId"`
	Event  string          `json:"event"`
	State  game.PublicView `json:"state"`
}

// Manager owns the live sessions.
type Manager struct {
	store         game.Store
	sink          HandSink
	clock         quartz.Clock
	logger        *log.Logger
	actionTimeout time.Duration
	seed          *int64
	created       atomic.Int64

	loads singleflight.Group

	mu     sync.Mutex
	tables map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	id      string
	session *game.Session // nil after a failed save; reloaded on next use
	subs    map[int]*subscriber
	nextSub int
	timer   *quartz.Timer
	// gen counts mutations so a stale timeout can tell it lost the race.
	gen uint64
}

type subscriber struct {
	viewer int
	ch     chan Update
}

// Option configures a Manager.
type Option func(*Manager)

// WithHandSink records finished hands.
func WithHandSink(sink HandSink) Option {
	return func(m *Manager) { m.sink = sink }
}

// WithClock sets the clock used for action timeouts.
func WithClock(clock quartz.Clock) Option {
	return func(m *Manager) { m.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithActionTimeout folds a seat that has not acted within d. Zero disables it.
func WithActionTimeout(d time.Duration) Option {
	return func(m *Manager) { m.actionTimeout = d }
}

// WithSeed makes shuffles reproducible. Each table created gets its own
// stream derived from seed.
func WithSeed(seed int64) Option {
	return func(m *Manager) { m.seed = &seed }
}

// NewManager creates a manager backed by store.
func NewManager(store game.Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		clock:  quartz.NewReal(),
		logger: log.Default(),
		tables: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.WithPrefix("table")
	return m
}

func (m *Manager) sessionOptions(gameID string) []game.Option {
	opts := []game.Option{game.WithLogger(m.logger.With("game_id", gameID))}
	if m.seed != nil {
		opts = append(opts, game.WithRand(randutil.New(*m.seed+m.created.Add(1))))
	}
	return opts
}

// Create opens a new table in the lobby state and returns its ID.
func (m *Manager) Create(ctx context.Context, cfg game.Config) (string, game.PublicView, error) {
	id, err := gameid.Generate()
	if err != nil {
		return "", game.PublicView{}, err
	}
	s, err := game.NewSession(cfg, m.sessionOptions(id)...)
	if err != nil {
		return "", game.PublicView{}, err
	}
	if err := m.store.Save(ctx, id, s.Snapshot()); err != nil {
		return "", game.PublicView{}, fmt.Errorf("save game %s: %w", id, err)
	}

	e := &entry{id: id, session: s, subs: make(map[int]*subscriber)}
	m.mu.Lock()
	m.tables[id] = e
	m.mu.Unlock()

	m.logger.Info("table created", "game_id", id, "seats", cfg.Seats, "buy_in", cfg.BuyIn,
		"small_blind", cfg.SmallBlind, "big_blind", cfg.BigBlind)
	return id, s.View(0), nil
}

// Start deals the first hand.
func (m *Manager) Start(ctx context.Context, gameID string) (game.Outcome, error) {
	return m.mutate(ctx, gameID, EventStarted, func(s *game.Session) (game.Outcome, error) {
		return s.StartHand()
	})
}

// Act applies a player action.
func (m *Manager) Act(ctx context.Context, gameID string, req game.ActionRequest) (game.Outcome, error) {
	return m.mutate(ctx, gameID, EventAction, func(s *game.Session) (game.Outcome, error) {
		return s.ApplyAction(req)
	})
}

// End stops the game in progress and refunds the current hand.
func (m *Manager) End(ctx context.Context, gameID string) (game.Outcome, error) {
	return m.mutate(ctx, gameID, EventEnded, func(s *game.Session) (game.Outcome, error) {
		s.EndHand()
		return game.Outcome{Message: s.Message(), HandNumber: s.HandNumber()}, nil
	})
}

// Reset returns the table to the lobby with fresh stacks.
func (m *Manager) Reset(ctx context.Context, gameID string) (game.Outcome, error) {
	return m.mutate(ctx, gameID, EventReset, func(s *game.Session) (game.Outcome, error) {
		s.ResetToLobby()
		return game.Outcome{}, nil
	})
}

// View returns the table as seen by viewer (a seat ID, or 0 for spectators).
func (m *Manager) View(ctx context.Context, gameID string, viewer int) (game.PublicView, error) {
	e, err := m.acquire(ctx, gameID)
	if err != nil {
		return game.PublicView{}, err
	}
	defer e.mu.Unlock()
	return e.session.View(viewer), nil
}

// Subscribe streams updates for a table. The returned function must be
// called to release the subscription. Slow subscribers miss updates rather
// than blocking the table.
func (m *Manager) Subscribe(ctx context.Context, gameID string, viewer int) (<-chan Update, func(), error) {
	e, err := m.acquire(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	defer e.mu.Unlock()

	id := e.nextSub
	e.nextSub++
	sub := &subscriber{viewer: viewer, ch: make(chan Update, 16)}
	e.subs[id] = sub

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.subs, id)
			close(sub.ch)
		})
	}
	return sub.ch, cancel, nil
}

// Close stops pending action timers.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.tables {
		e.mu.Lock()
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
		e.mu.Unlock()
	}
}

// acquire returns the table entry locked, loading it from the store on
// first use. Concurrent first loads of the same table share one read.
func (m *Manager) acquire(ctx context.Context, gameID string) (*entry, error) {
	m.mu.Lock()
	e, ok := m.tables[gameID]
	m.mu.Unlock()

	if !ok {
		v, err, _ := m.loads.Do(gameID, func() (any, error) {
			m.mu.Lock()
			if e, ok := m.tables[gameID]; ok {
				m.mu.Unlock()
				return e, nil
			}
			m.mu.Unlock()

			s, err := m.load(ctx, gameID)
			if err != nil {
				return nil, err
			}
			e := &entry{id: gameID, session: s, subs: make(map[int]*subscriber)}
			m.mu.Lock()
			m.tables[gameID] = e
			m.mu.Unlock()
			return e, nil
		})
		if err != nil {
			return nil, err
		}
		e = v.(*entry)
	}

	e.mu.Lock()
	if e.session == nil {
		s, err := m.load(ctx, gameID)
		if err != nil {
			e.mu.Unlock()
			return nil, err
		}
		e.session = s
	}
	return e, nil
}

func (m *Manager) load(ctx context.Context, gameID string) (*game.Session, error) {
	st, err := m.store.Load(ctx, gameID)
	if err != nil {
		return nil, err
	}
	s, err := game.Restore(st, m.sessionOptions(gameID)...)
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", gameID, err)
	}
	m.logger.Debug("table loaded", "game_id", gameID, "hand", s.HandNumber())
	return s, nil
}

// mutate runs fn against the session under the table lock, persists the
// result and notifies subscribers. Rejected requests change nothing and are
// not saved.
func (m *Manager) mutate(ctx context.Context, gameID, event string, fn func(*game.Session) (game.Outcome, error)) (game.Outcome, error) {
	e, err := m.acquire(ctx, gameID)
	if err != nil {
		return game.Outcome{}, err
	}
	defer e.mu.Unlock()

	out, opErr := fn(e.session)
	var inv *game.InvariantError
	if opErr != nil && !errors.As(opErr, &inv) {
		return out, opErr
	}
	if out.Duplicate {
		return out, nil
	}

	if err := m.store.Save(ctx, gameID, e.session.Snapshot()); err != nil {
		// The stored copy is now authoritative; drop ours so the next
		// request reloads it.
		e.session = nil
		m.stopTimer(e)
		m.logger.Error("save failed", "game_id", gameID, "error", err)
		return game.Outcome{}, fmt.Errorf("save game %s: %w", gameID, err)
	}
	e.gen++

	if m.sink != nil && len(out.Completed) > 0 {
		if err := m.sink.WriteHands(gameID, out.Completed); err != nil {
			m.logger.Warn("hand history write failed", "game_id", gameID, "error", err)
		}
	}
	if inv != nil {
		m.logger.Error("hand aborted", "game_id", gameID, "hand", inv.Hand, "reason", inv.Reason)
	}

	m.broadcast(e, event)
	m.scheduleTimeout(e)
	return out, opErr
}

// broadcast sends the new state to every subscriber. Callers hold e.mu.
func (m *Manager) broadcast(e *entry, event string) {
	for id, sub := range e.subs {
		u := Update{GameID: e.id, Event: event, State: e.session.View(sub.viewer)}
		select {
		case sub.ch <- u:
		default:
			m.logger.Warn("subscriber too slow, dropping update", "game_id", e.id, "subscriber", id)
		}
	}
}

func (m *Manager) stopTimer(e *entry) {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// scheduleTimeout arms a fold for the seat to act. Callers hold e.mu.
func (m *Manager) scheduleTimeout(e *entry) {
	m.stopTimer(e)
	if m.actionTimeout <= 0 {
		return
	}
	seat, ok := e.session.Turn()
	if !ok {
		return
	}
	gen := e.gen
	e.timer = m.clock.AfterFunc(m.actionTimeout, func() {
		m.timeout(e, seat, gen)
	}, "table", "timeout")
}

func (m *Manager) timeout(e *entry, seat int, gen uint64) {
	ctx := context.Background()
	_, err := m.mutate(ctx, e.id, EventTimeout, func(s *game.Session) (game.Outcome, error) {
		if e.gen != gen {
			return game.Outcome{}, errStaleTimeout
		}
		m.logger.Info("action timed out", "game_id", e.id, "seat", seat)
		return s.ApplyAction(game.ActionRequest{Seat: seat, Kind: game.ActionFold})
	})
	if err != nil && !errors.Is(err, errStaleTimeout) {
		m.logger.Warn("timeout fold failed", "game_id", e.id, "seat", seat, "error", err)
	}
}

var errStaleTimeout = errors.New("stale timeout")
