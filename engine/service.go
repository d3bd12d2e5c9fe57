package engine

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"lifesystem/core"
)

// errUnchanged lets an operation finish without persisting or notifying.
var errUnchanged = errors.New("unchanged")

// Engine owns the player state and applies every rule to it. All operations
// are serialized; notifications are published after the state lock is
// released, followed by a state_changed event.
type Engine struct {
	storage Storage
	bus     *EventBus
	clock   Clock
	rng     Random
	loc     *time.Location
	log     *slog.Logger
	newID   func() string
	name    string

	mu         sync.Mutex
	state      core.PlayerState
	memoryOnly bool
	pending    []core.Event
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source.
func WithClock(c Clock) Option { return func(e *Engine) { e.clock = c } }

// WithRandom sets the randomness source.
func WithRandom(r Random) Option { return func(e *Engine) { e.rng = r } }

// WithLocation sets the zone calendar days are computed in.
func WithLocation(loc *time.Location) Option { return func(e *Engine) { e.loc = loc } }

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithIDGenerator sets how record ids are generated.
func WithIDGenerator(f func() string) Option { return func(e *Engine) { e.newID = f } }

// WithPlayerName names a newly created player. Saved state keeps its own name.
func WithPlayerName(name string) Option { return func(e *Engine) { e.name = name } }

// New creates an Engine holding default state. Call Load to restore saved state.
func New(storage Storage, bus *EventBus, opts ...Option) *Engine {
	if storage == nil || bus == nil {
		panic("engine.New requires non-nil storage and bus")
	}
	e := &Engine{
		storage: storage,
		bus:     bus,
		clock:   ClockFunc(time.Now),
		loc:     time.Local,
		log:     slog.Default(),
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	e.state = e.freshState(e.clock.Now())
	return e
}

func (e *Engine) freshState(now time.Time) core.PlayerState {
	s := core.DefaultState(now)
	if e.name != "" {
		s.Name = e.name
	}
	return s
}

// Load restores the saved state. The engine stays usable whatever Load
// returns: a corrupt blob yields defaults and a *core.DeserializationError,
// and an unreadable store switches the engine to memory-only mode and
// yields a *core.PersistenceError.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	now := e.clock.Now()
	var result error

	data, err := e.storage.Load(ctx)
	var corrupt *core.DeserializationError
	switch {
	case errors.Is(err, core.ErrNotFound):
		e.state = e.freshState(now)
		e.log.Info("starting new player", "name", e.state.Name)
		e.persistLocked(ctx, now)
	case errors.As(err, &corrupt):
		result = e.resetCorruptLocked(now, corrupt)
	case err != nil:
		result = &core.PersistenceError{Op: "load", Err: err}
		e.memoryOnly = true
		e.state = e.freshState(now)
		e.log.Warn("storage unavailable, running in memory only", "error", err)
		e.emit(core.NewPersistenceWarning(now, result))
	default:
		st, derr := core.DecodeState(data, now)
		if derr != nil {
			result = e.resetCorruptLocked(now, derr)
			break
		}
		e.state = st
	}
	core.Recompute(&e.state, now, e.loc)
	events := e.drainLocked()
	e.mu.Unlock()

	e.publish(ctx, now, events)
	return result
}

func (e *Engine) resetCorruptLocked(now time.Time, err error) error {
	e.state = e.freshState(now)
	e.log.Warn("saved state is corrupt, starting from defaults", "error", err)
	e.emit(core.NewPersistenceWarning(now, err))
	return err
}

// MemoryOnly reports whether storage failed on load and saves are skipped.
func (e *Engine) MemoryOnly() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.memoryOnly
}

// State returns a snapshot of the player state recomputed for now.
func (e *Engine) State() core.PlayerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	core.Recompute(&e.state, e.clock.Now(), e.loc)
	return e.state.Clone()
}

// Stats returns the dashboard view of the current state.
func (e *Engine) Stats() core.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()
	core.Recompute(&e.state, now, e.loc)
	return core.BuildStats(&e.state, now)
}

// Quests returns today's quests as stored.
func (e *Engine) Quests() []core.Quest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]core.Quest(nil), e.state.DailyQuests...)
}

// Quote returns a random discipline quote.
func (e *Engine) Quote() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return core.RandomQuote(e.rng.IntN)
}

// Now returns the engine clock's current time.
func (e *Engine) Now() time.Time { return e.clock.Now() }

// Location returns the zone calendar days are computed in.
func (e *Engine) Location() *time.Location { return e.loc }

// Subscribe convenience method.
func (e *Engine) Subscribe(typ core.EventType, handler func(context.Context, core.Event)) func() {
	return e.bus.Subscribe(typ, handler)
}

// Bus exposes the event bus for bridges that forward every notification.
func (e *Engine) Bus() *EventBus { return e.bus }

func (e *Engine) Close() { e.bus.Close() }

// derived holds the fields a tick can change without any user action.
type derived struct {
	cleanStreak, longestClean, workoutStreak int
	dailyWorkouts, trainingXP, mealsToday    int
	nutrition, sleep, pornDays, alcoholDays  int
}

func derivedOf(s *core.PlayerState) derived {
	return derived{
		cleanStreak: s.CleanStreak, longestClean: s.LongestCleanStreak, workoutStreak: s.WorkoutStreak,
		dailyWorkouts: s.DailyWorkouts, trainingXP: s.TodayTrainingXP, mealsToday: s.MealsToday,
		nutrition: s.NutritionScore, sleep: s.SleepQuality, pornDays: s.Porn.Days, alcoholDays: s.Alcohol.Days,
	}
}

// Tick re-derives time-based fields and applies the rules that depend only on
// the passage of time: discipline level and recovery milestones. State is
// persisted and observers notified only when something changed.
func (e *Engine) Tick(ctx context.Context) {
	e.mu.Lock()
	now := e.clock.Now()
	before := derivedOf(&e.state)
	core.Recompute(&e.state, now, e.loc)
	e.checkDisciplineLocked(now)
	e.checkMilestonesLocked(now)
	changed := len(e.pending) > 0 || derivedOf(&e.state) != before
	if changed {
		e.persistLocked(ctx, now)
	}
	events := e.drainLocked()
	e.mu.Unlock()

	if changed {
		e.publish(ctx, now, events)
	}
}

// CheckIn performs the startup routine: today's quests, a pending level-up
// and the clean-day quest.
func (e *Engine) CheckIn(ctx context.Context) error {
	return e.do(ctx, func(now time.Time) error {
		e.generateQuestsLocked(now)
		e.levelUpLocked(now)
		e.checkDisciplineLocked(now)
		e.progressQuestsLocked(now, core.ActionClean, 1)
		return nil
	})
}

// do runs fn under the state lock with a fresh clock reading, then persists
// and publishes. A non-nil error from fn must leave the state untouched.
func (e *Engine) do(ctx context.Context, fn func(now time.Time) error) error {
	e.mu.Lock()
	now := e.clock.Now()
	core.Recompute(&e.state, now, e.loc)
	err := fn(now)
	if err == nil {
		core.Recompute(&e.state, now, e.loc)
		e.persistLocked(ctx, now)
	}
	events := e.drainLocked()
	e.mu.Unlock()

	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}
	e.publish(ctx, now, events)
	return nil
}

func (e *Engine) persistLocked(ctx context.Context, now time.Time) {
	if e.memoryOnly {
		return
	}
	data, err := core.EncodeState(e.state)
	if err == nil {
		err = e.storage.Save(ctx, data)
	}
	if err != nil {
		perr := &core.PersistenceError{Op: "save", Err: err}
		e.log.Warn("state not persisted", "error", err)
		e.emit(core.NewPersistenceWarning(now, perr))
	}
}

func (e *Engine) emit(ev core.Event) { e.pending = append(e.pending, ev) }

func (e *Engine) drainLocked() []core.Event {
	events := e.pending
	e.pending = nil
	return events
}

func (e *Engine) publish(ctx context.Context, now time.Time, events []core.Event) {
	for _, ev := range events {
		e.bus.Publish(ctx, ev)
	}
	e.bus.Publish(ctx, core.NewStateChanged(now))
}
