package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mem "lifesystem/adapters/memory"
	"lifesystem/core"
)

var t0 = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeRand always draws pick%n and either keeps or reverses shuffle order.
type fakeRand struct {
	pick    int
	reverse bool
}

func (r fakeRand) IntN(n int) int { return r.pick % n }

func (r fakeRand) Shuffle(n int, swap func(i, j int)) {
	if !r.reverse {
		return
	}
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

type recorder struct {
	mu     sync.Mutex
	events []core.Event
}

func (r *recorder) handle(_ context.Context, ev core.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) count(typ core.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type countingStore struct {
	*mem.Store
	mu      sync.Mutex
	saves   int
	saveErr error
	loadErr error
}

func (s *countingStore) Load(ctx context.Context) ([]byte, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.Store.Load(ctx)
}

func (s *countingStore) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	s.saves++
	err := s.saveErr
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Store.Save(ctx, data)
}

func (s *countingStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *countingStore) setSaveErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

type harness struct {
	eng   *Engine
	store *countingStore
	clock *testClock
	rec   *recorder
}

func newHarness(t *testing.T, rnd Random, seed *core.PlayerState) *harness {
	t.Helper()
	h := &harness{
		store: &countingStore{Store: mem.New()},
		clock: &testClock{now: t0},
		rec:   &recorder{},
	}
	if seed != nil {
		data, err := core.EncodeState(*seed)
		require.NoError(t, err)
		require.NoError(t, h.store.Store.Save(context.Background(), data))
	}
	ids := 0
	bus := NewEventBus(DispatchSync)
	bus.SubscribeAll(h.rec.handle)
	h.eng = New(h.store, bus,
		WithClock(h.clock),
		WithRandom(rnd),
		WithLocation(time.UTC),
		WithIDGenerator(func() string { ids++; return fmt.Sprintf("id-%d", ids) }),
	)
	t.Cleanup(h.eng.Close)
	return h
}

func (h *harness) load(t *testing.T) {
	t.Helper()
	require.NoError(t, h.eng.Load(context.Background()))
	h.rec.reset()
}

func (h *harness) savedState(t *testing.T) core.PlayerState {
	t.Helper()
	data, err := h.store.Store.Load(context.Background())
	require.NoError(t, err)
	s, err := core.DecodeState(data, h.clock.Now())
	require.NoError(t, err)
	return s
}

func TestNewEngineStartsFresh(t *testing.T) {
	h := newHarness(t, fakeRand{}, nil)
	h.load(t)

	s := h.eng.State()
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, t0, s.SystemStartDate)
	assert.Equal(t, 1, h.store.saveCount(), "first run is persisted")
	assert.False(t, h.eng.MemoryOnly())
}

func TestAwardXPSingleLevel(t *testing.T) {
	h := newHarness(t, fakeRand{}, nil)
	h.load(t)
	ctx := context.Background()

	require.NoError(t, h.eng.AwardXP(ctx, 250, "test"))

	s := h.eng.State()
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 150, s.XP)
	assert.Equal(t, 250, s.TotalXP)
	assert.Equal(t, core.RankSilver, s.Rank)
	assert.Equal(t, 1, h.rec.count(core.EventLevelUp))
	assert.Equal(t, 1, h.rec.count(core.EventXPAwarded))
	assert.Equal(t, 1, h.rec.count(core.EventStateChanged))
}

func TestAwardXPCascadesLevels(t *testing.T) {
	h := newHarness(t, fakeRand{}, nil)
	h.load(t)

	require.NoError(t, h.eng.AwardXP(context.Background(), 350, "test"))

	s := h.eng.State()
	assert.Equal(t, 3, s.Level)
	assert.Equal(t, 0, s.XP)
	assert.Equal(t, core.Attributes{Strength: 12, Intelligence: 12, Endurance: 12, Wisdom: 12}, s.Attributes)
	assert.Equal(t, core.Pool{Current: 120, Max: 120}, s.Health)
	assert.Equal(t, core.Pool{Current: 120, Max: 120}, s.Energy)
	assert.Equal(t, 2, h.rec.count(core.EventLevelUp))
	assert.Equal(t, 3, h.rec.count(core.EventSkillUnlocked))
	assert.True(t, s.HasSkill("breathing-mastery"))

	saved := h.savedState(t)
	assert.Equal(t, 3, saved.Level)
}

func TestAwardXPInvariant(t *testing.T) {
	h := newHarness(t, rand.New(rand.NewPCG(7, 11)), nil)
	h.load(t)
	rnd := rand.New(rand.NewPCG(1, 2))

	total := 0
	prevLevel := 1
	for i := 0; i < 200; i++ {
		amount := 1 + rnd.IntN(400)
		total += amount
		require.NoError(t, h.eng.AwardXP(context.Background(), amount, "fuzz"))
		s := h.eng.State()
		require.GreaterOrEqual(t, s.XP, 0)
		require.Less(t, s.XP, core.XPRequired(s.Level))
		require.GreaterOrEqual(t, s.Level, prevLevel)
		require.Equal(t, total, s.TotalXP)
		require.Equal(t, core.RankForLevel(s.Level), s.Rank)
		prevLevel = s.Level
	}
}

func TestAwardXPRejectsNonPositive(t *testing.T) {
	h := newHarness(t, fakeRand{}, nil)
	h.load(t)

	err := h.eng.AwardXP(context.Background(), 0, "nothing")
	assert.True(t, core.IsValidation(err))
	assert.Equal(t, 0, h.rec.count(core.EventStateChanged))
}

func TestDetailedWorkoutScenario(t *testing.T) {
	h := newHarness(t, fakeRand{}, nil)
	h.load(t)
	ctx := context.Background()

	quests, err := h.eng.GenerateDailyQuests(ctx)
	require.NoError(t, err)
	require.Len(t, quests, 3)

	rec, err := h.eng.LogDetailedWorkout(ctx, core.DetailedWorkoutInput{Type: "bench", Sets: 3, Reps: 10, Weight: 50, Duration: 20})
	require.NoError(t, err)
	assert.Equal(t, 40, rec.XPGained)
	assert.Equal(t, core.CategoryDetailed, rec.Category)
	assert.NotEmpty(t, rec.ID)

	s := h.eng.State()
	require.Len(t, s.Workouts, 1)
	assert.Equal(t, rec, s.Workouts[0])
	// workout and pushups quests both accept a generic workout
	assert.Equal(t, 75, s.XP)
	assert.Equal(t, 2, h.rec.count(core.EventQuestCompleted))
	assert.Equal(t, 1, s.DailyWorkouts)
	assert.Equal(t, 40, s.TodayTrainingXP)
	assert.Equal(t, 1, s.WorkoutStreak)
}

func TestSleepScenario(t *testing.T) {
	h := newHarness(t, fakeRand{}, nil)
	h.load(t)

	rec, err := h.eng.LogSleep(context.Background(), core.SleepInput{Bedtime: "23:00", Waketime: "07:00", Quality: 8})
	require.NoError(t, err)
	assert.InDelta(t, 8.0, rec.Duration, 1e-9)
	assert.Equal(t, 24, rec.XPGained)

	s := h.eng.State()
	assert.Equal(t, 24, s.XP)
	assert.Equal(t, 80, s.SleepQuality)
}

func TestValidationLeavesStateUntouched(t *testing.T) {
	h := newHarness(t, fakeRand{}, nil)
	h.load(t)
	ctx := context.Background()
	saves := h.store.saveCount()

	_, err := h.eng.LogMeal(ctx, core.MealInput{Type: "lunch", Health: 7})
	assert.True(t, core.IsValidation(err))
	_, err = h.eng.LogJournal(ctx, core.JournalInput{Text: "  "})
	assert.True(t, core.IsValidation(err))
	_, err = h.eng.LogQuickExercise(ctx, "")
	assert.True(t, core.IsValidation(err))
	assert.True(t, core.IsValidation(h.eng.UseEmergencyTool(ctx, " ")))

	s := h.eng.State()
	assert.Empty(t, s.Meals)
	assert.Empty(t, s.JournalEntries)
	assert.Equal(t, 0, s.TotalXP)
	assert.Equal(t, saves, h.store.saveCount())
	assert.Empty(t, h.rec.events)
}

func TestActivityLogging(t *testing.T) {
	h := newHarness(t, fakeRand{}, nil)
	h.load(t)
	ctx := context.Background()

	meal, err := h.eng.LogMeal(ctx, core.MealInput{Type: "lunch", Items: "salad", Health: 9})
	require.NoError(t, err)
	assert.Equal(t, 18, meal.XPGained)

	session, err := h.eng.LogWorkoutSession(ctx, core.WorkoutSessionInput{Type: "run", Duration: 30, Intensity: 6})
	require.NoError(t, err)
	assert.Equal(t, 18, session.XPGained)
	assert.Equal(t, core.CategorySession, session.Category)

	quick, err := h.eng.LogQuickExercise(ctx, "cardio")
	require.NoError(t, err)
	assert.Equal(t, 25, quick.XPGained)

	entry, err := h.eng.LogJournal(ctx, core.JournalInput{Text: "steady day", Mood: 4})
	require.NoError(t, err)
	assert.Equal(t, 5, entry.XPGained)

	s := h.eng.State()
	assert.Equal(t, 66, s.TotalXP)
	assert.Equal(t, 90, s.NutritionScore)
	assert.Equal(t, 1, s.MealsToday)
	assert.Equal(t, 2, s.DailyWorkouts)
	assert.Equal(t, 43, s.TodayTrainingXP)
	assert.Equal(t, 4, h.rec.count(core.EventActivityLogged))
}

func TestCollectionsAreNewestFirst(t *testing.T) {
	h := newHarness(t, fakeRand{}, nil)
	h.load(t)
	ctx := context.Background()

	_, err := h.eng.LogQuickExercise(ctx, "pushups")
	require.NoError(t, err)
	h.clock.Advance(time.Minute)
	_, err = h.eng.LogQuickExercise(ctx, "plank")
	require.NoError(t, err)

	s := h.eng.State()
	require.Len(t, s.QuickExercises, 2)
	assert.Equal(t, "plank", s.QuickExercises[0].Type)
	assert.Equal(t, "pushups", s.QuickExercises[1].Type)
}

func TestQuestGenerationIsIdempotentPerDay(t *testing.T) {
	h := newHarness(t, fakeRand{pick: 1}, nil)
	h.load(t)
	ctx := context.Background()

	first, err := h.eng.GenerateDailyQuests(ctx)
	require.NoError(t, err)
	require.Len(t, first, 4)
	assert.Equal(t, "daily-2024-03-10-workout", first[0].ID)

	require.NoError(t, h.eng.DefeatUrge(ctx))
	saves := h.store.saveCount()
	h.rec.reset()

	h.clock.Advance(3 * time.Hour)
	second, err := h.eng.GenerateDailyQuests(ctx)
	require.NoError(t, err)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.True(t, second[1].Completed, "progress survives regeneration on the same day")
	assert.Equal(t, saves, h.store.saveCount())
	assert.Empty(t, h.rec.events)

	h.clock.Advance(24 * time.Hour)
	third, err := h.eng.GenerateDailyQuests(ctx)
	require.NoError(t, err)
	assert.Equal(t, "daily-2024-03-11-workout", third[0].ID)
	for _, q := range third {
		assert.False(t, q.Completed)
	}
	assert.Equal(t, "2024-03-11", h.eng.State().LastQuestGenerationDate)
	assert.Equal(t, 1, h.rec.count(core.EventQuestsGenerated))
}

func TestCheckQuestProgressMatching(t *testing.T) {
	h := newHarness(t, fakeRand{pick: 1}, nil)
	h.load(t)
	ctx := context.Background()
	_, err := h.eng.GenerateDailyQuests(ctx)
	require.NoError(t, err)

	// cardio satisfies the cardio quest and the generic workout quest only
	require.NoError(t, h.eng.CheckQuestProgress(ctx, core.ActionCardio, 1))

	done := map[string]bool{}
	for _, q := range h.eng.Quests() {
		done[q.TemplateID] = q.Completed
	}
	assert.Equal(t, map[string]bool{"workout": true, "defeat-urge": false, "pushups": false, "cardio": true}, done)
	assert.Equal(t, 45, h.eng.State().XP)

	assert.True(t, core.IsValidation(h.eng.CheckQuestProgress(ctx, "", 1)))
	assert.True(t, core.IsValidation(h.eng.CheckQuestProgress(ctx, core.ActionMeal, 0)))
}

func TestQuickExerciseCompletesWorkoutGroupQuests(t *testing.T) {
	h := newHarness(t, fakeRand{pick: 1}, nil)
	h.load(t)
	ctx := context.Background()
	_, err := h.eng.GenerateDailyQuests(ctx)
	require.NoError(t, err)

	quick, err := h.eng.LogQuickExercise(ctx, "pushups")
	require.NoError(t, err)
	assert.Equal(t, 15, quick.XPGained)

	done := map[string]bool{}
	for _, q := range h.eng.Quests() {
		done[q.TemplateID] = q.Completed
	}
	assert.Equal(t, map[string]bool{"workout": true, "defeat-urge": false, "pushups": true, "cardio": true}, done)
	// 15 for the exercise, then 20 + 15 + 25 from the quests
	assert.Equal(t, 75, h.eng.State().TotalXP)
	assert.Equal(t, 3, h.rec.count(core.EventQuestCompleted))
}

func TestCheckInCompletesCleanQuest(t *testing.T) {
	h := newHarness(t, fakeRand{reverse: true}, nil)
	h.load(t)
	ctx := context.Background()

	require.NoError(t, h.eng.CheckIn(ctx))
	quests := h.eng.Quests()
	require.Len(t, quests, 3)
	assert.Equal(t, []string{"emergency-tool", "clean-day", "sleep-log"},
		[]string{quests[0].TemplateID, quests[1].TemplateID, quests[2].TemplateID})
	assert.True(t, quests[1].Completed)
	assert.Equal(t, 15, h.eng.State().XP)

	require.NoError(t, h.eng.CheckIn(ctx))
	assert.Equal(t, 15, h.eng.State().XP)
}

func TestEmergencyTools(t *testing.T) {
	h := newHarness(t, fakeRand{reverse: true}, nil)
	h.load(t)
	ctx := context.Background()
	_, err := h.eng.GenerateDailyQuests(ctx)
	require.NoError(t, err)

	require.NoError(t, h.eng.UseEmergencyTool(ctx, "cold-shower"))
	require.NoError(t, h.eng.UseRecoveryTool(ctx, "call-sponsor"))
	require.NoError(t, h.eng.Meditate(ctx))

	s := h.eng.State()
	require.Len(t, s.EmergencyActions, 2)
	assert.Equal(t, core.EmergencyRecovery, s.EmergencyActions[0].Kind)
	assert.Equal(t, core.EmergencyDiscipline, s.EmergencyActions[1].Kind)
	// 15 + 20 (emergency quest) + 20 + 15
	assert.Equal(t, 70, s.TotalXP)
	assert.Equal(t, 2, h.rec.count(core.EventEmergencyTool))
}

func recoverySeed(porn, alcohol time.Duration) *core.PlayerState {
	s := core.DefaultState(t0)
	s.Porn.StartDate = t0.Add(-porn)
	s.Alcohol.StartDate = t0.Add(-alcohol)
	return &s
}

func TestRecoveryMilestoneOncePerThreshold(t *testing.T) {
	h := newHarness(t, fakeRand{}, recoverySeed(7*core.Day+time.Hour, 2*core.Day))
	h.load(t)
	ctx := context.Background()

	require.NoError(t, h.eng.RecordVictory(ctx, core.TrackPorn))
	s := h.eng.State()
	assert.Equal(t, 7, s.Porn.Days)
	assert.Equal(t, 1, s.Porn.Victories)
	assert.Equal(t, 80, s.XP)
	assert.Equal(t, []int{7}, s.Porn.Milestones)
	assert.Equal(t, 1, h.rec.count(core.EventMilestoneReached))

	require.NoError(t, h.eng.RecordVictory(ctx, core.TrackPorn))
	h.eng.Tick(ctx)
	s = h.eng.State()
	assert.Equal(t, 110, s.TotalXP)
	assert.Equal(t, 1, h.rec.count(core.EventMilestoneReached))
	require.Len(t, s.UrgeVictories, 2)
	assert.Equal(t, core.VictoryPorn, s.UrgeVictories[0].Kind)
}

func TestAlcoholVictory(t *testing.T) {
	h := newHarness(t, fakeRand{}, recoverySeed(2*core.Day, 30*core.Day))
	h.load(t)

	require.NoError(t, h.eng.RecordVictory(context.Background(), core.TrackAlcohol))
	s := h.eng.State()
	assert.Equal(t, 1, s.Alcohol.Victories)
	assert.Equal(t, 0, s.Porn.Victories)
	assert.Equal(t, 75, s.TotalXP)
	assert.Equal(t, core.VictoryAlcohol, s.UrgeVictories[0].Kind)

	assert.ErrorIs(t, h.eng.RecordVictory(context.Background(), "sugar"), core.ErrUnknownTrack)
}

func TestResetTrackRequiresConfirmation(t *testing.T) {
	h := newHarness(t, fakeRand{}, recoverySeed(12*core.Day, 3*core.Day))
	h.load(t)
	ctx := context.Background()

	assert.ErrorIs(t, h.eng.ResetTrack(ctx, core.TrackPorn, false), core.ErrNotConfirmed)
	assert.Equal(t, 12, h.eng.State().Porn.Days)

	require.NoError(t, h.eng.ResetTrack(ctx, core.TrackPorn, true))
	s := h.eng.State()
	assert.Equal(t, 0, s.Porn.Days)
	assert.Equal(t, 12, s.Porn.LongestStreak)
	assert.Equal(t, 1, s.Porn.Relapses)
	require.NotNil(t, s.Porn.LastResetDate)
	assert.Equal(t, t0, *s.Porn.LastResetDate)
	assert.Equal(t, 3, s.Alcohol.Days)
	assert.Equal(t, 1, h.rec.count(core.EventRelapse))

	assert.ErrorIs(t, h.eng.ResetTrack(ctx, "sugar", true), core.ErrUnknownTrack)
}

func TestMilestoneEarnedAgainAfterReset(t *testing.T) {
	h := newHarness(t, fakeRand{}, recoverySeed(1*core.Day+time.Hour, 3*core.Day))
	h.load(t)
	ctx := context.Background()

	require.NoError(t, h.eng.RecordVictory(ctx, core.TrackPorn))
	require.NoError(t, h.eng.ResetTrack(ctx, core.TrackPorn, true))
	h.clock.Advance(core.Day + time.Minute)
	require.NoError(t, h.eng.RecordVictory(ctx, core.TrackPorn))

	assert.Equal(t, 2, h.rec.count(core.EventMilestoneReached))
	assert.Equal(t, []int{1}, h.eng.State().Porn.Milestones)
}

func TestDefeatUrgeRaisesDisciplineLevel(t *testing.T) {
	seed := core.DefaultState(t0)
	seed.DisciplineStartDate = t0.Add(-14*core.Day - time.Hour)
	h := newHarness(t, fakeRand{}, &seed)
	h.load(t)

	require.NoError(t, h.eng.DefeatUrge(context.Background()))
	s := h.eng.State()
	assert.Equal(t, 1, s.UrgesDefeated)
	assert.Equal(t, 3, s.DisciplineLevel)
	assert.Equal(t, 25, s.XP)
	assert.Equal(t, core.VictoryGeneral, s.UrgeVictories[0].Kind)
	assert.Equal(t, 1, h.rec.count(core.EventDisciplineLevelUp))
}

func TestRelapse(t *testing.T) {
	seed := core.DefaultState(t0)
	seed.DisciplineStartDate = t0.Add(-10 * core.Day)
	seed.DisciplineLevel = 2
	h := newHarness(t, fakeRand{}, &seed)
	h.load(t)
	ctx := context.Background()

	assert.ErrorIs(t, h.eng.Relapse(ctx, false), core.ErrNotConfirmed)
	assert.Equal(t, 10, h.eng.State().CleanStreak)

	require.NoError(t, h.eng.Relapse(ctx, true))
	s := h.eng.State()
	assert.Equal(t, 0, s.CleanStreak)
	assert.Equal(t, 10, s.LongestCleanStreak)
	assert.Equal(t, 1, s.TotalRelapses)
	assert.Equal(t, 1, s.DisciplineLevel)
	assert.Equal(t, t0, s.DisciplineStartDate)
}

func TestLongestCleanStreakNeverDecreases(t *testing.T) {
	h := newHarness(t, fakeRand{}, nil)
	h.load(t)
	ctx := context.Background()

	longest := 0
	for day := 0; day < 20; day++ {
		h.clock.Advance(core.Day)
		h.eng.Tick(ctx)
		if day%6 == 5 {
			require.NoError(t, h.eng.Relapse(ctx, true))
		}
		s := h.eng.State()
		require.GreaterOrEqual(t, s.LongestCleanStreak, longest)
		require.GreaterOrEqual(t, s.LongestCleanStreak, s.CleanStreak)
		longest = s.LongestCleanStreak
	}
	assert.Equal(t, 6, longest)
}

func TestTickPublishesOnlyOnChange(t *testing.T) {
	h := newHarness(t, fakeRand{}, nil)
	h.load(t)
	ctx := context.Background()
	saves := h.store.saveCount()

	h.clock.Advance(time.Second)
	h.eng.Tick(ctx)
	assert.Empty(t, h.rec.events)
	assert.Equal(t, saves, h.store.saveCount())

	h.clock.Advance(core.Day)
	h.eng.Tick(ctx)
	s := h.eng.State()
	assert.Equal(t, 1, s.CleanStreak)
	assert.Equal(t, 1, s.Porn.Days)
	// day one pays both tracks' first milestone
	assert.Equal(t, 2, h.rec.count(core.EventMilestoneReached))
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 0, s.XP)
	assert.Equal(t, 1, h.rec.count(core.EventStateChanged))
	assert.Equal(t, saves+1, h.store.saveCount())
}

func TestSaveFailureKeepsMemoryAuthoritative(t *testing.T) {
	h := newHarness(t, fakeRand{}, nil)
	h.load(t)
	ctx := context.Background()

	h.store.setSaveErr(errors.New("disk full"))
	require.NoError(t, h.eng.AwardXP(ctx, 10, "test"))
	assert.Equal(t, 10, h.eng.State().XP)
	assert.Equal(t, 1, h.rec.count(core.EventPersistenceWarning))

	h.store.setSaveErr(nil)
	require.NoError(t, h.eng.AwardXP(ctx, 5, "test"))
	assert.Equal(t, 15, h.savedState(t).XP)
}

func TestLoadFailureFallsBackToMemoryOnly(t *testing.T) {
	h := newHarness(t, fakeRand{}, nil)
	h.store.loadErr = errors.New("permission denied")

	err := h.eng.Load(context.Background())
	var perr *core.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "load", perr.Op)
	assert.True(t, h.eng.MemoryOnly())
	assert.Equal(t, 1, h.rec.count(core.EventPersistenceWarning))

	require.NoError(t, h.eng.AwardXP(context.Background(), 10, "test"))
	assert.Equal(t, 10, h.eng.State().XP)
	assert.Equal(t, 0, h.store.saveCount())
}

func TestCorruptStateFallsBackToDefaults(t *testing.T) {
	h := newHarness(t, fakeRand{}, nil)
	require.NoError(t, h.store.Store.Save(context.Background(), []byte("{not json")))

	err := h.eng.Load(context.Background())
	var de *core.DeserializationError
	require.True(t, errors.As(err, &de))
	assert.False(t, h.eng.MemoryOnly())
	assert.Equal(t, 1, h.eng.State().Level)

	require.NoError(t, h.eng.AwardXP(context.Background(), 10, "test"))
	assert.Equal(t, 10, h.savedState(t).XP)
}

func TestUnknownFieldsSurviveSaves(t *testing.T) {
	h := newHarness(t, fakeRand{}, nil)
	blob := `{"name":"Ada","level":2,"xp":10,"total_xp":110,"theme":"dark"}`
	require.NoError(t, h.store.Store.Save(context.Background(), []byte(blob)))
	h.load(t)

	require.NoError(t, h.eng.AwardXP(context.Background(), 5, "test"))

	data, err := h.store.Store.Load(context.Background())
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `"dark"`, string(raw["theme"]))
	assert.JSONEq(t, `15`, string(raw["xp"]))
	assert.JSONEq(t, `"Ada"`, string(raw["name"]))
}

func TestPlayerNameAppliesToNewPlayersOnly(t *testing.T) {
	store := mem.New()
	eng := New(store, NewEventBus(DispatchSync), WithPlayerName("Ada"), WithClock(ClockFunc(func() time.Time { return t0 })))
	require.NoError(t, eng.Load(context.Background()))
	assert.Equal(t, "Ada", eng.State().Name)

	other := New(store, NewEventBus(DispatchSync), WithPlayerName("Bob"))
	require.NoError(t, other.Load(context.Background()))
	assert.Equal(t, "Ada", other.State().Name)
}

func TestSubscribersMayCallBack(t *testing.T) {
	h := newHarness(t, fakeRand{}, nil)
	h.load(t)

	var seen int
	h.eng.Subscribe(core.EventXPAwarded, func(ctx context.Context, e core.Event) {
		seen = h.eng.State().TotalXP
	})
	require.NoError(t, h.eng.AwardXP(context.Background(), 40, "test"))
	assert.Equal(t, 40, seen)
}

func TestStats(t *testing.T) {
	seed := core.DefaultState(t0.Add(-10 * core.Day))
	seed.Porn.StartDate = t0.Add(-5 * core.Day)
	seed.DisciplineStartDate = t0.Add(-10 * core.Day)
	h := newHarness(t, fakeRand{}, &seed)
	h.load(t)

	st := h.eng.Stats()
	assert.Equal(t, 10, st.DaysActive)
	assert.Equal(t, 100, st.DisciplineRate)
	assert.Equal(t, 50, st.Porn.SuccessRate)
	assert.Equal(t, 100, st.Alcohol.SuccessRate)
	assert.NotEmpty(t, h.eng.Quote())
}
